// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go         — Handler с DI (store, scorer, publisher, logger)
//   - routes.go          — регистрация маршрутов
//   - middleware.go      — middleware (logging, recovery, request id, CORS)
//   - response.go        — унифицированные JSON-ответы и обработка ошибок
//   - dto.go             — Data Transfer Objects (request/response)
//   - process_handler.go — one-shot обработка лидов из тела запроса
//   - lead_handler.go    — чтение eligible лидов, enqueue-уведомления
//   - result_handler.go  — чтение результатов скоринга
//
// API предоставляет REST endpoints для разовой обработки лидов и
// просмотра состояния системы. Фоновую обработку ведёт worker,
// API её не дублирует и не координирует.
package api
