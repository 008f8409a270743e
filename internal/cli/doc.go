// Package cli реализует инструмент командной строки Leadflow.
//
// # Обзор
//
// CLI — клиентская утилита для взаимодействия с Leadflow API.
// Работает через HTTP, не импортирует внутренние пакеты системы.
// CLI используется для просмотра backlog'а, результатов скоринга
// и разовой обработки лидов из файла.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Leadflow API. Инкапсулирует все HTTP-запросы,
// парсинг ответов (DataResponse, ListResponse, ErrorResponse)
// и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8080")
//	leads, err := client.ListEligible(0)
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: leadflow results list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - leads: list, count, enqueue
//   - results: list, show
//   - process: batch (из JSON-файла), one
//
// Каждая группа создаётся через фабричную функцию (NewLeadsCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
