// Package scheduler реализует планировщик ежедневного digest'а.
//
// Scheduler по cron-расписанию собирает сводку за прошедшее окно
// (обработанные лиды, размер backlog'а) и публикует digest.ready
// в RabbitMQ для downstream-потребителей.
//
// Структура:
//   - scheduler.go — основная логика (Run, Tick)
//   - cron.go      — парсинг cron-выражений и вычисление следующего времени
//
// Использование:
//
//	sched, err := scheduler.New(scheduler.Config{
//	    Results:   resultRepo,
//	    Leads:     leadRepo,
//	    Publisher: publisher,
//	    Logger:    logger,
//	})
//	if err != nil {
//	    // невалидное cron-выражение
//	}
//	sched.Run(ctx) // блокирует до отмены контекста
//
// Leader Election:
//
// Scheduler не реализует leader election самостоятельно.
// Это делается в main.go через pg_try_advisory_lock:
// Run() вызывается только лидером.
package scheduler
