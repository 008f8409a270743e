// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация сообщений в очереди
//   - consumer.go   — потребление сообщений из очередей
//
// Типы сообщений:
//   - lead.enqueued  — внешний продюсер добавил новые лиды (wakeup для worker'а)
//   - lead.processed — лид обработан, результат записан
//   - digest.ready   — scheduler собрал дневную сводку
//
// MQ опционален: при недоступном RabbitMQ worker работает
// в polling-only режиме, publisher'ы молча пропускаются.
//
// Exchanges:
//   - leadflow.leads  — события лидов
//   - leadflow.digest — события сводок
//   - leadflow.dlq    — dead letter queue
package mq
