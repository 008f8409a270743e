// Package worker — фоновый цикл обработки лидов.
//
// # Обзор
//
// Worker — компонент Leadflow, который непрерывно и без участия
// человека прогоняет eligible лиды через LLM-скоринг:
//
//   - Периодически забирает batch eligible лидов из БД (polling)
//   - Досрочно просыпается по событию lead.enqueued из RabbitMQ
//   - Ограничивает параллелизм счётным семафором (MAX_CONCURRENCY)
//   - На каждый лид выполняет: idempotency guard → выбор API-ключа →
//     вызов LLM → запись результата
//   - Сводит исход каждого лида к одному из четырёх Outcome
//     и пишет построчный журнал (START/DONE/SKIP/ERROR/CYCLE)
//
// # Цикл
//
// Один цикл: fetch → dispatch → settle → summary. Batch'и не
// пайплайнятся: следующий fetch начинается только после того, как все
// задачи текущего batch'а завершились. Это держит backpressure простым:
// лид остаётся eligible, пока store не отразит его как settled, поэтому
// короткий цикл ничего не теряет.
//
// # Изоляция ошибок
//
// Ошибка обработки одного лида никогда не прерывает batch или цикл:
// Task Runner сводит любой исход к Outcome. Ошибки самого fetch/aggregate
// ловятся на уровне цикла — логируются, цикл повторяется после
// poll-паузы. Цикл завершается только по отмене контекста.
//
// # Outcomes
//
//   - processed — результат записан, лид settled
//   - skipped   — результат уже был (лид помечается settled best-effort)
//   - no_key    — пул API-ключей пуст; лид молча уйдёт в следующий цикл
//   - error     — вызов LLM или инфраструктура упали; лид остаётся eligible
package worker
