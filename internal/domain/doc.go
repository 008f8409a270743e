// Package domain содержит основные типы предметной области Leadflow.
//
// Типы:
//   - Lead        — лид, ожидающий обработки (со своим batch-контекстом)
//   - LeadResult  — результат скоринга лида LLM-сервисом
//   - Credential  — API-ключ из пула для вызова LLM
//   - Outcome     — результат одной попытки обработки лида
//   - CycleSummary — сводка одного цикла worker'а
//
// Пакет не зависит от инфраструктуры (БД, HTTP, MQ) —
// только данные и методы над ними.
package domain
