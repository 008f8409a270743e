// Package llm — клиент внешнего LLM-сервиса скоринга лидов.
//
// Сервис получает профиль лида, контекст компании (wildnet_data),
// критерии скоринга и инструкции для outreach-сообщения, и возвращает
// LeadResult: score, обоснование, should_contact, message, subject.
//
// Клиент говорит с Gemini-style generateContent endpoint'ом; ключ
// авторизации передаётся per-request (ключи пулятся и ротируются
// на стороне store, см. repo.KeyRepo).
//
// Внутренняя логика скоринга (содержание промпта, правила оценки)
// принадлежит модели; пакет отвечает только за конверт: сборку промпта,
// HTTP-вызов и разбор ответа.
package llm
