package domain

// Credential — API-ключ из пула для авторизации вызова LLM-сервиса.
//
// Ключи лежат в таблице api_keys и ротируются извне (добавление,
// отзыв). Любой ключ подходит любому лиду; выбор — равномерно
// случайный на каждую задачу, без кэширования между вызовами.
type Credential struct {
	// APIKey — сам ключ (opaque строка).
	APIKey string `json:"api_key"`
}
