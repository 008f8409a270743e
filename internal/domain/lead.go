package domain

// Lead — лид, ожидающий обработки.
//
// Лид создаётся внешним продюсером (скрейпером) в таблице lead_details
// и становится eligible, пока sent_to_llm = false. Поля batch-контекста
// (WildnetData, ScoringCriteria, MessagePrompt) приходят из кампании
// тем же запросом, что и сам лид.
//
// Lead неизменяем на протяжении одной попытки обработки.
type Lead struct {
	// LeadID — идентификатор лида (ключ идемпотентности).
	LeadID string `json:"lead_id"`

	// Tag — произвольная метка источника/сегмента.
	Tag string `json:"tag,omitempty"`

	// Name — имя лида.
	Name string `json:"name,omitempty"`

	// Title — должность.
	Title string `json:"title,omitempty"`

	// Location — локация.
	Location string `json:"location,omitempty"`

	// CompanyName — название компании.
	CompanyName string `json:"company_name,omitempty"`

	// Experience — описание опыта (свободный текст).
	Experience string `json:"experience,omitempty"`

	// Skills — навыки (свободный текст).
	Skills string `json:"skills,omitempty"`

	// Bio — био из профиля.
	Bio string `json:"bio,omitempty"`

	// ProfileURL — ссылка на профиль-источник.
	ProfileURL string `json:"profile_url,omitempty"`

	// LinkedinURL — ссылка на LinkedIn.
	LinkedinURL string `json:"linkedin_url,omitempty"`

	// CompanyPageURL — ссылка на страницу компании.
	CompanyPageURL string `json:"company_page_url,omitempty"`

	// --- Batch-контекст кампании ---

	// WildnetData — контекст о компании WildnetEdge для промпта.
	WildnetData string `json:"wildnet_data,omitempty"`

	// ScoringCriteria — критерии скоринга и определение ICP.
	ScoringCriteria string `json:"scoring_criteria_and_icp,omitempty"`

	// MessagePrompt — инструкции для генерации outreach-сообщения.
	MessagePrompt string `json:"message_prompt,omitempty"`
}

// LeadResult — результат скоринга лида.
//
// Записывается в llm_responses после успешного вызова LLM.
// Наличие записи по LeadID означает, что лид settled.
type LeadResult struct {
	// LeadID — идентификатор лида.
	LeadID string `json:"lead_id"`

	// Tag — метка, скопирована из лида.
	Tag string `json:"tag,omitempty"`

	// Name — имя, скопировано из лида.
	Name string `json:"name,omitempty"`

	// LinkedinURL — ссылка, скопирована из лида.
	LinkedinURL string `json:"linkedin_url,omitempty"`

	// Location — локация, скопирована из лида.
	Location string `json:"location,omitempty"`

	// Score — оценка соответствия ICP (0–100).
	Score int `json:"score"`

	// Response — развёрнутое обоснование оценки от модели.
	Response string `json:"response,omitempty"`

	// ShouldContact — 1 если лид стоит контактировать, иначе 0.
	ShouldContact int `json:"should_contact"`

	// Message — сгенерированное outreach-сообщение.
	Message string `json:"message,omitempty"`

	// Subject — тема сообщения.
	Subject string `json:"subject,omitempty"`
}
