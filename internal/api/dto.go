package api

import (
	"github.com/wildnetedge/leadflow/internal/domain"
)

// Process DTOs

// LeadPayload — лид в теле запроса на обработку.
type LeadPayload struct {
	LeadID         string `json:"lead_id"`
	Tag            string `json:"tag,omitempty"`
	Name           string `json:"name,omitempty"`
	Title          string `json:"title,omitempty"`
	Location       string `json:"location,omitempty"`
	CompanyName    string `json:"company_name,omitempty"`
	Experience     string `json:"experience,omitempty"`
	Skills         string `json:"skills,omitempty"`
	Bio            string `json:"bio,omitempty"`
	ProfileURL     string `json:"profile_url,omitempty"`
	LinkedinURL    string `json:"linkedin_url,omitempty"`
	CompanyPageURL string `json:"company_page_url,omitempty"`
}

// ProcessRequest — запрос на one-shot обработку batch'а лидов.
// Контекст кампании общий для всего batch'а. APIKey обходит пул:
// пустой — ключ выбирается из пула на каждый лид.
type ProcessRequest struct {
	APIKey          string        `json:"api_key,omitempty"`
	WildnetData     string        `json:"wildnet_data,omitempty"`
	ScoringCriteria string        `json:"scoring_criteria_and_icp,omitempty"`
	MessagePrompt   string        `json:"message_prompt,omitempty"`
	Leads           []LeadPayload `json:"leads"`
}

// ProcessSingleRequest — запрос на обработку одного лида.
type ProcessSingleRequest struct {
	APIKey          string      `json:"api_key,omitempty"`
	WildnetData     string      `json:"wildnet_data,omitempty"`
	ScoringCriteria string      `json:"scoring_criteria_and_icp,omitempty"`
	MessagePrompt   string      `json:"message_prompt,omitempty"`
	Lead            LeadPayload `json:"lead"`
}

// LeadOutcomeResponse — исход обработки одного лида в batch'е.
type LeadOutcomeResponse struct {
	LeadID        string `json:"lead_id"`
	Name          string `json:"name,omitempty"`
	Outcome       string `json:"outcome"`
	Score         int    `json:"score,omitempty"`
	ShouldContact int    `json:"should_contact,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ProcessResponse — сводка one-shot обработки.
type ProcessResponse struct {
	Total     int                   `json:"total"`
	Processed int                   `json:"processed"`
	Skipped   int                   `json:"skipped"`
	NoKey     int                   `json:"no_key"`
	Errors    int                   `json:"errors"`
	Results   []LeadOutcomeResponse `json:"results"`
}

// toDomain конвертирует LeadPayload в domain.Lead,
// подмешивая batch-контекст кампании.
func (p LeadPayload) toDomain(wildnetData, scoringCriteria, messagePrompt string) domain.Lead {
	return domain.Lead{
		LeadID:          p.LeadID,
		Tag:             p.Tag,
		Name:            p.Name,
		Title:           p.Title,
		Location:        p.Location,
		CompanyName:     p.CompanyName,
		Experience:      p.Experience,
		Skills:          p.Skills,
		Bio:             p.Bio,
		ProfileURL:      p.ProfileURL,
		LinkedinURL:     p.LinkedinURL,
		CompanyPageURL:  p.CompanyPageURL,
		WildnetData:     wildnetData,
		ScoringCriteria: scoringCriteria,
		MessagePrompt:   messagePrompt,
	}
}

// Lead DTOs

// LeadResponse — лид в ответе API.
type LeadResponse struct {
	LeadID      string `json:"lead_id"`
	Tag         string `json:"tag,omitempty"`
	Name        string `json:"name,omitempty"`
	Title       string `json:"title,omitempty"`
	Location    string `json:"location,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	LinkedinURL string `json:"linkedin_url,omitempty"`
}

// LeadFromDomain конвертирует domain.Lead в LeadResponse.
func LeadFromDomain(l domain.Lead) LeadResponse {
	return LeadResponse{
		LeadID:      l.LeadID,
		Tag:         l.Tag,
		Name:        l.Name,
		Title:       l.Title,
		Location:    l.Location,
		CompanyName: l.CompanyName,
		LinkedinURL: l.LinkedinURL,
	}
}

// Result DTOs

// ResultResponse — результат скоринга в ответе API.
type ResultResponse struct {
	LeadID        string `json:"lead_id"`
	Tag           string `json:"tag,omitempty"`
	Name          string `json:"name,omitempty"`
	LinkedinURL   string `json:"linkedin_url,omitempty"`
	Location      string `json:"location,omitempty"`
	Score         int    `json:"score"`
	Response      string `json:"response,omitempty"`
	ShouldContact int    `json:"should_contact"`
	Message       string `json:"message,omitempty"`
	Subject       string `json:"subject,omitempty"`
}

// ResultFromDomain конвертирует domain.LeadResult в ResultResponse.
func ResultFromDomain(r domain.LeadResult) ResultResponse {
	return ResultResponse{
		LeadID:        r.LeadID,
		Tag:           r.Tag,
		Name:          r.Name,
		LinkedinURL:   r.LinkedinURL,
		Location:      r.Location,
		Score:         r.Score,
		Response:      r.Response,
		ShouldContact: r.ShouldContact,
		Message:       r.Message,
		Subject:       r.Subject,
	}
}
