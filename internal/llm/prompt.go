package llm

import (
	"fmt"
	"strings"

	"github.com/wildnetedge/leadflow/internal/domain"
)

// BuildPrompt собирает промпт скоринга для одного лида.
//
// Структура: контекст компании → критерии/ICP → профиль лида →
// инструкции для outreach-сообщения → требуемый формат ответа.
// Модель обязана ответить одним JSON-объектом (см. тип answer).
func BuildPrompt(lead domain.Lead) string {
	var b strings.Builder

	b.WriteString("You are a B2B lead qualification assistant for WildnetEdge.\n\n")

	writeSection(&b, "COMPANY CONTEXT", lead.WildnetData)
	writeSection(&b, "SCORING CRITERIA AND ICP", lead.ScoringCriteria)

	b.WriteString("LEAD PROFILE\n")
	writeField(&b, "name", lead.Name)
	writeField(&b, "title", lead.Title)
	writeField(&b, "location", lead.Location)
	writeField(&b, "company", lead.CompanyName)
	writeField(&b, "experience", lead.Experience)
	writeField(&b, "skills", lead.Skills)
	writeField(&b, "bio", lead.Bio)
	b.WriteString("\n")

	writeSection(&b, "OUTREACH MESSAGE INSTRUCTIONS", lead.MessagePrompt)

	b.WriteString("Score this lead against the criteria and, if worth contacting, " +
		"draft a personalized outreach message.\n\n")
	b.WriteString("Respond with a single JSON object and nothing else:\n")
	b.WriteString(`{"score": <0-100>, "response": "<reasoning>", "should_contact": <0 or 1>, ` +
		`"message": "<outreach message>", "subject": "<subject line>"}`)

	return b.String()
}

func writeSection(b *strings.Builder, title, body string) {
	if body == "" {
		return
	}
	fmt.Fprintf(b, "%s\n%s\n\n", title, body)
}

func writeField(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", name, value)
}
