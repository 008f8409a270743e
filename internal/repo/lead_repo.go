package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wildnetedge/leadflow/internal/domain"
)

// LeadRepo — репозиторий для работы с лидами (lead_details).
type LeadRepo struct {
	pool *pgxpool.Pool
}

// NewLeadRepo создаёт новый LeadRepo.
func NewLeadRepo(pool *pgxpool.Pool) *LeadRepo {
	return &LeadRepo{pool: pool}
}

const eligibleColumns = `
	l.lead_id, l.tag, l.name, l.title, l.location, l.company_name,
	l.experience, l.skills, l.bio, l.profile_url, l.linkedin_url, l.company_page_url,
	c.wildnet_data, c.scoring_criteria_and_icp, c.message_prompt
`

// ListEligible возвращает лиды, ожидающие обработки (sent_to_llm = false),
// вместе с batch-контекстом их кампании.
//
// limit <= 0 — без ограничения (пагинация остаётся на стороне store).
// Порядок — порядок вставки; никакого приоритета ListEligible не навязывает.
func (r *LeadRepo) ListEligible(ctx context.Context, limit int) ([]domain.Lead, error) {
	query := `
		SELECT ` + eligibleColumns + `
		FROM lead_details l
		JOIN campaigns c ON c.id = l.campaign_id
		WHERE l.sent_to_llm = false
		ORDER BY l.created_at ASC
	`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list eligible leads: %w", err)
	}
	defer rows.Close()

	var leads []domain.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}
	return leads, rows.Err()
}

// MarkSent помечает лид как отправленный в LLM (sent_to_llm = true).
// После этого лид перестаёт быть eligible.
func (r *LeadRepo) MarkSent(ctx context.Context, leadID string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE lead_details SET sent_to_llm = true WHERE lead_id = $1
	`, leadID)
	if err != nil {
		return fmt.Errorf("mark lead sent: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountEligible возвращает размер текущего backlog'а.
func (r *LeadRepo) CountEligible(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM lead_details WHERE sent_to_llm = false
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count eligible leads: %w", err)
	}
	return count, nil
}

func scanLead(rows pgx.Rows) (*domain.Lead, error) {
	var lead domain.Lead
	var tag, name, title, location, companyName *string
	var experience, skills, bio *string
	var profileURL, linkedinURL, companyPageURL *string
	var wildnetData, scoringCriteria, messagePrompt *string

	err := rows.Scan(
		&lead.LeadID,
		&tag,
		&name,
		&title,
		&location,
		&companyName,
		&experience,
		&skills,
		&bio,
		&profileURL,
		&linkedinURL,
		&companyPageURL,
		&wildnetData,
		&scoringCriteria,
		&messagePrompt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan lead: %w", err)
	}

	lead.Tag = deref(tag)
	lead.Name = deref(name)
	lead.Title = deref(title)
	lead.Location = deref(location)
	lead.CompanyName = deref(companyName)
	lead.Experience = deref(experience)
	lead.Skills = deref(skills)
	lead.Bio = deref(bio)
	lead.ProfileURL = deref(profileURL)
	lead.LinkedinURL = deref(linkedinURL)
	lead.CompanyPageURL = deref(companyPageURL)
	lead.WildnetData = deref(wildnetData)
	lead.ScoringCriteria = deref(scoringCriteria)
	lead.MessagePrompt = deref(messagePrompt)

	return &lead, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
