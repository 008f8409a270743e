package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wildnetedge/leadflow/internal/domain"
)

// ResultRepo — репозиторий для результатов скоринга (llm_responses).
type ResultRepo struct {
	pool *pgxpool.Pool
}

// NewResultRepo создаёт новый ResultRepo.
func NewResultRepo(pool *pgxpool.Pool) *ResultRepo {
	return &ResultRepo{pool: pool}
}

// Exists проверяет, есть ли результат по lead_id.
// Дешёвая проверка существования, тело результата не читается.
func (r *ResultRepo) Exists(ctx context.Context, leadID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM llm_responses WHERE lead_id = $1)
	`, leadID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check result exists: %w", err)
	}
	return exists, nil
}

// Insert сохраняет результат скоринга.
func (r *ResultRepo) Insert(ctx context.Context, result *domain.LeadResult) error {
	query := `
		INSERT INTO llm_responses (lead_id, tag, name, linkedin_url, location,
			score, response, should_contact, message, subject, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		result.LeadID,
		result.Tag,
		result.Name,
		result.LinkedinURL,
		result.Location,
		result.Score,
		result.Response,
		result.ShouldContact,
		result.Message,
		result.Subject,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// GetByLeadID возвращает результат по lead_id.
func (r *ResultRepo) GetByLeadID(ctx context.Context, leadID string) (*domain.LeadResult, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT lead_id, tag, name, linkedin_url, location,
		       score, response, should_contact, message, subject
		FROM llm_responses
		WHERE lead_id = $1
	`, leadID)

	result, err := scanResult(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return result, err
}

// List возвращает результаты, новые первыми.
func (r *ResultRepo) List(ctx context.Context, limit, offset int) ([]domain.LeadResult, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT lead_id, tag, name, linkedin_url, location,
		       score, response, should_contact, message, subject
		FROM llm_responses
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []domain.LeadResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}
	return results, rows.Err()
}

// CountSince возвращает количество результатов, записанных после since.
// Используется scheduler'ом для daily digest.
func (r *ResultRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM llm_responses WHERE created_at >= $1
	`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count results since: %w", err)
	}
	return count, nil
}

func scanResult(row pgx.Row) (*domain.LeadResult, error) {
	var result domain.LeadResult
	var tag, name, linkedinURL, location, response, message, subject *string

	err := row.Scan(
		&result.LeadID,
		&tag,
		&name,
		&linkedinURL,
		&location,
		&result.Score,
		&response,
		&result.ShouldContact,
		&message,
		&subject,
	)
	if err != nil {
		return nil, fmt.Errorf("scan result: %w", err)
	}

	result.Tag = deref(tag)
	result.Name = deref(name)
	result.LinkedinURL = deref(linkedinURL)
	result.Location = deref(location)
	result.Response = deref(response)
	result.Message = deref(message)
	result.Subject = deref(subject)

	return &result, nil
}
