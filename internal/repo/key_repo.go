package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wildnetedge/leadflow/internal/domain"
)

// KeyRepo — репозиторий пула API-ключей (api_keys).
//
// Пул ротируется извне: ключи добавляются и отзываются без рестарта
// сервиса, поэтому List вызывается на каждую задачу, без кэширования.
type KeyRepo struct {
	pool *pgxpool.Pool
}

// NewKeyRepo создаёт новый KeyRepo.
func NewKeyRepo(pool *pgxpool.Pool) *KeyRepo {
	return &KeyRepo{pool: pool}
}

// List возвращает все ключи пула.
func (r *KeyRepo) List(ctx context.Context) ([]domain.Credential, error) {
	rows, err := r.pool.Query(ctx, `SELECT api_key FROM api_keys`)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var creds []domain.Credential
	for rows.Next() {
		var cred domain.Credential
		if err := rows.Scan(&cred.APIKey); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		creds = append(creds, cred)
	}
	return creds, rows.Err()
}
