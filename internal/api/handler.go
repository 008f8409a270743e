package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/wildnetedge/leadflow/internal/domain"
	"github.com/wildnetedge/leadflow/internal/llm"
	"github.com/wildnetedge/leadflow/internal/mq"
)

// LeadStore — операции store над лидами, нужные API.
type LeadStore interface {
	ListEligible(ctx context.Context, limit int) ([]domain.Lead, error)
	MarkSent(ctx context.Context, leadID string) error
	CountEligible(ctx context.Context) (int, error)
}

// ResultStore — операции store над результатами скоринга.
type ResultStore interface {
	Exists(ctx context.Context, leadID string) (bool, error)
	Insert(ctx context.Context, result *domain.LeadResult) error
	GetByLeadID(ctx context.Context, leadID string) (*domain.LeadResult, error)
	List(ctx context.Context, limit, offset int) ([]domain.LeadResult, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}

// KeyStore — доступ к пулу API-ключей.
type KeyStore interface {
	List(ctx context.Context) ([]domain.Credential, error)
}

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	leads     LeadStore
	results   ResultStore
	keys      KeyStore
	scorer    llm.Scorer
	publisher *mq.Publisher
	logger    *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Leads   LeadStore
	Results ResultStore
	Keys    KeyStore
	Scorer  llm.Scorer

	// Publisher — опционально; nil отключает публикацию событий.
	Publisher *mq.Publisher

	Logger *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		leads:     cfg.Leads,
		results:   cfg.Results,
		keys:      cfg.Keys,
		scorer:    cfg.Scorer,
		publisher: cfg.Publisher,
		logger:    logger,
	}
}
