package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wildnetedge/leadflow/internal/mq"
)

// Default configuration values.
const (
	defaultCronExpr = "0 9 * * *"
	defaultTimezone = "Asia/Kolkata"
	defaultWindow   = 24 * time.Hour
)

// ResultStats — статистика по результатам за окно digest'а.
type ResultStats interface {
	CountSince(ctx context.Context, since time.Time) (int, error)
}

// LeadStats — размер backlog'а необработанных лидов.
type LeadStats interface {
	CountEligible(ctx context.Context) (int, error)
}

// Scheduler публикует периодический digest по cron-расписанию.
type Scheduler struct {
	results   ResultStats
	leads     LeadStats
	publisher *mq.Publisher
	logger    *slog.Logger

	schedule cron.Schedule
	loc      *time.Location
	window   time.Duration
}

// Config — конфигурация Scheduler.
type Config struct {
	Results   ResultStats
	Leads     LeadStats
	Publisher *mq.Publisher
	Logger    *slog.Logger

	// CronExpr — расписание digest'а (default: "0 9 * * *").
	CronExpr string

	// Timezone — timezone расписания (default: Asia/Kolkata).
	Timezone string

	// Window — окно агрегации digest'а (default: 24h).
	Window time.Duration
}

// New создаёт новый Scheduler.
// Возвращает ошибку на невалидном cron-выражении или timezone.
func New(cfg Config) (*Scheduler, error) {
	expr := cfg.CronExpr
	if expr == "" {
		expr = defaultCronExpr
	}

	schedule, err := ParseSchedule(expr)
	if err != nil {
		return nil, err
	}

	tz := cfg.Timezone
	if tz == "" {
		tz = defaultTimezone
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tz, err)
	}

	window := cfg.Window
	if window <= 0 {
		window = defaultWindow
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		results:   cfg.Results,
		leads:     cfg.Leads,
		publisher: cfg.Publisher,
		logger:    logger,
		schedule:  schedule,
		loc:       loc,
		window:    window,
	}, nil
}

// Run крутит расписание до отмены контекста.
// Ошибки тика логируются, цикл не умирает.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		next := NextDue(s.schedule, time.Now(), s.loc)
		s.logger.Info("next digest scheduled", "at", next)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if err := s.Tick(ctx); err != nil {
			s.logger.Error("digest tick failed", "error", err)
		}
	}
}

// Tick собирает сводку за окно и публикует digest.ready.
func (s *Scheduler) Tick(ctx context.Context) error {
	now := time.Now().UTC()
	since := now.Add(-s.window)

	processed, err := s.results.CountSince(ctx, since)
	if err != nil {
		return fmt.Errorf("count processed results: %w", err)
	}

	backlog, err := s.leads.CountEligible(ctx)
	if err != nil {
		return fmt.Errorf("count eligible leads: %w", err)
	}

	s.logger.Info("digest ready",
		"since", since,
		"processed", processed,
		"backlog", backlog,
	)

	if s.publisher != nil {
		payload := mq.DigestReadyPayload{
			Since:     since,
			Processed: processed,
			Backlog:   backlog,
		}
		if err := s.publisher.PublishDigestReady(ctx, payload); err != nil {
			return fmt.Errorf("publish digest.ready: %w", err)
		}
	}

	return nil
}
