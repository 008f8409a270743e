package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/wildnetedge/leadflow/internal/domain"
	"github.com/wildnetedge/leadflow/internal/llm"
	"github.com/wildnetedge/leadflow/internal/mq"
	"github.com/wildnetedge/leadflow/internal/telemetry"
)

// Default configuration values.
const (
	defaultPollInterval   = 5 * time.Second
	defaultMaxConcurrency = 3
	defaultBatchPause     = 100 * time.Millisecond
	defaultPrefetch       = 5
)

// LeadStore — операции store над лидами, нужные worker'у.
type LeadStore interface {
	ListEligible(ctx context.Context, limit int) ([]domain.Lead, error)
	MarkSent(ctx context.Context, leadID string) error
}

// ResultStore — операции store над результатами скоринга.
type ResultStore interface {
	Exists(ctx context.Context, leadID string) (bool, error)
	Insert(ctx context.Context, result *domain.LeadResult) error
}

// KeyStore — доступ к пулу API-ключей.
type KeyStore interface {
	List(ctx context.Context) ([]domain.Credential, error)
}

// Worker непрерывно обрабатывает eligible лиды.
//
// Worker — stateless компонент системы, который:
//   - Периодически забирает batch eligible лидов из БД (polling)
//   - Досрочно просыпается по событию lead.enqueued (event-driven)
//   - Ограничивает параллелизм счётным семафором
//   - Пишет журнал обработки и метрики
type Worker struct {
	// Store
	leads   LeadStore
	results ResultStore
	keys    KeyStore

	// LLM
	scorer llm.Scorer

	// MQ
	publisher *mq.Publisher
	conn      *mq.Connection
	consumer  *mq.Consumer

	// Concurrency gate: не более maxConcurrency задач одновременно.
	gate *semaphore.Weighted

	// Configuration
	pollInterval   time.Duration
	batchPause     time.Duration
	batchSize      int
	maxConcurrency int

	// Telemetry
	journal *telemetry.Journal
	logger  *slog.Logger

	// Wakeup из consumer'а: буфер 1, лишние nudge схлопываются.
	wake chan struct{}

	// Lifecycle
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	stopped    bool
	stoppedMu  sync.RWMutex
}

// Config — конфигурация Worker.
type Config struct {
	// Store
	Leads   LeadStore
	Results ResultStore
	Keys    KeyStore

	// LLM
	Scorer llm.Scorer

	// MQ (опционально; nil — polling-only режим)
	Publisher *mq.Publisher
	Conn      *mq.Connection

	// Journal — журнал обработки (обязательно).
	Journal *telemetry.Journal

	// PollInterval — пауза между циклами при пустом batch'е
	// или ошибке цикла (default: 5s).
	PollInterval time.Duration

	// MaxConcurrency — ёмкость семафора (default: 3).
	MaxConcurrency int

	// BatchSize — лимит fetch'а; <= 0 — без лимита.
	BatchSize int

	// BatchPause — короткая пауза после непустого batch'а (default: 100ms).
	BatchPause time.Duration

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Worker.
func New(cfg Config) *Worker {
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}

	batchPause := cfg.BatchPause
	if batchPause <= 0 {
		batchPause = defaultBatchPause
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		leads:          cfg.Leads,
		results:        cfg.Results,
		keys:           cfg.Keys,
		scorer:         cfg.Scorer,
		publisher:      cfg.Publisher,
		conn:           cfg.Conn,
		gate:           semaphore.NewWeighted(int64(maxConcurrency)),
		pollInterval:   pollInterval,
		batchPause:     batchPause,
		batchSize:      cfg.BatchSize,
		maxConcurrency: maxConcurrency,
		journal:        cfg.Journal,
		logger:         logger,
		wake:           make(chan struct{}, 1),
	}
}

// Start запускает Worker.
//
// Запускает:
//   - Consumer для leads.enqueued (если MQ доступен)
//   - Цикл обработки
func (w *Worker) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel

	w.logger.Info("starting worker",
		"poll_interval", w.pollInterval,
		"max_concurrency", w.maxConcurrency,
	)

	if w.conn != nil {
		w.consumer = mq.NewConsumer(w.conn, w.logger, mq.ConsumerConfig{
			Queue:    string(mq.QueueLeadsEnqueued),
			Handler:  w.handleLeadEnqueued,
			Prefetch: defaultPrefetch,
		})

		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			if err := w.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				w.logger.Error("lead consumer error", "error", err)
			}
		}()
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.cycleLoop(ctx)
	}()

	w.logger.Info("worker started")
	return nil
}

// Stop останавливает Worker и дожидается завершения текущего batch'а.
func (w *Worker) Stop() {
	w.stoppedMu.Lock()
	w.stopped = true
	w.stoppedMu.Unlock()

	w.logger.Info("stopping worker...")

	if w.cancelFunc != nil {
		w.cancelFunc()
	}

	if w.consumer != nil {
		w.consumer.Stop()
	}

	// Ждём завершения горутин
	w.wg.Wait()

	w.logger.Info("worker stopped")
}

// IsStopped проверяет, остановлен ли Worker.
func (w *Worker) IsStopped() bool {
	w.stoppedMu.RLock()
	defer w.stoppedMu.RUnlock()
	return w.stopped
}

// handleLeadEnqueued обрабатывает событие о новых лидах из очереди.
// Будит цикл, не дожидаясь окончания poll-паузы; сам fetch всё равно
// произойдёт только после того, как текущий batch полностью settled.
func (w *Worker) handleLeadEnqueued(_ context.Context, delivery *mq.Delivery) error {
	payload, err := mq.ParsePayload[mq.LeadEnqueuedPayload](&delivery.Message)
	if err != nil {
		w.logger.Error("failed to parse lead.enqueued payload", "error", err)
		return err
	}

	w.logger.Debug("received lead.enqueued event", "count", len(payload.LeadIDs))
	w.nudge()
	return nil
}

// nudge будит цикл. Избыточные nudge схлопываются.
func (w *Worker) nudge() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// cycleLoop — бесконечный цикл fetch-dispatch-settle.
// Завершается только по отмене контекста.
func (w *Worker) cycleLoop(ctx context.Context) {
	var cycle uint64
	for {
		cycle++
		summary, err := w.runCycle(ctx)
		if ctx.Err() != nil {
			return
		}

		pause := w.batchPause
		switch {
		case err != nil:
			// Транзиентная ошибка fetch/aggregate: цикл не умирает,
			// повторяем после poll-паузы.
			telemetry.WithCycle(w.logger, cycle).Error("cycle failed", "error", err)
			telemetry.CycleErrorsTotal.Inc()
			pause = w.pollInterval
		case summary.Total == 0:
			pause = w.pollInterval
		}

		if !w.sleep(ctx, pause) {
			return
		}
	}
}

// sleep ждёт d, отмену контекста или nudge.
// Возвращает false, если контекст отменён.
func (w *Worker) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	case <-w.wake:
		return true
	}
}

// runCycle выполняет один цикл: fetch, dispatch через семафор,
// ожидание settle, агрегация, запись CYCLE в журнал.
func (w *Worker) runCycle(ctx context.Context) (*domain.CycleSummary, error) {
	start := time.Now()

	leads, err := w.leads.ListEligible(ctx, w.batchSize)
	if err != nil {
		return nil, err
	}

	summary := &domain.CycleSummary{Total: len(leads)}

	if len(leads) > 0 {
		outcomes := make(chan domain.Outcome, len(leads))
		var wg sync.WaitGroup

		for i := range leads {
			// Acquire блокирует, пока gate насыщен. При отмене контекста
			// возвращает ошибку, пермит не потреблён — утечки нет.
			if err := w.gate.Acquire(ctx, 1); err != nil {
				break
			}

			wg.Add(1)
			// Лид передаётся аргументом, не замыканием по переменной цикла.
			go func(lead domain.Lead) {
				defer wg.Done()
				defer w.gate.Release(1)

				telemetry.LeadsInFlight.Inc()
				defer telemetry.LeadsInFlight.Dec()

				outcomes <- w.runLead(ctx, lead)
			}(leads[i])
		}

		// Batch'и не пайплайнятся: ждём settle всех задач до следующего fetch.
		wg.Wait()
		close(outcomes)

		for outcome := range outcomes {
			summary.Add(outcome)
			telemetry.OutcomesTotal.WithLabelValues(string(outcome)).Inc()
		}
	}

	summary.Elapsed = time.Since(start)
	w.journal.Cycle(summary.String())
	telemetry.CyclesTotal.Inc()
	telemetry.CycleDuration.Observe(summary.Elapsed.Seconds())

	return summary, nil
}
