package worker

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wildnetedge/leadflow/internal/domain"
	"github.com/wildnetedge/leadflow/internal/telemetry"
)

// --- Fakes ---

type fakeLeadStore struct {
	mu      sync.Mutex
	leads   []domain.Lead
	marked  []string
	listErr error
	markErr error
}

func (s *fakeLeadStore) ListEligible(_ context.Context, _ int) ([]domain.Lead, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.leads, nil
}

func (s *fakeLeadStore) MarkSent(_ context.Context, leadID string) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.mu.Lock()
	s.marked = append(s.marked, leadID)
	s.mu.Unlock()
	return nil
}

func (s *fakeLeadStore) markedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.marked...)
}

type fakeResultStore struct {
	mu        sync.Mutex
	existing  map[string]bool
	inserted  []*domain.LeadResult
	existsErr error
	insertErr error
}

func (s *fakeResultStore) Exists(_ context.Context, leadID string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	return s.existing[leadID], nil
}

func (s *fakeResultStore) Insert(_ context.Context, result *domain.LeadResult) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.mu.Lock()
	s.inserted = append(s.inserted, result)
	s.mu.Unlock()
	return nil
}

func (s *fakeResultStore) insertedResults() []*domain.LeadResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.LeadResult(nil), s.inserted...)
}

type fakeKeyStore struct {
	keys    []domain.Credential
	listErr error
}

func (s *fakeKeyStore) List(_ context.Context) ([]domain.Credential, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.keys, nil
}

type fakeScorer struct {
	err   error
	delay time.Duration

	calls       atomic.Int64
	inFlight    atomic.Int64
	maxInFlight atomic.Int64
}

func (s *fakeScorer) Score(ctx context.Context, lead domain.Lead, _ string) (*domain.LeadResult, error) {
	s.calls.Add(1)

	cur := s.inFlight.Add(1)
	for {
		prev := s.maxInFlight.Load()
		if cur <= prev || s.maxInFlight.CompareAndSwap(prev, cur) {
			break
		}
	}
	defer s.inFlight.Add(-1)

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if s.err != nil {
		return nil, s.err
	}
	return &domain.LeadResult{
		LeadID:        lead.LeadID,
		Name:          lead.Name,
		Score:         80,
		ShouldContact: 1,
	}, nil
}

// --- Helpers ---

type testEnv struct {
	leads   *fakeLeadStore
	results *fakeResultStore
	keys    *fakeKeyStore
	scorer  *fakeScorer
	journal *bytes.Buffer
	worker  *Worker
}

func newTestEnv(t *testing.T, cfg Config) *testEnv {
	t.Helper()

	env := &testEnv{
		leads:   &fakeLeadStore{},
		results: &fakeResultStore{existing: map[string]bool{}},
		keys:    &fakeKeyStore{keys: []domain.Credential{{APIKey: "key-a"}, {APIKey: "key-b"}}},
		scorer:  &fakeScorer{},
		journal: &bytes.Buffer{},
	}

	cfg.Leads = env.leads
	cfg.Results = env.results
	cfg.Keys = env.keys
	cfg.Scorer = env.scorer
	cfg.Journal = telemetry.NewJournalWriter(env.journal, time.UTC)
	env.worker = New(cfg)
	return env
}

func makeLeads(n int) []domain.Lead {
	leads := make([]domain.Lead, n)
	for i := range leads {
		leads[i] = domain.Lead{
			LeadID: "lead-" + string(rune('a'+i)),
			Name:   "Lead " + string(rune('A'+i)),
		}
	}
	return leads
}

func journalPhases(buf *bytes.Buffer) []string {
	var phases []string
	for _, line := range strings.Split(buf.String(), "\n") {
		parts := strings.Split(line, " | ")
		if len(parts) >= 2 {
			phases = append(phases, strings.TrimSpace(parts[1]))
		}
	}
	return phases
}

// --- RunCycle Tests ---

func TestRunCycle_ProcessedLead(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.leads.leads = makeLeads(1)

	summary, err := env.worker.runCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Total != 1 || summary.Processed != 1 {
		t.Fatalf("expected total=1 processed=1, got %s", summary)
	}

	inserted := env.results.insertedResults()
	if len(inserted) != 1 || inserted[0].LeadID != "lead-a" {
		t.Fatalf("expected result for lead-a inserted, got %v", inserted)
	}
	if inserted[0].Score != 80 {
		t.Errorf("expected score 80, got %d", inserted[0].Score)
	}

	marked := env.leads.markedIDs()
	if len(marked) != 1 || marked[0] != "lead-a" {
		t.Fatalf("expected lead-a marked sent, got %v", marked)
	}

	// Порядок фаз: START → DONE → CYCLE
	phases := journalPhases(env.journal)
	want := []string{"START", "DONE", "CYCLE"}
	if len(phases) != len(want) {
		t.Fatalf("expected phases %v, got %v", want, phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("phase[%d]: expected %s, got %s", i, want[i], phases[i])
		}
	}
}

func TestRunCycle_SkipsAlreadyProcessed(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.leads.leads = makeLeads(1)
	env.results.existing["lead-a"] = true

	summary, err := env.worker.runCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Skipped != 1 {
		t.Fatalf("expected skipped=1, got %s", summary)
	}
	if env.scorer.calls.Load() != 0 {
		t.Errorf("scorer must not be called for already processed lead")
	}

	// Skip догоняет флаг sent_to_llm
	if marked := env.leads.markedIDs(); len(marked) != 1 {
		t.Errorf("expected lead marked sent on skip, got %v", marked)
	}

	if !strings.Contains(env.journal.String(), "| SKIP  |") {
		t.Errorf("expected SKIP journal line, got:\n%s", env.journal.String())
	}
	if !strings.Contains(env.journal.String(), "reason=already_processed") {
		t.Errorf("expected skip reason in journal")
	}
}

func TestRunCycle_NoKeys(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.leads.leads = makeLeads(2)
	env.keys.keys = nil

	summary, err := env.worker.runCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.NoKey != 2 {
		t.Fatalf("expected no_key=2, got %s", summary)
	}
	if env.scorer.calls.Load() != 0 {
		t.Errorf("scorer must not be called without keys")
	}
	if marked := env.leads.markedIDs(); len(marked) != 0 {
		t.Errorf("no_key leads must stay eligible, got marked %v", marked)
	}

	// no_key не даёт per-lead строк, только CYCLE
	phases := journalPhases(env.journal)
	if len(phases) != 1 || phases[0] != "CYCLE" {
		t.Errorf("expected only CYCLE phase, got %v", phases)
	}
}

func TestRunCycle_ScorerError(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.leads.leads = makeLeads(1)
	env.scorer.err = errors.New("model overloaded")

	summary, err := env.worker.runCycle(context.Background())
	if err != nil {
		t.Fatalf("cycle must not fail on per-lead error: %v", err)
	}

	if summary.Errors != 1 {
		t.Fatalf("expected errors=1, got %s", summary)
	}
	if len(env.results.insertedResults()) != 0 {
		t.Errorf("no result must be inserted on scorer error")
	}
	if marked := env.leads.markedIDs(); len(marked) != 0 {
		t.Errorf("failed lead must stay eligible, got marked %v", marked)
	}

	phases := journalPhases(env.journal)
	want := []string{"START", "ERROR", "CYCLE"}
	if len(phases) != len(want) {
		t.Fatalf("expected phases %v, got %v", want, phases)
	}
}

func TestRunCycle_InsertError(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.leads.leads = makeLeads(1)
	env.results.insertErr = errors.New("connection refused")

	summary, err := env.worker.runCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Errors != 1 {
		t.Fatalf("expected errors=1, got %s", summary)
	}
	if marked := env.leads.markedIDs(); len(marked) != 0 {
		t.Errorf("lead must not be marked sent when insert fails, got %v", marked)
	}
}

func TestRunCycle_MarkSentFailureStillProcessed(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.leads.leads = makeLeads(1)
	env.leads.markErr = errors.New("deadlock detected")

	summary, err := env.worker.runCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Результат записан — лид processed, пометка догонится guard'ом.
	if summary.Processed != 1 {
		t.Fatalf("expected processed=1, got %s", summary)
	}
	if len(env.results.insertedResults()) != 1 {
		t.Errorf("expected result inserted despite mark failure")
	}
}

func TestRunCycle_ExistsErrorTreatedAsNotProcessed(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.leads.leads = makeLeads(1)
	env.results.existsErr = errors.New("timeout")

	summary, err := env.worker.runCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Ошибка guard'а не блокирует обработку: Insert всё равно произошёл.
	if summary.Processed != 1 {
		t.Fatalf("expected processed=1, got %s", summary)
	}
}

func TestRunCycle_EmptyBatch(t *testing.T) {
	env := newTestEnv(t, Config{})

	summary, err := env.worker.runCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Total != 0 {
		t.Fatalf("expected empty summary, got %s", summary)
	}
	// CYCLE пишется даже для пустого batch'а
	if !strings.Contains(env.journal.String(), "total=0") {
		t.Errorf("expected CYCLE line for empty batch, got:\n%s", env.journal.String())
	}
}

func TestRunCycle_FetchError(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.leads.listErr = errors.New("database unavailable")

	if _, err := env.worker.runCycle(context.Background()); err == nil {
		t.Fatal("expected fetch error to propagate to cycle")
	}
}

func TestRunCycle_MixedOutcomes(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.leads.leads = makeLeads(4)
	env.results.existing["lead-b"] = true
	env.results.existing["lead-d"] = true

	summary, err := env.worker.runCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Total != 4 || summary.Processed != 2 || summary.Skipped != 2 {
		t.Fatalf("expected total=4 processed=2 skipped=2, got %s", summary)
	}
	// Каждый лид из batch'а учтён ровно один раз
	if summary.Counted() != summary.Total {
		t.Errorf("outcome counts must sum to total: %s", summary)
	}
}

// --- Concurrency Tests ---

func TestRunCycle_ConcurrencyBound(t *testing.T) {
	env := newTestEnv(t, Config{MaxConcurrency: 3})
	env.leads.leads = makeLeads(10)
	env.scorer.delay = 20 * time.Millisecond

	if _, err := env.worker.runCycle(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := env.scorer.maxInFlight.Load(); got > 3 {
		t.Errorf("concurrency gate violated: %d scorer calls in flight", got)
	}
	if env.scorer.calls.Load() != 10 {
		t.Errorf("expected all 10 leads scored, got %d", env.scorer.calls.Load())
	}
}

func TestRunCycle_CancellationReleasesPermits(t *testing.T) {
	env := newTestEnv(t, Config{MaxConcurrency: 2})
	env.leads.leads = makeLeads(8)
	env.scorer.delay = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	if _, err := env.worker.runCycle(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// После завершения цикла все пермиты возвращены в gate.
	if !env.worker.gate.TryAcquire(2) {
		t.Fatal("semaphore permits leaked after cancellation")
	}
	env.worker.gate.Release(2)
}

// --- Lifecycle Tests ---

func TestNew_Defaults(t *testing.T) {
	w := New(Config{})

	if w.pollInterval != defaultPollInterval {
		t.Errorf("expected poll interval %v, got %v", defaultPollInterval, w.pollInterval)
	}
	if w.maxConcurrency != defaultMaxConcurrency {
		t.Errorf("expected max concurrency %d, got %d", defaultMaxConcurrency, w.maxConcurrency)
	}
	if w.batchPause != defaultBatchPause {
		t.Errorf("expected batch pause %v, got %v", defaultBatchPause, w.batchPause)
	}
	if w.logger == nil {
		t.Error("expected default logger")
	}
}

func TestSleep_WakesOnNudge(t *testing.T) {
	w := New(Config{})

	start := time.Now()
	w.nudge()
	if !w.sleep(context.Background(), 5*time.Second) {
		t.Fatal("sleep must return true on nudge")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("nudge must wake sleep immediately, slept %v", elapsed)
	}
}

func TestSleep_ReturnsFalseOnCancel(t *testing.T) {
	w := New(Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if w.sleep(ctx, time.Minute) {
		t.Fatal("sleep must return false on cancelled context")
	}
}

func TestNudge_Coalesces(t *testing.T) {
	w := New(Config{})

	// Избыточные nudge не блокируют и схлопываются в один.
	for i := 0; i < 10; i++ {
		w.nudge()
	}

	if !w.sleep(context.Background(), time.Second) {
		t.Fatal("expected wake from coalesced nudge")
	}
}

func TestWorker_StartStop(t *testing.T) {
	env := newTestEnv(t, Config{PollInterval: 10 * time.Millisecond})

	ctx := context.Background()
	if err := env.worker.Start(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if env.worker.IsStopped() {
		t.Error("worker must not report stopped after start")
	}

	time.Sleep(30 * time.Millisecond)
	env.worker.Stop()

	if !env.worker.IsStopped() {
		t.Error("worker must report stopped after stop")
	}
}

func TestPickKey_RotatesOverPool(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.keys.keys = []domain.Credential{
		{APIKey: "key-a"},
		{APIKey: "key-b"},
		{APIKey: "key-c"},
	}

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		key, ok := env.worker.pickKey(context.Background())
		if !ok {
			t.Fatal("expected key from non-empty pool")
		}
		seen[key] = true
	}

	// Равномерный случайный выбор: за 200 попыток все три ключа
	// практически наверняка встретятся.
	if len(seen) != 3 {
		t.Errorf("expected all pool keys used, got %v", seen)
	}
}

func TestPickKey_ListError(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.keys.listErr = errors.New("relation does not exist")

	if _, ok := env.worker.pickKey(context.Background()); ok {
		t.Fatal("expected no key on list error")
	}
}
