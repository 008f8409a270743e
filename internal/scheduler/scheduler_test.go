package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

type fakeResultStats struct {
	count int
	err   error
	since time.Time
}

func (s *fakeResultStats) CountSince(_ context.Context, since time.Time) (int, error) {
	s.since = since
	return s.count, s.err
}

type fakeLeadStats struct {
	count int
	err   error
}

func (s *fakeLeadStats) CountEligible(_ context.Context) (int, error) {
	return s.count, s.err
}

func newTestScheduler(t *testing.T, cfg Config) (*Scheduler, *fakeResultStats, *fakeLeadStats) {
	t.Helper()

	results := &fakeResultStats{}
	leads := &fakeLeadStats{}
	cfg.Results = results
	cfg.Leads = leads
	cfg.Logger = slog.New(slog.DiscardHandler)

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create scheduler: %v", err)
	}
	return s, results, leads
}

func TestNew_InvalidCron(t *testing.T) {
	_, err := New(Config{CronExpr: "not a cron"})
	if err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestNew_InvalidTimezone(t *testing.T) {
	_, err := New(Config{Timezone: "Mars/Olympus"})
	if err == nil {
		t.Fatal("expected error for invalid timezone")
	}
}

func TestNew_Defaults(t *testing.T) {
	s, _, _ := newTestScheduler(t, Config{})

	if s.window != defaultWindow {
		t.Errorf("expected window %v, got %v", defaultWindow, s.window)
	}
	if s.loc.String() != defaultTimezone {
		t.Errorf("expected timezone %s, got %s", defaultTimezone, s.loc)
	}
}

func TestTick_CountsWindow(t *testing.T) {
	s, results, _ := newTestScheduler(t, Config{Window: 24 * time.Hour})
	results.count = 42

	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// since = now - window
	expected := time.Now().UTC().Add(-24 * time.Hour)
	if diff := results.since.Sub(expected); diff < -time.Minute || diff > time.Minute {
		t.Errorf("expected since around %v, got %v", expected, results.since)
	}
}

func TestTick_ResultStatsError(t *testing.T) {
	s, results, _ := newTestScheduler(t, Config{})
	results.err = errors.New("database unavailable")

	if err := s.Tick(context.Background()); err == nil {
		t.Fatal("expected error to propagate from tick")
	}
}

func TestTick_LeadStatsError(t *testing.T) {
	s, _, leads := newTestScheduler(t, Config{})
	leads.err = errors.New("database unavailable")

	if err := s.Tick(context.Background()); err == nil {
		t.Fatal("expected error to propagate from tick")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	s, _, _ := newTestScheduler(t, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("run did not stop on cancelled context")
	}
}

func TestNextDue_RespectsCronExpr(t *testing.T) {
	schedule, err := ParseSchedule("0 9 * * *")
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}

	loc, _ := time.LoadLocation("Asia/Kolkata")
	from := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	next := NextDue(schedule, from, loc)

	// 09:00 IST = 03:30 UTC
	inLoc := next.In(loc)
	if inLoc.Hour() != 9 || inLoc.Minute() != 0 {
		t.Errorf("expected 09:00 local, got %v", inLoc)
	}
	if !next.After(from) {
		t.Errorf("next due %v must be after %v", next, from)
	}
}

func TestValidateCronExpr(t *testing.T) {
	if err := ValidateCronExpr("*/5 * * * *"); err != nil {
		t.Errorf("unexpected error for valid expression: %v", err)
	}
	if err := ValidateCronExpr("61 * * * *"); err == nil {
		t.Error("expected error for out-of-range minute")
	}
}
