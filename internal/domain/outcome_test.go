package domain

import (
	"testing"
	"time"
)

func TestCycleSummary_Add(t *testing.T) {
	var s CycleSummary
	s.Total = 5

	for _, o := range []Outcome{OutcomeProcessed, OutcomeSkipped, OutcomeNoKey, OutcomeError, OutcomeProcessed} {
		s.Add(o)
	}

	if s.Processed != 2 {
		t.Errorf("expected 2 processed, got %d", s.Processed)
	}
	if s.Skipped != 1 {
		t.Errorf("expected 1 skipped, got %d", s.Skipped)
	}
	if s.NoKey != 1 {
		t.Errorf("expected 1 no_key, got %d", s.NoKey)
	}
	if s.Errors != 1 {
		t.Errorf("expected 1 error, got %d", s.Errors)
	}
	if s.Counted() != s.Total {
		t.Errorf("counted %d != total %d", s.Counted(), s.Total)
	}
}

func TestCycleSummary_String(t *testing.T) {
	s := CycleSummary{
		Total:     3,
		Processed: 1,
		Skipped:   1,
		Errors:    1,
		Elapsed:   1230 * time.Millisecond,
	}

	got := s.String()
	want := "total=3, processed=1, skipped=1, no_key=0, errors=1, duration=1.23s"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestOutcome_IsSettled(t *testing.T) {
	tests := []struct {
		outcome Outcome
		settled bool
	}{
		{OutcomeProcessed, true},
		{OutcomeSkipped, true},
		{OutcomeNoKey, false},
		{OutcomeError, false},
	}

	for _, tt := range tests {
		if got := tt.outcome.IsSettled(); got != tt.settled {
			t.Errorf("%s: IsSettled() = %v, want %v", tt.outcome, got, tt.settled)
		}
	}
}
