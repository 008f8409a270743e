package telemetry

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func newTestJournal() (*Journal, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewJournalWriter(&buf, time.UTC), &buf
}

func TestJournal_Start(t *testing.T) {
	j, buf := newTestJournal()

	j.Start("lead-1", "Alice", "key-abc")

	line := buf.String()
	if !strings.Contains(line, "| START |") {
		t.Errorf("expected START phase, got %q", line)
	}
	if !strings.Contains(line, "lead_id=lead-1 | name=Alice | api_key=key-abc") {
		t.Errorf("unexpected fields: %q", line)
	}
	if !strings.HasSuffix(line, "\n") {
		t.Error("line should end with newline")
	}
}

func TestJournal_Skip(t *testing.T) {
	j, buf := newTestJournal()

	j.Skip("lead-2", "Bob")

	line := buf.String()
	// SKIP выравнивается до 5 символов
	if !strings.Contains(line, "| SKIP  |") {
		t.Errorf("expected padded SKIP phase, got %q", line)
	}
	if !strings.Contains(line, "reason=already_processed") {
		t.Errorf("expected skip reason, got %q", line)
	}
	if strings.Contains(line, "api_key") {
		t.Errorf("SKIP line should not carry api_key: %q", line)
	}
}

func TestJournal_Error_WithoutKey(t *testing.T) {
	j, buf := newTestJournal()

	j.Error("lead-3", "Carol", "")

	line := buf.String()
	if !strings.Contains(line, "| ERROR |") {
		t.Errorf("expected ERROR phase, got %q", line)
	}
	if strings.Contains(line, "api_key") {
		t.Errorf("api_key field should be omitted before selection: %q", line)
	}
}

func TestJournal_Error_WithKey(t *testing.T) {
	j, buf := newTestJournal()

	j.Error("lead-3", "Carol", "key-xyz")

	if !strings.Contains(buf.String(), "api_key=key-xyz") {
		t.Errorf("expected api_key field: %q", buf.String())
	}
}

func TestJournal_Cycle(t *testing.T) {
	j, buf := newTestJournal()

	j.Cycle("total=0, processed=0, skipped=0, no_key=0, errors=0, duration=0.00s")

	line := buf.String()
	if !strings.Contains(line, "| CYCLE | total=0, processed=0") {
		t.Errorf("unexpected cycle line: %q", line)
	}
}

func TestJournal_TimestampFormat(t *testing.T) {
	j, buf := newTestJournal()

	j.Done("lead-4", "Dave", "k")

	ts := strings.SplitN(buf.String(), " | ", 2)[0]
	if _, err := time.Parse(journalTimeFormat, ts); err != nil {
		t.Errorf("timestamp %q does not match format: %v", ts, err)
	}
}

func TestLoadLocation_Invalid(t *testing.T) {
	if loc := loadLocation("Not/AZone"); loc != time.UTC {
		t.Errorf("invalid timezone should fall back to UTC, got %v", loc)
	}
}
