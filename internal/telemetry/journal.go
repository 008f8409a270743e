package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Фазы журнала обработки.
const (
	PhaseStart = "START"
	PhaseDone  = "DONE"
	PhaseSkip  = "SKIP"
	PhaseError = "ERROR"
	PhaseCycle = "CYCLE"
)

const journalTimeFormat = "2006-01-02 15:04:05 MST"

// Journal — построчный append-only журнал обработки лидов.
//
// Каждая строка содержит timestamp в локальной таймзоне, тег фазы
// (START/DONE/SKIP/ERROR/CYCLE) и идентифицирующие поля. Формат —
// стабильный текст, не машинно-структурированный; порядок и состав
// полей фиксированы для каждой фазы.
//
// Journal пишет в файл и зеркалит в консоль. Безопасен для
// конкурентного использования несколькими задачами.
type Journal struct {
	mu   sync.Mutex
	w    io.Writer
	file *os.File
	loc  *time.Location
}

// NewJournal открывает журнал по пути path (append) с зеркалом в stdout.
// Родительская директория создаётся при необходимости.
//
// tz — имя таймзоны для timestamp'ов (например "Asia/Kolkata");
// невалидная таймзона откатывается на UTC.
func NewJournal(path, tz string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	j := NewJournalWriter(io.MultiWriter(file, os.Stdout), loadLocation(tz))
	j.file = file
	return j, nil
}

// NewJournalWriter создаёт Journal поверх произвольного writer'а.
func NewJournalWriter(w io.Writer, loc *time.Location) *Journal {
	if loc == nil {
		loc = time.UTC
	}
	return &Journal{w: w, loc: loc}
}

func loadLocation(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Start записывает начало обработки лида.
func (j *Journal) Start(leadID, name, apiKey string) {
	j.line(PhaseStart, fmt.Sprintf("lead_id=%s | name=%s | api_key=%s", leadID, name, apiKey))
}

// Done записывает успешное завершение обработки лида.
func (j *Journal) Done(leadID, name, apiKey string) {
	j.line(PhaseDone, fmt.Sprintf("lead_id=%s | name=%s | api_key=%s", leadID, name, apiKey))
}

// Skip записывает пропуск уже обработанного лида.
func (j *Journal) Skip(leadID, name string) {
	j.line(PhaseSkip, fmt.Sprintf("lead_id=%s | name=%s | reason=already_processed", leadID, name))
}

// Error записывает ошибку обработки лида.
// apiKey пуст, если ошибка случилась до выбора ключа — поле опускается.
func (j *Journal) Error(leadID, name, apiKey string) {
	fields := fmt.Sprintf("lead_id=%s | name=%s", leadID, name)
	if apiKey != "" {
		fields += " | api_key=" + apiKey
	}
	j.line(PhaseError, fields)
}

// Cycle записывает сводку цикла (текст из CycleSummary.String).
func (j *Journal) Cycle(summary string) {
	j.line(PhaseCycle, summary)
}

// line пишет одну строку журнала.
func (j *Journal) line(phase, fields string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	ts := time.Now().In(j.loc).Format(journalTimeFormat)
	fmt.Fprintf(j.w, "%s | %-5s | %s\n", ts, phase, fields)
}

// Close закрывает файл журнала, если он был открыт.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return nil
	}
	return j.file.Close()
}
