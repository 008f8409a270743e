package domain

import (
	"fmt"
	"time"
)

// Outcome — результат одной попытки обработки лида в рамках цикла.
//
// Ровно один Outcome на лид за цикл. Только OutcomeProcessed и
// OutcomeSkipped переводят лид в settled; остальные оставляют его
// eligible для следующего цикла.
type Outcome string

const (
	// OutcomeProcessed — лид успешно обработан, результат записан.
	OutcomeProcessed Outcome = "processed"

	// OutcomeSkipped — у лида уже был результат (idempotency guard).
	OutcomeSkipped Outcome = "skipped"

	// OutcomeNoKey — пул API-ключей пуст, обработка не начиналась.
	OutcomeNoKey Outcome = "no_key"

	// OutcomeError — ошибка LLM-вызова или инфраструктуры.
	OutcomeError Outcome = "error"
)

// IsSettled возвращает true, если после этого Outcome лид
// больше не будет выбираться из store.
func (o Outcome) IsSettled() bool {
	return o == OutcomeProcessed || o == OutcomeSkipped
}

// CycleSummary — сводка одного цикла fetch-dispatch-settle.
type CycleSummary struct {
	// Total — количество лидов, полученных из store.
	Total int

	// Processed — успешно обработано.
	Processed int

	// Skipped — пропущено (уже был результат).
	Skipped int

	// NoKey — не обработано из-за пустого пула ключей.
	NoKey int

	// Errors — завершилось ошибкой.
	Errors int

	// Elapsed — длительность цикла (wall time).
	Elapsed time.Duration
}

// Add учитывает один Outcome в сводке.
func (s *CycleSummary) Add(o Outcome) {
	switch o {
	case OutcomeProcessed:
		s.Processed++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeNoKey:
		s.NoKey++
	default:
		s.Errors++
	}
}

// Counted возвращает сумму учтённых outcomes.
// Инвариант цикла: Counted() == Total.
func (s *CycleSummary) Counted() int {
	return s.Processed + s.Skipped + s.NoKey + s.Errors
}

// String возвращает стабильное текстовое представление для журнала.
func (s *CycleSummary) String() string {
	return fmt.Sprintf("total=%d, processed=%d, skipped=%d, no_key=%d, errors=%d, duration=%.2fs",
		s.Total, s.Processed, s.Skipped, s.NoKey, s.Errors, s.Elapsed.Seconds())
}
