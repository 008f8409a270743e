package worker

import (
	"context"
	"fmt"

	"github.com/wildnetedge/leadflow/internal/domain"
	"github.com/wildnetedge/leadflow/internal/telemetry"
)

// runLead выполняет полную последовательность обработки одного лида
// и сводит любой исход к Outcome. Ошибки никогда не поднимаются
// к циклу: каждый лид даёт ровно один Outcome.
func (w *Worker) runLead(ctx context.Context, lead domain.Lead) domain.Outcome {
	logger := telemetry.WithLeadID(w.logger, lead.LeadID)

	// 1. Idempotency guard: если результат уже записан — лид settled.
	// Ошибка проверки трактуется как «результата нет»: проверка
	// идемпотентна и безопасно повторится в следующем цикле.
	exists, err := w.results.Exists(ctx, lead.LeadID)
	if err != nil {
		logger.Debug("result existence check failed", "error", err)
	}
	if err == nil && exists {
		// Пометка settled — best-effort.
		if err := w.leads.MarkSent(ctx, lead.LeadID); err != nil {
			logger.Debug("failed to mark lead sent on skip", "error", err)
		}
		w.journal.Skip(lead.LeadID, lead.Name)
		return domain.OutcomeSkipped
	}

	// 2. Выбор API-ключа. Пустой пул — не ошибка: лид молча
	// останется eligible до следующего цикла.
	apiKey, ok := w.pickKey(ctx)
	if !ok {
		return domain.OutcomeNoKey
	}

	w.journal.Start(lead.LeadID, lead.Name, apiKey)

	if err := w.processLead(ctx, lead, apiKey); err != nil {
		logger.Error("lead processing failed", "name", lead.Name, "error", err)
		w.journal.Error(lead.LeadID, lead.Name, apiKey)
		return domain.OutcomeError
	}

	w.journal.Done(lead.LeadID, lead.Name, apiKey)
	return domain.OutcomeProcessed
}

// processLead вызывает LLM и фиксирует результат в store.
func (w *Worker) processLead(ctx context.Context, lead domain.Lead, apiKey string) error {
	result, err := w.scorer.Score(ctx, lead, apiKey)
	if err != nil {
		return fmt.Errorf("score lead: %w", err)
	}

	if err := w.results.Insert(ctx, result); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}

	// Результат уже записан: если пометка не удалась, guard пропустит
	// лид в следующем цикле и пометит повторно.
	if err := w.leads.MarkSent(ctx, lead.LeadID); err != nil {
		w.logger.Warn("failed to mark lead sent",
			"lead_id", lead.LeadID,
			"error", err,
		)
	}

	w.publishProcessed(ctx, result)
	return nil
}

// publishProcessed публикует событие lead.processed (best-effort).
func (w *Worker) publishProcessed(ctx context.Context, result *domain.LeadResult) {
	if w.publisher == nil {
		return
	}

	if err := w.publisher.PublishLeadProcessed(ctx, result); err != nil {
		// Не фатально: результат уже в БД, событие потеряно только для MQ.
		w.logger.Warn("failed to publish lead.processed",
			"lead_id", result.LeadID,
			"error", err,
		)
	}
}
