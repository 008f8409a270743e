package api

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"

	"github.com/wildnetedge/leadflow/internal/domain"
	"github.com/wildnetedge/leadflow/internal/telemetry"
)

// ProcessLeads выполняет one-shot обработку batch'а лидов из тела запроса.
// POST /api/v1/leads/process
//
// Лиды приходят в запросе, не из БД: endpoint используется для
// разовой обработки внешних списков в обход фонового цикла.
// Обработка синхронная, ответ содержит исход каждого лида.
func (h *Handler) ProcessLeads(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if len(req.Leads) == 0 {
		BadRequest(w, "leads is required")
		return
	}

	resp := ProcessResponse{Total: len(req.Leads)}
	for _, payload := range req.Leads {
		if payload.LeadID == "" {
			BadRequest(w, "lead_id is required for every lead")
			return
		}

		lead := payload.toDomain(req.WildnetData, req.ScoringCriteria, req.MessagePrompt)
		outcome := h.processOne(r.Context(), lead, req.APIKey)
		resp.Results = append(resp.Results, outcome)

		switch outcome.Outcome {
		case string(domain.OutcomeProcessed):
			resp.Processed++
		case string(domain.OutcomeSkipped):
			resp.Skipped++
		case string(domain.OutcomeNoKey):
			resp.NoKey++
		default:
			resp.Errors++
		}
	}

	Success(w, resp)
}

// ProcessLead обрабатывает один лид из тела запроса.
// POST /api/v1/leads/process-one
func (h *Handler) ProcessLead(w http.ResponseWriter, r *http.Request) {
	var req ProcessSingleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Lead.LeadID == "" {
		BadRequest(w, "lead_id is required")
		return
	}

	lead := req.Lead.toDomain(req.WildnetData, req.ScoringCriteria, req.MessagePrompt)
	outcome := h.processOne(r.Context(), lead, req.APIKey)

	switch outcome.Outcome {
	case string(domain.OutcomeNoKey):
		Error(w, http.StatusServiceUnavailable, ErrCodeInvalidState, "no api keys available")
	case string(domain.OutcomeError):
		InternalError(w, h.logger, nil)
	default:
		Success(w, outcome)
	}
}

// processOne проводит лид через тот же конвейер, что и фоновый цикл:
// idempotency guard, ключ, скоринг, запись, пометка.
// Непустой apiKey используется вместо выбора из пула.
func (h *Handler) processOne(ctx context.Context, lead domain.Lead, apiKey string) LeadOutcomeResponse {
	resp := LeadOutcomeResponse{LeadID: lead.LeadID, Name: lead.Name}
	logger := telemetry.FromContext(ctx)

	exists, err := h.results.Exists(ctx, lead.LeadID)
	if err != nil {
		logger.Debug("result existence check failed", "lead_id", lead.LeadID, "error", err)
	}
	if err == nil && exists {
		if err := h.leads.MarkSent(ctx, lead.LeadID); err != nil {
			logger.Debug("failed to mark lead sent on skip", "lead_id", lead.LeadID, "error", err)
		}
		resp.Outcome = string(domain.OutcomeSkipped)
		return resp
	}

	if apiKey == "" {
		var ok bool
		apiKey, ok = h.pickKey(ctx)
		if !ok {
			resp.Outcome = string(domain.OutcomeNoKey)
			return resp
		}
	}

	result, err := h.scorer.Score(ctx, lead, apiKey)
	if err != nil {
		logger.Error("lead processing failed",
			"lead_id", lead.LeadID,
			"name", lead.Name,
			"error", err,
		)
		resp.Outcome = string(domain.OutcomeError)
		resp.Error = err.Error()
		return resp
	}

	if err := h.results.Insert(ctx, result); err != nil {
		logger.Error("failed to insert result", "lead_id", lead.LeadID, "error", err)
		resp.Outcome = string(domain.OutcomeError)
		resp.Error = "failed to persist result"
		return resp
	}

	if err := h.leads.MarkSent(ctx, lead.LeadID); err != nil {
		logger.Warn("failed to mark lead sent", "lead_id", lead.LeadID, "error", err)
	}

	if h.publisher != nil {
		if err := h.publisher.PublishLeadProcessed(ctx, result); err != nil {
			logger.Warn("failed to publish lead.processed", "lead_id", lead.LeadID, "error", err)
		}
	}

	resp.Outcome = string(domain.OutcomeProcessed)
	resp.Score = result.Score
	resp.ShouldContact = result.ShouldContact
	return resp
}

// pickKey выбирает случайный ключ из пула.
func (h *Handler) pickKey(ctx context.Context) (string, bool) {
	creds, err := h.keys.List(ctx)
	if err != nil {
		h.logger.Warn("failed to list api keys", "error", err)
		return "", false
	}
	if len(creds) == 0 {
		return "", false
	}
	return creds[rand.IntN(len(creds))].APIKey, true
}
