package api

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// ListEligibleLeads возвращает лиды, ожидающие обработки.
// GET /api/v1/leads/eligible?limit=N
func (h *Handler) ListEligibleLeads(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			BadRequest(w, "invalid limit")
			return
		}
		limit = parsed
	}

	leads, err := h.leads.ListEligible(r.Context(), limit)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]LeadResponse, len(leads))
	for i, l := range leads {
		result[i] = LeadFromDomain(l)
	}

	List(w, result, len(result))
}

// CountEligibleLeads возвращает размер backlog'а.
// GET /api/v1/leads/eligible/count
func (h *Handler) CountEligibleLeads(w http.ResponseWriter, r *http.Request) {
	count, err := h.leads.CountEligible(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	Success(w, map[string]int{"count": count})
}

// EnqueueLeadsRequest — уведомление о новых лидах в БД.
type EnqueueLeadsRequest struct {
	LeadIDs []string `json:"lead_ids"`
}

// EnqueueLeads публикует lead.enqueued, чтобы worker не ждал
// окончания poll-паузы. Лиды уже должны быть в БД: событие
// только будит цикл, сам fetch идёт через ListEligible.
// POST /api/v1/leads/enqueue
func (h *Handler) EnqueueLeads(w http.ResponseWriter, r *http.Request) {
	var req EnqueueLeadsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if len(req.LeadIDs) == 0 {
		BadRequest(w, "lead_ids is required")
		return
	}

	if h.publisher == nil {
		Error(w, http.StatusServiceUnavailable, ErrCodeInvalidState, "message queue unavailable")
		return
	}

	if err := h.publisher.PublishLeadEnqueued(r.Context(), req.LeadIDs); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, map[string]int{"enqueued": len(req.LeadIDs)})
}
