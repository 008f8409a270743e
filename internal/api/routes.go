package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux, allowedOrigins []string) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		RequestID(),
		Logging(h.logger),
		CORS(allowedOrigins),
	)

	// Processing
	mux.Handle("POST /api/v1/leads/process", chain(http.HandlerFunc(h.ProcessLeads)))
	mux.Handle("POST /api/v1/leads/process-one", chain(http.HandlerFunc(h.ProcessLead)))

	// Leads
	mux.Handle("GET /api/v1/leads/eligible", chain(http.HandlerFunc(h.ListEligibleLeads)))
	mux.Handle("GET /api/v1/leads/eligible/count", chain(http.HandlerFunc(h.CountEligibleLeads)))
	mux.Handle("POST /api/v1/leads/enqueue", chain(http.HandlerFunc(h.EnqueueLeads)))

	// Results
	mux.Handle("GET /api/v1/results", chain(http.HandlerFunc(h.ListResults)))
	mux.Handle("GET /api/v1/results/{lead_id}", chain(http.HandlerFunc(h.GetResult)))

	// Health
	mux.Handle("GET /healthz", http.HandlerFunc(h.Healthz))
}

// Healthz — liveness probe.
// GET /healthz
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
