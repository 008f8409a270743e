package api

import (
	"net/http"
	"strconv"
)

const defaultResultsLimit = 100

// ListResults возвращает результаты скоринга.
// GET /api/v1/results?limit=N&offset=M
func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultResultsLimit)
	if err != nil {
		BadRequest(w, "invalid limit")
		return
	}

	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		BadRequest(w, "invalid offset")
		return
	}

	results, err := h.results.List(r.Context(), limit, offset)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	resp := make([]ResultResponse, len(results))
	for i, res := range results {
		resp[i] = ResultFromDomain(res)
	}

	List(w, resp, len(resp))
}

// GetResult возвращает результат скоринга по лиду.
// GET /api/v1/results/{lead_id}
func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	leadID := r.PathValue("lead_id")
	if leadID == "" {
		BadRequest(w, "lead_id is required")
		return
	}

	result, err := h.results.GetByLeadID(r.Context(), leadID)
	if HandleRepoError(w, h.logger, err, "result not found") {
		return
	}

	Success(w, ResultFromDomain(*result))
}

// queryInt читает неотрицательный целочисленный query-параметр.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return 0, strconv.ErrSyntax
	}
	return parsed, nil
}
