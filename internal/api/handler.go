// Package api exposes the query compiler over HTTP.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bizatlas/internal/domain"
	"bizatlas/internal/middleware"
	"bizatlas/internal/service"
)

// Handler holds the services the HTTP endpoints need.
type Handler struct {
	query  *service.QueryService
	logger *slog.Logger
}

// NewHandler builds a Handler.
func NewHandler(query *service.QueryService, logger *slog.Logger) *Handler {
	return &Handler{query: query, logger: logger}
}

// Routes mounts the query endpoints on the router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/query/validate", h.validateQuery)
	r.Post("/query/compile", h.compileQuery)
	r.Post("/query/execute", h.executeQuery)
	r.Get("/query/history", h.queryHistory)
}

// validateQuery is the dry-run endpoint: structural feedback without
// compiling or executing anything.
func (h *Handler) validateQuery(w http.ResponseWriter, r *http.Request) {
	dsl, ok := h.decodeDSL(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.query.Validate(dsl))
}

func (h *Handler) compileQuery(w http.ResponseWriter, r *http.Request) {
	dsl, ok := h.decodeDSL(w, r)
	if !ok {
		return
	}

	compiled, err := h.query.Compile(dsl)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, compiled)
}

func (h *Handler) executeQuery(w http.ResponseWriter, r *http.Request) {
	dsl, ok := h.decodeDSL(w, r)
	if !ok {
		return
	}

	requestID := middleware.RequestIDFromContext(r.Context())
	out, err := h.query.Execute(r.Context(), requestID, dsl)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) queryHistory(w http.ResponseWriter, r *http.Request) {
	filter := domain.QueryHistoryFilter{}
	if intent := r.URL.Query().Get("intent"); intent != "" {
		filter.Intent = &intent
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			h.writeError(w, r, domain.ErrValidation("limit must be a non-negative integer"))
			return
		}
		filter.Limit = n
	}
	if offset := r.URL.Query().Get("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			h.writeError(w, r, domain.ErrValidation("offset must be a non-negative integer"))
			return
		}
		filter.Offset = n
	}

	entries, err := h.query.History(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []domain.QueryHistoryEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

func (h *Handler) decodeDSL(w http.ResponseWriter, r *http.Request) (domain.FilterDSL, bool) {
	var dsl domain.FilterDSL
	if err := json.NewDecoder(r.Body).Decode(&dsl); err != nil {
		h.writeError(w, r, domain.ErrValidation("invalid request body: %v", err))
		return domain.FilterDSL{}, false
	}
	return dsl, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
