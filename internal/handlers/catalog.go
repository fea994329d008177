package handlers

import (
	"context"
	"net/http"
	"strconv"

	"logleet-backend/internal/services"
)

type catalogSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]services.CatalogProblem, error)
}

type CatalogHandler struct {
	catalog catalogSearcher
}

func NewCatalogHandler(catalog catalogSearcher) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Search powers problem-name autocomplete in the record form.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "limit must be between 1 and 100", r))
			return
		}
		limit = n
	}

	problems, err := h.catalog.Search(r.Context(), query, limit)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResp("UPSTREAM_ERROR", "Problem catalog is unavailable", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"problems": problems,
		"total":    len(problems),
	})
}
