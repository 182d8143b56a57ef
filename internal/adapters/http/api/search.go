package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SearchHandler looks players up by name.
type SearchHandler struct {
	deps Dependencies
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps Dependencies) *SearchHandler {
	return &SearchHandler{deps: deps}
}

// HandlePlayer handles GET /api/v1/players/{name} requests.
func (h *SearchHandler) HandlePlayer(w http.ResponseWriter, r *http.Request) {
	rows, err := h.deps.SearchPlayer(chi.URLParam(r, "name"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleEsports handles GET /api/v1/esports/{name} requests. A name with no
// line answers 404.
func (h *SearchHandler) HandleEsports(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.SearchEsports(chi.URLParam(r, "name"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !res.Found() {
		writeError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
