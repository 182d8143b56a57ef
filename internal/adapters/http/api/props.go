package api

import (
	"net/http"
)

// PropsHandler serves the board, best props and hot & cold picks.
type PropsHandler struct {
	deps Dependencies
}

// NewPropsHandler creates a new props handler.
func NewPropsHandler(deps Dependencies) *PropsHandler {
	return &PropsHandler{deps: deps}
}

// HandleBestProps handles GET /api/v1/props requests.
func (h *PropsHandler) HandleBestProps(w http.ResponseWriter, _ *http.Request) {
	props, err := h.deps.BestProps()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, props)
}

// HandleBoard handles GET /api/v1/board?category= requests.
func (h *PropsHandler) HandleBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.deps.Board(r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// HandleHotCold handles GET /api/v1/hotcold requests.
func (h *PropsHandler) HandleHotCold(w http.ResponseWriter, _ *http.Request) {
	hc, err := h.deps.HotCold()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hc)
}
