package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okian/propcast/internal/adapters/repository"
	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/pkg/logger"
)

const maxRefreshBody = 1 << 16

// RunsHandler serves run history and refreshes.
type RunsHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(deps Dependencies, l logger.Logger) *RunsHandler {
	return &RunsHandler{deps: deps, logger: l}
}

// refreshRequest is the optional body of POST /api/v1/refresh.
type refreshRequest struct {
	Seed  *int64 `json:"seed,omitempty"`
	Force bool   `json:"force,omitempty"`
}

type refreshResponse struct {
	Status    string              `json:"status"`
	Duplicate bool                `json:"duplicate"`
	Run       *repository.Summary `json:"run,omitempty"`
	RequestID string              `json:"request_id,omitempty"`
}

// HandleGet handles GET /api/v1/runs/{id} requests.
func (h *RunsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	run, err := h.deps.RunByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// HandleList handles GET /api/v1/runs?limit= requests.
func (h *RunsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit must be an integer", ErrBadRequest))
			return
		}
		limit = n
	}
	runs, err := h.deps.History(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if runs == nil {
		runs = []repository.Summary{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// HandleRefresh handles POST /api/v1/refresh requests. The refresh runs
// inline and answers 200 with the published run; with async=true it is
// queued and answers 202.
func (h *RunsHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var body refreshRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRefreshBody)).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	req := model.RefreshRequest{Reason: model.ReasonAPI, Seed: body.Seed, Force: body.Force}

	if async, _ := strconv.ParseBool(r.URL.Query().Get("async")); async {
		queued, err := h.deps.RequestRefresh(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, refreshResponse{Status: "queued", RequestID: queued.ID})
		return
	}

	run, dup, err := h.deps.Publish(r.Context(), req)
	if err != nil {
		h.logger.Warn(r.Context(), "refresh rejected", logger.Error(err))
		writeServiceError(w, err)
		return
	}
	summary := run.Summary()
	status := "published"
	if dup {
		status = "unchanged"
	}
	writeJSON(w, http.StatusOK, refreshResponse{Status: status, Duplicate: dup, Run: &summary})
}
