package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	service "github.com/okian/propcast/internal/app"
	"github.com/okian/propcast/internal/domain/model"
)

// SlipsHandler draws slips from the latest board.
type SlipsHandler struct {
	deps Dependencies
}

// NewSlipsHandler creates a new slips handler.
func NewSlipsHandler(deps Dependencies) *SlipsHandler {
	return &SlipsHandler{deps: deps}
}

// HandleSlips handles GET /api/v1/slips requests. Query parameters:
// players, categories and directions are comma separated; seed, size and
// preset are single values.
func (h *SlipsHandler) HandleSlips(w http.ResponseWriter, r *http.Request) {
	q, err := parseSlipQuery(r.URL.Query())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	res, err := h.deps.Slips(q)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func parseSlipQuery(v url.Values) (service.SlipQuery, error) {
	q := service.SlipQuery{
		Players: splitList(v.Get("players")),
		Preset:  v.Get("preset"),
	}
	for _, s := range splitList(v.Get("categories")) {
		cat, err := model.ParseCategory(s)
		if err != nil {
			return q, fmt.Errorf("%w: %w", service.ErrValidation, err)
		}
		q.Categories = append(q.Categories, cat)
	}
	for _, s := range splitList(v.Get("directions")) {
		dir, err := model.ParseDirection(s)
		if err != nil {
			return q, fmt.Errorf("%w: %w", service.ErrValidation, err)
		}
		q.Directions = append(q.Directions, dir)
	}
	if s := v.Get("seed"); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return q, fmt.Errorf("%w: seed must be an integer", ErrBadRequest)
		}
		q.Seed = &seed
	}
	if s := v.Get("size"); s != "" {
		size, err := strconv.Atoi(s)
		if err != nil {
			return q, fmt.Errorf("%w: size must be an integer", ErrBadRequest)
		}
		q.Size = size
	}
	return q, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
