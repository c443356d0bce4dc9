// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okalli/garb/internal/domain/synthesis"
	"github.com/okalli/garb/internal/domain/types"
)

// ContextDependencies defines the interface for context preview requests.
type ContextDependencies interface {
	PreviewContext(ctx context.Context, q types.OutfitQuery) (types.DayContext, error)
}

// ContextHandler handles day-context preview requests.
type ContextHandler struct {
	deps ContextDependencies
}

// NewContextHandler creates a new context handler.
func NewContextHandler(deps ContextDependencies) *ContextHandler {
	return &ContextHandler{deps: deps}
}

// HandleContext handles POST /context requests. It runs synthesis only,
// so callers can inspect the directive a day would dress for without
// touching the wardrobe.
func (h *ContextHandler) HandleContext(w http.ResponseWriter, r *http.Request) {
	const op = "api.context"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	day, err := h.deps.PreviewContext(r.Context(), req.toQuery())
	if err != nil {
		if errors.Is(err, synthesis.ErrInvalidContext) {
			writeError(w, http.StatusBadRequest, "invalid_context", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, day)
}
