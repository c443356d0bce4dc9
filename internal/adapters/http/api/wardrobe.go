// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	service "github.com/okalli/garb/internal/app"
	"github.com/okalli/garb/internal/domain/taxonomy"
	"github.com/okalli/garb/internal/domain/types"
)

// Default caps for wardrobe endpoints.
const (
	defaultMaxBatchItems = 100
	defaultMaxListLimit  = 500
)

// WardrobeDependencies defines the interface for wardrobe operations.
type WardrobeDependencies interface {
	SubmitItems(ctx context.Context, ownerID string, subs []types.Submission) ([]types.SubmissionAck, error)
	ListItems(ctx context.Context, ownerID string, category taxonomy.Category, limit int) ([]types.Item, error)
	GetItem(ctx context.Context, ownerID, id string) (types.Item, error)
	DeleteItem(ctx context.Context, ownerID, id string) error
}

// WardrobeHandler handles wardrobe item requests.
type WardrobeHandler struct {
	deps     WardrobeDependencies
	maxBatch int
	maxLimit int
}

// NewWardrobeHandler creates a new wardrobe handler.
func NewWardrobeHandler(deps WardrobeDependencies, maxBatch, maxLimit int) *WardrobeHandler {
	return &WardrobeHandler{
		deps:     deps,
		maxBatch: maxBatch,
		maxLimit: maxLimit,
	}
}

// HandleItems handles POST and GET /wardrobe/items requests.
func (h *WardrobeHandler) HandleItems(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleSubmit(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *WardrobeHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_items"
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Items) > h.maxBatch {
		writeError(w, http.StatusBadRequest, "batch_too_large", NewKind(op, ErrBadRequest))
		return
	}

	acks, err := h.deps.SubmitItems(r.Context(), strings.TrimSpace(req.OwnerID), req.toSubmissions())
	if err != nil {
		if errors.Is(err, service.ErrQueueFull) {
			writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, submitResponse{Acks: acks})
}

func (h *WardrobeHandler) handleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_items"
	owner := strings.TrimSpace(r.URL.Query().Get("owner"))
	if owner == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	var category taxonomy.Category
	if raw := r.URL.Query().Get("category"); raw != "" {
		parsed, ok := taxonomy.ParseCategory(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		category = parsed
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}

	items, err := h.deps.ListItems(r.Context(), owner, category, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleItemByID handles GET and DELETE /wardrobe/items/{id} requests.
func (h *WardrobeHandler) HandleItemByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.item_by_id"
	// Extract path parameter after /wardrobe/items/
	id := strings.TrimPrefix(r.URL.Path, "/wardrobe/items/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	owner := strings.TrimSpace(r.URL.Query().Get("owner"))
	if owner == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	switch r.Method {
	case http.MethodGet:
		item, err := h.deps.GetItem(r.Context(), owner, id)
		if err != nil {
			if isNotFound(err) {
				writeError(w, http.StatusNotFound, "not_found", err)
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodDelete:
		if err := h.deps.DeleteItem(r.Context(), owner, id); err != nil {
			if isNotFound(err) {
				writeError(w, http.StatusNotFound, "not_found", err)
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}
