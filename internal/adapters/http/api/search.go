// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/okalli/garb/internal/domain/types"
)

// Default result counts for similarity search.
const (
	defaultSearchK    = 5
	defaultMaxSearchK = 50
)

// SearchDependencies defines the interface for similarity search.
type SearchDependencies interface {
	Search(ctx context.Context, ownerID, query string, k int) ([]types.SearchMatch, error)
}

// SearchHandler handles wardrobe similarity search requests.
type SearchHandler struct {
	deps SearchDependencies
	maxK int
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps SearchDependencies, maxK int) *SearchHandler {
	return &SearchHandler{deps: deps, maxK: maxK}
}

// HandleSearch handles GET /wardrobe/search?owner=&q=&k= requests.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	owner := strings.TrimSpace(r.URL.Query().Get("owner"))
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if owner == "" || query == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	k := defaultSearchK
	if raw := r.URL.Query().Get("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxK {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		k = n
	}

	matches, err := h.deps.Search(r.Context(), owner, query, k)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, matches)
}
