package vectorindex

import "errors"

// Sentinel kinds for wardrobe index errors.
var (
	ErrNoEmbedder = errors.New("vector index requires an embedder")
	ErrNoOwner    = errors.New("owner id is required")
	ErrEmptyQuery = errors.New("search query is empty")
)
