// Package vectorindex adapts an embedded vector database into the
// per-owner wardrobe similarity index.
package vectorindex

import (
	"context"

	"github.com/okalli/garb/internal/domain/model"
	"github.com/okalli/garb/internal/domain/taxonomy"
)

// DefaultSearchK is how many matches a search returns unless the caller
// asks for a different count.
const DefaultSearchK = 10

// Match is a single similarity hit against an owner's wardrobe.
type Match struct {
	ID       string
	Score    float64
	Category taxonomy.Category
}

// Index is the searchable side of the ingestion pipeline. Implementations
// must be safe for concurrent use.
type Index interface {
	// Add inserts or replaces the document for one wardrobe item.
	Add(ctx context.Context, item model.WardrobeItem) error

	// Remove drops an item's document. Removing an unknown id is not
	// an error.
	Remove(ctx context.Context, ownerID, id string) error

	// Search returns up to k matches for the query text, best first.
	// A non-empty category restricts matches to that category.
	Search(ctx context.Context, ownerID, query string, k int, category taxonomy.Category) ([]Match, error)

	// Documents reports how many documents the index holds across all
	// owners.
	Documents() int
}
