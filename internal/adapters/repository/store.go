// Package repository defines the wardrobe store interface and errors.
package repository

import (
	"context"

	"github.com/okalli/garb/internal/domain/model"
	"github.com/okalli/garb/internal/domain/taxonomy"
)

// Filters narrows a wardrobe listing. Zero values mean "any".
type Filters struct {
	Category taxonomy.Category
	Season   taxonomy.Season
	Limit    int
}

// Store provides read/write access to persisted wardrobe items.
type Store interface {
	// Upsert inserts an item or replaces the stored version with the
	// same (owner, id).
	Upsert(ctx context.Context, item model.WardrobeItem) error

	// QueryByID returns a single item. Returns ErrNotFound if the owner
	// has no item with that id.
	QueryByID(ctx context.Context, ownerID, id string) (model.WardrobeItem, error)

	// QueryByFilters returns an owner's items matching the filters, in a
	// stable order.
	QueryByFilters(ctx context.Context, ownerID string, filters Filters) ([]model.WardrobeItem, error)

	// Delete removes an item. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, ownerID, id string) error

	// Count returns the number of stored items across all owners.
	Count(ctx context.Context) int

	// Owners returns the distinct owner ids with at least one item.
	Owners(ctx context.Context) ([]string, error)
}
