// Package vectorindex adapts an embedded vector database into the
// per-owner wardrobe similarity index.
package vectorindex

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/okalli/garb/internal/domain/embedding"
	"github.com/okalli/garb/internal/domain/model"
	"github.com/okalli/garb/internal/domain/taxonomy"
	"github.com/okalli/garb/pkg/metrics"
)

// collectionPrefix namespaces wardrobe collections inside the database.
const collectionPrefix = "wardrobe-"

// ChromemIndex implements Index on chromem-go. Each owner gets their own
// collection so one owner's wardrobe never matches another's query.
type ChromemIndex struct {
	db       *chromem.DB
	embedder *embedding.Embedder
	path     string
	compress bool

	mu sync.Mutex // guards collection creation
}

// NewChromemIndex opens the index. Without a configured path the index
// lives in memory and empties on restart.
func NewChromemIndex(embedder *embedding.Embedder, opts ...Option) (*ChromemIndex, error) {
	if embedder == nil {
		return nil, ErrNoEmbedder
	}

	idx := &ChromemIndex{embedder: embedder}
	for _, opt := range opts {
		opt(idx)
	}

	if idx.path == "" {
		idx.db = chromem.NewDB()
		return idx, nil
	}
	if err := os.MkdirAll(idx.path, 0o755); err != nil {
		return nil, fmt.Errorf("vectorindex: create %s: %w", idx.path, err)
	}
	db, err := chromem.NewPersistentDB(idx.path, idx.compress)
	if err != nil {
		return nil, fmt.Errorf("vectorindex: open %s: %w", idx.path, err)
	}
	idx.db = db
	return idx, nil
}

// embedText adapts the deterministic embedder to chromem's query hook.
func (x *ChromemIndex) embedText() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return x.embedder.Text(text), nil
	}
}

func (x *ChromemIndex) collection(ownerID string) (*chromem.Collection, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrNoOwner
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	collection, err := x.db.GetOrCreateCollection(collectionPrefix+ownerID, nil, x.embedText())
	if err != nil {
		return nil, fmt.Errorf("vectorindex: collection for %s: %w", ownerID, err)
	}
	return collection, nil
}

// Add indexes one wardrobe item under its owner's collection. Items
// arriving without an embedding are embedded here.
func (x *ChromemIndex) Add(ctx context.Context, item model.WardrobeItem) error {
	start := time.Now()

	if strings.TrimSpace(item.ID) == "" {
		return fmt.Errorf("vectorindex: add: missing item id")
	}
	collection, err := x.collection(item.OwnerID)
	if err != nil {
		return err
	}

	vector := item.Embedding
	if len(vector) == 0 {
		vector = x.embedder.Item(item)
	}
	doc := chromem.Document{
		ID:        item.ID,
		Content:   documentText(item),
		Metadata:  documentMetadata(item),
		Embedding: vector,
	}
	if err := collection.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("vectorindex: add %s: %w", item.ID, err)
	}

	metrics.RecordIndexUpdateLatency(float64(time.Since(start).Milliseconds()))
	return nil
}

// Remove drops an item's document from its owner's collection.
func (x *ChromemIndex) Remove(ctx context.Context, ownerID, id string) error {
	start := time.Now()

	if strings.TrimSpace(ownerID) == "" {
		return ErrNoOwner
	}
	collection := x.db.GetCollection(collectionPrefix+ownerID, x.embedText())
	if collection == nil {
		return nil
	}
	if err := collection.Delete(ctx, nil, nil, id); err != nil {
		return fmt.Errorf("vectorindex: remove %s: %w", id, err)
	}

	metrics.RecordIndexUpdateLatency(float64(time.Since(start).Milliseconds()))
	return nil
}

// Search embeds the query text and returns the owner's nearest items.
func (x *ChromemIndex) Search(ctx context.Context, ownerID, query string, k int, category taxonomy.Category) ([]Match, error) {
	start := time.Now()

	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrNoOwner
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if k <= 0 {
		k = DefaultSearchK
	}

	collection := x.db.GetCollection(collectionPrefix+ownerID, x.embedText())
	if collection == nil {
		return nil, nil
	}
	// chromem rejects result counts above the collection size.
	if count := collection.Count(); count < k {
		k = count
	}
	if k == 0 {
		return nil, nil
	}

	var where map[string]string
	if category != "" {
		where = map[string]string{"category": string(category)}
	}
	results, err := collection.QueryEmbedding(ctx, x.embedder.Text(query), k, where, nil)
	if err != nil {
		return nil, fmt.Errorf("vectorindex: search for %s: %w", ownerID, err)
	}

	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{
			ID:       r.ID,
			Score:    float64(r.Similarity),
			Category: taxonomy.Category(r.Metadata["category"]),
		}
	}

	metrics.RecordIndexQueryLatency(float64(time.Since(start).Milliseconds()))
	return matches, nil
}

// Documents reports the total document count across all collections.
func (x *ChromemIndex) Documents() int {
	total := 0
	for _, collection := range x.db.ListCollections() {
		total += collection.Count()
	}
	return total
}

// documentText is the human-readable summary stored alongside the vector.
func documentText(item model.WardrobeItem) string {
	parts := []string{string(item.Category)}
	if item.Subcategory != "" {
		parts = append(parts, item.Subcategory)
	}
	for _, c := range item.Colors {
		parts = append(parts, string(c))
	}
	if item.Brand != "" {
		parts = append(parts, item.Brand)
	}
	return strings.Join(parts, " ")
}

func documentMetadata(item model.WardrobeItem) map[string]string {
	md := map[string]string{"category": string(item.Category)}
	if len(item.Seasons) > 0 {
		parts := make([]string, len(item.Seasons))
		for i, s := range item.Seasons {
			parts[i] = string(s)
		}
		md["seasons"] = strings.Join(parts, " ")
	}
	return md
}

// Ensure ChromemIndex implements Index.
var _ Index = (*ChromemIndex)(nil)
