// Package retrieval ranks wardrobe items by similarity to the context
// directive. It supplies soft relevance ordering; hard eligibility stays
// with the filtering package.
package retrieval

import (
	"sort"

	"github.com/okalli/garb/internal/domain/embedding"
	"github.com/okalli/garb/internal/domain/model"
	"github.com/okalli/garb/internal/domain/taxonomy"
)

// DefaultTopK is the per-category result size used when the caller does
// not supply one.
const DefaultTopK = 5

// Retriever scores wardrobe items against a directive query embedding.
type Retriever struct {
	embedder *embedding.Embedder
}

// New creates a Retriever. A nil embedder falls back to the default one;
// callers sharing an embedder with ingestion should pass it explicitly so
// queries and stored vectors stay in one space.
func New(embedder *embedding.Embedder) *Retriever {
	if embedder == nil {
		embedder = embedding.New()
	}
	return &Retriever{embedder: embedder}
}

type scoredItem struct {
	item       model.WardrobeItem
	similarity float64
	bandDist   int
}

// Retrieve returns, per category, the top k items by cosine similarity to
// the directive, restricted to the directive's season. Items without a
// stored embedding are embedded on the fly. Ties break on formality fit
// to the day's occasions, then ascending item id. Items with no
// similarity at all are omitted; a category the retriever cannot rank is
// left to the rule-based pool.
func (r *Retriever) Retrieve(directive model.ContextDirective, wardrobe []model.WardrobeItem, k int) model.CandidatePool {
	if k <= 0 {
		k = DefaultTopK
	}
	query := r.embedder.Directive(directive)
	band := directive.FormalityBand()

	scored := make(map[taxonomy.Category][]scoredItem)
	for _, item := range wardrobe {
		if !item.WearableIn(directive.Season) {
			continue
		}
		vector := item.Embedding
		if len(vector) == 0 {
			vector = r.embedder.Item(item)
		}
		similarity := embedding.Cosine(query, vector)
		if similarity <= 0 {
			continue
		}
		scored[item.Category] = append(scored[item.Category], scoredItem{
			item:       item,
			similarity: similarity,
			bandDist:   bandDistance(band, item.Formality),
		})
	}

	pool := make(model.CandidatePool, len(scored))
	for category, items := range scored {
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].similarity != items[j].similarity {
				return items[i].similarity > items[j].similarity
			}
			if items[i].bandDist != items[j].bandDist {
				return items[i].bandDist < items[j].bandDist
			}
			return items[i].item.ID < items[j].item.ID
		})
		if len(items) > k {
			items = items[:k]
		}
		ranked := make([]model.WardrobeItem, len(items))
		for i, s := range items {
			ranked[i] = s.item
		}
		pool[category] = ranked
	}
	return pool
}

// bandDistance measures how far a formality rating sits from the band;
// zero means inside it.
func bandDistance(band taxonomy.FormalityBand, rating int) int {
	if band.Empty() {
		return 0
	}
	if rating < band.Min {
		return band.Min - rating
	}
	if rating > band.Max {
		return rating - band.Max
	}
	return 0
}
