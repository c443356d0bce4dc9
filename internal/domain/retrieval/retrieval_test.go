package retrieval_test

import (
	"testing"

	"github.com/okalli/garb/internal/domain/embedding"
	"github.com/okalli/garb/internal/domain/model"
	"github.com/okalli/garb/internal/domain/retrieval"
	"github.com/okalli/garb/internal/domain/taxonomy"
	"github.com/smartystreets/goconvey/convey"
)

// withSpike returns a copy of v with one extra count in a position v
// leaves empty, yielding a vector similar but not parallel to v.
func withSpike(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	for i, x := range out {
		if x == 0 {
			out[i] = 1
			return out
		}
	}
	return out
}

func poolIDs(pool model.CandidatePool, c taxonomy.Category) []string {
	ids := []string{}
	for _, item := range pool[c] {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestRetrieve(t *testing.T) {
	convey.Convey("Given a retriever and a directive", t, func() {
		embedder := embedding.New()
		r := retrieval.New(embedder)
		directive := model.ContextDirective{
			Season:    taxonomy.SeasonSpring,
			Occasions: []taxonomy.Occasion{taxonomy.OccasionCasual},
			StyleBias: []taxonomy.Style{taxonomy.StyleCasual},
			Palette:   []taxonomy.Color{"green", "blue"},
		}
		query := embedder.Directive(directive)

		convey.Convey("When items carry stored embeddings", func() {
			wardrobe := []model.WardrobeItem{
				{ID: "top-close", OwnerID: "o", Category: taxonomy.CategoryTop, Formality: 1, Embedding: withSpike(query)},
				{ID: "top-exact", OwnerID: "o", Category: taxonomy.CategoryTop, Formality: 1, Embedding: append([]float32(nil), query...)},
				{ID: "top-zero", OwnerID: "o", Category: taxonomy.CategoryTop, Formality: 1, Embedding: make([]float32, embedder.Dimension())},
			}

			pool := r.Retrieve(directive, wardrobe, 5)

			convey.Convey("Then items rank by descending similarity", func() {
				convey.So(poolIDs(pool, taxonomy.CategoryTop), convey.ShouldResemble, []string{"top-exact", "top-close"})
			})

			convey.Convey("Then zero similarity items are omitted", func() {
				for _, id := range poolIDs(pool, taxonomy.CategoryTop) {
					convey.So(id, convey.ShouldNotEqual, "top-zero")
				}
			})
		})

		convey.Convey("When items lack embeddings", func() {
			wardrobe := []model.WardrobeItem{
				{ID: "tee-green", OwnerID: "o", Category: taxonomy.CategoryTop, Formality: 0,
					Colors: []taxonomy.Color{"green"}, Styles: []taxonomy.Style{taxonomy.StyleCasual}},
			}

			pool := r.Retrieve(directive, wardrobe, 5)

			convey.Convey("Then vectors are computed on the fly", func() {
				convey.So(pool.Count(taxonomy.CategoryTop), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When an item is out of season", func() {
			wardrobe := []model.WardrobeItem{
				{ID: "coat-winter", OwnerID: "o", Category: taxonomy.CategoryOuterwear, Formality: 1,
					Seasons: []taxonomy.Season{taxonomy.SeasonWinter}, Embedding: append([]float32(nil), query...)},
			}

			pool := r.Retrieve(directive, wardrobe, 5)

			convey.Convey("Then it is never retrieved, however similar", func() {
				convey.So(pool.Count(taxonomy.CategoryOuterwear), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When fewer items exist than k", func() {
			wardrobe := []model.WardrobeItem{
				{ID: "top-1", OwnerID: "o", Category: taxonomy.CategoryTop, Formality: 1, Embedding: append([]float32(nil), query...)},
			}

			pool := r.Retrieve(directive, wardrobe, 10)

			convey.Convey("Then all of them come back", func() {
				convey.So(pool.Count(taxonomy.CategoryTop), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When k truncates the ranking", func() {
			wardrobe := []model.WardrobeItem{
				{ID: "top-a", OwnerID: "o", Category: taxonomy.CategoryTop, Formality: 1, Embedding: append([]float32(nil), query...)},
				{ID: "top-b", OwnerID: "o", Category: taxonomy.CategoryTop, Formality: 1, Embedding: append([]float32(nil), query...)},
				{ID: "top-c", OwnerID: "o", Category: taxonomy.CategoryTop, Formality: 1, Embedding: append([]float32(nil), query...)},
			}

			pool := r.Retrieve(directive, wardrobe, 2)

			convey.Convey("Then only the top k remain", func() {
				convey.So(poolIDs(pool, taxonomy.CategoryTop), convey.ShouldResemble, []string{"top-a", "top-b"})
			})
		})
	})
}

func TestRetrieveTieBreaks(t *testing.T) {
	convey.Convey("Given equally similar items on a business day", t, func() {
		embedder := embedding.New()
		r := retrieval.New(embedder)
		directive := model.ContextDirective{
			Season:    taxonomy.SeasonSpring,
			Occasions: []taxonomy.Occasion{taxonomy.OccasionBusiness},
			Palette:   []taxonomy.Color{"gray"},
		}
		query := embedder.Directive(directive)

		convey.Convey("When formality fit differs", func() {
			wardrobe := []model.WardrobeItem{
				{ID: "top-relaxed", OwnerID: "o", Category: taxonomy.CategoryTop, Formality: 0, Embedding: append([]float32(nil), query...)},
				{ID: "top-sharp", OwnerID: "o", Category: taxonomy.CategoryTop, Formality: 2, Embedding: append([]float32(nil), query...)},
			}

			pool := r.Retrieve(directive, wardrobe, 5)

			convey.Convey("Then the better formality match ranks first", func() {
				convey.So(poolIDs(pool, taxonomy.CategoryTop), convey.ShouldResemble, []string{"top-sharp", "top-relaxed"})
			})
		})

		convey.Convey("When formality fit also ties", func() {
			wardrobe := []model.WardrobeItem{
				{ID: "top-b", OwnerID: "o", Category: taxonomy.CategoryTop, Formality: 2, Embedding: append([]float32(nil), query...)},
				{ID: "top-a", OwnerID: "o", Category: taxonomy.CategoryTop, Formality: 2, Embedding: append([]float32(nil), query...)},
			}

			pool := r.Retrieve(directive, wardrobe, 5)

			convey.Convey("Then ascending id decides", func() {
				convey.So(poolIDs(pool, taxonomy.CategoryTop), convey.ShouldResemble, []string{"top-a", "top-b"})
			})
		})
	})
}

func TestRetrieverDefaults(t *testing.T) {
	convey.Convey("Given a retriever built without an embedder", t, func() {
		r := retrieval.New(nil)
		directive := model.ContextDirective{
			Season:  taxonomy.SeasonSummer,
			Palette: []taxonomy.Color{"white"},
		}
		wardrobe := []model.WardrobeItem{
			{ID: "tee-white", OwnerID: "o", Category: taxonomy.CategoryTop, Colors: []taxonomy.Color{"white"}},
		}

		convey.Convey("When retrieving with a non-positive k", func() {
			pool := r.Retrieve(directive, wardrobe, 0)

			convey.Convey("Then defaults keep retrieval working", func() {
				convey.So(pool.Count(taxonomy.CategoryTop), convey.ShouldEqual, 1)
			})
		})
	})
}
