package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/okalli/garb/internal/adapters/http/api"
	"github.com/okalli/garb/internal/adapters/repository"
	service "github.com/okalli/garb/internal/app"
	"github.com/okalli/garb/internal/domain/synthesis"
	"github.com/okalli/garb/internal/domain/taxonomy"
	"github.com/okalli/garb/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockService struct {
	seen         map[string]bool
	backpressure bool

	rec    types.Recommendation
	recErr error
	day    types.DayContext
	dayErr error

	items     map[string]types.Item
	matches   []types.SearchMatch
	searchErr error
	lastK     int
}

func newMockService() *mockService {
	return &mockService{
		seen:  make(map[string]bool),
		items: make(map[string]types.Item),
	}
}

func (m *mockService) SubmitItems(ctx context.Context, ownerID string, subs []types.Submission) ([]types.SubmissionAck, error) {
	acks := make([]types.SubmissionAck, 0, len(subs))
	for _, sub := range subs {
		id := sub.SubmissionID
		if id == "" {
			id = fmt.Sprintf("assigned-%d", len(m.seen))
		}
		if m.seen[id] {
			acks = append(acks, types.SubmissionAck{SubmissionID: id, Status: types.StatusDuplicate})
			continue
		}
		if m.backpressure {
			return acks, fmt.Errorf("%w: submission %s", service.ErrQueueFull, id)
		}
		m.seen[id] = true
		acks = append(acks, types.SubmissionAck{SubmissionID: id, Status: types.StatusQueued})
	}
	return acks, nil
}

func (m *mockService) Recommend(ctx context.Context, q types.OutfitQuery) (types.Recommendation, error) {
	if m.recErr != nil {
		return types.Recommendation{}, m.recErr
	}
	return m.rec, nil
}

func (m *mockService) PreviewContext(ctx context.Context, q types.OutfitQuery) (types.DayContext, error) {
	if m.dayErr != nil {
		return types.DayContext{}, m.dayErr
	}
	return m.day, nil
}

func (m *mockService) ListItems(ctx context.Context, ownerID string, category taxonomy.Category, limit int) ([]types.Item, error) {
	var out []types.Item
	for _, item := range m.items {
		if item.OwnerID != ownerID {
			continue
		}
		if category != "" && item.Category != string(category) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockService) GetItem(ctx context.Context, ownerID, id string) (types.Item, error) {
	item, ok := m.items[id]
	if !ok || item.OwnerID != ownerID {
		return types.Item{}, repository.ErrNotFound
	}
	return item, nil
}

func (m *mockService) DeleteItem(ctx context.Context, ownerID, id string) error {
	item, ok := m.items[id]
	if !ok || item.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockService) Search(ctx context.Context, ownerID, query string, k int) ([]types.SearchMatch, error) {
	m.lastK = k
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.matches, nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

// Local decode targets for unexported wire shapes.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type submitResponse struct {
	Acks []types.SubmissionAck `json:"acks"`
}

const validRecommendBody = `{
	"owner_id": "owner-1",
	"date": "2026-07-10",
	"location": "Lisbon",
	"mood": "neutral",
	"forecast": {"temp_min_c": 22, "temp_max_c": 28, "precipitation": 0.1, "wind_kph": 8, "condition": "clear"}
}`

const validSubmitBody = `{
	"owner_id": "owner-1",
	"items": [
		{"submission_id": "sub-top", "item": {"category": "top", "subcategory": "tee", "colors": ["navy"]}},
		{"submission_id": "sub-shoe", "item": {"category": "footwear", "subcategory": "sneakers", "colors": ["white"]}}
	]
}`

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := newMockService()
		statsProvider := &mockStatsProvider{}
		server := api.NewServer(deps, statsProvider)
		mux := http.NewServeMux()

		Convey("When registering routes", func() {
			server.Register(context.Background(), mux)

			Convey("Then all expected routes should be registered", func() {
				So(mux, ShouldNotBeNil)
			})

			Convey("And health endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/healthz", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And stats endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/stats", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And recommend endpoint should be accessible", func() {
				req := httptest.NewRequest("POST", "/recommend", strings.NewReader(`{}`))
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest) // Invalid request
			})

			Convey("And context endpoint should be accessible", func() {
				req := httptest.NewRequest("POST", "/context", strings.NewReader(`{}`))
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest) // Invalid request
			})

			Convey("And wardrobe items endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/wardrobe/items?owner=owner-1", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And wardrobe search endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/wardrobe/search?owner=owner-1&q=navy", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And root endpoint should catch everything else", func() {
				req := httptest.NewRequest("GET", "/unknown", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("And dashboard endpoint should serve HTML with refresh control", func() {
				req := httptest.NewRequest("GET", "/dashboard", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
				body := w.Body.String()
				So(body, ShouldContainSubstring, "id=\"refresh-interval\"")
				So(body, ShouldContainSubstring, "id=\"refresh-control\"")
			})
		})
	})
}

func TestRecommendHandler_HandleRecommend(t *testing.T) {
	Convey("Given a recommend handler", t, func() {
		deps := newMockService()
		deps.rec = types.Recommendation{
			Context: types.DayContext{Date: "2026-07-10", Season: "summer", Mood: "neutral", Occasions: []string{"casual"}},
			Outfits: []types.RecommendedOutfit{
				{
					Rank:    1,
					Score:   0.82,
					Harmony: 0.85,
					Items: []types.OutfitItem{
						{ID: "sub-top", Category: "top"},
						{ID: "sub-bottom", Category: "bottom"},
						{ID: "sub-shoe", Category: "footwear"},
					},
				},
			},
		}
		handler := api.NewRecommendHandler(deps)

		Convey("When handling a valid POST request", func() {
			req := httptest.NewRequest("POST", "/recommend", strings.NewReader(validRecommendBody))
			w := httptest.NewRecorder()

			Convey("Then it should return the recommendation", func() {
				handler.HandleRecommend(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response types.Recommendation
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Context.Season, ShouldEqual, "summer")
				So(response.Outfits, ShouldHaveLength, 1)
				So(response.Outfits[0].Rank, ShouldEqual, 1)
				So(response.Outfits[0].Items, ShouldHaveLength, 3)
			})
		})

		Convey("When handling an invalid JSON request", func() {
			req := httptest.NewRequest("POST", "/recommend", strings.NewReader(`{invalid json`))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request status", func() {
				handler.HandleRecommend(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the owner is missing", func() {
			body := `{"date": "2026-07-10"}`
			req := httptest.NewRequest("POST", "/recommend", strings.NewReader(body))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request with the field named", func() {
				handler.HandleRecommend(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "bad_request")
				So(response.Message, ShouldContainSubstring, "missing owner_id")
			})
		})

		Convey("When the date is missing", func() {
			body := `{"owner_id": "owner-1"}`
			req := httptest.NewRequest("POST", "/recommend", strings.NewReader(body))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request with the field named", func() {
				handler.HandleRecommend(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Message, ShouldContainSubstring, "missing date")
			})
		})

		Convey("When the date is malformed", func() {
			body := `{"owner_id": "owner-1", "date": "July 10th"}`
			req := httptest.NewRequest("POST", "/recommend", strings.NewReader(body))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request", func() {
				handler.HandleRecommend(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Message, ShouldContainSubstring, "invalid date")
			})
		})

		Convey("When an event has a malformed start time", func() {
			body := `{
				"owner_id": "owner-1",
				"date": "2026-07-10",
				"events": [{"title": "Standup", "start": "9am"}]
			}`
			req := httptest.NewRequest("POST", "/recommend", strings.NewReader(body))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request", func() {
				handler.HandleRecommend(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Message, ShouldContainSubstring, "invalid start on event 0")
			})
		})

		Convey("When the synthesizer rejects the context", func() {
			deps.recErr = fmt.Errorf("%w: missing weather forecast", synthesis.ErrInvalidContext)
			req := httptest.NewRequest("POST", "/recommend", strings.NewReader(validRecommendBody))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request with invalid_context code", func() {
				handler.HandleRecommend(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "invalid_context")
			})
		})

		Convey("When the service fails", func() {
			deps.recErr = errors.New("store unavailable")
			req := httptest.NewRequest("POST", "/recommend", strings.NewReader(validRecommendBody))
			w := httptest.NewRecorder()

			Convey("Then it should return internal server error", func() {
				handler.HandleRecommend(w, req)
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})

		Convey("When handling a non-POST request", func() {
			req := httptest.NewRequest("GET", "/recommend", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandleRecommend(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestContextHandler_HandleContext(t *testing.T) {
	Convey("Given a context handler", t, func() {
		deps := newMockService()
		deps.day = types.DayContext{
			Date:              "2026-11-03",
			Season:            "autumn",
			Mood:              "neutral",
			Occasions:         []string{"business"},
			FormalityMin:      2,
			FormalityMax:      3,
			NeedsOuterwear:    true,
			NeedsRainFootwear: true,
		}
		handler := api.NewContextHandler(deps)

		Convey("When handling a valid POST request", func() {
			req := httptest.NewRequest("POST", "/context", strings.NewReader(validRecommendBody))
			w := httptest.NewRecorder()

			Convey("Then it should return the synthesized context", func() {
				handler.HandleContext(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response types.DayContext
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Season, ShouldEqual, "autumn")
				So(response.NeedsOuterwear, ShouldBeTrue)
				So(response.Occasions, ShouldContain, "business")
			})
		})

		Convey("When the synthesizer rejects the context", func() {
			deps.dayErr = fmt.Errorf("%w: precipitation out of range", synthesis.ErrInvalidContext)
			req := httptest.NewRequest("POST", "/context", strings.NewReader(validRecommendBody))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request with invalid_context code", func() {
				handler.HandleContext(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "invalid_context")
			})
		})

		Convey("When handling a non-POST request", func() {
			req := httptest.NewRequest("GET", "/context", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandleContext(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestWardrobeHandler_SubmitItems(t *testing.T) {
	Convey("Given a wardrobe handler", t, func() {
		deps := newMockService()
		handler := api.NewWardrobeHandler(deps, 100, 500)

		Convey("When submitting a valid batch", func() {
			req := httptest.NewRequest("POST", "/wardrobe/items", strings.NewReader(validSubmitBody))
			w := httptest.NewRecorder()

			Convey("Then it should return accepted with per-item acks", func() {
				handler.HandleItems(w, req)
				So(w.Code, ShouldEqual, http.StatusAccepted)

				var response submitResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Acks, ShouldHaveLength, 2)
				So(response.Acks[0].SubmissionID, ShouldEqual, "sub-top")
				So(response.Acks[0].Status, ShouldEqual, "queued")
				So(response.Acks[1].Status, ShouldEqual, "queued")
			})
		})

		Convey("When submitting the same batch twice", func() {
			req1 := httptest.NewRequest("POST", "/wardrobe/items", strings.NewReader(validSubmitBody))
			w1 := httptest.NewRecorder()
			handler.HandleItems(w1, req1)

			req2 := httptest.NewRequest("POST", "/wardrobe/items", strings.NewReader(validSubmitBody))
			w2 := httptest.NewRecorder()

			Convey("Then the second batch should be acknowledged as duplicates", func() {
				handler.HandleItems(w2, req2)
				So(w2.Code, ShouldEqual, http.StatusAccepted)

				var response submitResponse
				err := json.NewDecoder(w2.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Acks, ShouldHaveLength, 2)
				So(response.Acks[0].Status, ShouldEqual, "duplicate")
				So(response.Acks[1].Status, ShouldEqual, "duplicate")
			})
		})

		Convey("When the ingestion queue is full", func() {
			deps.backpressure = true
			req := httptest.NewRequest("POST", "/wardrobe/items", strings.NewReader(validSubmitBody))
			w := httptest.NewRecorder()

			Convey("Then it should return too many requests status", func() {
				handler.HandleItems(w, req)
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "backpressure")
			})
		})

		Convey("When handling an invalid JSON request", func() {
			req := httptest.NewRequest("POST", "/wardrobe/items", strings.NewReader(`{invalid`))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request status", func() {
				handler.HandleItems(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the owner is missing", func() {
			body := `{"items": [{"item": {"category": "top"}}]}`
			req := httptest.NewRequest("POST", "/wardrobe/items", strings.NewReader(body))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request", func() {
				handler.HandleItems(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Message, ShouldContainSubstring, "missing owner_id")
			})
		})

		Convey("When the batch is empty", func() {
			body := `{"owner_id": "owner-1", "items": []}`
			req := httptest.NewRequest("POST", "/wardrobe/items", strings.NewReader(body))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request", func() {
				handler.HandleItems(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Message, ShouldContainSubstring, "missing items")
			})
		})

		Convey("When an item has no category", func() {
			body := `{"owner_id": "owner-1", "items": [{"item": {"colors": ["navy"]}}]}`
			req := httptest.NewRequest("POST", "/wardrobe/items", strings.NewReader(body))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request naming the item", func() {
				handler.HandleItems(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Message, ShouldContainSubstring, "item 0 missing category")
			})
		})

		Convey("When the batch exceeds the cap", func() {
			small := api.NewWardrobeHandler(deps, 1, 500)
			req := httptest.NewRequest("POST", "/wardrobe/items", strings.NewReader(validSubmitBody))
			w := httptest.NewRecorder()

			Convey("Then it should return batch_too_large", func() {
				small.HandleItems(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "batch_too_large")
			})
		})
	})
}

func TestWardrobeHandler_ListItems(t *testing.T) {
	Convey("Given a wardrobe handler with stored items", t, func() {
		deps := newMockService()
		deps.items["item-a"] = types.Item{ID: "item-a", OwnerID: "owner-1", Category: "top"}
		deps.items["item-b"] = types.Item{ID: "item-b", OwnerID: "owner-1", Category: "bottom"}
		deps.items["item-c"] = types.Item{ID: "item-c", OwnerID: "owner-1", Category: "footwear"}
		deps.items["item-x"] = types.Item{ID: "item-x", OwnerID: "owner-2", Category: "top"}
		handler := api.NewWardrobeHandler(deps, 100, 500)

		Convey("When listing an owner's wardrobe", func() {
			req := httptest.NewRequest("GET", "/wardrobe/items?owner=owner-1", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return only that owner's items", func() {
				handler.HandleItems(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response []types.Item
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response, ShouldHaveLength, 3)
			})
		})

		Convey("When narrowing to a category", func() {
			req := httptest.NewRequest("GET", "/wardrobe/items?owner=owner-1&category=top", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return just that category", func() {
				handler.HandleItems(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response []types.Item
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response, ShouldHaveLength, 1)
				So(response[0].ID, ShouldEqual, "item-a")
			})
		})

		Convey("When the category uses an alias", func() {
			req := httptest.NewRequest("GET", "/wardrobe/items?owner=owner-1&category=tops", nil)
			w := httptest.NewRecorder()

			Convey("Then it should normalize and match", func() {
				handler.HandleItems(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response []types.Item
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response, ShouldHaveLength, 1)
			})
		})

		Convey("When the category is unknown", func() {
			req := httptest.NewRequest("GET", "/wardrobe/items?owner=owner-1&category=spacesuit", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return bad request", func() {
				handler.HandleItems(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When limiting the result count", func() {
			req := httptest.NewRequest("GET", "/wardrobe/items?owner=owner-1&limit=2", nil)
			w := httptest.NewRecorder()

			Convey("Then it should cap the list", func() {
				handler.HandleItems(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response []types.Item
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response, ShouldHaveLength, 2)
			})
		})

		Convey("When the limit is not a positive number", func() {
			req := httptest.NewRequest("GET", "/wardrobe/items?owner=owner-1&limit=0", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return bad request", func() {
				handler.HandleItems(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the limit exceeds the cap", func() {
			req := httptest.NewRequest("GET", "/wardrobe/items?owner=owner-1&limit=1000", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return limit_exceeded", func() {
				handler.HandleItems(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "limit_exceeded")
			})
		})

		Convey("When the owner is missing", func() {
			req := httptest.NewRequest("GET", "/wardrobe/items", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return bad request", func() {
				handler.HandleItems(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestWardrobeHandler_ItemByID(t *testing.T) {
	Convey("Given a wardrobe handler with a stored item", t, func() {
		deps := newMockService()
		deps.items["item-a"] = types.Item{ID: "item-a", OwnerID: "owner-1", Category: "top", Subcategory: "tee"}
		handler := api.NewWardrobeHandler(deps, 100, 500)

		Convey("When fetching an existing item", func() {
			req := httptest.NewRequest("GET", "/wardrobe/items/item-a?owner=owner-1", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return the item", func() {
				handler.HandleItemByID(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")

				var response types.Item
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.ID, ShouldEqual, "item-a")
				So(response.Subcategory, ShouldEqual, "tee")
			})
		})

		Convey("When fetching a non-existent item", func() {
			req := httptest.NewRequest("GET", "/wardrobe/items/no-such?owner=owner-1", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandleItemByID(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When fetching with the wrong owner", func() {
			req := httptest.NewRequest("GET", "/wardrobe/items/item-a?owner=owner-2", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandleItemByID(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When deleting an existing item", func() {
			req := httptest.NewRequest("DELETE", "/wardrobe/items/item-a?owner=owner-1", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return no content and remove the item", func() {
				handler.HandleItemByID(w, req)
				So(w.Code, ShouldEqual, http.StatusNoContent)

				again := httptest.NewRequest("DELETE", "/wardrobe/items/item-a?owner=owner-1", nil)
				w2 := httptest.NewRecorder()
				handler.HandleItemByID(w2, again)
				So(w2.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the owner is missing", func() {
			req := httptest.NewRequest("GET", "/wardrobe/items/item-a", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return bad request", func() {
				handler.HandleItemByID(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the path has extra segments", func() {
			req := httptest.NewRequest("GET", "/wardrobe/items/item-a/extra?owner=owner-1", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return bad request", func() {
				handler.HandleItemByID(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When using an unsupported method", func() {
			req := httptest.NewRequest("PUT", "/wardrobe/items/item-a?owner=owner-1", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandleItemByID(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestSearchHandler_HandleSearch(t *testing.T) {
	Convey("Given a search handler", t, func() {
		deps := newMockService()
		deps.matches = []types.SearchMatch{
			{Item: types.Item{ID: "item-a", OwnerID: "owner-1", Category: "top"}, Score: 0.92},
			{Item: types.Item{ID: "item-b", OwnerID: "owner-1", Category: "top"}, Score: 0.41},
		}
		handler := api.NewSearchHandler(deps, 50)

		Convey("When searching with a query", func() {
			req := httptest.NewRequest("GET", "/wardrobe/search?owner=owner-1&q=navy+tee&k=2", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return scored matches", func() {
				handler.HandleSearch(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response []types.SearchMatch
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response, ShouldHaveLength, 2)
				So(response[0].Item.ID, ShouldEqual, "item-a")
				So(response[0].Score, ShouldBeGreaterThan, response[1].Score)
			})
		})

		Convey("When no k is given", func() {
			req := httptest.NewRequest("GET", "/wardrobe/search?owner=owner-1&q=navy", nil)
			w := httptest.NewRecorder()

			Convey("Then the default should apply", func() {
				handler.HandleSearch(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastK, ShouldEqual, 5)
			})
		})

		Convey("When the query is missing", func() {
			req := httptest.NewRequest("GET", "/wardrobe/search?owner=owner-1", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return bad request", func() {
				handler.HandleSearch(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When k is not a positive number", func() {
			req := httptest.NewRequest("GET", "/wardrobe/search?owner=owner-1&q=navy&k=0", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return bad request", func() {
				handler.HandleSearch(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When k exceeds the cap", func() {
			req := httptest.NewRequest("GET", "/wardrobe/search?owner=owner-1&q=navy&k=99", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return limit_exceeded", func() {
				handler.HandleSearch(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "limit_exceeded")
			})
		})

		Convey("When the index fails", func() {
			deps.searchErr = errors.New("index unavailable")
			req := httptest.NewRequest("GET", "/wardrobe/search?owner=owner-1&q=navy", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return internal server error", func() {
				handler.HandleSearch(w, req)
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestHealthHandler_HandleHealth(t *testing.T) {
	Convey("Given a health handler", t, func() {
		handler := api.NewHealthHandler()

		Convey("When handling health check request", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return OK status", func() {
				handler.HandleHealth(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestStatsHandler_HandleStats(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		mockStats := &mockStatsProvider{
			stats: map[string]interface{}{
				"wardrobeItems": 42,
				"queueLength":   3,
			},
		}
		handler := api.NewStatsHandler(mockStats)

		Convey("When handling stats request", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return stats", func() {
				handler.HandleStats(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response map[string]interface{}
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response["wardrobeItems"], ShouldEqual, 42)
				So(response["queueLength"], ShouldEqual, 3)
			})
		})
	})
}
