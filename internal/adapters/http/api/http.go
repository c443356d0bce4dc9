// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/okalli/garb/internal/adapters/repository"
	"github.com/okalli/garb/internal/domain/model"
	"github.com/okalli/garb/internal/domain/taxonomy"
	"github.com/okalli/garb/internal/domain/types"
)

// dateLayout is the wire format for request dates.
const dateLayout = "2006-01-02"

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// SubmitItems queues raw wardrobe submissions for async ingestion.
	SubmitItems(ctx context.Context, ownerID string, subs []types.Submission) ([]types.SubmissionAck, error)

	// Recommendation operations.
	Recommend(ctx context.Context, q types.OutfitQuery) (types.Recommendation, error)
	PreviewContext(ctx context.Context, q types.OutfitQuery) (types.DayContext, error)

	// Wardrobe read and delete operations.
	ListItems(ctx context.Context, ownerID string, category taxonomy.Category, limit int) ([]types.Item, error)
	GetItem(ctx context.Context, ownerID, id string) (types.Item, error)
	DeleteItem(ctx context.Context, ownerID, id string) error
	Search(ctx context.Context, ownerID, query string, k int) ([]types.SearchMatch, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	recommendHandler *RecommendHandler
	contextHandler   *ContextHandler
	wardrobeHandler  *WardrobeHandler
	searchHandler    *SearchHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		recommendHandler: NewRecommendHandler(deps),
		contextHandler:   NewContextHandler(deps),
		wardrobeHandler:  NewWardrobeHandler(deps, defaultMaxBatchItems, defaultMaxListLimit),
		searchHandler:    NewSearchHandler(deps, defaultMaxSearchK),
		dashboardHandler: newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/recommend", MetricsMiddleware(s.recommendHandler.HandleRecommend, "recommend"))
	mux.HandleFunc("/context", MetricsMiddleware(s.contextHandler.HandleContext, "context"))
	mux.HandleFunc("/wardrobe/items", MetricsMiddleware(s.wardrobeHandler.HandleItems, "wardrobe_items"))
	mux.HandleFunc("/wardrobe/items/", MetricsMiddleware(s.wardrobeHandler.HandleItemByID, "wardrobe_item"))
	mux.HandleFunc("/wardrobe/search", MetricsMiddleware(s.searchHandler.HandleSearch, "wardrobe_search"))
}

// recommendRequest mirrors the OpenAPI schema for POST /recommend and
// POST /context.
type recommendRequest struct {
	OwnerID    string           `json:"owner_id"`
	Date       string           `json:"date"`
	Location   string           `json:"location"`
	Mood       string           `json:"mood"`
	MaxOutfits int              `json:"max_outfits"`
	Events     []eventPayload   `json:"events"`
	Forecast   *forecastPayload `json:"forecast"`
}

type eventPayload struct {
	Title    string `json:"title"`
	Occasion string `json:"occasion"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

type forecastPayload struct {
	TempMinC      float64 `json:"temp_min_c"`
	TempMaxC      float64 `json:"temp_max_c"`
	Precipitation float64 `json:"precipitation"`
	WindKPH       float64 `json:"wind_kph"`
	Condition     string  `json:"condition"`
}

func (rr recommendRequest) validate() error {
	switch {
	case strings.TrimSpace(rr.OwnerID) == "":
		return errors.New("missing owner_id")
	case strings.TrimSpace(rr.Date) == "":
		return errors.New("missing date")
	}
	if _, err := time.Parse(dateLayout, rr.Date); err != nil {
		return errors.New("invalid date; must be YYYY-MM-DD")
	}
	for i, ev := range rr.Events {
		if ev.Start != "" {
			if _, err := time.Parse(time.RFC3339, ev.Start); err != nil {
				return fmt.Errorf("invalid start on event %d; must be RFC3339", i)
			}
		}
		if ev.End != "" {
			if _, err := time.Parse(time.RFC3339, ev.End); err != nil {
				return fmt.Errorf("invalid end on event %d; must be RFC3339", i)
			}
		}
	}
	return nil
}

// toQuery converts an already validated request into a domain query.
func (rr recommendRequest) toQuery() types.OutfitQuery {
	date, _ := time.Parse(dateLayout, rr.Date)
	q := types.OutfitQuery{
		OwnerID:    strings.TrimSpace(rr.OwnerID),
		Date:       date,
		Location:   strings.TrimSpace(rr.Location),
		Mood:       strings.TrimSpace(rr.Mood),
		MaxOutfits: rr.MaxOutfits,
	}
	for _, ev := range rr.Events {
		q.Events = append(q.Events, ev.toEvent())
	}
	if rr.Forecast != nil {
		q.Forecast = &model.WeatherForecast{
			TempMinC:      rr.Forecast.TempMinC,
			TempMaxC:      rr.Forecast.TempMaxC,
			Precipitation: rr.Forecast.Precipitation,
			WindKPH:       rr.Forecast.WindKPH,
			Condition:     strings.TrimSpace(rr.Forecast.Condition),
		}
	}
	return q
}

// toEvent classifies the event. An explicit occasion tag wins; otherwise
// the title words are tried, and an unclassifiable event stays unknown.
func (p eventPayload) toEvent() model.CalendarEvent {
	ev := model.CalendarEvent{Title: strings.TrimSpace(p.Title)}
	if occ, ok := taxonomy.ParseOccasion(p.Occasion); ok {
		ev.Occasion = occ
	} else {
		for _, word := range strings.Fields(ev.Title) {
			if occ, ok := taxonomy.ParseOccasion(word); ok {
				ev.Occasion = occ
				break
			}
		}
	}
	if p.Start != "" {
		ev.Start, _ = time.Parse(time.RFC3339, p.Start)
	}
	if p.End != "" {
		ev.End, _ = time.Parse(time.RFC3339, p.End)
	}
	return ev
}

// submitRequest mirrors the OpenAPI schema for POST /wardrobe/items.
type submitRequest struct {
	OwnerID string              `json:"owner_id"`
	Items   []submissionPayload `json:"items"`
}

type submissionPayload struct {
	SubmissionID string      `json:"submission_id"`
	Item         itemPayload `json:"item"`
}

// itemPayload mirrors model.RawItem. Warmth and formality are pointers so
// that absent and zero are distinct.
type itemPayload struct {
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Colors      []string `json:"colors"`
	Materials   []string `json:"materials"`
	Styles      []string `json:"styles"`
	Seasons     []string `json:"seasons"`
	Warmth      *int     `json:"warmth"`
	Formality   *int     `json:"formality"`
	Brand       string   `json:"brand"`
	Fit         string   `json:"fit"`
	ImageURL    string   `json:"image_url"`
	SourceURL   string   `json:"source_url"`
	Notes       string   `json:"notes"`
}

func (sr submitRequest) validate() error {
	switch {
	case strings.TrimSpace(sr.OwnerID) == "":
		return errors.New("missing owner_id")
	case len(sr.Items) == 0:
		return errors.New("missing items")
	}
	for i, sub := range sr.Items {
		if strings.TrimSpace(sub.Item.Category) == "" {
			return fmt.Errorf("item %d missing category", i)
		}
	}
	return nil
}

// toSubmissions converts wire payloads into domain submissions.
func (sr submitRequest) toSubmissions() []types.Submission {
	subs := make([]types.Submission, len(sr.Items))
	for i, sub := range sr.Items {
		subs[i] = types.Submission{
			SubmissionID: strings.TrimSpace(sub.SubmissionID),
			Raw:          sub.Item.toRaw(),
		}
	}
	return subs
}

func (p itemPayload) toRaw() model.RawItem {
	return model.RawItem{
		Category:    p.Category,
		Subcategory: p.Subcategory,
		Colors:      p.Colors,
		Materials:   p.Materials,
		Styles:      p.Styles,
		Seasons:     p.Seasons,
		Warmth:      p.Warmth,
		Formality:   p.Formality,
		Brand:       p.Brand,
		Fit:         p.Fit,
		ImageURL:    p.ImageURL,
		SourceURL:   p.SourceURL,
		Notes:       p.Notes,
	}
}

type submitResponse struct {
	Acks []types.SubmissionAck `json:"acks"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
