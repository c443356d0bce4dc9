package service

import (
	"github.com/okalli/garb/internal/domain/engine"
	"github.com/okalli/garb/internal/domain/model"
	"github.com/okalli/garb/internal/domain/types"
)

// asStrings flattens a slice of string-kinded taxonomy values.
func asStrings[T ~string](vals []T) []string {
	if len(vals) == 0 {
		return nil
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

// itemView converts a stored item into its wire form.
func itemView(item model.WardrobeItem) types.Item {
	return types.Item{
		ID:          item.ID,
		OwnerID:     item.OwnerID,
		Category:    string(item.Category),
		Subcategory: item.Subcategory,
		Colors:      asStrings(item.Colors),
		Materials:   item.Materials,
		Styles:      asStrings(item.Styles),
		Seasons:     asStrings(item.Seasons),
		Warmth:      item.Warmth,
		Formality:   item.Formality,
		Brand:       item.Brand,
		Fit:         item.Fit,
		ImageURL:    item.ImageURL,
		SourceURL:   item.SourceURL,
		Notes:       item.Notes,
		AddedAt:     item.AddedAt,
	}
}

// contextView converts a synthesized directive into its wire form.
func contextView(d model.ContextDirective) types.DayContext {
	band := d.FormalityBand()
	return types.DayContext{
		Date:              d.Date.Format("2006-01-02"),
		Location:          d.Location,
		Season:            string(d.Season),
		Mood:              string(d.Mood),
		Occasions:         asStrings(d.Occasions),
		StyleBias:         asStrings(d.StyleBias),
		Palette:           asStrings(d.Palette),
		FormalityMin:      band.Min,
		FormalityMax:      band.Max,
		NeedsOuterwear:    d.NeedsOuterwear,
		NeedsRainFootwear: d.NeedsRainFootwear,
		Windy:             d.Windy,
	}
}

// outfitViews converts ranked outfits into their wire form, ranks
// starting at 1.
func outfitViews(scored []model.ScoredOutfit) []types.RecommendedOutfit {
	outfits := make([]types.RecommendedOutfit, len(scored))
	for i, so := range scored {
		items := so.Outfit.Items()
		views := make([]types.OutfitItem, len(items))
		for j, item := range items {
			views[j] = types.OutfitItem{
				ID:          item.ID,
				Category:    string(item.Category),
				Subcategory: item.Subcategory,
				Colors:      asStrings(item.Colors),
				Brand:       item.Brand,
			}
		}
		outfits[i] = types.RecommendedOutfit{
			Rank:        i + 1,
			Score:       so.Score,
			Harmony:     so.Harmony,
			HarmonyRule: string(so.HarmonyRule),
			ContextFit:  so.ContextFit,
			Diversity:   so.Diversity,
			Items:       views,
		}
	}
	return outfits
}

func issueViews(issues []model.ItemIssue) []types.ItemIssue {
	if len(issues) == 0 {
		return nil
	}
	out := make([]types.ItemIssue, len(issues))
	for i, issue := range issues {
		out[i] = types.ItemIssue{ItemID: issue.ItemID, Reason: issue.Reason}
	}
	return out
}

// recommendationView assembles the full response body for one engine
// result.
func recommendationView(res engine.Result) types.Recommendation {
	rec := types.Recommendation{
		Context: contextView(res.Directive),
		Outfits: outfitViews(res.Outfits),
		Diagnostics: types.Diagnostics{
			Malformed:       issueViews(res.Diagnostics.Malformed),
			Removed:         issueViews(res.Diagnostics.Removed),
			EmptyCategories: asStrings(res.Diagnostics.EmptyCategories),
			Combinations:    res.Diagnostics.Combinations,
			Truncated:       res.Diagnostics.Truncated,
		},
	}
	for _, w := range res.Warnings {
		rec.Warnings = append(rec.Warnings, types.Warning{Code: w.Code, Message: w.Message})
	}
	return rec
}
