package types_test

import (
	"testing"

	types "github.com/okalli/garb/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecommendedOutfit(t *testing.T) {
	Convey("Given a RecommendedOutfit struct", t, func() {
		Convey("When creating a ranked outfit", func() {
			outfit := types.RecommendedOutfit{
				Rank:        1,
				Score:       0.87,
				Harmony:     1.0,
				HarmonyRule: "monochrome",
				ContextFit:  0.5,
				Diversity:   1.0,
				Items: []types.OutfitItem{
					{ID: "item-1", Category: "top", Subcategory: "shirt", Colors: []string{"white"}},
					{ID: "item-2", Category: "bottom", Subcategory: "chinos", Colors: []string{"navy"}},
					{ID: "item-3", Category: "footwear", Subcategory: "loafers", Colors: []string{"brown"}, Brand: "acme"},
				},
			}

			Convey("Then it should have the correct values", func() {
				So(outfit.Rank, ShouldEqual, 1)
				So(outfit.Score, ShouldEqual, 0.87)
				So(outfit.HarmonyRule, ShouldEqual, "monochrome")
				So(outfit.Items, ShouldHaveLength, 3)
				So(outfit.Items[2].Brand, ShouldEqual, "acme")
			})
		})

		Convey("When creating an outfit with zero values", func() {
			outfit := types.RecommendedOutfit{}

			Convey("Then it should have default values", func() {
				So(outfit.Rank, ShouldEqual, 0)
				So(outfit.Score, ShouldEqual, 0.0)
				So(outfit.HarmonyRule, ShouldEqual, "")
				So(outfit.Items, ShouldBeNil)
			})
		})

		Convey("When creating multiple ranked outfits", func() {
			outfits := []types.RecommendedOutfit{
				{Rank: 1, Score: 0.92},
				{Rank: 2, Score: 0.81},
				{Rank: 3, Score: 0.77},
			}

			Convey("Then ranks should be sequential", func() {
				for i, outfit := range outfits {
					So(outfit.Rank, ShouldEqual, i+1)
				}
			})

			Convey("And scores should be in descending order", func() {
				for i := 0; i < len(outfits)-1; i++ {
					So(outfits[i].Score, ShouldBeGreaterThanOrEqualTo, outfits[i+1].Score)
				}
			})
		})
	})
}

func TestDayContext(t *testing.T) {
	Convey("Given a DayContext struct", t, func() {
		Convey("When describing a rainy business day", func() {
			day := types.DayContext{
				Date:              "2026-03-12",
				Location:          "amsterdam",
				Season:            "spring",
				Mood:              "neutral",
				Occasions:         []string{"business"},
				StyleBias:         []string{"business", "elegant"},
				Palette:           []string{"navy", "white"},
				FormalityMin:      2,
				FormalityMax:      3,
				NeedsOuterwear:    true,
				NeedsRainFootwear: true,
				Windy:             false,
			}

			Convey("Then it should carry the full context", func() {
				So(day.Season, ShouldEqual, "spring")
				So(day.Occasions, ShouldContain, "business")
				So(day.NeedsOuterwear, ShouldBeTrue)
				So(day.NeedsRainFootwear, ShouldBeTrue)
				So(day.FormalityMin, ShouldBeLessThanOrEqualTo, day.FormalityMax)
			})
		})

		Convey("When creating a context with zero values", func() {
			day := types.DayContext{}

			Convey("Then it should have default values", func() {
				So(day.Date, ShouldEqual, "")
				So(day.Occasions, ShouldBeNil)
				So(day.NeedsOuterwear, ShouldBeFalse)
				So(day.Windy, ShouldBeFalse)
			})
		})
	})
}

func TestWarning(t *testing.T) {
	Convey("Given a Warning struct", t, func() {
		Convey("When reporting an empty candidate pool", func() {
			w := types.Warning{
				Code:    "empty_candidate_pool",
				Message: "no eligible footwear for the day",
			}

			Convey("Then it should carry code and message", func() {
				So(w.Code, ShouldEqual, "empty_candidate_pool")
				So(w.Message, ShouldNotBeEmpty)
			})
		})

		Convey("When collecting multiple warnings", func() {
			warnings := []types.Warning{
				{Code: "empty_candidate_pool", Message: "no eligible footwear"},
				{Code: "construction_timeout", Message: "returning best outfits found so far"},
			}

			Convey("Then each warning should keep its own code", func() {
				So(warnings, ShouldHaveLength, 2)
				So(warnings[0].Code, ShouldNotEqual, warnings[1].Code)
			})
		})
	})
}
