package testoutfits

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/okalli/garb/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	itemIDDivisor      = 10000
)

// Constants for the category distribution of filler garments. Values are
// cumulative percentage thresholds.
const (
	topThreshold       = 30
	bottomThreshold    = 55
	footwearThreshold  = 75
	outerwearThreshold = 85
	dressThreshold     = 93
	percentRange       = 100
)

// Constants for optional attribute probabilities.
const (
	explicitRatingChance = 0.5
	seasonBoundChance    = 0.25
	secondColorChance    = 0.35
	brandChance          = 0.4
)

// Attribute pools for filler garments. Subcategories and styles must stay
// inside the service vocabulary or the workers will reject the item.
var (
	subcategoryPool = map[string][]string{
		"top":       {"blazer", "shirt", "tee", "polo", "sweater", "hoodie"},
		"bottom":    {"jeans", "chinos", "trousers", "skirt", "shorts"},
		"dress":     {"day_dress", "evening_dress", "jumpsuit"},
		"footwear":  {"sneakers", "boots", "loafers", "heels", "sandals"},
		"outerwear": {"coat", "jacket", "puffer", "trench"},
		"accessory": {"belt", "bag", "hat", "scarf", "jewellery"},
	}
	materialPool = map[string][]string{
		"top":       {"cotton", "linen", "wool", "silk"},
		"bottom":    {"denim", "cotton", "wool", "linen"},
		"dress":     {"silk", "cotton", "polyester"},
		"footwear":  {"leather", "suede", "canvas", "mesh", "rubber"},
		"outerwear": {"wool", "polyester", "leather"},
		"accessory": {"leather", "wool", "cotton"},
	}
	colorPool  = []string{"red", "orange", "yellow", "green", "blue", "navy", "pink", "purple", "black", "white", "gray", "brown", "beige"}
	stylePool  = []string{"casual", "business", "formal", "party", "street", "sporty"}
	seasonPool = []string{"spring", "summer", "autumn", "winter"}
	brandPool  = []string{"Arket", "Uniqlo", "Levi's", "Filippa K", "Reiss"}
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// randIndex returns a random index below n using crypto/rand.
func randIndex(n int) int {
	if n <= 0 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

func intPtr(v int) *int { return &v }

// stapleWardrobe returns the fixed garments every scenario relies on.
// Warmth and formality are explicit so filtering outcomes stay predictable:
// the staples cover every category across the full formality range, with
// both rain-ready and rain-poor footwear.
func stapleWardrobe() []Submission {
	return []Submission{
		{SubmissionID: "staple_navy_tee", Item: Garment{Category: "top", Subcategory: "tee", Colors: []string{"navy"}, Materials: []string{"cotton"}, Styles: []string{"casual"}, Warmth: intPtr(0), Formality: intPtr(0)}},
		{SubmissionID: "staple_white_shirt", Item: Garment{Category: "top", Subcategory: "shirt", Colors: []string{"white"}, Materials: []string{"cotton"}, Styles: []string{"business", "formal"}, Warmth: intPtr(1), Formality: intPtr(2)}},
		{SubmissionID: "staple_gray_sweater", Item: Garment{Category: "top", Subcategory: "sweater", Colors: []string{"gray"}, Materials: []string{"wool"}, Styles: []string{"casual"}, Warmth: intPtr(2), Formality: intPtr(1)}},
		{SubmissionID: "staple_blue_jeans", Item: Garment{Category: "bottom", Subcategory: "jeans", Colors: []string{"blue"}, Materials: []string{"denim"}, Styles: []string{"casual", "street"}, Warmth: intPtr(1), Formality: intPtr(1)}},
		{SubmissionID: "staple_wool_trousers", Item: Garment{Category: "bottom", Subcategory: "trousers", Colors: []string{"gray"}, Materials: []string{"wool"}, Styles: []string{"business", "formal"}, Warmth: intPtr(1), Formality: intPtr(2)}},
		{SubmissionID: "staple_white_sneakers", Item: Garment{Category: "footwear", Subcategory: "sneakers", Colors: []string{"white"}, Materials: []string{"canvas"}, Styles: []string{"casual", "sporty"}, Warmth: intPtr(0), Formality: intPtr(0)}},
		{SubmissionID: "staple_leather_boots", Item: Garment{Category: "footwear", Subcategory: "boots", Colors: []string{"black"}, Materials: []string{"leather"}, Styles: []string{"casual", "business"}, Warmth: intPtr(2), Formality: intPtr(2)}},
		{SubmissionID: "staple_black_heels", Item: Garment{Category: "footwear", Subcategory: "heels", Colors: []string{"black"}, Materials: []string{"leather"}, Styles: []string{"party", "formal"}, Warmth: intPtr(0), Formality: intPtr(2)}},
		{SubmissionID: "staple_navy_coat", Item: Garment{Category: "outerwear", Subcategory: "coat", Colors: []string{"navy"}, Materials: []string{"wool"}, Styles: []string{"business", "formal"}, Warmth: intPtr(3), Formality: intPtr(2)}},
		{SubmissionID: "staple_green_jacket", Item: Garment{Category: "outerwear", Subcategory: "jacket", Colors: []string{"green"}, Materials: []string{"polyester"}, Styles: []string{"casual", "street"}, Warmth: intPtr(2), Formality: intPtr(1)}},
		{SubmissionID: "staple_red_dress", Item: Garment{Category: "dress", Subcategory: "evening_dress", Colors: []string{"red"}, Materials: []string{"silk"}, Styles: []string{"party", "formal"}, Warmth: intPtr(1), Formality: intPtr(2)}},
		{SubmissionID: "staple_summer_dress", Item: Garment{Category: "dress", Subcategory: "day_dress", Colors: []string{"yellow"}, Materials: []string{"cotton"}, Styles: []string{"casual"}, Seasons: []string{"summer"}, Warmth: intPtr(0), Formality: intPtr(1)}},
		{SubmissionID: "staple_brown_belt", Item: Garment{Category: "accessory", Subcategory: "belt", Colors: []string{"brown"}, Materials: []string{"leather"}, Styles: []string{"casual", "business"}, Warmth: intPtr(0), Formality: intPtr(1)}},
		{SubmissionID: "staple_gray_scarf", Item: Garment{Category: "accessory", Subcategory: "scarf", Colors: []string{"gray"}, Materials: []string{"wool"}, Styles: []string{"casual"}, Warmth: intPtr(1), Formality: intPtr(1)}},
	}
}

// sparseWardrobe returns a wardrobe that cannot dress anyone: tops only,
// so recommendations must come back empty with the missing categories named.
func sparseWardrobe() []Submission {
	return []Submission{
		{SubmissionID: "sparse_black_tee", Item: Garment{Category: "top", Subcategory: "tee", Colors: []string{"black"}, Materials: []string{"cotton"}, Styles: []string{"casual"}, Warmth: intPtr(0), Formality: intPtr(0)}},
		{SubmissionID: "sparse_white_polo", Item: Garment{Category: "top", Subcategory: "polo", Colors: []string{"white"}, Materials: []string{"cotton"}, Styles: []string{"casual"}, Warmth: intPtr(0), Formality: intPtr(1)}},
	}
}

// generateWardrobe creates the fixture wardrobe: the staples plus random
// filler garments up to config.NumItems.
func generateWardrobe(ctx context.Context, config *Config, stats *Stats) ([]Submission, error) {
	staples := stapleWardrobe()
	fillerCount := config.NumItems - len(staples)
	if fillerCount < 0 {
		fillerCount = 0
	}

	logger.Get().Info(ctx, "generating fixture wardrobe",
		logger.Int("staples", len(staples)),
		logger.Int("filler", fillerCount))

	wardrobe := make([]Submission, len(staples)+fillerCount)
	copy(wardrobe, staples)

	// Generate filler concurrently
	type itemResult struct {
		index int
		item  Submission
		err   error
	}

	resultChan := make(chan itemResult, fillerCount)

	workerCount := minInt(config.Workers, fillerCount)
	if workerCount > 0 {
		itemsPerWorker := fillerCount / workerCount

		for worker := 0; worker < workerCount; worker++ {
			start := worker * itemsPerWorker
			end := start + itemsPerWorker
			if worker == workerCount-1 {
				end = fillerCount // Last worker gets remaining items
			}

			go func(start, end int) {
				for i := start; i < end; i++ {
					select {
					case <-ctx.Done():
						resultChan <- itemResult{index: i, err: ctx.Err()}
						return
					default:
						resultChan <- itemResult{index: i, item: generateSingleGarment(i)}
					}
				}
			}(start, end)
		}
	}

	// Collect results
	for i := 0; i < fillerCount; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during wardrobe generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate item %d: %w", result.index, result.err)
			}
			wardrobe[len(staples)+result.index] = result.item
		}
	}

	stats.ItemsGenerated = len(wardrobe)
	logger.Get().Info(ctx, "generated wardrobe successfully", logger.Int("count", len(wardrobe)))

	return wardrobe, nil
}

// generateSingleGarment creates one random filler garment.
func generateSingleGarment(index int) Submission {
	category := pickCategory()
	subs := subcategoryPool[category]
	materials := materialPool[category]

	item := Garment{
		Category:    category,
		Subcategory: subs[randIndex(len(subs))],
		Colors:      []string{colorPool[randIndex(len(colorPool))]},
		Materials:   []string{materials[randIndex(len(materials))]},
		Styles:      []string{stylePool[randIndex(len(stylePool))]},
	}

	if getRandomFloat() < secondColorChance {
		item.Colors = append(item.Colors, colorPool[randIndex(len(colorPool))])
	}
	if getRandomFloat() < seasonBoundChance {
		item.Seasons = []string{seasonPool[randIndex(len(seasonPool))]}
	}
	if getRandomFloat() < brandChance {
		item.Brand = brandPool[randIndex(len(brandPool))]
	}
	// Half the garments carry explicit ratings; the rest exercise the
	// service's subcategory inference.
	if getRandomFloat() < explicitRatingChance {
		item.Warmth = intPtr(randIndex(4))
		item.Formality = intPtr(randIndex(4))
	}

	// Generate unique submission ID
	randNum, _ := rand.Int(rand.Reader, big.NewInt(itemIDDivisor))
	submissionID := "item_" + strconv.FormatInt(int64(index), 10) + "_" + strconv.FormatInt(time.Now().Unix(), 10) + "_" + strconv.FormatInt(randNum.Int64(), 10)

	return Submission{SubmissionID: submissionID, Item: item}
}

// pickCategory draws a category from the weighted distribution.
func pickCategory() string {
	switch n := randIndex(percentRange); {
	case n < topThreshold:
		return "top"
	case n < bottomThreshold:
		return "bottom"
	case n < footwearThreshold:
		return "footwear"
	case n < outerwearThreshold:
		return "outerwear"
	case n < dressThreshold:
		return "dress"
	default:
		return "accessory"
	}
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
