// Package embedding produces deterministic hashed bag-of-words vectors
// for wardrobe items and context directives. Items and queries share one
// embedding space so cosine similarity between them is meaningful.
package embedding

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strings"

	"github.com/okalli/garb/internal/domain/model"
	"github.com/okalli/garb/internal/domain/taxonomy"
)

// DefaultDimension is the embedding vector length used unless configured.
const DefaultDimension = 128

// Embedder hashes tokens into fixed-length vectors. It is stateless and
// safe for concurrent use.
type Embedder struct {
	dimension int
}

// New creates an Embedder with the given options.
func New(opts ...Option) *Embedder {
	e := &Embedder{dimension: DefaultDimension}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dimension returns the vector length this embedder produces.
func (e *Embedder) Dimension() int {
	return e.dimension
}

// Text embeds free text with a hashed bag-of-words scheme. Empty text
// yields the zero vector.
func (e *Embedder) Text(text string) []float32 {
	vector := make([]float32, e.dimension)
	if text == "" {
		return vector
	}
	e.accumulate(vector, tokenize(text))
	return vector
}

// Item embeds the salient metadata of a wardrobe item. The image URL is
// hashed as a single token so visually identical listings cluster.
func (e *Embedder) Item(item model.WardrobeItem) []float32 {
	bits := []string{
		string(item.Category),
		item.Subcategory,
		joinColors(item.Colors),
		strings.Join(item.Materials, " "),
		item.Brand,
		item.Fit,
		joinSeasons(item.Seasons),
		joinStyles(item.Styles),
		item.Notes,
	}
	var nonEmpty []string
	for _, b := range bits {
		if b != "" {
			nonEmpty = append(nonEmpty, b)
		}
	}

	vector := make([]float32, e.dimension)
	e.accumulate(vector, tokenize(strings.Join(nonEmpty, " ")))
	if item.ImageURL != "" {
		vector[e.hashIndex(item.ImageURL)] += 1.0
	}
	return vector
}

// Directive embeds a context directive as a retrieval query. Occasion
// tags, style bias, palette colors, and the season hash into the same
// positions item metadata does.
func (e *Embedder) Directive(d model.ContextDirective) []float32 {
	var bits []string
	for _, o := range d.Occasions {
		bits = append(bits, string(o))
	}
	for _, s := range d.StyleBias {
		bits = append(bits, string(s))
	}
	for _, c := range d.Palette {
		bits = append(bits, string(c))
	}
	if d.Season != "" {
		bits = append(bits, string(d.Season))
	}

	vector := make([]float32, e.dimension)
	e.accumulate(vector, tokenize(strings.Join(bits, " ")))
	return vector
}

func (e *Embedder) accumulate(vector []float32, tokens []string) {
	for _, token := range tokens {
		vector[e.hashIndex(token)] += 1.0
	}
}

// hashIndex maps a token onto a vector position via the first four bytes
// of its sha256 digest.
func (e *Embedder) hashIndex(token string) int {
	digest := sha256.Sum256([]byte(token))
	return int(binary.BigEndian.Uint32(digest[:4]) % uint32(e.dimension))
}

// tokenize lowercases and splits on any non-alphanumeric run.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
}

func joinColors(colors []taxonomy.Color) string {
	parts := make([]string, len(colors))
	for i, c := range colors {
		parts[i] = string(c)
	}
	return strings.Join(parts, " ")
}

func joinSeasons(seasons []taxonomy.Season) string {
	parts := make([]string, len(seasons))
	for i, s := range seasons {
		parts[i] = string(s)
	}
	return strings.Join(parts, " ")
}

func joinStyles(styles []taxonomy.Style) string {
	parts := make([]string, len(styles))
	for i, s := range styles {
		parts[i] = string(s)
	}
	return strings.Join(parts, " ")
}

// Cosine returns the cosine similarity of two vectors, or 0 when either
// is zero length, mismatched, or all zeros.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
