package embedding

// Option applies a configuration option to the Embedder.
type Option func(*Embedder)

// WithDimension sets the embedding vector length. Non-positive values
// are ignored and the default dimension is kept.
func WithDimension(dimension int) Option {
	return func(e *Embedder) {
		if dimension > 0 {
			e.dimension = dimension
		}
	}
}
