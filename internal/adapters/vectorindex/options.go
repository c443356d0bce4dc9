package vectorindex

// Option configures a ChromemIndex.
type Option func(*ChromemIndex)

// WithPath persists the index under the given directory. An empty path
// keeps the index in memory.
func WithPath(path string) Option {
	return func(x *ChromemIndex) {
		if path != "" {
			x.path = path
		}
	}
}

// WithCompression gzip-compresses persisted collections.
func WithCompression(enabled bool) Option {
	return func(x *ChromemIndex) {
		x.compress = enabled
	}
}
