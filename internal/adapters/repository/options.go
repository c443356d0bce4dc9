// Package repository defines the wardrobe store interface and errors.
package repository

// Option applies a configuration option to the SQLiteStore.
type Option func(*SQLiteStore)

// WithPath sets the SQLite database file path.
func WithPath(path string) Option {
	return func(s *SQLiteStore) {
		if path != "" {
			s.path = path
		}
	}
}
