package outfit

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithBranchingFactor caps how many candidates per slot the enumeration
// considers and scales the total attempt bound. Values below one are
// ignored.
func WithBranchingFactor(n int) Option {
	return func(b *Builder) {
		if n >= 1 {
			b.branchingFactor = n
		}
	}
}

// WithMaxAccessories caps accessories per outfit. Zero disables them;
// negative values are ignored.
func WithMaxAccessories(n int) Option {
	return func(b *Builder) {
		if n >= 0 {
			b.maxAccessories = n
		}
	}
}
