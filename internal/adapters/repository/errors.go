package repository

import "errors"

// Sentinel kinds for wardrobe store errors.
var (
	ErrNotFound    = errors.New("wardrobe item not found")
	ErrInvalidItem = errors.New("invalid wardrobe item")
	ErrStoreClosed = errors.New("wardrobe store closed")
)
