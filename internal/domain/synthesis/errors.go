package synthesis

import "errors"

// Sentinel kinds for context synthesis errors.
var (
	// ErrInvalidContext marks weather input that is missing or malformed.
	// Requests failing with it are not retried; defaulting the warmth
	// signal would make layer recommendations unsafe.
	ErrInvalidContext = errors.New("invalid context input")
)
