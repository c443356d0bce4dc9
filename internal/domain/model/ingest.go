package model

import "time"

// IngestJob is a wardrobe item submission queued for asynchronous
// processing. The submission id doubles as the idempotency key.
type IngestJob struct {
	SubmissionID string
	OwnerID      string
	Raw          RawItem
	EnqueuedAt   time.Time
}
