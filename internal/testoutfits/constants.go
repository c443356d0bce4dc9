package testoutfits

import "time"

// HTTP status code constants.
const (
	StatusOK       = 200
	StatusAccepted = 202
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
	SubmitBatchSize         = 25
)

// Runner configuration constants.
const (
	IngestPollInterval   = 1 * time.Second
	IngestSettleTimeout  = 2 * time.Minute
	PercentageMultiplier = 100
)
