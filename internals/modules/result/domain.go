package result

import (
	"time"

	"github.com/guregu/null/v5"
)

// HistoryEntry is the reader-facing view of one stored probe result.
type HistoryEntry struct {
	ID           int64
	CreatedAt    time.Time
	ResponseTime float64
	ResponseText null.String
	ResponseCode string
	SiteURL      string
}

type HistoryQuery struct {
	SiteID null.Int
	Limit  int32
	Offset int32
}

// Recorded is what a committed result transaction produced.
type Recorded struct {
	HistoryID int64
	CreatedAt time.Time
}
