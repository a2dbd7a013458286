package schedule

import (
	"time"

	"github.com/google/uuid"
)

type Schedule struct {
	ID        int64
	Name      string
	SiteID    int64
	Rule      Recurrence
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ScheduleCmd struct {
	UserID uuid.UUID
	Name   string
	SiteID int64
	Rule   Recurrence
}

// Trigger is the durable record behind one recurring job. Its ID is the
// in-memory job identifier and survives schedule updates.
type Trigger struct {
	ID         uuid.UUID
	ScheduleID int64
	SiteID     int64
	Rule       Recurrence
	UpdatedAt  time.Time
}
