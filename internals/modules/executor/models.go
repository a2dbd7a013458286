package executor

import (
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"
)

type ResultCode string

const (
	Pass     ResultCode = "PASS"
	Fail     ResultCode = "FAIL"
	Mismatch ResultCode = "MISMATCH"
	Timeout  ResultCode = "TIMEOUT"
	Error    ResultCode = "ERROR"
)

func (c ResultCode) Valid() bool {
	switch c {
	case Pass, Fail, Mismatch, Timeout, Error:
		return true
	}
	return false
}

// ProbeRequest is published on the probe queue each time a trigger fires.
type ProbeRequest struct {
	SiteID     int64     `json:"site_id"`
	ScheduleID int64     `json:"schedule_id"`
	TriggerID  uuid.UUID `json:"trigger_id"`
	FiredAt    time.Time `json:"fired_at"`
}

// ResultEvent is published on the result queue once per probe.
type ResultEvent struct {
	SiteID          int64       `json:"site_id"`
	ResultCode      ResultCode  `json:"result_code"`
	ResponseText    null.String `json:"response_text"`
	ResponseTime    float64     `json:"response_time"`
	ResponseHeaders null.String `json:"response_headers"`
}
