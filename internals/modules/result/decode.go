package result

import (
	"encoding/json"
	"strings"

	"uptime-monitor/internals/modules/executor"
	"uptime-monitor/pkg/apperror"

	"github.com/guregu/null/v5"
)

// wireEvent keeps required fields as pointers so absence is detectable.
type wireEvent struct {
	SiteID          *int64      `json:"site_id"`
	ResultCode      *string     `json:"result_code"`
	ResponseText    null.String `json:"response_text"`
	ResponseTime    *float64    `json:"response_time"`
	ResponseHeaders null.String `json:"response_headers"`
}

// Decode parses and validates a result event body.
func Decode(body []byte) (executor.ResultEvent, error) {
	const op string = "result.decode"

	var w wireEvent
	if err := json.Unmarshal(body, &w); err != nil {
		return executor.ResultEvent{}, apperror.New(apperror.InvalidEvent, op, err).WithMessage("result event is not valid json")
	}

	fields := map[string]string{}
	if w.SiteID == nil {
		fields["site_id"] = "this field is required"
	}
	if w.ResultCode == nil {
		fields["result_code"] = "this field is required"
	}
	if w.ResponseTime == nil {
		fields["response_time"] = "this field is required"
	}
	if len(fields) > 0 {
		return executor.ResultEvent{}, apperror.New(apperror.InvalidEvent, op, nil).
			WithMessage("result event is missing fields").
			WithFields(fields)
	}

	ev := executor.ResultEvent{
		SiteID:          *w.SiteID,
		ResultCode:      executor.ResultCode(strings.ToUpper(*w.ResultCode)),
		ResponseText:    w.ResponseText,
		ResponseTime:    *w.ResponseTime,
		ResponseHeaders: w.ResponseHeaders,
	}
	if err := Validate(ev); err != nil {
		return executor.ResultEvent{}, err
	}
	return ev, nil
}

// Validate checks the value constraints of an event.
func Validate(ev executor.ResultEvent) error {
	const op string = "result.validate"

	fields := map[string]string{}
	if ev.SiteID <= 0 {
		fields["site_id"] = "must be a positive integer"
	}
	if !ev.ResultCode.Valid() {
		fields["result_code"] = "must be one of: PASS FAIL MISMATCH TIMEOUT ERROR"
	}
	if ev.ResponseTime < 0 {
		fields["response_time"] = "must not be negative"
	}
	if len(fields) == 0 {
		return nil
	}
	return apperror.New(apperror.InvalidEvent, op, nil).
		WithMessage("result event failed validation").
		WithFields(fields)
}
