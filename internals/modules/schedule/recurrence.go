package schedule

import (
	"fmt"
	"strings"
	"time"

	"uptime-monitor/pkg/apperror"

	"github.com/robfig/cron/v3"
)

type IntervalUnit string

const (
	Seconds IntervalUnit = "seconds"
	Minutes IntervalUnit = "minutes"
	Hours   IntervalUnit = "hours"
	Days    IntervalUnit = "days"
	Weeks   IntervalUnit = "weeks"
)

var unitDurations = map[IntervalUnit]time.Duration{
	Seconds: time.Second,
	Minutes: time.Minute,
	Hours:   time.Hour,
	Days:    24 * time.Hour,
	Weeks:   7 * 24 * time.Hour,
}

const (
	MinEvery = 1
	MaxEvery = 999
)

type Interval struct {
	Every int
	Unit  IntervalUnit
}

func (i Interval) Duration() time.Duration {
	return time.Duration(i.Every) * unitDurations[i.Unit]
}

// Recurrence is either a 5-field cron expression or a fixed interval.
type Recurrence struct {
	Cron     string
	Interval *Interval
}

func CronRule(expr string) Recurrence {
	return Recurrence{Cron: expr}
}

func IntervalRule(every int, unit IntervalUnit) Recurrence {
	return Recurrence{Interval: &Interval{Every: every, Unit: unit}}
}

func (r Recurrence) IsCron() bool {
	return r.Interval == nil
}

func (r Recurrence) String() string {
	if r.IsCron() {
		return "cron(" + r.Cron + ")"
	}
	return fmt.Sprintf("every %d %s", r.Interval.Every, r.Interval.Unit)
}

// Validate returns an InvalidSchedule error naming the faulty part.
func (r Recurrence) Validate() error {
	const op string = "schedule.recurrence.validate"

	invalid := func(field, msg string, err error) error {
		return apperror.New(apperror.InvalidSchedule, op, err).
			WithMessage("invalid schedule rule").
			WithFields(map[string]string{field: msg})
	}

	hasCron := strings.TrimSpace(r.Cron) != ""
	switch {
	case hasCron && r.Interval != nil:
		return invalid("rule", "set either cron or interval, not both", nil)
	case !hasCron && r.Interval == nil:
		return invalid("rule", "a cron or interval rule is required", nil)
	case hasCron:
		if _, err := ParseCron(r.Cron); err != nil {
			return invalid("cron", err.Error(), err)
		}
		return nil
	}

	if r.Interval.Every < MinEvery || r.Interval.Every > MaxEvery {
		return invalid("interval.every", fmt.Sprintf("must be between %d and %d", MinEvery, MaxEvery), nil)
	}
	if _, ok := unitDurations[r.Interval.Unit]; !ok {
		return invalid("interval.unit", "must be one of: seconds minutes hours days weeks", nil)
	}
	return nil
}

// ParseCron accepts exactly five whitespace separated fields.
func ParseCron(expr string) (cron.Schedule, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return nil, fmt.Errorf("expected 5 fields, got %d", len(fields))
	}
	if strings.HasPrefix(fields[0], "@") {
		return nil, fmt.Errorf("descriptors are not supported")
	}
	return cron.ParseStandard(strings.Join(fields, " "))
}
