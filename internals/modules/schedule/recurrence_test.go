package schedule

import (
	"testing"
	"time"

	"uptime-monitor/pkg/apperror"
)

func TestRecurrenceValidate(t *testing.T) {
	cases := []struct {
		name  string
		rule  Recurrence
		valid bool
	}{
		{"cron every minute", CronRule("* * * * *"), true},
		{"cron weekdays", CronRule("0 9 * * 1-5"), true},
		{"cron extra spaces", CronRule("  */5   *  * * *  "), true},
		{"cron six fields", CronRule("0 * * * * *"), false},
		{"cron four fields", CronRule("* * * *"), false},
		{"cron bad minute", CronRule("61 * * * *"), false},
		{"cron descriptor", CronRule("@hourly"), false},
		{"interval ok", IntervalRule(30, Seconds), true},
		{"interval max", IntervalRule(999, Weeks), true},
		{"interval zero", IntervalRule(0, Minutes), false},
		{"interval too big", IntervalRule(1000, Minutes), false},
		{"interval bad unit", IntervalRule(5, "fortnights"), false},
		{"both", Recurrence{Cron: "* * * * *", Interval: &Interval{Every: 1, Unit: Minutes}}, false},
		{"neither", Recurrence{}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.rule.Validate()
			if c.valid && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !c.valid && !apperror.IsKind(err, apperror.InvalidSchedule) {
				t.Fatalf("expected invalid schedule error, got %v", err)
			}
		})
	}
}

func TestIntervalDuration(t *testing.T) {
	cases := map[IntervalUnit]time.Duration{
		Seconds: 3 * time.Second,
		Minutes: 3 * time.Minute,
		Hours:   3 * time.Hour,
		Days:    72 * time.Hour,
		Weeks:   21 * 24 * time.Hour,
	}
	for unit, want := range cases {
		if got := (Interval{Every: 3, Unit: unit}).Duration(); got != want {
			t.Errorf("%s: got %v, want %v", unit, got, want)
		}
	}
}

func TestParseCronNextFire(t *testing.T) {
	s, err := ParseCron("30 2 * * *")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	from := time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)
	want := time.Date(2024, 5, 2, 2, 30, 0, 0, time.UTC)
	if got := s.Next(from); !got.Equal(want) {
		t.Fatalf("next = %v, want %v", got, want)
	}
}
