package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIsKind_ThroughWrapping(t *testing.T) {
	base := &Error{Kind: InvalidSchedule, Op: "service.schedule.create", Message: "bad cron"}
	wrapped := fmt.Errorf("outer: %w", base)

	if !IsKind(wrapped, InvalidSchedule) {
		t.Fatalf("want InvalidSchedule through wrapping")
	}
	if IsKind(wrapped, NotFound) {
		t.Fatalf("did not want NotFound")
	}
	if KindOf(wrapped) != InvalidSchedule {
		t.Fatalf("want KindOf InvalidSchedule, got %s", KindOf(wrapped))
	}
	if KindOf(errors.New("plain")) != Internal {
		t.Fatalf("plain errors are Internal")
	}
}

func TestError_Message(t *testing.T) {
	cases := []struct {
		err  *Error
		want string
	}{
		{&Error{Op: "repo.site.get", Err: errors.New("boom")}, "repo.site.get: boom"},
		{&Error{Err: errors.New("boom")}, "boom"},
		{&Error{Op: "service.schedule.create", Message: "bad cron"}, "service.schedule.create: bad cron"},
		{&Error{Op: "service.schedule.create"}, "service.schedule.create"},
		{&Error{}, "unknown error"},
	}
	for _, c := range cases {
		if got := c.err.Error(); got != c.want {
			t.Errorf("want %q, got %q", c.want, got)
		}
	}
}

func TestWithErr_CapturesStackForInternal(t *testing.T) {
	e := (&Error{Kind: Internal}).WithErr(errors.New("x"))
	if len(e.Stack) == 0 {
		t.Fatalf("want stack for internal errors")
	}
	e = (&Error{Kind: NotFound}).WithErr(errors.New("x"))
	if len(e.Stack) != 0 {
		t.Fatalf("did not want stack for not_found")
	}
}

func TestGetHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		InvalidInput:      http.StatusBadRequest,
		InvalidSchedule:   http.StatusBadRequest,
		NotFound:          http.StatusNotFound,
		AlreadyExists:     http.StatusConflict,
		Forbidden:         http.StatusForbidden,
		PublishFailed:     http.StatusBadGateway,
		TransactionFailed: http.StatusInternalServerError,
		Kind("unknown"):   http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := GetHTTPStatus(kind); got != want {
			t.Errorf("%s: want %d, got %d", kind, want, got)
		}
	}
	if HTTPStatus(errors.New("plain")) != http.StatusInternalServerError {
		t.Errorf("plain errors map to 500")
	}
}
