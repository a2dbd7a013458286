package rabbitmq

import (
	"errors"
	"testing"

	"uptime-monitor/pkg/apperror"

	"github.com/rs/zerolog"
)

func TestSettle(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		redelivered bool
		want        Outcome
	}{
		{"success", nil, false, Ack},
		{"transaction failed first delivery", apperror.New(apperror.TransactionFailed, "op", errors.New("x")), false, Requeue},
		{"transaction failed redelivered", apperror.New(apperror.TransactionFailed, "op", errors.New("x")), true, Drop},
		{"invalid event", apperror.New(apperror.InvalidEvent, "op", errors.New("x")), false, Drop},
		{"not found", apperror.New(apperror.NotFound, "op", errors.New("x")), false, Drop},
		{"plain error", errors.New("boom"), false, Drop},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Settle(c.err, c.redelivered); got != c.want {
				t.Fatalf("Settle() = %v, want %v", got, c.want)
			}
		})
	}
}

type fakeAck struct {
	acked, nacked, requeued bool
	redelivered             bool
}

func (f *fakeAck) Ack(bool) error { f.acked = true; return nil }
func (f *fakeAck) Nack(_ bool, requeue bool) error {
	f.nacked = true
	f.requeued = requeue
	return nil
}
func (f *fakeAck) IsRedelivered() bool { return f.redelivered }
func (f *fakeAck) ID() string          { return "m-1" }

func TestConsumerSettle(t *testing.T) {
	c := &Consumer{logger: nopLogger()}

	m := &fakeAck{}
	c.settle(m, nil)
	if !m.acked || m.nacked {
		t.Fatalf("expected ack, got %+v", m)
	}

	m = &fakeAck{}
	c.settle(m, apperror.New(apperror.TransactionFailed, "op", errors.New("db down")))
	if !m.nacked || !m.requeued {
		t.Fatalf("expected requeue, got %+v", m)
	}

	m = &fakeAck{}
	c.settle(m, apperror.New(apperror.InvalidEvent, "op", errors.New("bad")))
	if !m.nacked || m.requeued {
		t.Fatalf("expected drop, got %+v", m)
	}
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
