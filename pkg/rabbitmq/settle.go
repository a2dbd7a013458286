package rabbitmq

import (
	"uptime-monitor/pkg/apperror"

	"github.com/rabbitmq/amqp091-go"
)

type Outcome int

const (
	Ack Outcome = iota
	Requeue
	Drop
)

// Settle decides what happens to a delivery after its handler returned err.
// Transient failures get one more delivery, everything else is dropped.
func Settle(err error, redelivered bool) Outcome {
	if err == nil {
		return Ack
	}

	switch apperror.KindOf(err) {
	case apperror.TransactionFailed, apperror.DatabaseErr, apperror.RequestTimeout:
		if !redelivered {
			return Requeue
		}
	}
	return Drop
}

// Acknowledger is the part of a delivery the consumer needs to settle it.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
	IsRedelivered() bool
	ID() string
}

type delivery struct {
	amqp091.Delivery
}

func (d delivery) IsRedelivered() bool { return d.Redelivered }
func (d delivery) ID() string          { return d.MessageId }
