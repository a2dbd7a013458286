package rabbitmq

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Handler processes one delivery. The consumer settles the message from the
// returned error.
type Handler interface {
	Handle(ctx context.Context, msg amqp091.Delivery) error
}

type HandlerFunc func(ctx context.Context, msg amqp091.Delivery) error

func (f HandlerFunc) Handle(ctx context.Context, msg amqp091.Delivery) error {
	return f(ctx, msg)
}

type Consumer struct {
	ch          *amqp091.Channel
	queueName   string
	workers     int
	msgTimeout  time.Duration
	sem         chan struct{}
	wg          sync.WaitGroup
	consumerTag string
	logger      *zerolog.Logger
}

func NewConsumer(conn *amqp091.Connection, queueName string, workers int, msgTimeout time.Duration, logger *zerolog.Logger) (*Consumer, error) {
	if conn == nil {
		return nil, errors.New("AMQP connection is nil")
	}
	if workers < 1 {
		workers = 1
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	// Backpressure
	if err := ch.Qos(workers, 0, false); err != nil {
		ch.Close()
		return nil, err
	}

	l := logger.With().Str("component", "consumer").Str("queue", queueName).Logger()

	return &Consumer{
		ch:         ch,
		queueName:  queueName,
		workers:    workers,
		msgTimeout: msgTimeout,
		sem:        make(chan struct{}, workers),
		logger:     &l,
	}, nil
}

func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	c.consumerTag = uuid.NewString()

	msgs, err := c.ch.Consume(
		c.queueName,
		c.consumerTag,
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		_ = c.ch.Cancel(c.consumerTag, false) // stop new deliveries
	}()

	for msg := range msgs {
		c.sem <- struct{}{}
		c.wg.Add(1)

		go func(m amqp091.Delivery) {
			defer c.wg.Done()
			defer func() { <-c.sem }()

			// in-flight messages finish even when ctx is cancelled
			msgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.msgTimeout)
			defer cancel()

			err := handler.Handle(msgCtx, m)
			c.settle(delivery{m}, err)
		}(msg)
	}

	c.wg.Wait()
	return nil
}

func (c *Consumer) settle(m Acknowledger, err error) {
	ack := Settle(err, m.IsRedelivered())
	switch ack {
	case Ack:
		_ = m.Ack(false)
	case Requeue:
		c.logger.Warn().Err(err).Str("message_id", m.ID()).Msg("message failed, requeueing")
		_ = m.Nack(false, true)
	default:
		c.logger.Error().Err(err).Str("message_id", m.ID()).Msg("message dropped")
		_ = m.Nack(false, false)
	}
}

func (c *Consumer) Shutdown(ctx context.Context) error {
	// Stop deliveries if not already stopped
	if c.consumerTag != "" {
		_ = c.ch.Cancel(c.consumerTag, false)
	}

	done := make(chan struct{})

	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return c.ch.Close()
	case <-ctx.Done():
		return ctx.Err()
	}
}
