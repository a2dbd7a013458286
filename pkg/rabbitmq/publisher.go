package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

var (
	ErrNilChannel = errors.New("AMQP channel is nil")
	ErrNacked     = errors.New("broker did not confirm message")
)

type Publisher struct {
	ch         *amqp091.Channel // AMQP channel in confirm mode
	exchange   string           // Exchange to publish messages to
	routingKey string           // Routing key for the messages
	attempts   int              // publish attempts before giving up
}

func NewPublisher(conn *amqp091.Connection, exchange, routingKey string, attempts int) (*Publisher, error) {

	if conn == nil {
		return nil, errors.New("AMQP connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if err := ch.Confirm(false); err != nil {
		ch.Close()
		return nil, err
	}

	if attempts < 1 {
		attempts = 1
	}

	return &Publisher{
		ch:         ch,
		exchange:   exchange,
		routingKey: routingKey,
		attempts:   attempts,
	}, nil
}

// Publish sends one persistent JSON message and waits for the broker confirm,
// retrying with a linear backoff. It returns the message id.
func (p *Publisher) Publish(ctx context.Context, body []byte) (string, error) {
	msgID := uuid.NewString()

	var err error
	for i := 0; i < p.attempts; i++ {
		if err = p.publish(ctx, msgID, body); err == nil {
			return msgID, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(100*(i+1)) * time.Millisecond):
		}
	}

	return "", fmt.Errorf("publish after %d attempts: %w", p.attempts, err)
}

func (p *Publisher) publish(ctx context.Context, msgID string, body []byte) error {

	if p.ch == nil {
		return ErrNilChannel
	}

	confirm, err := p.ch.PublishWithDeferredConfirmWithContext(
		ctx,
		p.exchange,
		p.routingKey,
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    msgID,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return err
	}

	confirmCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	acked, err := confirm.WaitContext(confirmCtx)
	if err != nil {
		return err
	}
	if !acked {
		return ErrNacked
	}
	return nil
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		return p.ch.Close()
	}
	return nil
}
