package rabbitmq

import (
	"errors"
	"time"

	"uptime-monitor/config"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

func NewConnection(rmqCfg *config.RabbitMQConfig, log *zerolog.Logger) (*amqp091.Connection, error) {

	var conn *amqp091.Connection
	var err error
	for i := range 5 {
		conn, err = amqp091.Dial(rmqCfg.BrokerLink)
		if err == nil {
			return conn, nil
		}
		time.Sleep(2 * time.Second)
		log.Warn().Err(err).Int("attempt", i+1).Msg("rabbitmq reconnection attempt")
	}
	log.Error().Err(err).Int("attempts", 5).Msg("failed to connect to rabbitmq")
	return nil, errors.New("failed to connect to rabbitmq")
}

// SetupTopology declares the exchange and the two named queues: probe
// requests and result events never share a queue.
func SetupTopology(conn *amqp091.Connection, rmqCfg *config.RabbitMQConfig) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		rmqCfg.ExchangeName,
		rmqCfg.ExchangeType,
		true, false, false, false, nil,
	); err != nil {
		return err
	}

	bindings := []struct{ queue, key string }{
		{rmqCfg.ProbeQueue, rmqCfg.ProbeRoutingKey},
		{rmqCfg.ResultQueue, rmqCfg.ResultRoutingKey},
	}

	for _, b := range bindings {
		if _, err := ch.QueueDeclare(
			b.queue,
			true, false, false, false, nil,
		); err != nil {
			return err
		}

		if err = ch.QueueBind(
			b.queue,
			b.key,
			rmqCfg.ExchangeName,
			false, nil,
		); err != nil {
			return err
		}
	}

	return nil
}
