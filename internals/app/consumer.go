package app

import (
	"context"

	"uptime-monitor/pkg/rabbitmq"
)

// StartConsumers runs the prober on the probe queue and the recorder on the
// result queue. Each consumer ranges over its delivery channel in its own
// goroutine until ctx is cancelled.
func StartConsumers(ctx context.Context, c *Container) {
	start := func(name string, cons *rabbitmq.Consumer, h rabbitmq.Handler) {
		go func() {
			if err := cons.Consume(ctx, h); err != nil {
				c.Logger.Error().
					Err(err).
					Str("consumer", name).
					Msg("rabbitmq consumer stopped")
			}
		}()
	}

	start("prober", c.ProbeConsumer, c.Executor)
	start("recorder", c.ResultConsumer, c.Recorder)
}
