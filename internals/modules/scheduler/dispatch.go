package scheduler

import (
	"context"
	"encoding/json"

	"uptime-monitor/internals/modules/executor"
	"uptime-monitor/pkg/apperror"
)

type Publisher interface {
	Publish(ctx context.Context, body []byte) (string, error)
}

// QueueDispatcher publishes probe requests on the probe queue.
type QueueDispatcher struct {
	pub Publisher
}

func NewQueueDispatcher(pub Publisher) *QueueDispatcher {
	return &QueueDispatcher{pub: pub}
}

func (d *QueueDispatcher) DispatchProbe(ctx context.Context, req executor.ProbeRequest) error {
	const op string = "scheduler.dispatch_probe"

	body, err := json.Marshal(req)
	if err != nil {
		return apperror.New(apperror.Internal, op, err)
	}
	if _, err := d.pub.Publish(ctx, body); err != nil {
		return apperror.New(apperror.PublishFailed, op, err).WithMessage("failed to publish probe request")
	}
	return nil
}
