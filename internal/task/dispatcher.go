package task

import (
	"context"

	"github.com/hibiken/asynq"

	"github.com/jhrphoto/media-pipeline-go/internal/port"
)

type Dispatcher struct {
	client *asynq.Client
}

// compile-time check
var _ port.TaskDispatcher = (*Dispatcher)(nil)

func NewDispatcher(addr, password string) *Dispatcher {
	c := asynq.NewClient(asynq.RedisClientOpt{Addr: addr, Password: password})
	return &Dispatcher{client: c}
}

func (d *Dispatcher) Close() error {
	return d.client.Close()
}

func (d *Dispatcher) EnqueueProcessMedia(ctx context.Context, originalKey string) error {
	t, err := NewProcessMediaTask(originalKey)
	if err != nil {
		return err
	}
	// the pipeline is idempotent, so at-least-once delivery is enough
	if _, err := d.client.EnqueueContext(ctx, t); err != nil {
		return err
	}
	return nil
}
