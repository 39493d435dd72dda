package task

import (
	"context"

	"github.com/jhrphoto/media-pipeline-go/internal/port"
)

type NoopDispatcher struct{}

var _ port.TaskDispatcher = (*NoopDispatcher)(nil)

func NewNoopDispatcher() *NoopDispatcher { return &NoopDispatcher{} }

func (d *NoopDispatcher) EnqueueProcessMedia(ctx context.Context, originalKey string) error {
	return nil
}
