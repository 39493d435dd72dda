package port

import "context"

// TaskDispatcher enqueues asynchronous tasks related to media processing.
type TaskDispatcher interface {
	// EnqueueProcessMedia schedules variant generation for the original stored
	// at the given object key.
	EnqueueProcessMedia(ctx context.Context, originalKey string) error
}
