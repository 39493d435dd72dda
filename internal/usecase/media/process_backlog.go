package media

import (
	"context"
	"time"

	"github.com/jhrphoto/media-pipeline-go/internal/logger"
	"github.com/jhrphoto/media-pipeline-go/internal/port"
)

// backlogCutoff is how old a processing record must be before it is
// considered stuck. Fresh uploads are still in flight through the queue.
const backlogCutoff = 1 * time.Hour

type backlogProcessorSrv struct {
	repo  port.MediaRepository
	tasks port.TaskDispatcher
}

// compile-time check: *backlogProcessorSrv must satisfy port.BacklogProcessor
var _ port.BacklogProcessor = (*backlogProcessorSrv)(nil)

// NewBacklogProcessor constructs a BacklogProcessor implementation.
func NewBacklogProcessor(repo port.MediaRepository, tasks port.TaskDispatcher) port.BacklogProcessor {
	return &backlogProcessorSrv{repo, tasks}
}

// ProcessBacklog re-enqueues pipeline tasks for records stuck in processing,
// typically after a lost storage notification or a worker crash. Safe to run
// repeatedly: processing is the only non-terminal persisted state and the
// pipeline itself is idempotent.
func (s *backlogProcessorSrv) ProcessBacklog(ctx context.Context) error {
	cutoff := time.Now().Add(-backlogCutoff)
	ids, err := s.repo.ListProcessingBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	if len(ids) == 0 {
		logger.Info(ctx, "no stuck medias found to reprocess")
		return nil
	}

	for _, id := range ids {
		media, err := s.repo.GetByID(ctx, id)
		if err != nil {
			logger.Warnf(ctx, "failed loading stuck media #%s: %v", id, err)
			continue
		}
		logger.Infof(ctx, "re-enqueueing pipeline for media #%s", id)
		if err := s.tasks.EnqueueProcessMedia(ctx, media.OriginalKey); err != nil {
			logger.Warnf(ctx, "failed to enqueue process task for media #%s: %v", id, err)
		}
	}
	return nil
}
