package worker

import (
	"context"
	"log"

	"github.com/jhrphoto/media-pipeline-go/internal/port"
	"github.com/jhrphoto/media-pipeline-go/internal/task"
	"github.com/jhrphoto/media-pipeline-go/internal/validation"
)

// ProcessMediaHandler handles a process-media task.
// It validates the incoming payload and delegates the call to the service.
func ProcessMediaHandler(ctx context.Context, p task.ProcessMediaPayload, svc port.MediaProcessor) error {
	if err := validation.ValidateStruct(p); err != nil {
		log.Printf("❌  Payload validation failed: %v", err)
		return err
	}

	in := port.ProcessMediaInput{OriginalKey: p.OriginalKey}
	if err := svc.ProcessMedia(ctx, in); err != nil {
		log.Printf("❌  Failed to process original %q: %v", p.OriginalKey, err)
		return err
	}

	log.Printf("✅  Successfully processed original %q", p.OriginalKey)
	return nil
}
