package port

import (
	"context"
	"time"

	"github.com/jhrphoto/media-pipeline-go/internal/model"
	"github.com/jhrphoto/media-pipeline-go/internal/uuid"
)

// MediaRepository defines persistence operations for medias.
type MediaRepository interface {
	Create(ctx context.Context, media *model.Media) error
	Update(ctx context.Context, media *model.Media) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Media, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListProcessingBefore(ctx context.Context, before time.Time) ([]uuid.UUID, error)
}

// DedupIndex maps a content hash to the first media that produced it.
// Entries are first-writer-wins and never updated.
type DedupIndex interface {
	// FindByHash returns the media ID recorded for the hash, or nil when the
	// hash has never been seen.
	FindByHash(ctx context.Context, hash string) (*uuid.UUID, error)
	// Record inserts the hash→media mapping. Recording an already known hash
	// is a no-op, not an overwrite.
	Record(ctx context.Context, hash string, id uuid.UUID) error
}
