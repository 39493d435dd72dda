package port

import (
	"context"
	"time"

	"github.com/jhrphoto/media-pipeline-go/internal/model"
	"github.com/jhrphoto/media-pipeline-go/internal/uuid"
)

type UUIDGen func() uuid.UUID

// MediaUploader validates, deduplicates and stores an incoming file, then
// hands variant generation over to the asynchronous pipeline.
type MediaUploader interface {
	Upload(ctx context.Context, in UploadInput) (*UploadOutput, error)
}
type UploadInput struct {
	Data     []byte
	Filename string
	MimeType string
	FolderID *string
	// Override replaces the stored bytes of an existing duplicate in place,
	// keeping its media ID. Without it a duplicate upload is skipped.
	Override bool
}
type UploadOutput struct {
	ID          uuid.UUID         `json:"id"`
	Status      model.MediaStatus `json:"status"`
	DuplicateOf *uuid.UUID        `json:"duplicate_of,omitempty"`
	Replaced    bool              `json:"replaced,omitempty"`
}

// MediaProcessor is the asynchronous variant pipeline, keyed by the original
// object key carried in the storage-write event. Idempotent.
type MediaProcessor interface {
	ProcessMedia(ctx context.Context, in ProcessMediaInput) error
}
type ProcessMediaInput struct {
	OriginalKey string
}

// MediaGetter retrieves media information from the repository and storage.
type MediaGetter interface {
	GetMedia(ctx context.Context, id uuid.UUID) (*GetMediaOutput, error)
}
type VariantOutput struct {
	URL       string `json:"url"`
	SizeBytes int64  `json:"size_bytes"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
}
type GetMediaOutput struct {
	ValidUntil     time.Time                `json:"valid_until"`
	Status         model.MediaStatus        `json:"status"`
	URL            string                   `json:"url"`
	ContentHash    string                   `json:"content_hash"`
	OriginalSize   int64                    `json:"original_size"`
	SizeBytes      int64                    `json:"size_bytes"`
	Metadata       model.Metadata           `json:"metadata"`
	Variants       map[string]VariantOutput `json:"variants"`
	FailureMessage string                   `json:"failure_message,omitempty"`
}

// MediaDeleter deletes a media record and, best-effort, its stored objects.
type MediaDeleter interface {
	DeleteMedia(ctx context.Context, id uuid.UUID) error
}

// BacklogProcessor re-enqueues assets stuck in processing.
type BacklogProcessor interface {
	ProcessBacklog(ctx context.Context) error
}
