package model

import (
	"time"

	"github.com/jhrphoto/media-pipeline-go/internal/uuid"
)

type MediaStatus string

const (
	// MediaStatusUploading is the in-flight state of a request whose original
	// bytes are not durably stored yet. Records are only persisted from
	// MediaStatusProcessing onwards.
	MediaStatusUploading  MediaStatus = "uploading"
	MediaStatusProcessing MediaStatus = "processing"
	MediaStatusReady      MediaStatus = "ready"
	MediaStatusError      MediaStatus = "error"
)

// IsTerminal reports whether the status ends the current upload attempt.
func (s MediaStatus) IsTerminal() bool {
	return s == MediaStatusReady || s == MediaStatusError
}

const (
	VariantThumbnail = "thumbnail"
	VariantMedium    = "medium"
	VariantFull      = "full"
)

// Media is the persisted record for one uploaded asset: the untouched
// original plus the variants derived from it by the pipeline.
type Media struct {
	ID               uuid.UUID   `json:"id"`
	OriginalKey      string      `json:"original_key"`
	OriginalFilename string      `json:"original_filename"`
	MimeType         string      `json:"mime_type"`
	ContentHash      string      `json:"content_hash"`
	Status           MediaStatus `json:"status"`
	OriginalSize     int64       `json:"original_size"`
	SizeBytes        *int64      `json:"size_bytes,omitempty"`
	FailureMessage   *string     `json:"failure_message,omitempty"`
	FolderID         *string     `json:"folder_id,omitempty"`
	Metadata         Metadata    `json:"metadata"`
	Variants         Variants    `json:"variants"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}
