package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jhrphoto/media-pipeline-go/internal/port"
	"github.com/jhrphoto/media-pipeline-go/internal/uuid"
)

type mediaGetterSrv struct {
	repo   port.MediaRepository
	strg   port.Storage
	bucket string
}

// compile-time check: *mediaGetterSrv must satisfy port.MediaGetter
var _ port.MediaGetter = (*mediaGetterSrv)(nil)

func NewMediaGetter(repo port.MediaRepository, strg port.Storage, bucket string) port.MediaGetter {
	return &mediaGetterSrv{repo, strg, bucket}
}

// GetMedia returns the record in whatever state it is in. While the pipeline
// is still running the variants map is absent or partial; callers re-fetch to
// observe ready or error.
func (s *mediaGetterSrv) GetMedia(ctx context.Context, id uuid.UUID) (*port.GetMediaOutput, error) {
	media, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}

	url, err := s.strg.GeneratePresignedDownloadURL(ctx, s.bucket, media.OriginalKey, DownloadURLTTL)
	if err != nil {
		return nil, fmt.Errorf("failed generating download link for %q: %w", media.OriginalKey, err)
	}

	variants := make(map[string]port.VariantOutput, len(media.Variants))
	for name, v := range media.Variants {
		vURL, err := s.strg.GeneratePresignedDownloadURL(ctx, s.bucket, v.ObjectKey, DownloadURLTTL)
		if err != nil {
			return nil, fmt.Errorf("failed generating download link for variant %q: %w", v.ObjectKey, err)
		}
		variants[name] = port.VariantOutput{
			URL:       vURL,
			SizeBytes: v.SizeBytes,
			Width:     v.Width,
			Height:    v.Height,
			Format:    v.Format,
		}
	}

	out := &port.GetMediaOutput{
		// links expire before ValidUntil so cached output never outlives them
		ValidUntil:   time.Now().Add(DownloadURLTTL - 5*time.Minute),
		Status:       media.Status,
		URL:          url,
		ContentHash:  media.ContentHash,
		OriginalSize: media.OriginalSize,
		Metadata:     media.Metadata,
		Variants:     variants,
	}
	if media.SizeBytes != nil {
		out.SizeBytes = *media.SizeBytes
	}
	if media.FailureMessage != nil {
		out.FailureMessage = *media.FailureMessage
	}
	return out, nil
}
