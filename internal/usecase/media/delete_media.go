package media

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/jhrphoto/media-pipeline-go/internal/port"
	"github.com/jhrphoto/media-pipeline-go/internal/uuid"
)

type deleteMediaSrv struct {
	repo   port.MediaRepository
	cache  port.Cache
	strg   port.Storage
	bucket string
}

// compile-time check: *deleteMediaSrv must satisfy port.MediaDeleter
var _ port.MediaDeleter = (*deleteMediaSrv)(nil)

// NewMediaDeleter constructs a MediaDeleter implementation.
func NewMediaDeleter(repo port.MediaRepository, cache port.Cache, strg port.Storage, bucket string) port.MediaDeleter {
	return &deleteMediaSrv{repo: repo, cache: cache, strg: strg, bucket: bucket}
}

// DeleteMedia removes the record, then best-effort removes the stored objects
// and clears the cache. The dedup index entry is left in place; it keeps
// first-writer-wins semantics and a re-upload of the same bytes is handled as
// a fresh asset once the record is gone.
func (s *deleteMediaSrv) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	media, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrObjectNotFound
		}
		return err
	}

	for _, v := range media.Variants {
		if err := s.strg.RemoveFile(ctx, s.bucket, v.ObjectKey); err != nil {
			log.Printf("failed to remove variant %q: %v", v.ObjectKey, err)
		}
	}

	if err := s.strg.RemoveFile(ctx, s.bucket, media.OriginalKey); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, media.ID); err != nil {
		return err
	}

	if err := s.cache.DeleteMediaDetails(ctx, media.ID); err != nil {
		log.Printf("failed deleting cache for media #%s: %v", media.ID, err)
	}
	if err := s.cache.DeleteEtagMediaDetails(ctx, media.ID); err != nil {
		log.Printf("failed deleting etag cache for media #%s: %v", media.ID, err)
	}

	return nil
}
