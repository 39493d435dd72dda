package media

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"github.com/jhrphoto/media-pipeline-go/internal/model"
	"github.com/jhrphoto/media-pipeline-go/internal/port"
)

type mediaUploaderSrv struct {
	repo    port.MediaRepository
	dedup   port.DedupIndex
	strg    port.Storage
	cache   port.Cache
	genUUID port.UUIDGen
	bucket  string
	maxSize int64
}

// compile-time check: *mediaUploaderSrv must satisfy port.MediaUploader
var _ port.MediaUploader = (*mediaUploaderSrv)(nil)

// NewMediaUploader constructs a MediaUploader implementation. maxSize is the
// hard upload ceiling in bytes.
func NewMediaUploader(repo port.MediaRepository, dedup port.DedupIndex, strg port.Storage, cache port.Cache, genUUID port.UUIDGen, bucket string, maxSize int64) port.MediaUploader {
	return &mediaUploaderSrv{repo, dedup, strg, cache, genUUID, bucket, maxSize}
}

// Upload validates the file, checks the dedup index and durably stores the
// original. Variant generation is left entirely to the pipeline, which is
// triggered by the storage-write event on the original key.
func (s *mediaUploaderSrv) Upload(ctx context.Context, in port.UploadInput) (*port.UploadOutput, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	sum := sha256.Sum256(in.Data)
	hash := hex.EncodeToString(sum[:])

	existingID, err := s.dedup.FindByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("dedup lookup for hash %q failed: %w", hash, err)
	}
	if existingID != nil {
		existing, err := s.repo.GetByID(ctx, *existingID)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return nil, err
			}
			// dangling index entry; treat the upload as fresh
			log.Printf("dedup index points at missing media #%s, ignoring", existingID)
		} else if !in.Override {
			// normal outcome, not a failure: the caller decides skip vs replace
			return &port.UploadOutput{
				ID:          existing.ID,
				Status:      existing.Status,
				DuplicateOf: existingID,
			}, nil
		} else {
			return s.replace(ctx, existing, in)
		}
	}

	id := s.genUUID()
	objectKey := OriginalKey(id, in.Filename, in.MimeType)

	if err := s.strg.SaveFile(ctx, s.bucket, objectKey, bytes.NewReader(in.Data), int64(len(in.Data)), map[string]string{
		"Content-Type": in.MimeType,
	}); err != nil {
		return nil, fmt.Errorf("failed to save original %q to bucket %q: %w", objectKey, s.bucket, err)
	}

	// the record must never point at an object the store didn't keep whole
	info, err := s.strg.StatFile(ctx, s.bucket, objectKey)
	if err == nil && info.SizeBytes != int64(len(in.Data)) {
		err = fmt.Errorf("stored %d bytes, expected %d", info.SizeBytes, len(in.Data))
	}
	if err != nil {
		if rmErr := s.strg.RemoveFile(ctx, s.bucket, objectKey); rmErr != nil {
			log.Printf("cleanup of original %q after failed write verification also failed: %v", objectKey, rmErr)
		}
		return nil, fmt.Errorf("verification of original %q in bucket %q failed: %w", objectKey, s.bucket, err)
	}

	media := &model.Media{
		ID:               id,
		OriginalKey:      objectKey,
		OriginalFilename: in.Filename,
		MimeType:         in.MimeType,
		ContentHash:      hash,
		Status:           model.MediaStatusProcessing,
		OriginalSize:     int64(len(in.Data)),
		FolderID:         in.FolderID,
	}
	if err := s.repo.Create(ctx, media); err != nil {
		// don't leave an orphaned object behind
		if rmErr := s.strg.RemoveFile(ctx, s.bucket, objectKey); rmErr != nil {
			log.Printf("cleanup of original %q after failed record write also failed: %v", objectKey, rmErr)
		}
		return nil, fmt.Errorf("failed creating media record: %w", err)
	}

	// the index entry must come after the record write, so a crash in between
	// never leaves the index pointing at a record that doesn't exist
	if err := s.dedup.Record(ctx, hash, id); err != nil {
		log.Printf("failed recording dedup entry for media #%s: %v", id, err)
	}

	return &port.UploadOutput{ID: id, Status: media.Status}, nil
}

// replace overwrites the stored bytes of an existing duplicate in place,
// keeping its media ID, and resets the record so the pipeline reprocesses it.
// External references to the media ID stay valid.
func (s *mediaUploaderSrv) replace(ctx context.Context, existing *model.Media, in port.UploadInput) (*port.UploadOutput, error) {
	// the record must leave its terminal state before the overwrite lands:
	// the storage notification for that write can arrive immediately, and the
	// pipeline skips terminal records. A crash after the update merely
	// reprocesses the old original, which carries the same bytes.
	existing.Status = model.MediaStatusProcessing
	existing.MimeType = in.MimeType
	existing.OriginalSize = int64(len(in.Data))
	existing.FailureMessage = nil
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed updating media record before replace: %w", err)
	}

	if err := s.cache.DeleteMediaDetails(ctx, existing.ID); err != nil {
		log.Printf("failed deleting cache for media #%s: %v", existing.ID, err)
	}
	if err := s.cache.DeleteEtagMediaDetails(ctx, existing.ID); err != nil {
		log.Printf("failed deleting etag cache for media #%s: %v", existing.ID, err)
	}

	if err := s.strg.SaveFile(ctx, s.bucket, existing.OriginalKey, bytes.NewReader(in.Data), int64(len(in.Data)), map[string]string{
		"Content-Type": in.MimeType,
	}); err != nil {
		return nil, fmt.Errorf("failed to replace original %q in bucket %q: %w", existing.OriginalKey, s.bucket, err)
	}

	dup := existing.ID
	return &port.UploadOutput{
		ID:          existing.ID,
		Status:      existing.Status,
		DuplicateOf: &dup,
		Replaced:    true,
	}, nil
}

func (s *mediaUploaderSrv) validate(in port.UploadInput) error {
	if !IsMimeTypeAllowed(in.MimeType) {
		return fmt.Errorf("%w: %q", ErrUnsupportedMediaType, in.MimeType)
	}
	if int64(len(in.Data)) < MinFileSize {
		return fmt.Errorf("%w: empty file", ErrUnsupportedMediaType)
	}
	if int64(len(in.Data)) > s.maxSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLarge, len(in.Data), s.maxSize)
	}
	return nil
}
