package media

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"

	"github.com/jhrphoto/media-pipeline-go/internal/model"
	"github.com/jhrphoto/media-pipeline-go/internal/port"
)

type mediaProcessorSrv struct {
	repo     port.MediaRepository
	trans    port.Transformer
	strg     port.Storage
	cache    port.Cache
	bucket   string
	maxBytes int64
}

// compile-time check: *mediaProcessorSrv must satisfy port.MediaProcessor
var _ port.MediaProcessor = (*mediaProcessorSrv)(nil)

// NewMediaProcessor constructs the asynchronous variant pipeline. maxBytes
// bounds the encoded size of the full variant.
func NewMediaProcessor(repo port.MediaRepository, trans port.Transformer, strg port.Storage, cache port.Cache, bucket string, maxBytes int64) port.MediaProcessor {
	return &mediaProcessorSrv{repo, trans, strg, cache, bucket, maxBytes}
}

// ProcessMedia turns the original stored at in.OriginalKey into its variants
// and advances the record to ready, or to error on any failure. Safe to call
// more than once for the same key: terminal records are left untouched.
func (s *mediaProcessorSrv) ProcessMedia(ctx context.Context, in port.ProcessMediaInput) error {
	id, err := ParseOriginalKey(in.OriginalKey)
	if err != nil {
		return err
	}

	media, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrObjectNotFound
		}
		return err
	}
	if media.Status.IsTerminal() {
		// duplicate trigger for an already settled attempt
		log.Printf("media #%s already %q, nothing to do", media.ID, media.Status)
		return nil
	}
	if media.Status != model.MediaStatusProcessing {
		return fmt.Errorf("media status should be 'processing' to run the pipeline, got %q", media.Status)
	}

	var finalErr error
	defer func() {
		if finalErr != nil {
			if markErr := s.markAsFailed(ctx, media, finalErr.Error()); markErr != nil {
				log.Printf("markAsFailed failed for media #%s: %v", media.ID, markErr)
			}
		}
	}()

	exists, err := s.strg.FileExists(ctx, s.bucket, media.OriginalKey)
	if err != nil {
		finalErr = fmt.Errorf("failed checking original %q: %w", media.OriginalKey, err)
		return finalErr
	}
	if !exists {
		finalErr = fmt.Errorf("original %q missing from bucket %q: %w", media.OriginalKey, s.bucket, ErrObjectNotFound)
		return finalErr
	}

	reader, err := s.strg.GetFile(ctx, s.bucket, media.OriginalKey)
	if err != nil {
		finalErr = fmt.Errorf("failed reading original %q: %w", media.OriginalKey, err)
		return finalErr
	}
	data, err := io.ReadAll(reader)
	_ = reader.Close()
	if err != nil {
		finalErr = fmt.Errorf("failed reading original %q: %w", media.OriginalKey, err)
		return finalErr
	}

	switch {
	case IsImage(media.MimeType):
		finalErr = s.processImage(ctx, media, data)
	case IsPdf(media.MimeType):
		finalErr = s.processPdf(ctx, media, data)
	default:
		finalErr = fmt.Errorf("unsupported mime-type %q for media #%s", media.MimeType, media.ID)
	}
	if finalErr != nil {
		return finalErr
	}

	// single atomic update: status, variants, dimensions all land together
	media.Status = model.MediaStatusReady
	media.FailureMessage = nil
	if err := s.repo.Update(ctx, media); err != nil {
		finalErr = fmt.Errorf("failed updating media: %w", err)
		return finalErr
	}

	s.invalidateCache(ctx, media)
	return nil
}

func (s *mediaProcessorSrv) processImage(ctx context.Context, media *model.Media, data []byte) error {
	// first point the true dimensions become known; the orchestrator never decodes
	info, err := s.trans.Probe(data)
	if err != nil {
		return err
	}

	results, varErrs := s.trans.GenerateVariants(data, s.maxBytes)
	if len(varErrs) > 0 {
		// the record never carries a partial variants map; all-or-nothing
		names := make([]string, 0, len(varErrs))
		for name := range varErrs {
			names = append(names, name)
		}
		sort.Strings(names)
		errs := make([]error, 0, len(names))
		for _, name := range names {
			errs = append(errs, fmt.Errorf("variant %q: %w", name, varErrs[name]))
		}
		return errors.Join(errs...)
	}

	variants := make(model.Variants, len(results))
	for name, res := range results {
		key := VariantKey(media.ID, name, res.Format)
		if err := s.strg.SaveFile(ctx, s.bucket, key, bytes.NewReader(res.Data), res.SizeBytes, map[string]string{
			"Content-Type": "image/" + res.Format,
		}); err != nil {
			return fmt.Errorf("failed to save variant %q: %w", key, err)
		}
		variants[name] = model.Variant{
			ObjectKey: key,
			SizeBytes: res.SizeBytes,
			Width:     res.Width,
			Height:    res.Height,
			Format:    res.Format,
		}
	}

	media.Variants = variants
	media.Metadata.Width = info.Width
	media.Metadata.Height = info.Height
	media.Metadata.CameraMake = info.CameraMake
	media.Metadata.CameraModel = info.CameraModel
	media.Metadata.TakenAt = info.TakenAt
	if full, ok := results[model.VariantFull]; ok {
		size := full.SizeBytes
		media.SizeBytes = &size
	}
	return nil
}

// processPdf gives documents a single pdfcpu-optimised full variant.
func (s *mediaProcessorSrv) processPdf(ctx context.Context, media *model.Media, data []byte) error {
	optimised, pageCount, err := s.trans.OptimisePDF(data)
	if err != nil {
		return err
	}

	key := VariantKey(media.ID, model.VariantFull, "pdf")
	if err := s.strg.SaveFile(ctx, s.bucket, key, bytes.NewReader(optimised), int64(len(optimised)), map[string]string{
		"Content-Type": "application/pdf",
	}); err != nil {
		return fmt.Errorf("failed to save variant %q: %w", key, err)
	}

	size := int64(len(optimised))
	media.Variants = model.Variants{
		model.VariantFull: {ObjectKey: key, SizeBytes: size, Format: "pdf"},
	}
	media.Metadata.PageCount = pageCount
	media.SizeBytes = &size
	return nil
}

// markAsFailed performs only the status=error update, never a partial
// variants write. The record stays as a terminal failure marker.
func (s *mediaProcessorSrv) markAsFailed(ctx context.Context, media *model.Media, reason string) error {
	media.Status = model.MediaStatusError
	media.FailureMessage = &reason

	if err := s.repo.Update(ctx, media); err != nil {
		return err
	}
	s.invalidateCache(ctx, media)
	return nil
}

func (s *mediaProcessorSrv) invalidateCache(ctx context.Context, media *model.Media) {
	if err := s.cache.DeleteMediaDetails(ctx, media.ID); err != nil {
		log.Printf("failed deleting cache for media #%s: %v", media.ID, err)
	}
	if err := s.cache.DeleteEtagMediaDetails(ctx, media.ID); err != nil {
		log.Printf("failed deleting etag cache for media #%s: %v", media.ID, err)
	}
}
