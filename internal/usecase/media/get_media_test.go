package media

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jhrphoto/media-pipeline-go/internal/model"
	"github.com/jhrphoto/media-pipeline-go/internal/uuid"
)

func TestGetMedia_Ready(t *testing.T) {
	id := uuid.NewUUID()
	size := int64(90000)
	media := &model.Media{
		ID:           id,
		OriginalKey:  "originals/" + id.String() + "/photo.jpg",
		MimeType:     "image/jpeg",
		ContentHash:  "abc123",
		Status:       model.MediaStatusReady,
		OriginalSize: 450000,
		SizeBytes:    &size,
		Metadata:     model.Metadata{Width: 4000, Height: 2667},
		Variants: model.Variants{
			model.VariantThumbnail: {ObjectKey: "variants/" + id.String() + "/thumbnail.webp", SizeBytes: 5000, Width: 300, Height: 300, Format: "webp"},
			model.VariantFull:      {ObjectKey: "variants/" + id.String() + "/full.webp", SizeBytes: 90000, Width: 4000, Height: 2667, Format: "webp"},
		},
	}
	repo := &mockRepo{mediaRecord: media}
	svc := NewMediaGetter(repo, &mockStorage{}, "medias")

	out, err := svc.GetMedia(context.Background(), id)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if out.Status != model.MediaStatusReady {
		t.Errorf("expected status %q, got %q", model.MediaStatusReady, out.Status)
	}
	if !strings.Contains(out.URL, media.OriginalKey) {
		t.Errorf("expected a link to the original, got %q", out.URL)
	}
	if len(out.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(out.Variants))
	}
	thumb := out.Variants[model.VariantThumbnail]
	if !strings.Contains(thumb.URL, "thumbnail.webp") {
		t.Errorf("expected a thumbnail link, got %q", thumb.URL)
	}
	if thumb.Width != 300 || thumb.Height != 300 {
		t.Errorf("unexpected thumbnail dimensions %dx%d", thumb.Width, thumb.Height)
	}
	if out.SizeBytes != size {
		t.Errorf("expected size_bytes %d, got %d", size, out.SizeBytes)
	}
	if out.ContentHash != "abc123" {
		t.Errorf("unexpected content hash %q", out.ContentHash)
	}
	// cached output must expire before the links do
	if out.ValidUntil.After(time.Now().Add(DownloadURLTTL)) {
		t.Error("ValidUntil must not outlive the download links")
	}
}

func TestGetMedia_StillProcessing(t *testing.T) {
	id := uuid.NewUUID()
	media := &model.Media{
		ID:          id,
		OriginalKey: "originals/" + id.String() + "/photo.jpg",
		Status:      model.MediaStatusProcessing,
	}
	svc := NewMediaGetter(&mockRepo{mediaRecord: media}, &mockStorage{}, "medias")

	out, err := svc.GetMedia(context.Background(), id)
	if err != nil {
		t.Fatalf("a processing record is still retrievable, got %v", err)
	}
	if out.Status != model.MediaStatusProcessing {
		t.Errorf("expected status %q, got %q", model.MediaStatusProcessing, out.Status)
	}
	if len(out.Variants) != 0 {
		t.Errorf("expected no variants yet, got %d", len(out.Variants))
	}
}

func TestGetMedia_FailedRecordCarriesReason(t *testing.T) {
	id := uuid.NewUUID()
	failure := "variant \"full\": encode failed"
	media := &model.Media{
		ID:             id,
		OriginalKey:    "originals/" + id.String() + "/broken.jpg",
		Status:         model.MediaStatusError,
		FailureMessage: &failure,
	}
	svc := NewMediaGetter(&mockRepo{mediaRecord: media}, &mockStorage{}, "medias")

	out, err := svc.GetMedia(context.Background(), id)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if out.FailureMessage != failure {
		t.Errorf("expected failure message %q, got %q", failure, out.FailureMessage)
	}
}

func TestGetMedia_NotFound(t *testing.T) {
	svc := NewMediaGetter(&mockRepo{getErr: sql.ErrNoRows}, &mockStorage{}, "medias")

	_, err := svc.GetMedia(context.Background(), uuid.NewUUID())
	if !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestGetMedia_LinkGenerationFailure(t *testing.T) {
	id := uuid.NewUUID()
	media := &model.Media{ID: id, OriginalKey: "originals/" + id.String() + "/photo.jpg", Status: model.MediaStatusReady}
	strg := &mockStorage{downloadURLErr: errors.New("signing failed")}
	svc := NewMediaGetter(&mockRepo{mediaRecord: media}, strg, "medias")

	if _, err := svc.GetMedia(context.Background(), id); err == nil {
		t.Fatal("expected an error")
	}
}
