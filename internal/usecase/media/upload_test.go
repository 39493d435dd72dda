package media

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/jhrphoto/media-pipeline-go/internal/model"
	"github.com/jhrphoto/media-pipeline-go/internal/port"
	"github.com/jhrphoto/media-pipeline-go/internal/uuid"
)

func fixedUUIDGen(id uuid.UUID) port.UUIDGen {
	return func() uuid.UUID { return id }
}

func TestUpload_Success(t *testing.T) {
	id := uuid.NewUUID()
	repo := &mockRepo{}
	dedup := &mockDedup{}
	strg := &mockStorage{}
	svc := NewMediaUploader(repo, dedup, strg, &mockCache{}, fixedUUIDGen(id), "medias", 1<<20)

	data := []byte("fresh image bytes")
	out, err := svc.Upload(context.Background(), port.UploadInput{
		Data:     data,
		Filename: "shoot 01.jpg",
		MimeType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if out.ID != id {
		t.Errorf("expected ID %s, got %s", id, out.ID)
	}
	if out.Status != model.MediaStatusProcessing {
		t.Errorf("expected status %q, got %q", model.MediaStatusProcessing, out.Status)
	}
	if out.DuplicateOf != nil {
		t.Errorf("expected no duplicate, got %s", out.DuplicateOf)
	}

	if repo.created == nil {
		t.Fatal("expected a media record to be created")
	}
	wantKey := "originals/" + id.String() + "/shoot_01.jpg"
	if repo.created.OriginalKey != wantKey {
		t.Errorf("expected original key %q, got %q", wantKey, repo.created.OriginalKey)
	}
	sum := sha256.Sum256(data)
	if repo.created.ContentHash != hex.EncodeToString(sum[:]) {
		t.Errorf("unexpected content hash %q", repo.created.ContentHash)
	}
	if repo.created.OriginalSize != int64(len(data)) {
		t.Errorf("expected original size %d, got %d", len(data), repo.created.OriginalSize)
	}

	if len(strg.savedKeys) != 1 || strg.savedKeys[0] != wantKey {
		t.Errorf("expected one saved object at %q, got %v", wantKey, strg.savedKeys)
	}
	if !dedup.recordCalled {
		t.Error("expected the dedup entry to be recorded")
	}
	if dedup.recordedID != id {
		t.Errorf("dedup entry recorded for %s, want %s", dedup.recordedID, id)
	}
}

func TestUpload_DuplicateWithoutOverride(t *testing.T) {
	existingID := uuid.NewUUID()
	repo := &mockRepo{mediaRecord: &model.Media{ID: existingID, Status: model.MediaStatusReady}}
	dedup := &mockDedup{findOut: &existingID}
	strg := &mockStorage{}
	svc := NewMediaUploader(repo, dedup, strg, &mockCache{}, fixedUUIDGen(uuid.NewUUID()), "medias", 1<<20)

	out, err := svc.Upload(context.Background(), port.UploadInput{
		Data:     []byte("same bytes"),
		Filename: "dup.jpg",
		MimeType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("a duplicate is not a failure, got %v", err)
	}
	if out.DuplicateOf == nil || *out.DuplicateOf != existingID {
		t.Errorf("expected duplicate_of %s, got %v", existingID, out.DuplicateOf)
	}
	if out.ID != existingID {
		t.Errorf("expected the existing ID %s, got %s", existingID, out.ID)
	}
	if out.Replaced {
		t.Error("nothing should be replaced without override")
	}
	if strg.saveCalled != 0 {
		t.Errorf("expected no storage write, got %d", strg.saveCalled)
	}
	if repo.created != nil {
		t.Error("expected no new record")
	}
}

func TestUpload_DuplicateWithOverride(t *testing.T) {
	existingID := uuid.NewUUID()
	failure := "decode failed"
	existing := &model.Media{
		ID:             existingID,
		OriginalKey:    "originals/" + existingID.String() + "/old.png",
		MimeType:       "image/png",
		Status:         model.MediaStatusError,
		FailureMessage: &failure,
	}
	repo := &mockRepo{mediaRecord: existing}
	dedup := &mockDedup{findOut: &existingID}
	strg := &mockStorage{}
	svc := NewMediaUploader(repo, dedup, strg, &mockCache{}, fixedUUIDGen(uuid.NewUUID()), "medias", 1<<20)

	data := []byte("replacement bytes")
	out, err := svc.Upload(context.Background(), port.UploadInput{
		Data:     data,
		Filename: "new.jpg",
		MimeType: "image/jpeg",
		Override: true,
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !out.Replaced {
		t.Error("expected replaced=true")
	}
	if out.ID != existingID {
		t.Errorf("replace must keep the media ID, got %s", out.ID)
	}
	if out.Status != model.MediaStatusProcessing {
		t.Errorf("expected status reset to processing, got %q", out.Status)
	}

	// bytes land under the existing key, never a new one
	if len(strg.savedKeys) != 1 || strg.savedKeys[0] != existing.OriginalKey {
		t.Errorf("expected overwrite at %q, got %v", existing.OriginalKey, strg.savedKeys)
	}
	if len(repo.updated) != 1 {
		t.Fatalf("expected one record update, got %d", len(repo.updated))
	}
	updated := repo.updated[0]
	if updated.MimeType != "image/jpeg" {
		t.Errorf("expected mime-type refreshed, got %q", updated.MimeType)
	}
	if updated.OriginalSize != int64(len(data)) {
		t.Errorf("expected original size %d, got %d", len(data), updated.OriginalSize)
	}
	if updated.FailureMessage != nil {
		t.Error("expected the failure message cleared")
	}
	if repo.created != nil {
		t.Error("replace must not create a record")
	}
}

func TestUpload_OverrideResetsRecordBeforeOverwrite(t *testing.T) {
	existingID := uuid.NewUUID()
	failure := "decode failed"
	existing := &model.Media{
		ID:             existingID,
		OriginalKey:    "originals/" + existingID.String() + "/old.png",
		MimeType:       "image/png",
		Status:         model.MediaStatusError,
		FailureMessage: &failure,
	}
	repo := &mockRepo{mediaRecord: existing}
	dedup := &mockDedup{findOut: &existingID}
	cache := &mockCache{}

	// the notification for the overwrite can fire the pipeline immediately;
	// a record still in a terminal state at that point would be skipped and
	// the asset left in limbo
	var statusAtOverwrite model.MediaStatus
	var updatedAtOverwrite bool
	strg := &mockStorage{}
	strg.saveHook = func(fileKey string) {
		updatedAtOverwrite = len(repo.updated) > 0
		if updatedAtOverwrite {
			statusAtOverwrite = repo.updated[len(repo.updated)-1].Status
		}
	}
	svc := NewMediaUploader(repo, dedup, strg, cache, fixedUUIDGen(uuid.NewUUID()), "medias", 1<<20)

	_, err := svc.Upload(context.Background(), port.UploadInput{
		Data:     []byte("replacement bytes"),
		Filename: "new.jpg",
		MimeType: "image/jpeg",
		Override: true,
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !updatedAtOverwrite {
		t.Fatal("expected the record update to land before the overwrite")
	}
	if statusAtOverwrite != model.MediaStatusProcessing {
		t.Errorf("expected status %q at overwrite time, got %q", model.MediaStatusProcessing, statusAtOverwrite)
	}
	if !cache.deleteCalled || !cache.deleteEtagCalled {
		t.Error("expected the stale cached rendering purged on replace")
	}
}

func TestUpload_DanglingDedupEntry(t *testing.T) {
	staleID := uuid.NewUUID()
	newID := uuid.NewUUID()
	repo := &mockRepo{getErr: sql.ErrNoRows}
	dedup := &mockDedup{findOut: &staleID}
	strg := &mockStorage{}
	svc := NewMediaUploader(repo, dedup, strg, &mockCache{}, fixedUUIDGen(newID), "medias", 1<<20)

	out, err := svc.Upload(context.Background(), port.UploadInput{
		Data:     []byte("bytes behind a stale index entry"),
		Filename: "again.jpg",
		MimeType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("a dangling index entry must not block the upload, got %v", err)
	}
	if out.ID != newID {
		t.Errorf("expected a fresh record %s, got %s", newID, out.ID)
	}
	if repo.created == nil {
		t.Error("expected a fresh record to be created")
	}
}

func TestUpload_RejectsUnsupportedMimeType(t *testing.T) {
	svc := NewMediaUploader(&mockRepo{}, &mockDedup{}, &mockStorage{}, &mockCache{}, fixedUUIDGen(uuid.NewUUID()), "medias", 1<<20)

	_, err := svc.Upload(context.Background(), port.UploadInput{
		Data:     []byte("<svg/>"),
		Filename: "vector.svg",
		MimeType: "image/svg+xml",
	})
	if !errors.Is(err, ErrUnsupportedMediaType) {
		t.Fatalf("expected ErrUnsupportedMediaType, got %v", err)
	}
}

func TestUpload_RejectsOversizedPayload(t *testing.T) {
	svc := NewMediaUploader(&mockRepo{}, &mockDedup{}, &mockStorage{}, &mockCache{}, fixedUUIDGen(uuid.NewUUID()), "medias", 16)

	_, err := svc.Upload(context.Background(), port.UploadInput{
		Data:     []byte(strings.Repeat("x", 17)),
		Filename: "big.jpg",
		MimeType: "image/jpeg",
	})
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestUpload_RejectsEmptyFile(t *testing.T) {
	svc := NewMediaUploader(&mockRepo{}, &mockDedup{}, &mockStorage{}, &mockCache{}, fixedUUIDGen(uuid.NewUUID()), "medias", 1<<20)

	_, err := svc.Upload(context.Background(), port.UploadInput{
		Data:     nil,
		Filename: "empty.jpg",
		MimeType: "image/jpeg",
	})
	if !errors.Is(err, ErrUnsupportedMediaType) {
		t.Fatalf("expected ErrUnsupportedMediaType, got %v", err)
	}
}

func TestUpload_CleansUpObjectWhenRecordWriteFails(t *testing.T) {
	id := uuid.NewUUID()
	repo := &mockRepo{createErr: errors.New("insert failed")}
	strg := &mockStorage{}
	svc := NewMediaUploader(repo, &mockDedup{}, strg, &mockCache{}, fixedUUIDGen(id), "medias", 1<<20)

	_, err := svc.Upload(context.Background(), port.UploadInput{
		Data:     []byte("doomed bytes"),
		Filename: "doomed.jpg",
		MimeType: "image/jpeg",
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	wantKey := "originals/" + id.String() + "/doomed.jpg"
	if len(strg.removedKeys) != 1 || strg.removedKeys[0] != wantKey {
		t.Errorf("expected the orphaned object %q removed, got %v", wantKey, strg.removedKeys)
	}
}

func TestUpload_TruncatedStoredObjectIsRemoved(t *testing.T) {
	id := uuid.NewUUID()
	repo := &mockRepo{}
	strg := &mockStorage{statInfo: port.FileInfo{SizeBytes: 3}}
	svc := NewMediaUploader(repo, &mockDedup{}, strg, &mockCache{}, fixedUUIDGen(id), "medias", 1<<20)

	_, err := svc.Upload(context.Background(), port.UploadInput{
		Data:     []byte("twelve bytes"),
		Filename: "short.jpg",
		MimeType: "image/jpeg",
	})
	if err == nil {
		t.Fatal("expected an error for a short write")
	}
	if repo.created != nil {
		t.Error("no record may point at a truncated object")
	}
	wantKey := "originals/" + id.String() + "/short.jpg"
	if len(strg.removedKeys) != 1 || strg.removedKeys[0] != wantKey {
		t.Errorf("expected the truncated object %q removed, got %v", wantKey, strg.removedKeys)
	}
}

func TestUpload_DedupRecordFailureIsNotFatal(t *testing.T) {
	repo := &mockRepo{}
	dedup := &mockDedup{recordErr: errors.New("index write failed")}
	svc := NewMediaUploader(repo, dedup, &mockStorage{}, &mockCache{}, fixedUUIDGen(uuid.NewUUID()), "medias", 1<<20)

	out, err := svc.Upload(context.Background(), port.UploadInput{
		Data:     []byte("bytes"),
		Filename: "ok.jpg",
		MimeType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("a failed index write must not fail the upload, got %v", err)
	}
	if out.Status != model.MediaStatusProcessing {
		t.Errorf("expected status %q, got %q", model.MediaStatusProcessing, out.Status)
	}
}
