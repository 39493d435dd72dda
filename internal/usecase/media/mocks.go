package media

import (
	"context"
	"io"
	"time"

	"github.com/jhrphoto/media-pipeline-go/internal/model"
	"github.com/jhrphoto/media-pipeline-go/internal/port"
	"github.com/jhrphoto/media-pipeline-go/internal/uuid"
)

type mockRepo struct {
	mediaRecord *model.Media

	getErr    error
	createErr error
	updateErr error
	deleteErr error
	listErr   error
	listOut   []uuid.UUID

	getCalled    bool
	created      *model.Media
	updated      []*model.Media
	deleteCalled bool
	listBefore   time.Time
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Media, error) {
	m.getCalled = true
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.mediaRecord, nil
}
func (m *mockRepo) Update(ctx context.Context, media *model.Media) error {
	m.updated = append(m.updated, media)
	return m.updateErr
}
func (m *mockRepo) Create(ctx context.Context, media *model.Media) error {
	m.created = media
	return m.createErr
}
func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.deleteCalled = true
	return m.deleteErr
}
func (m *mockRepo) ListProcessingBefore(ctx context.Context, before time.Time) ([]uuid.UUID, error) {
	m.listBefore = before
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listOut, nil
}

type mockDedup struct {
	findOut *uuid.UUID
	findErr error

	recordErr    error
	recordCalled bool
	recordedHash string
	recordedID   uuid.UUID
}

func (m *mockDedup) FindByHash(ctx context.Context, hash string) (*uuid.UUID, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.findOut, nil
}
func (m *mockDedup) Record(ctx context.Context, hash string, id uuid.UUID) error {
	m.recordCalled = true
	m.recordedHash = hash
	m.recordedID = id
	return m.recordErr
}

type nopReadSeekCloser struct{ io.ReadSeeker }

func (nopReadSeekCloser) Close() error { return nil }

type mockStorage struct {
	reader   io.ReadSeeker
	statInfo port.FileInfo
	missing  bool

	downloadURLErr error
	statErr        error
	removeErr      error
	getErr         error
	saveErr        error
	existsErr      error

	savedKeys   []string
	savedSizes  []int64
	removedKeys []string
	getCalled   bool
	saveCalled  int
	// saveHook runs inside SaveFile, after the write is recorded
	saveHook func(fileKey string)
}

func (m *mockStorage) InitBucket(bucket string) error { return nil }
func (m *mockStorage) GeneratePresignedDownloadURL(ctx context.Context, bucket, fileKey string, expiry time.Duration) (string, error) {
	if m.downloadURLErr != nil {
		return "", m.downloadURLErr
	}
	return "https://example.com/download/" + fileKey, nil
}
func (m *mockStorage) FileExists(ctx context.Context, bucket, fileKey string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return !m.missing, nil
}
func (m *mockStorage) StatFile(ctx context.Context, bucket, fileKey string) (port.FileInfo, error) {
	if m.statErr != nil {
		return port.FileInfo{}, m.statErr
	}
	if m.statInfo == (port.FileInfo{}) && len(m.savedSizes) > 0 {
		// stats reflect the last write unless a test pins them
		return port.FileInfo{SizeBytes: m.savedSizes[len(m.savedSizes)-1]}, nil
	}
	return m.statInfo, nil
}
func (m *mockStorage) RemoveFile(ctx context.Context, bucket, fileKey string) error {
	m.removedKeys = append(m.removedKeys, fileKey)
	return m.removeErr
}
func (m *mockStorage) GetFile(ctx context.Context, bucket, fileKey string) (io.ReadSeekCloser, error) {
	m.getCalled = true
	if m.getErr != nil {
		return nil, m.getErr
	}
	return nopReadSeekCloser{m.reader}, nil
}
func (m *mockStorage) SaveFile(ctx context.Context, bucket, fileKey string, reader io.Reader, fileSize int64, opts map[string]string) error {
	m.saveCalled++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.savedKeys = append(m.savedKeys, fileKey)
	m.savedSizes = append(m.savedSizes, fileSize)
	if m.saveHook != nil {
		m.saveHook(fileKey)
	}
	return nil
}

type mockCache struct {
	deleteCalled     bool
	deleteEtagCalled bool
}

func (m *mockCache) GetMediaDetails(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return nil, nil
}
func (m *mockCache) GetEtagMediaDetails(ctx context.Context, id uuid.UUID) (string, error) {
	return "", nil
}
func (m *mockCache) SetMediaDetails(ctx context.Context, id uuid.UUID, data []byte, validUntil time.Time) {
}
func (m *mockCache) SetEtagMediaDetails(ctx context.Context, id uuid.UUID, etag string, validUntil time.Time) {
}
func (m *mockCache) DeleteMediaDetails(ctx context.Context, id uuid.UUID) error {
	m.deleteCalled = true
	return nil
}
func (m *mockCache) DeleteEtagMediaDetails(ctx context.Context, id uuid.UUID) error {
	m.deleteEtagCalled = true
	return nil
}

type mockTransformer struct {
	optimiseOut *port.TransformResult
	optimiseErr error

	variantsOut  map[string]*port.TransformResult
	variantsErrs map[string]error

	probeOut *port.ImageInfo
	probeErr error

	pdfOut   []byte
	pdfPages int
	pdfErr   error
}

func (m *mockTransformer) Optimise(data []byte, opts port.TransformOptions) (*port.TransformResult, error) {
	if m.optimiseErr != nil {
		return nil, m.optimiseErr
	}
	return m.optimiseOut, nil
}
func (m *mockTransformer) GenerateVariants(data []byte, maxBytes int64) (map[string]*port.TransformResult, map[string]error) {
	return m.variantsOut, m.variantsErrs
}
func (m *mockTransformer) Probe(data []byte) (*port.ImageInfo, error) {
	if m.probeErr != nil {
		return nil, m.probeErr
	}
	return m.probeOut, nil
}
func (m *mockTransformer) OptimisePDF(data []byte) ([]byte, int, error) {
	if m.pdfErr != nil {
		return nil, 0, m.pdfErr
	}
	return m.pdfOut, m.pdfPages, nil
}

type mockDispatcher struct {
	enqueueErr  error
	enqueuedKey []string
}

func (m *mockDispatcher) EnqueueProcessMedia(ctx context.Context, originalKey string) error {
	if m.enqueueErr != nil {
		return m.enqueueErr
	}
	m.enqueuedKey = append(m.enqueuedKey, originalKey)
	return nil
}
