package mock

import (
	"context"

	"github.com/jhrphoto/media-pipeline-go/internal/port"
	"github.com/jhrphoto/media-pipeline-go/internal/uuid"
)

// MockMediaUploader implements port.MediaUploader for tests.
type MockMediaUploader struct {
	Out    *port.UploadOutput
	Err    error
	Called bool
	In     port.UploadInput
}

func (m *MockMediaUploader) Upload(ctx context.Context, in port.UploadInput) (*port.UploadOutput, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// MockMediaGetter implements port.MediaGetter for tests.
type MockMediaGetter struct {
	Out    *port.GetMediaOutput
	Err    error
	Called bool
	ID     uuid.UUID
}

func (m *MockMediaGetter) GetMedia(ctx context.Context, id uuid.UUID) (*port.GetMediaOutput, error) {
	m.Called = true
	m.ID = id
	return m.Out, m.Err
}

// MockMediaProcessor implements port.MediaProcessor for tests.
type MockMediaProcessor struct {
	Err    error
	Called bool
	In     port.ProcessMediaInput
}

func (m *MockMediaProcessor) ProcessMedia(ctx context.Context, in port.ProcessMediaInput) error {
	m.Called = true
	m.In = in
	return m.Err
}

// MockMediaDeleter implements port.MediaDeleter for tests.
type MockMediaDeleter struct {
	Err    error
	Called bool
	ID     uuid.UUID
}

func (m *MockMediaDeleter) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	m.Called = true
	m.ID = id
	return m.Err
}
