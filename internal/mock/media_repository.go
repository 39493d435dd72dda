package mock

import (
	"context"
	"time"

	"github.com/jhrphoto/media-pipeline-go/internal/model"
	"github.com/jhrphoto/media-pipeline-go/internal/uuid"
)

// MockMediaRepo implements repository operations for tests.
type MockMediaRepo struct {
	MediaRecord *model.Media

	GetErr    error
	CreateErr error
	UpdateErr error
	DeleteErr error
	ListErr   error
	ListOut   []uuid.UUID

	GetCalled    bool
	Created      *model.Media
	Updated      *model.Media
	DeleteCalled bool
	DeletedID    uuid.UUID
	ListCalled   bool
	ListBefore   time.Time
}

func (m *MockMediaRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Media, error) {
	m.GetCalled = true
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.MediaRecord, nil
}

func (m *MockMediaRepo) Update(ctx context.Context, media *model.Media) error {
	m.Updated = media
	return m.UpdateErr
}

func (m *MockMediaRepo) Create(ctx context.Context, media *model.Media) error {
	m.Created = media
	return m.CreateErr
}

func (m *MockMediaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.DeleteCalled = true
	m.DeletedID = id
	return m.DeleteErr
}

func (m *MockMediaRepo) ListProcessingBefore(ctx context.Context, before time.Time) ([]uuid.UUID, error) {
	m.ListCalled = true
	m.ListBefore = before
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.ListOut, nil
}

// MockDedupIndex implements the dedup index for tests.
type MockDedupIndex struct {
	FindOut *uuid.UUID
	FindErr error

	RecordErr    error
	RecordCalled bool
	RecordedHash string
	RecordedID   uuid.UUID
}

func (m *MockDedupIndex) FindByHash(ctx context.Context, hash string) (*uuid.UUID, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	return m.FindOut, nil
}

func (m *MockDedupIndex) Record(ctx context.Context, hash string, id uuid.UUID) error {
	m.RecordCalled = true
	m.RecordedHash = hash
	m.RecordedID = id
	return m.RecordErr
}
