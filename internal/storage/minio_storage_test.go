package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/notification"

	"github.com/jhrphoto/media-pipeline-go/internal/port"
	"github.com/jhrphoto/media-pipeline-go/internal/usecase/media"
)

type mockMinio struct {
	bucketExistsFn       func(ctx context.Context, bucketName string) (bool, error)
	makeBucketFn         func(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	removeObjectFn       func(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	presignedGetObjectFn func(ctx context.Context, bucket, key string, expiry time.Duration, params url.Values) (*url.URL, error)
	statObjectFn         func(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	getObjectFn          func(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	putObjectFn          func(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	listenFn             func(ctx context.Context, bucketName, prefix, suffix string, events []string) <-chan notification.Info
}

func (m *mockMinio) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return m.bucketExistsFn(ctx, bucketName)
}
func (m *mockMinio) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return m.makeBucketFn(ctx, bucketName, opts)
}
func (m *mockMinio) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return m.removeObjectFn(ctx, bucketName, objectName, opts)
}
func (m *mockMinio) PresignedGetObject(ctx context.Context, bucket, key string, expiry time.Duration, params url.Values) (*url.URL, error) {
	return m.presignedGetObjectFn(ctx, bucket, key, expiry, params)
}
func (m *mockMinio) StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return m.statObjectFn(ctx, bucket, key, opts)
}
func (m *mockMinio) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error) {
	return m.getObjectFn(ctx, bucketName, objectName, opts)
}
func (m *mockMinio) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return m.putObjectFn(ctx, bucketName, objectName, reader, objectSize, opts)
}
func (m *mockMinio) ListenBucketNotification(ctx context.Context, bucketName, prefix, suffix string, events []string) <-chan notification.Info {
	return m.listenFn(ctx, bucketName, prefix, suffix, events)
}

func makeStorage(mockClient *mockMinio) *MinioStorage {
	return &MinioStorage{client: mockClient}
}

func TestInitBucket(t *testing.T) {
	tests := []struct {
		name           string
		exists         bool
		existsErr      error
		makeErr        error
		wantMakeCalled bool
		wantErr        bool
	}{
		{
			name:           "bucket exists, no create",
			exists:         true,
			wantMakeCalled: false,
		},
		{
			name:           "bucket does not exist, create succeeds",
			exists:         false,
			wantMakeCalled: true,
		},
		{
			name:      "BucketExists error bubbles up",
			existsErr: errors.New("exist fail"),
			wantErr:   true,
		},
		{
			name:           "MakeBucket error bubbles up",
			exists:         false,
			makeErr:        errors.New("make fail"),
			wantMakeCalled: true,
			wantErr:        true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			makeCalled := false
			client := &mockMinio{
				bucketExistsFn: func(ctx context.Context, bucketName string) (bool, error) {
					return tc.exists, tc.existsErr
				},
				makeBucketFn: func(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
					makeCalled = true
					return tc.makeErr
				},
			}

			err := makeStorage(client).InitBucket("medias")
			if tc.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if makeCalled != tc.wantMakeCalled {
				t.Errorf("MakeBucket called = %v, want %v", makeCalled, tc.wantMakeCalled)
			}
		})
	}
}

func TestGeneratePresignedDownloadURL(t *testing.T) {
	want := &url.URL{Scheme: "https", Host: "minio.local", Path: "/medias/originals/abc/photo.jpg"}
	client := &mockMinio{
		presignedGetObjectFn: func(ctx context.Context, bucket, key string, expiry time.Duration, params url.Values) (*url.URL, error) {
			if bucket != "medias" || key != "originals/abc/photo.jpg" {
				t.Errorf("unexpected bucket/key %q/%q", bucket, key)
			}
			return want, nil
		},
	}

	got, err := makeStorage(client).GeneratePresignedDownloadURL(context.Background(), "medias", "originals/abc/photo.jpg", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want.String() {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFileExists(t *testing.T) {
	notFound := minio.ErrorResponse{Code: "NoSuchKey"}

	client := &mockMinio{
		statObjectFn: func(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
			if key == "originals/abc/here.jpg" {
				return minio.ObjectInfo{Size: 42}, nil
			}
			return minio.ObjectInfo{}, notFound
		},
	}
	strg := makeStorage(client)

	ok, err := strg.FileExists(context.Background(), "medias", "originals/abc/here.jpg")
	if err != nil || !ok {
		t.Errorf("expected (true, nil), got (%v, %v)", ok, err)
	}

	ok, err = strg.FileExists(context.Background(), "medias", "originals/abc/gone.jpg")
	if err != nil || ok {
		t.Errorf("expected (false, nil), got (%v, %v)", ok, err)
	}
}

func TestStatFile_MapsErrors(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr error
	}{
		{"missing object", "NoSuchKey", media.ErrObjectNotFound},
		{"missing bucket", "NoSuchBucket", media.ErrBucketNotFound},
		{"bad credentials", "AccessDenied", media.ErrUnauthorized},
		{"anything else", "SlowDown", media.ErrInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := &mockMinio{
				statObjectFn: func(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
					return minio.ObjectInfo{}, minio.ErrorResponse{Code: tc.code}
				},
			}

			_, err := makeStorage(client).StatFile(context.Background(), "medias", "whatever")
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSaveFile_SetsContentType(t *testing.T) {
	var gotOpts minio.PutObjectOptions
	client := &mockMinio{
		putObjectFn: func(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
			gotOpts = opts
			return minio.UploadInfo{}, nil
		},
	}

	err := makeStorage(client).SaveFile(context.Background(), "medias", "originals/abc/photo.jpg", nil, 42, map[string]string{
		"Content-Type": "image/jpeg",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotOpts.ContentType != "image/jpeg" {
		t.Errorf("expected content-type propagated, got %q", gotOpts.ContentType)
	}
}

func TestObjectCreated(t *testing.T) {
	infos := make(chan notification.Info, 2)
	infos <- notification.Info{Err: errors.New("transient stream error")}
	var ev notification.Event
	ev.S3.Bucket.Name = "medias"
	ev.S3.Object.Key = "originals/abc/my+photo.jpg"
	infos <- notification.Info{Records: []notification.Event{ev}}
	close(infos)

	var gotPrefix string
	client := &mockMinio{
		listenFn: func(ctx context.Context, bucketName, prefix, suffix string, events []string) <-chan notification.Info {
			gotPrefix = prefix
			return infos
		},
	}

	events, err := makeStorage(client).ObjectCreated(context.Background(), "medias", "originals/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPrefix != "originals/" {
		t.Errorf("expected filtering on originals/, got %q", gotPrefix)
	}

	var got []port.ObjectEvent
	for ev := range events {
		got = append(got, ev)
	}
	// the stream error is skipped, the one real record comes through decoded
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].Bucket != "medias" || got[0].Key != "originals/abc/my photo.jpg" {
		t.Errorf("unexpected event %+v", got[0])
	}
}
