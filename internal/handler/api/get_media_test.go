package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jhrphoto/media-pipeline-go/internal/mock"
	"github.com/jhrphoto/media-pipeline-go/internal/usecase/media"
	"github.com/jhrphoto/media-pipeline-go/internal/uuid"
)

func requestWithID(method, target string, id uuid.UUID) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	return r.WithContext(context.WithValue(r.Context(), IDKey, id))
}

func TestGetMediaHandler(t *testing.T) {
	id := uuid.NewUUID()

	t.Run("happy path", func(t *testing.T) {
		renderer := &mock.MockHTTPRenderer{Data: []byte(`{"status":"ready"}`), Etag: "\"cafe1234\""}
		getter := &mock.MockMediaGetter{}
		rec := httptest.NewRecorder()

		GetMediaHandler(renderer, getter)(rec, requestWithID(http.MethodGet, "/medias/"+id.String(), id))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := rec.Header().Get("ETag"); got != renderer.Etag {
			t.Errorf("expected etag %q, got %q", renderer.Etag, got)
		}
		if !strings.Contains(rec.Header().Get("Cache-Control"), "max-age=300") {
			t.Errorf("unexpected cache-control %q", rec.Header().Get("Cache-Control"))
		}
		if rec.Body.String() != `{"status":"ready"}` {
			t.Errorf("unexpected body %q", rec.Body.String())
		}
		if renderer.ID != id {
			t.Errorf("renderer called with %s, want %s", renderer.ID, id)
		}
	})

	t.Run("etag match answers 304", func(t *testing.T) {
		renderer := &mock.MockHTTPRenderer{Data: []byte(`{}`), Etag: "\"cafe1234\""}
		rec := httptest.NewRecorder()
		req := requestWithID(http.MethodGet, "/medias/"+id.String(), id)
		req.Header.Set("If-None-Match", "\"cafe1234\"")

		GetMediaHandler(renderer, &mock.MockMediaGetter{})(rec, req)

		if rec.Code != http.StatusNotModified {
			t.Fatalf("expected 304, got %d", rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("expected an empty body, got %q", rec.Body.String())
		}
	})

	t.Run("missing ID", func(t *testing.T) {
		rec := httptest.NewRecorder()
		GetMediaHandler(&mock.MockHTTPRenderer{}, &mock.MockMediaGetter{})(rec, httptest.NewRequest(http.MethodGet, "/medias/x", nil))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown media", func(t *testing.T) {
		renderer := &mock.MockHTTPRenderer{Err: media.ErrObjectNotFound}
		rec := httptest.NewRecorder()

		GetMediaHandler(renderer, &mock.MockMediaGetter{})(rec, requestWithID(http.MethodGet, "/medias/"+id.String(), id))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("renderer failure", func(t *testing.T) {
		renderer := &mock.MockHTTPRenderer{Err: errors.New("boom")}
		rec := httptest.NewRecorder()

		GetMediaHandler(renderer, &mock.MockMediaGetter{})(rec, requestWithID(http.MethodGet, "/medias/"+id.String(), id))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

func TestDeleteMediaHandler(t *testing.T) {
	id := uuid.NewUUID()

	t.Run("happy path", func(t *testing.T) {
		svc := &mock.MockMediaDeleter{}
		rec := httptest.NewRecorder()

		DeleteMediaHandler(svc)(rec, requestWithID(http.MethodDelete, "/medias/"+id.String(), id))

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if !svc.Called || svc.ID != id {
			t.Errorf("expected deleter called with %s", id)
		}
	})

	t.Run("unknown media", func(t *testing.T) {
		svc := &mock.MockMediaDeleter{Err: media.ErrObjectNotFound}
		rec := httptest.NewRecorder()

		DeleteMediaHandler(svc)(rec, requestWithID(http.MethodDelete, "/medias/"+id.String(), id))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("deleter failure", func(t *testing.T) {
		svc := &mock.MockMediaDeleter{Err: errors.New("boom")}
		rec := httptest.NewRecorder()

		DeleteMediaHandler(svc)(rec, requestWithID(http.MethodDelete, "/medias/"+id.String(), id))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}
