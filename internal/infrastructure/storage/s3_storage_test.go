package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/emlak/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method       string
	Path         string
	ContentType  string
	CacheControl string
	Body         []byte
}

func newFakeS3(t *testing.T) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var (
		mu       sync.Mutex
		requests []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, recordedRequest{
			Method:       r.Method,
			Path:         r.URL.Path,
			ContentType:  r.Header.Get("Content-Type"),
			CacheControl: r.Header.Get("Cache-Control"),
			Body:         body,
		})
		mu.Unlock()
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), requests...)
	}
}

func newTestStorage(t *testing.T, endpoint string) *S3ObjectStorage {
	t.Helper()
	s, err := NewS3ObjectStorage(context.Background(), &config.StorageConfig{
		Endpoint:        endpoint,
		Region:          "eu-central-1",
		Bucket:          "emlak-images",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		UsePathStyle:    true,
	})
	require.NoError(t, err)
	return s
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	_, err := NewS3ObjectStorage(context.Background(), nil)
	assert.ErrorContains(t, err, "configuration is required")

	_, err = NewS3ObjectStorage(context.Background(), &config.StorageConfig{})
	assert.ErrorContains(t, err, "bucket is required")

	s, err := NewS3ObjectStorage(context.Background(), &config.StorageConfig{Bucket: "emlak-images"})
	require.NoError(t, err)
	assert.Equal(t, "emlak-images", s.Bucket())
}

func TestS3ObjectStorage_Upload(t *testing.T) {
	srv, requests := newFakeS3(t)
	s := newTestStorage(t, srv.URL)

	data := []byte("\x89PNG fake image")
	err := s.Upload(context.Background(), "tenant/listings/abc/photo.png", data, "image/png")
	require.NoError(t, err)

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPut, reqs[0].Method)
	assert.Equal(t, "/emlak-images/tenant/listings/abc/photo.png", reqs[0].Path)
	assert.Equal(t, "image/png", reqs[0].ContentType)
	assert.Equal(t, imageCacheControl, reqs[0].CacheControl)
	assert.Equal(t, data, reqs[0].Body)
}

func TestS3ObjectStorage_DeleteObject(t *testing.T) {
	srv, requests := newFakeS3(t)
	s := newTestStorage(t, srv.URL)

	require.NoError(t, s.DeleteObject(context.Background(), "tenant/listings/abc/photo.png"))

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodDelete, reqs[0].Method)
	assert.Equal(t, "/emlak-images/tenant/listings/abc/photo.png", reqs[0].Path)
}

func TestS3ObjectStorage_EmptyKey(t *testing.T) {
	s := newTestStorage(t, "http://127.0.0.1:1")

	assert.Error(t, s.Upload(context.Background(), "", []byte("x"), "image/png"))
	assert.Error(t, s.DeleteObject(context.Background(), ""))
}

func TestMemoryObjectStorage(t *testing.T) {
	s := NewMemoryObjectStorage()
	ctx := context.Background()

	data := []byte("jpeg")
	require.NoError(t, s.Upload(ctx, "a/b.jpg", data, "image/jpeg"))
	data[0] = 'X'

	obj, ok := s.Get("a/b.jpg")
	require.True(t, ok)
	assert.Equal(t, []byte("jpeg"), obj.Data)
	assert.Equal(t, "image/jpeg", obj.ContentType)

	require.NoError(t, s.DeleteObject(ctx, "a/b.jpg"))
	assert.Equal(t, 0, s.Len())
	assert.Error(t, s.Upload(ctx, "", data, "image/jpeg"))
}
