package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/clothstore/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testStorageConfig(endpoint string) *config.StorageConfig {
	return &config.StorageConfig{
		Bucket:       "clothstore",
		AccessKey:    "test-key",
		SecretKey:    "test-secret",
		Region:       "us-east-1",
		Endpoint:     endpoint,
		UsePathStyle: true,
	}
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	_, err := NewS3ObjectStorage(nil)
	assert.ErrorContains(t, err, "configuration is required")

	_, err = NewS3ObjectStorage(&config.StorageConfig{AccessKey: "k", SecretKey: "s"})
	assert.ErrorContains(t, err, "bucket is required")

	_, err = NewS3ObjectStorage(&config.StorageConfig{Bucket: "b", AccessKey: "k"})
	assert.ErrorContains(t, err, "secret key are required")
}

func TestS3ObjectStorage_PublicURLs(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.StorageConfig
		want string
	}{
		{
			name: "custom endpoint without scheme",
			cfg:  testStorageConfig("minio:9000"),
			want: "http://minio:9000/clothstore/products/a.jpg",
		},
		{
			name: "ssl endpoint",
			cfg: func() *config.StorageConfig {
				c := testStorageConfig("storage.example.com")
				c.UseSSL = true
				return c
			}(),
			want: "https://storage.example.com/clothstore/products/a.jpg",
		},
		{
			name: "public base url wins",
			cfg: func() *config.StorageConfig {
				c := testStorageConfig("http://minio:9000")
				c.PublicBaseURL = "https://cdn.clothstore.com/"
				return c
			}(),
			want: "https://cdn.clothstore.com/products/a.jpg",
		},
		{
			name: "aws default",
			cfg:  testStorageConfig(""),
			want: "https://clothstore.s3.us-east-1.amazonaws.com/products/a.jpg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewS3ObjectStorage(tt.cfg)
			require.NoError(t, err)
			key := "products/a.jpg"
			url := s.URLFor(key)
			assert.Equal(t, tt.want, url)

			back, ok := s.KeyFromURL(url)
			require.True(t, ok)
			assert.Equal(t, key, back)
		})
	}
}

func TestS3ObjectStorage_KeyFromURL_Foreign(t *testing.T) {
	s, err := NewS3ObjectStorage(testStorageConfig("http://minio:9000"))
	require.NoError(t, err)

	_, ok := s.KeyFromURL("https://res.cloudinary.com/demo/image/upload/a.jpg")
	assert.False(t, ok)
	_, ok = s.KeyFromURL("http://minio:9000/clothstore/")
	assert.False(t, ok)
}

func TestS3ObjectStorage_DeleteObject(t *testing.T) {
	var mu sync.Mutex
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests = append(requests, r.Method+" "+r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	s, err := NewS3ObjectStorage(testStorageConfig(server.URL), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	require.NoError(t, s.DeleteObject(context.Background(), "products/a.jpg"))
	assert.Equal(t, []string{"DELETE /clothstore/products/a.jpg"}, requests)

	assert.ErrorContains(t, s.DeleteObject(context.Background(), ""), "storage key is required")
}

func TestS3ObjectStorage_Upload_EmptyKey(t *testing.T) {
	s, err := NewS3ObjectStorage(testStorageConfig("http://minio:9000"))
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), "", strings.NewReader("x"), 1, "image/png")
	assert.ErrorContains(t, err, "storage key is required")
	assert.Equal(t, "clothstore", s.Bucket())
}
