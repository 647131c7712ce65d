// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tcupboard/internal/platform/blob"
)

func TestCleanKey(t *testing.T) {
	valid := map[string]string{
		"a.png":          "a.png",
		"2025/01/a.png":  "2025/01/a.png",
		"x/./y/../z.png": "x/z.png",
	}
	for input, want := range valid {
		got, err := blob.CleanKey(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got)
	}

	for _, input := range []string{"", " ", "/etc/passwd", "../secret", "a/../../b", "a\\b", ".."} {
		_, err := blob.CleanKey(input)
		assert.True(t, errors.Is(err, blob.ErrInvalidKey), input)
	}
}

// exerciseStore runs the contract every driver must satisfy.
func exerciseStore(t *testing.T, store blob.Store) {
	t.Helper()
	ctx := context.Background()

	exists, err := store.Exists(ctx, "flyer.png")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Put(ctx, "flyer.png", bytes.NewReader([]byte("png-bytes")), "image/png"))

	exists, err = store.Exists(ctx, "flyer.png")
	require.NoError(t, err)
	assert.True(t, exists)

	err = store.Put(ctx, "flyer.png", bytes.NewReader([]byte("other")), "image/png")
	assert.True(t, errors.Is(err, blob.ErrExists))

	deleted, err := store.Delete(ctx, "flyer.png")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete(ctx, "flyer.png")
	require.NoError(t, err)
	assert.False(t, deleted)

	assert.Error(t, store.Put(ctx, "../escape.png", bytes.NewReader(nil), "image/png"))
}

func TestFilesystemStore(t *testing.T) {
	root := t.TempDir()
	store, err := blob.NewFilesystem(root)
	require.NoError(t, err)
	assert.Equal(t, blob.DriverFilesystem, store.Driver())

	exerciseStore(t, store)

	require.NoError(t, store.Put(context.Background(), "kept.jpg", strings.NewReader("jpeg"), "image/jpeg"))
	content, err := os.ReadFile(filepath.Join(root, "kept.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(content))

	// No temp files are left behind.
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// fakeS3 answers the HEAD, PUT and DELETE calls of a path-style bucket.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (fake *fakeS3) RoundTrip(request *http.Request) (*http.Response, error) {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	key := strings.TrimPrefix(request.URL.Path, "/uploads/")
	respond := func(status int) (*http.Response, error) {
		return &http.Response{StatusCode: status, Header: http.Header{}, Body: io.NopCloser(bytes.NewReader(nil)), Request: request}, nil
	}

	switch request.Method {
	case http.MethodHead:
		if _, ok := fake.objects[key]; ok {
			return respond(http.StatusOK)
		}
		return respond(http.StatusNotFound)
	case http.MethodPut:
		body, _ := io.ReadAll(request.Body)
		fake.objects[key] = body
		return respond(http.StatusOK)
	case http.MethodDelete:
		delete(fake.objects, key)
		return respond(http.StatusNoContent)
	}
	return respond(http.StatusNotImplemented)
}

func TestS3Store(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}

	store, err := blob.NewS3(context.Background(), blob.S3Config{
		Bucket:          "uploads",
		Region:          "auto",
		Endpoint:        "https://r2.example.test",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		PathStyle:       true,
		HTTPClient:      &http.Client{Transport: fake},
	})
	require.NoError(t, err)
	assert.Equal(t, blob.DriverS3, store.Driver())

	exerciseStore(t, store)
}

func TestNewS3_RequiresBucket(t *testing.T) {
	_, err := blob.NewS3(context.Background(), blob.S3Config{})
	assert.Error(t, err)
}

func TestOpen_SelectsDriver(t *testing.T) {
	store, err := blob.Open(context.Background(), blob.Config{Root: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, blob.DriverFilesystem, store.Driver())
}
