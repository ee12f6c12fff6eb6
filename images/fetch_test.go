package images

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDataURL(t *testing.T) {
	payload := []byte("fake image bytes")
	ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	img, err := NewFetcher().Resolve(context.Background(), ref)
	require.NoError(t, err)

	assert.Equal(t, payload, img.Data)
	assert.Equal(t, "image/png", img.MIMEType)
}

func TestResolveDataURLWithoutPadding(t *testing.T) {
	payload := []byte("ab")
	ref := "data:image/jpeg;base64," + base64.RawStdEncoding.EncodeToString(payload)

	img, err := NewFetcher().Resolve(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, payload, img.Data)
}

func TestResolveDataURLMalformed(t *testing.T) {
	_, err := NewFetcher().Resolve(context.Background(), "data:image/png;base64")
	assert.Error(t, err)

	_, err = NewFetcher().Resolve(context.Background(), "data:image/png,plaintext")
	assert.Error(t, err)
}

func TestResolveRemoteURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg bytes"))
	}))
	defer ts.Close()

	img, err := NewFetcher().Resolve(context.Background(), ts.URL+"/a.jpg")
	require.NoError(t, err)

	assert.Equal(t, []byte("jpeg bytes"), img.Data)
	assert.Equal(t, "image/jpeg", img.MIMEType)
}

func TestResolveRemoteURLStripsMIMEParams(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg; charset=utf-8")
		w.Write([]byte("jpeg bytes"))
	}))
	defer ts.Close()

	img, err := NewFetcher().Resolve(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MIMEType)
}

func TestResolveRemoteURLRejectsNonImage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html></html>"))
	}))
	defer ts.Close()

	_, err := NewFetcher().Resolve(context.Background(), ts.URL)
	assert.Error(t, err)
}

func TestResolveRemoteURLRejectsErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := NewFetcher().Resolve(context.Background(), ts.URL)
	assert.Error(t, err)
}

func TestResolveRemoteURLEnforcesSizeLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("way too many bytes"))
	}))
	defer ts.Close()

	_, err := NewFetcher().WithMaxBytes(4).Resolve(context.Background(), ts.URL)
	assert.Error(t, err)
}

func TestResolveLocalPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.bin")
	require.NoError(t, os.WriteFile(path, []byte("local bytes"), 0644))

	img, err := NewFetcher().Resolve(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []byte("local bytes"), img.Data)
}
