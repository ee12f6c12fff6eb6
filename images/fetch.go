// Package images resolves image references (data URLs, remote URLs, local
// paths) to raw bytes and prepares them for vision analysis.
package images

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// DefaultFetchTimeout bounds a single remote image download.
	DefaultFetchTimeout = 30 * time.Second
	// DefaultMaxImageBytes is the largest image accepted (10MB).
	DefaultMaxImageBytes = 10 * 1024 * 1024
)

// Image is raw image data with its MIME type.
type Image struct {
	Data     []byte
	MIMEType string
}

// Fetcher resolves image references to bytes.
type Fetcher struct {
	client   *resty.Client
	maxBytes int64
}

// NewFetcher creates a fetcher with default timeout and size limits.
func NewFetcher() *Fetcher {
	client := resty.New().
		SetTimeout(DefaultFetchTimeout).
		SetHeader("Accept", "image/*")
	return &Fetcher{
		client:   client,
		maxBytes: DefaultMaxImageBytes,
	}
}

// WithMaxBytes overrides the maximum accepted image size.
func (f *Fetcher) WithMaxBytes(n int64) *Fetcher {
	f.maxBytes = n
	return f
}

// Resolve turns an image reference into raw bytes and a MIME type. The
// reference may be a data URL, an http(s) URL or a local file path.
func (f *Fetcher) Resolve(ctx context.Context, ref string) (*Image, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		return decodeDataURL(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return f.fetchRemote(ctx, ref)
	default:
		return readLocal(ref)
	}
}

func (f *Fetcher) fetchRemote(ctx context.Context, url string) (*Image, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("image fetch failed: status %d", resp.StatusCode())
	}

	mimeType := resp.Header().Get("Content-Type")
	// Strip MIME parameters: "image/jpeg; charset=utf-8" -> "image/jpeg"
	if idx := strings.IndexByte(mimeType, ';'); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	if mimeType != "" && !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("invalid content type: expected image/*, got %s", mimeType)
	}

	data := resp.Body()
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("image too large: %d bytes exceeds limit of %d bytes", len(data), f.maxBytes)
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return &Image{Data: data, MIMEType: mimeType}, nil
}

// decodeDataURL decodes "data:image/png;base64,..." in place.
func decodeDataURL(ref string) (*Image, error) {
	rest := strings.TrimPrefix(ref, "data:")
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return nil, fmt.Errorf("malformed data url: missing comma")
	}
	meta, payload := rest[:comma], rest[comma+1:]

	mimeType := "image/jpeg"
	if idx := strings.IndexByte(meta, ';'); idx >= 0 {
		if mt := meta[:idx]; mt != "" {
			mimeType = mt
		}
	} else if meta != "" {
		mimeType = meta
	}
	if !strings.Contains(meta, "base64") {
		return nil, fmt.Errorf("unsupported data url encoding: %s", meta)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some producers omit padding.
		data, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode data url: %w", err)
		}
	}
	return &Image{Data: data, MIMEType: mimeType}, nil
}

func readLocal(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	return &Image{Data: data, MIMEType: http.DetectContentType(data)}, nil
}
