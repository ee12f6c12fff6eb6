package images

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// DownscaleThresholdBytes is the encoded size above which an image is
	// downscaled before being sent to the provider.
	DownscaleThresholdBytes = 500 * 1024
	// MaxDimension caps the longer side of a downscaled image.
	MaxDimension = 1024
	// JPEGQuality is the re-encode quality for downscaled images.
	JPEGQuality = 80
)

// Downscale reduces img to at most MaxDimension on its longer side when its
// encoded size exceeds DownscaleThresholdBytes. Downscaling is best-effort:
// any decode or encode failure returns the original image unchanged.
func Downscale(img *Image) *Image {
	return downscale(img, DownscaleThresholdBytes, MaxDimension)
}

func downscale(img *Image, thresholdBytes int, maxDim int) *Image {
	if img == nil || len(img.Data) <= thresholdBytes {
		return img
	}

	decoded, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		log.Debug().Err(err).Msg("image decode failed, sending original bytes")
		return img
	}

	bounds := decoded.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	nw, nh := scaledBounds(w, h, maxDim)
	if nw == w && nh == h {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), decoded, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		log.Debug().Err(err).Msg("image re-encode failed, sending original bytes")
		return img
	}

	log.Debug().
		Int("originalBytes", len(img.Data)).
		Int("resizedBytes", buf.Len()).
		Int("width", nw).
		Int("height", nh).
		Msg("downscaled image for vision analysis")

	return &Image{Data: buf.Bytes(), MIMEType: "image/jpeg"}
}

// scaledBounds shrinks (w, h) so the longer side is at most maxDim,
// preserving aspect ratio. Images already within bounds are unchanged.
func scaledBounds(w, h, maxDim int) (int, int) {
	if w <= maxDim && h <= maxDim {
		return w, h
	}
	if w >= h {
		nh := h * maxDim / w
		if nh < 1 {
			nh = 1
		}
		return maxDim, nh
	}
	nw := w * maxDim / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxDim
}
