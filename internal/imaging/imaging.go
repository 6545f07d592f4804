// Package imaging holds the pixel-level operations behind the gallery:
// decoding fetched bytes, center-cropping thumbnails to squares, downscaling
// uploads, and JPEG encoding.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"

	// Decoders for the formats family photos come in.
	_ "image/gif"
	_ "image/png"

	"github.com/nfnt/resize"
)

// Thumbnail generation settings
const (
	DefaultThumbnailSize = 200
	DefaultJPEGQuality   = 85
)

// Decode parses image bytes in any registered format. A decode that yields a
// zero-size image is reported as an error so callers have a single failure
// path.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("decode image: zero-size image")
	}
	return img, nil
}

// CropSquare returns the largest centered square of img. Square inputs are
// returned as-is.
func CropSquare(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == h {
		return img
	}

	side := w
	if h < side {
		side = h
	}
	x := b.Min.X + (w-side)/2
	y := b.Min.Y + (h-side)/2

	out := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(out, out.Bounds(), img, image.Pt(x, y), draw.Src)
	return out
}

// Thumbnail downscales img so its longer side is at most maxSide, preserving
// aspect ratio. Images already small enough are returned unchanged.
func Thumbnail(img image.Image, maxSide int) image.Image {
	if maxSide <= 0 {
		maxSide = DefaultThumbnailSize
	}
	b := img.Bounds()
	if b.Dx() <= maxSide && b.Dy() <= maxSide {
		return img
	}
	if b.Dx() >= b.Dy() {
		return resize.Resize(uint(maxSide), 0, img, resize.Lanczos3)
	}
	return resize.Resize(0, uint(maxSide), img, resize.Lanczos3)
}

// EncodeJPEG encodes img at the given quality (1-100); out-of-range values
// fall back to the default.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Aspect returns width divided by height, or 0 for a nil or degenerate image.
func Aspect(img image.Image) float64 {
	if img == nil {
		return 0
	}
	b := img.Bounds()
	if b.Dy() <= 0 {
		return 0
	}
	return float64(b.Dx()) / float64(b.Dy())
}
