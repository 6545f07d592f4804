package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	img, err := Decode(pngBytes(t, 40, 20))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 40 || b.Dy() != 20 {
		t.Errorf("Expected 40x20 image, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestDecode_Garbage(t *testing.T) {
	if _, err := Decode([]byte("not an image")); err == nil {
		t.Error("Expected error for garbage bytes")
	}
}

func TestCropSquare(t *testing.T) {
	tests := []struct {
		w, h     int
		expected int
	}{
		{100, 60, 60},
		{60, 100, 60},
		{80, 80, 80},
	}

	for _, test := range tests {
		img := image.NewRGBA(image.Rect(0, 0, test.w, test.h))
		cropped := CropSquare(img)
		b := cropped.Bounds()
		if b.Dx() != test.expected || b.Dy() != test.expected {
			t.Errorf("CropSquare(%dx%d) = %dx%d, expected %dx%d square",
				test.w, test.h, b.Dx(), b.Dy(), test.expected, test.expected)
		}
	}
}

func TestThumbnail_Downscales(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 800, 400))
	thumb := Thumbnail(img, 200)

	b := thumb.Bounds()
	if b.Dx() != 200 {
		t.Errorf("Expected width 200, got %d", b.Dx())
	}
	if b.Dy() != 100 {
		t.Errorf("Expected proportional height 100, got %d", b.Dy())
	}
}

func TestThumbnail_KeepsSmallImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))
	thumb := Thumbnail(img, 200)

	if thumb != image.Image(img) {
		t.Error("Expected small image to be returned unchanged")
	}
}

func TestEncodeJPEG_RoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 30, 30))
	data, err := EncodeJPEG(img, 85)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Expected encoded jpeg to decode, got %v", err)
	}
	if decoded.Bounds().Dx() != 30 {
		t.Errorf("Expected 30px wide decode, got %d", decoded.Bounds().Dx())
	}
}

func TestAspect(t *testing.T) {
	if got := Aspect(image.NewRGBA(image.Rect(0, 0, 300, 150))); got != 2.0 {
		t.Errorf("Expected aspect 2.0, got %v", got)
	}
	if got := Aspect(nil); got != 0 {
		t.Errorf("Expected aspect 0 for nil image, got %v", got)
	}
}
