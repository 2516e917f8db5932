package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestImage(t *testing.T, w, h int, encode func(f *os.File, img image.Image) error, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}
	defer f.Close()
	if err := encode(f, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return path
}

func TestPrepareForLLMSmallImageKeepsSize(t *testing.T) {
	path := writeTestImage(t, 640, 480, func(f *os.File, img image.Image) error {
		return png.Encode(f, img)
	}, "small.png")

	data, mimeType, err := PrepareForLLM(path)
	if err != nil {
		t.Fatalf("PrepareForLLM failed: %v", err)
	}
	if mimeType != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", mimeType)
	}

	out, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a valid JPEG: %v", err)
	}
	b := out.Bounds()
	if b.Dx() != 640 || b.Dy() != 480 {
		t.Errorf("small image should not be resized, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestPrepareForLLMDownscalesLargeImage(t *testing.T) {
	path := writeTestImage(t, 3840, 2160, func(f *os.File, img image.Image) error {
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	}, "large.jpg")

	data, _, err := PrepareForLLM(path)
	if err != nil {
		t.Fatalf("PrepareForLLM failed: %v", err)
	}

	out, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a valid JPEG: %v", err)
	}
	b := out.Bounds()
	if b.Dx() > 1920 || b.Dy() > 1080 {
		t.Errorf("image not downscaled, got %dx%d", b.Dx(), b.Dy())
	}
	// Aspect ratio preserved: 3840x2160 scales to exactly 1920x1080.
	if b.Dx() != 1920 || b.Dy() != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestPrepareForLLMMissingFile(t *testing.T) {
	if _, _, err := PrepareForLLM("/nonexistent/image.png"); err == nil {
		t.Error("expected error for missing file")
	}
}
