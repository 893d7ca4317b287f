package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func testPhoto(t *testing.T, w, h int, asPNG bool) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{200, 200, 255, 255})
		}
	}
	var buf bytes.Buffer
	if asPNG {
		png.Encode(&buf, img)
	} else {
		jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	}
	return buf.Bytes()
}

func TestProcessOutputsJPEG(t *testing.T) {
	for _, asPNG := range []bool{false, true} {
		result, err := Process(bytes.NewReader(testPhoto(t, 100, 100, asPNG)))
		if err != nil {
			t.Fatalf("Process (png=%v): %v", asPNG, err)
		}
		if result.MIME != "image/jpeg" {
			t.Errorf("expected image/jpeg output, got %s", result.MIME)
		}
		if len(result.Data) == 0 {
			t.Error("expected non-empty data")
		}
	}
}

func TestProcessDownscale(t *testing.T) {
	result, err := Process(bytes.NewReader(testPhoto(t, 2048, 1024, false)))
	if err != nil {
		t.Fatalf("Process large photo: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != MaxDimension || bounds.Dy() != MaxDimension/2 {
		t.Errorf("expected %dx%d, got %dx%d", MaxDimension, MaxDimension/2, bounds.Dx(), bounds.Dy())
	}
}

func TestProcessSmallPhotoNotUpscaled(t *testing.T) {
	result, err := Process(bytes.NewReader(testPhoto(t, 60, 40, false)))
	if err != nil {
		t.Fatalf("Process small photo: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 60 || bounds.Dy() != 40 {
		t.Errorf("small photo should not be resized: got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestProcessRejectsNonImage(t *testing.T) {
	if _, err := Process(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("expected error for non-image data")
	}
}

func TestProcessRejectsGIF(t *testing.T) {
	if _, err := Process(bytes.NewReader([]byte("GIF89a..."))); err == nil {
		t.Error("expected error for GIF")
	}
}
