package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func sample() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(2, 1, color.NRGBA{B: 255, A: 255})
	return img
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, format := range []string{"png", "tga", "bmp"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, sample(), format); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			img, got, err := image.Decode(&buf)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got != format {
				t.Errorf("decoded as %s", got)
			}
			if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
				t.Errorf("bounds = %v", img.Bounds())
			}
			r, _, _, _ := img.At(0, 0).RGBA()
			if r>>8 != 255 {
				t.Errorf("pixel (0,0) red = %d", r>>8)
			}
		})
	}
}

func TestEncodeWebP(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, sample(), "WEBP"); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b := buf.Bytes()
	if len(b) < 16 || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WEBP" {
		t.Errorf("not a WebP container: % x", b[:min(len(b), 16)])
	}
}

func TestEncodeUnknown(t *testing.T) {
	if err := Encode(&bytes.Buffer{}, sample(), "gif"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "atlas.png")
	if err := WriteFile(path, sample()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("stat = %v, %v", fi, err)
	}

	bad := filepath.Join(dir, "atlas.jpg")
	if err := WriteFile(bad, sample()); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("err = %v", err)
	}
	if _, err := os.Stat(bad); !os.IsNotExist(err) {
		t.Error("failed write left a file behind")
	}
}
