// Package export encodes atlases and previews to image files.
package export

import (
	"errors"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/image/bmp"
)

// ErrUnknownFormat is returned for a format name Encode does not handle.
var ErrUnknownFormat = errors.New("export: unknown image format")

// Formats lists the supported format names, which double as file extensions.
var Formats = []string{"png", "webp", "tga", "bmp"}

// Encode writes img to w in the named format.
func Encode(w io.Writer, img image.Image, format string) error {
	var err error
	switch strings.ToLower(format) {
	case "png":
		err = png.Encode(w, img)
	case "webp":
		err = nativewebp.Encode(w, img, nil)
	case "tga":
		err = tga.Encode(w, img)
	case "bmp":
		err = bmp.Encode(w, img)
	default:
		return pkgerrors.Wrapf(ErrUnknownFormat, "%q", format)
	}
	if err != nil {
		return pkgerrors.Wrapf(err, "export: %s encode", format)
	}
	return nil
}

// WriteFile encodes img into path, creating parent directories. The format
// is taken from the path's extension.
func WriteFile(path string, img image.Image) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return pkgerrors.Wrap(err, "export")
	}

	f, err := os.Create(path)
	if err != nil {
		return pkgerrors.Wrap(err, "export")
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return pkgerrors.Wrap(f.Close(), "export")
}
