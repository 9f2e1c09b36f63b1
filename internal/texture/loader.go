package texture

import (
	"bytes"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/ftrvxmtrx/tga"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"

	"rw-repacker/internal/txd"
)

// LoadImage reads a PNG, TGA or BMP file as a texture named after the file.
func LoadImage(path string) (*txd.Texture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "texture: read %s", path)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrapf(err, "texture: decode %s", path)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return txd.FromImage(name, img), nil
}

// LoadDictionary decodes a .txd file and applies override images.
// An override replaces the texture whose name matches it case-insensitively,
// or is added under its file name.
func LoadDictionary(path string, overrides map[string]string) (txd.Set, error) {
	set, err := txd.LoadFile(path)
	if err != nil {
		return nil, err
	}
	for stem, imgPath := range overrides {
		tex, err := LoadImage(imgPath)
		if err != nil {
			return nil, err
		}
		if existing := set.Lookup(stem); existing != nil {
			tex.Name = existing.Name
			tex.MaskName = existing.MaskName
			tex.Filtering = existing.Filtering
			tex.AddressU = existing.AddressU
			tex.AddressV = existing.AddressV
		}
		set[tex.Name] = tex
	}
	return set, nil
}
