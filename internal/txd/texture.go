package txd

import (
	"image"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"rw-repacker/internal/rw"
)

// Texture is a decoded raster. Pixels are RGBA8, row-major, top-left origin.
type Texture struct {
	Name      string
	MaskName  string
	Filtering rw.TextureFiltering
	AddressU  rw.TextureAddressing
	AddressV  rw.TextureAddressing
	Width     int
	Height    int
	Pixels    []byte
}

// Image wraps the pixel buffer without copying.
func (t *Texture) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    t.Pixels,
		Stride: t.Width * 4,
		Rect:   image.Rect(0, 0, t.Width, t.Height),
	}
}

// FromImage converts img into a texture named name.
func FromImage(name string, img image.Image) *Texture {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &Texture{Name: name, Width: b.Dx(), Height: b.Dy(), Pixels: dst.Pix}
}

// Set holds the textures of one dictionary keyed by raster name.
type Set map[string]*Texture

// Lookup finds a texture by exact name, then case-insensitively.
func (s Set) Lookup(name string) *Texture {
	if t, ok := s[name]; ok {
		return t
	}
	var best string
	found := false
	for k := range s {
		if strings.EqualFold(k, name) && (!found || k < best) {
			best, found = k, true
		}
	}
	if !found {
		return nil
	}
	return s[best]
}

// Names returns the texture names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Extract decodes every raster under root. Later rasters replace earlier
// ones with the same name.
func Extract(root *rw.Section) (Set, error) {
	set := make(Set)
	rasters := root.Find(rw.TypeRaster)
	if root.Type == rw.TypeRaster {
		rasters = append([]*rw.Section{root}, rasters...)
	}
	for i, rs := range rasters {
		t, err := extractRaster(rs)
		if err != nil {
			return nil, errors.Wrapf(err, "txd: raster %d", i)
		}
		set[t.Name] = t
	}
	return set, nil
}

func extractRaster(s *rw.Section) (*Texture, error) {
	r, ok := s.Struct().(*rw.RasterStruct)
	if !ok {
		return nil, errors.Wrap(rw.ErrMalformedField, "raster without struct")
	}
	if r.Unsupported {
		return nil, errors.Wrapf(rw.ErrUnsupportedPlatform, "platform %d", r.Platform)
	}
	var pixels []byte
	var err error
	switch {
	case len(r.Palette) > 0 && r.Compress != CompressionNone:
		err = errors.Wrapf(rw.ErrMalformedField, "palette with compression %d", r.Compress)
	case len(r.Palette) > 0:
		pixels, err = Depalettize(r.Data, r.Palette, int(r.Width), int(r.Height))
	default:
		pixels, err = Decompress(r.Data, int(r.Width), int(r.Height), r.Compress)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%q", r.Name)
	}
	return &Texture{
		Name:      r.Name,
		MaskName:  r.MaskName,
		Filtering: r.Filtering,
		AddressU:  r.AddressU,
		AddressV:  r.AddressV,
		Width:     int(r.Width),
		Height:    int(r.Height),
		Pixels:    pixels,
	}, nil
}

// Decode decodes a texture dictionary stream.
func Decode(data []byte) (Set, error) {
	root, err := rw.Decode(data)
	if err != nil {
		return nil, err
	}
	return Extract(root)
}

// LoadFile reads and decodes a .txd file.
func LoadFile(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "txd: read %s", path)
	}
	set, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "txd: %s", path)
	}
	return set, nil
}
