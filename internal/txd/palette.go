package txd

import (
	"github.com/pkg/errors"

	"rw-repacker/internal/rw"
)

// Depalettize expands palette indices into width*height*4 bytes of RGBA8.
// Indices are one byte per pixel. A 16-color palette may instead pack two
// indices per byte, low nibble first, which is detected from the payload
// length.
func Depalettize(indices, palette []byte, width, height int) ([]byte, error) {
	colors := len(palette) / 4
	if colors == 0 {
		return nil, errors.Wrap(rw.ErrMalformedField, "txd: empty palette")
	}
	if width < 0 || height < 0 {
		return nil, errors.Wrapf(rw.ErrMalformedField, "txd: raster size %dx%d", width, height)
	}
	n := width * height

	var index func(i int) int
	switch {
	case len(indices) >= n:
		index = func(i int) int { return int(indices[i]) }
	case colors <= 16 && len(indices) >= (n+1)/2:
		index = func(i int) int { return int(indices[i/2]>>(4*(i&1))) & 0xF }
	default:
		return nil, errors.Wrapf(rw.ErrTruncated,
			"txd: %d index bytes for %dx%d pixels", len(indices), width, height)
	}

	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		k := index(i)
		if k >= colors {
			return nil, errors.Wrapf(rw.ErrMalformedField,
				"txd: pixel %d uses color %d of %d", i, k, colors)
		}
		copy(out[i*4:i*4+4], palette[k*4:k*4+4])
	}
	return out, nil
}
