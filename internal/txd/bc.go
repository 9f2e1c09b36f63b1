package txd

import (
	"github.com/pkg/errors"

	"rw-repacker/internal/rw"
)

// Compression codes stored in the raster header.
const (
	CompressionNone = 0
	CompressionBC1  = 1
	CompressionBC3  = 3 // decoded as DXT5 (interpolated alpha), not DXT3
)

// Decompress expands a level 0 payload into width*height*4 bytes of RGBA8,
// row-major from the top-left pixel.
func Decompress(data []byte, width, height int, compression uint8) ([]byte, error) {
	if width < 0 || height < 0 {
		return nil, errors.Wrapf(rw.ErrMalformedField, "txd: raster size %dx%d", width, height)
	}
	switch compression {
	case CompressionNone:
		n := width * height * 4
		if len(data) < n {
			return nil, errors.Wrapf(rw.ErrMalformedField,
				"txd: raw payload is %d bytes, %dx%d needs %d", len(data), width, height, n)
		}
		out := make([]byte, n)
		copy(out, data)
		return out, nil
	case CompressionBC1:
		return decompressBlocks(data, width, height, 8, decodeBC1Block)
	case CompressionBC3:
		return decompressBlocks(data, width, height, 16, decodeBC3Block)
	}
	return nil, errors.Wrapf(ErrUnsupportedCompression, "txd: compression %d", compression)
}

type blockDecoder func(block []byte, out *[16][4]uint8)

func decompressBlocks(data []byte, width, height, blockSize int, decode blockDecoder) ([]byte, error) {
	blocksW := (width + 3) / 4
	blocksH := (height + 3) / 4
	if need := blocksW * blocksH * blockSize; len(data) < need {
		return nil, errors.Wrapf(rw.ErrTruncated,
			"txd: block payload is %d bytes, %dx%d needs %d", len(data), width, height, need)
	}

	out := make([]byte, width*height*4)
	var texels [16][4]uint8
	offset := 0
	for by := 0; by < blocksH; by++ {
		for bx := 0; bx < blocksW; bx++ {
			decode(data[offset:offset+blockSize], &texels)
			offset += blockSize

			for py := 0; py < 4; py++ {
				y := by*4 + py
				if y >= height {
					break
				}
				for px := 0; px < 4; px++ {
					x := bx*4 + px
					if x >= width {
						break
					}
					copy(out[(y*width+x)*4:], texels[py*4+px][:])
				}
			}
		}
	}
	return out, nil
}

func expand565(c uint16) [3]int {
	r := int(c>>11) & 0x1F
	g := int(c>>5) & 0x3F
	b := int(c) & 0x1F
	return [3]int{r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2}
}

// colorPalette decodes the 8-byte color half of a block. With punchThrough
// set, c0 <= c1 selects three colors plus transparent black.
func colorPalette(block []byte, punchThrough bool) (palette [4][4]uint8, indices uint32) {
	c0 := uint16(block[0]) | uint16(block[1])<<8
	c1 := uint16(block[2]) | uint16(block[3])<<8
	indices = uint32(block[4]) | uint32(block[5])<<8 | uint32(block[6])<<16 | uint32(block[7])<<24

	a, b := expand565(c0), expand565(c1)
	var cols [4][3]int
	cols[0], cols[1] = a, b
	fourColor := !punchThrough || c0 > c1
	for k := 0; k < 3; k++ {
		if fourColor {
			cols[2][k] = (2*a[k] + b[k]) / 3
			cols[3][k] = (a[k] + 2*b[k]) / 3
		} else {
			cols[2][k] = (a[k] + b[k]) / 2
		}
	}
	for i := range palette {
		palette[i] = [4]uint8{uint8(cols[i][0]), uint8(cols[i][1]), uint8(cols[i][2]), 255}
	}
	if !fourColor {
		palette[3] = [4]uint8{0, 0, 0, 0}
	}
	return palette, indices
}

func decodeBC1Block(block []byte, out *[16][4]uint8) {
	palette, indices := colorPalette(block, true)
	for i := 0; i < 16; i++ {
		out[i] = palette[(indices>>(2*i))&0x3]
	}
}

func decodeBC3Block(block []byte, out *[16][4]uint8) {
	a0, a1 := int(block[0]), int(block[1])
	var alphas [8]int
	alphas[0], alphas[1] = a0, a1
	if a0 > a1 {
		for i := 2; i < 8; i++ {
			alphas[i] = (a0*(8-i) + a1*(i-1)) / 7
		}
	} else {
		for i := 2; i < 6; i++ {
			alphas[i] = (a0*(6-i) + a1*(i-1)) / 5
		}
		alphas[6], alphas[7] = 0, 255
	}
	var alphaBits uint64
	for i := 0; i < 6; i++ {
		alphaBits |= uint64(block[2+i]) << (8 * i)
	}

	palette, indices := colorPalette(block[8:], false)
	for i := 0; i < 16; i++ {
		c := palette[(indices>>(2*i))&0x3]
		c[3] = uint8(alphas[(alphaBits>>(3*i))&0x7])
		out[i] = c
	}
}
