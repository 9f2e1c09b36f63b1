package packer

import (
	"image"

	"github.com/chewxy/math32"

	"rw-repacker/internal/dff"
	"rw-repacker/internal/rw"
	"rw-repacker/internal/txd"
)

// SolidSize is the edge length of the tile generated for untextured materials.
const SolidSize = 8

// tile is one material's image before packing.
type tile struct {
	material int
	img      *image.NRGBA
	x, y     int
}

func (t *tile) area() int {
	b := t.img.Bounds()
	return b.Dx() * b.Dy()
}

// newTile renders the tile of m: its texture modulated by the material
// color, or a solid block of that color when no texture is available.
func newTile(index int, m *dff.Material, textures txd.Set) *tile {
	var tex *txd.Texture
	if m.Texture != nil && m.Texture.Name != "" {
		tex = textures.Lookup(m.Texture.Name)
	}
	if tex == nil || tex.Width == 0 || tex.Height == 0 {
		return &tile{material: index, img: solid(m.Color)}
	}
	return &tile{material: index, img: tint(tex, m.Color)}
}

func solid(c rw.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, SolidSize, SolidSize))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

func tint(tex *txd.Texture, c rw.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, tex.Width, tex.Height))
	mod := [4]uint8{c.R, c.G, c.B, c.A}
	for i := range img.Pix {
		img.Pix[i] = modulate(tex.Pixels[i], mod[i&3])
	}
	return img
}

// modulate multiplies two channels as fractions of 255.
func modulate(a, b uint8) uint8 {
	v := float32(a) / 255 * (float32(b) / 255)
	return uint8(math32.Round(clamp01(v) * 255))
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}
