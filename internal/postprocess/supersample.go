// Package postprocess finishes rendered previews.
package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample scales img down to width × height with premultiplied alpha,
// which keeps transparent texels from darkening the edges.
// An image already no larger than the target is returned unchanged.
func Downsample(img *image.NRGBA, width, height int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= width && b.Dy() <= height {
		return img
	}

	// Premultiply alpha
	premul := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := img.PixOffset(x, y)
			di := premul.PixOffset(x, y)
			a := uint32(img.Pix[si+3])
			for c := 0; c < 3; c++ {
				premul.Pix[di+c] = uint8((uint32(img.Pix[si+c])*a + 127) / 255)
			}
			premul.Pix[di+3] = uint8(a)
		}
	}

	// CatmullRom approximates Lanczos
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premul, b, draw.Src, nil)

	// Unpremultiply alpha
	result := image.NewNRGBA(dst.Bounds())
	for i := 0; i < len(dst.Pix); i += 4 {
		a := uint32(dst.Pix[i+3])
		if a > 1 {
			for c := 0; c < 3; c++ {
				result.Pix[i+c] = clamp8((uint32(dst.Pix[i+c])*255 + a/2) / a)
			}
		}
		result.Pix[i+3] = uint8(a)
	}

	return result
}

func clamp8(v uint32) uint8 {
	if v > 255 {
		return 255
	}
	return uint8(v)
}
