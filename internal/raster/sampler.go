package raster

import (
	"image"

	"github.com/chewxy/math32"
)

// SampleTexture performs bilinear filtering with UVs clamped to the edge.
// Atlas frames sit next to each other, so wrapping would sample neighbours.
// Returns RGBA as uint8. Accesses tex.Pix directly for performance.
func SampleTexture(tex *image.NRGBA, u, v float32) (r, g, b, a uint8) {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()

	u = math32.Max(0, math32.Min(1, u))
	v = math32.Max(0, math32.Min(1, v))

	fx := u*float32(w) - 0.5
	fy := v*float32(h) - 0.5
	if fx < 0 {
		fx = 0
	}
	if fy < 0 {
		fy = 0
	}
	x0 := min(int(fx), w-1)
	y0 := min(int(fy), h-1)
	x1 := min(x0+1, w-1)
	y1 := min(y0+1, h-1)
	dx := fx - float32(x0)
	dy := fy - float32(y0)

	stride := tex.Stride
	pix := tex.Pix

	// Four texels
	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	mix := func(o int) uint8 {
		return clamp255(float32(pix[i00+o])*w00 + float32(pix[i10+o])*w10 +
			float32(pix[i01+o])*w01 + float32(pix[i11+o])*w11)
	}
	return mix(0), mix(1), mix(2), mix(3)
}
