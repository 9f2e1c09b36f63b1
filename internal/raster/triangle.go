package raster

import (
	"image"

	"github.com/chewxy/math32"

	"rw-repacker/internal/mathutil"
)

// ScreenVertex is a projected vertex: X, Y in pixels, Z larger toward the viewer.
type ScreenVertex struct {
	Pos mathutil.Vec3
	UV  [2]float32
}

// RasterizeTriangle rasterizes a single triangle with texture mapping,
// z-buffer, sRGB color space, lighting, and ACES tone mapping.
// A nil tex draws the triangle in base.
//
// All lighting is flat-shaded (per-face, not per-pixel). The inner loop
// does not allocate.
func RasterizeTriangle(
	fb *FrameBuffer,
	tri [3]ScreenVertex,
	tex *image.NRGBA,
	base [4]uint8,
	lc *LightConfig,
) {
	p0, p1, p2 := tri[0].Pos, tri[1].Pos, tri[2].Pos

	// Face normal for flat shading
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if n.Len() < 1e-8 {
		return
	}
	shade := lc.ComputeShade(n.Normalize())

	// Bounding box
	minX := max(int(math32.Min(math32.Min(p0[0], p1[0]), p2[0])), 0)
	maxX := min(int(math32.Max(math32.Max(p0[0], p1[0]), p2[0]))+1, fb.Width-1)
	minY := max(int(math32.Min(math32.Min(p0[1], p1[1]), p2[1])), 0)
	maxY := min(int(math32.Max(math32.Max(p0[1], p1[1]), p2[1]))+1, fb.Height-1)
	if minX >= maxX || minY >= maxY {
		return
	}

	// Barycentric setup
	x0, y0 := p0[0], p0[1]
	x1, y1 := p1[0], p1[1]
	x2, y2 := p2[0], p2[1]
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1 / det

	// Precompute edge deltas
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float32(sy) - y2
		for sx := minX; sx <= maxX; sx++ {
			dsx := float32(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*p0[2] + w1*p1[2] + w2*p2[2]
			if !fb.Nearer(sx, sy, z) {
				continue
			}

			c := base
			if tex != nil {
				u := w0*tri[0].UV[0] + w1*tri[1].UV[0] + w2*tri[2].UV[0]
				v := w0*tri[0].UV[1] + w1*tri[1].UV[1] + w2*tri[2].UV[1]
				c[0], c[1], c[2], c[3] = SampleTexture(tex, u, v)
			}

			// Skip transparent texels
			if c[3] < 8 {
				continue
			}
			fb.Plot(sx, sy, z, [4]uint8{
				lc.shadeColor(c[0], shade),
				lc.shadeColor(c[1], shade),
				lc.shadeColor(c[2], shade),
				c[3],
			})
		}
	}
}
