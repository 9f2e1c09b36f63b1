// Package raster draws software previews of repacked meshes.
package raster

import (
	"image"

	"github.com/chewxy/math32"

	"rw-repacker/internal/mathutil"
	"rw-repacker/internal/packer"
)

// Options controls a preview render. The zero value is usable.
type Options struct {
	Size        int // output edge in pixels, default 256
	Supersample int // render scale factor, default 1
	// View rotates model space into view space (Y up, +Z toward the
	// viewer). Zero means mathutil.ViewThreeQuarter.
	View mathutil.Mat3
	// Model places the mesh before viewing. Zero means identity.
	Model mathutil.Mat4
	Light *LightConfig
}

func (o Options) withDefaults() Options {
	if o.Size <= 0 {
		o.Size = 256
	}
	if o.Supersample <= 0 {
		o.Supersample = 1
	}
	if o.View == (mathutil.Mat3{}) {
		o.View = mathutil.ViewThreeQuarter
	}
	if o.Model == (mathutil.Mat4{}) {
		o.Model = mathutil.Mat4Identity()
	}
	if o.Light == nil {
		lc := DefaultLightConfig()
		o.Light = &lc
	}
	return o
}

// defaultColor is used for submeshes without an atlas or material.
var defaultColor = [4]uint8{160, 160, 170, 255}

// RenderMesh renders mesh orthographically, fitted to the image with a
// margin. The result is Size*Supersample pixels square.
func RenderMesh(mesh *packer.Mesh, opts Options) *image.NRGBA {
	opts = opts.withDefaults()
	renderSize := opts.Size * opts.Supersample

	view := make([][]mathutil.Vec3, len(mesh.Submeshes))
	lo := mathutil.Vec3{math32.Inf(1), math32.Inf(1), math32.Inf(1)}
	hi := mathutil.Vec3{math32.Inf(-1), math32.Inf(-1), math32.Inf(-1)}
	for i, sub := range mesh.Submeshes {
		view[i] = make([]mathutil.Vec3, len(sub.Vertices))
		for j, v := range sub.Vertices {
			p := opts.View.MulVec3(opts.Model.MulPoint(v.Position))
			view[i][j] = p
			lo, hi = lo.Min(p), hi.Max(p)
		}
	}
	if lo[0] > hi[0] {
		return image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	}

	center := lo.Add(hi).Scale(0.5)
	span := math32.Max(math32.Max(hi[0]-lo[0], hi[1]-lo[1]), 0.001)
	margin := float32(16 * opts.Supersample)
	scale := (float32(renderSize) - 2*margin) / span
	half := float32(renderSize) / 2

	var atlas *image.NRGBA
	if mesh.Atlas != nil && mesh.Atlas.Width > 0 {
		atlas = mesh.Atlas.Image()
	}

	fb := NewFrameBuffer(renderSize, renderSize)
	for i, sub := range mesh.Submeshes {
		base := defaultColor
		if sub.Material != nil {
			c := sub.Material.Color
			base = [4]uint8{c.R, c.G, c.B, c.A}
		}
		for k := 0; k+2 < len(sub.Indices); k += 3 {
			var tri [3]ScreenVertex
			for c := 0; c < 3; c++ {
				vi := sub.Indices[k+c]
				p := view[i][vi].Sub(center)
				tri[c] = ScreenVertex{
					Pos: mathutil.Vec3{half + p[0]*scale, half - p[1]*scale, p[2] * scale},
					UV:  sub.Vertices[vi].UV,
				}
			}
			RasterizeTriangle(fb, tri, atlas, base, opts.Light)
		}
	}

	return fb.Image()
}
