package raster

import (
	"image"

	"github.com/chewxy/math32"
)

// FrameBuffer is a color target with a depth plane. Larger depth values are
// nearer the viewer.
type FrameBuffer struct {
	Width  int
	Height int
	color  *image.NRGBA
	depth  []float32
}

// NewFrameBuffer returns a transparent target with every depth at -inf.
func NewFrameBuffer(w, h int) *FrameBuffer {
	depth := make([]float32, w*h)
	for i := range depth {
		depth[i] = math32.Inf(-1)
	}
	return &FrameBuffer{
		Width:  w,
		Height: h,
		color:  image.NewNRGBA(image.Rect(0, 0, w, h)),
		depth:  depth,
	}
}

// Nearer reports whether z passes the depth test at (x, y).
func (fb *FrameBuffer) Nearer(x, y int, z float32) bool {
	return z > fb.depth[y*fb.Width+x]
}

// Plot writes c at (x, y) and records its depth.
func (fb *FrameBuffer) Plot(x, y int, z float32, c [4]uint8) {
	fb.depth[y*fb.Width+x] = z
	i := fb.color.PixOffset(x, y)
	copy(fb.color.Pix[i:i+4], c[:])
}

// Image returns the color target. It shares memory with the buffer.
func (fb *FrameBuffer) Image() *image.NRGBA {
	return fb.color
}
