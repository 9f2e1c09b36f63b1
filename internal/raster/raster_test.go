package raster

import (
	"image"
	"testing"

	"rw-repacker/internal/dff"
	"rw-repacker/internal/mathutil"
	"rw-repacker/internal/packer"
	"rw-repacker/internal/rw"
)

func quad(materials bool) *packer.Mesh {
	v := func(x, y, u, w float32) dff.Vertex {
		return dff.Vertex{Position: mathutil.Vec3{x, y, 0}, UV: [2]float32{u, w}}
	}
	model := &dff.Model{
		Vertices: []dff.Vertex{v(-1, -1, 0, 0), v(1, -1, 1, 0), v(1, 1, 1, 1), v(-1, 1, 0, 1)},
		Triangles: []rw.Triangle{
			{Vertex1: 0, Vertex2: 1, Vertex3: 2},
			{Vertex1: 0, Vertex2: 2, Vertex3: 3},
		},
	}
	if materials {
		model.Materials = []dff.Material{{Color: rw.Color{R: 200, G: 40, B: 40, A: 255}}}
		model.MaterialIndices = []int{0}
	}
	mesh, err := packer.BuildMesh(model, nil, packer.DefaultOptions())
	if err != nil {
		panic(err)
	}
	return mesh
}

func TestRenderMesh(t *testing.T) {
	for _, textured := range []bool{false, true} {
		img := RenderMesh(quad(textured), Options{Size: 64, View: mathutil.Mat3Identity()})
		if img.Bounds() != image.Rect(0, 0, 64, 64) {
			t.Fatalf("bounds = %v", img.Bounds())
		}
		if a := img.NRGBAAt(32, 32).A; a != 255 {
			t.Errorf("textured=%v: center alpha = %d", textured, a)
		}
		if a := img.NRGBAAt(2, 2).A; a != 0 {
			t.Errorf("textured=%v: corner alpha = %d", textured, a)
		}
		if textured {
			c := img.NRGBAAt(32, 32)
			if c.R <= c.G || c.R <= c.B {
				t.Errorf("atlas color not sampled: %v", c)
			}
		}
	}
}

func TestRenderMeshSupersample(t *testing.T) {
	img := RenderMesh(quad(false), Options{Size: 32, Supersample: 3})
	if img.Bounds().Dx() != 96 {
		t.Errorf("width = %d, want 96", img.Bounds().Dx())
	}
}

func TestRenderEmptyMesh(t *testing.T) {
	img := RenderMesh(&packer.Mesh{}, Options{Size: 16})
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			t.Fatal("empty mesh drew pixels")
		}
	}
}

func TestSampleTextureClamps(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	copy(tex.Pix, []uint8{255, 0, 0, 255, 0, 0, 255, 255})
	tests := []struct {
		u    float32
		want [4]uint8
	}{
		{-1, [4]uint8{255, 0, 0, 255}},
		{0.1, [4]uint8{255, 0, 0, 255}},
		{0.5, [4]uint8{128, 0, 128, 255}},
		{2, [4]uint8{0, 0, 255, 255}},
	}
	for _, tt := range tests {
		r, g, b, a := SampleTexture(tex, tt.u, 0.5)
		if got := [4]uint8{r, g, b, a}; got != tt.want {
			t.Errorf("SampleTexture(%v) = %v, want %v", tt.u, got, tt.want)
		}
	}
}

func TestFrameBufferDepth(t *testing.T) {
	fb := NewFrameBuffer(2, 2)
	if !fb.Nearer(1, 1, -1e30) {
		t.Fatal("empty buffer rejected a finite depth")
	}
	fb.Plot(1, 1, 5, [4]uint8{1, 2, 3, 255})
	if fb.Nearer(1, 1, 5) || fb.Nearer(1, 1, 4) {
		t.Error("depth test passed behind a plotted pixel")
	}
	if !fb.Nearer(1, 1, 6) || !fb.Nearer(0, 1, 0) {
		t.Error("depth test failed in front or on an empty pixel")
	}
	img := fb.Image()
	if got := img.NRGBAAt(1, 1); got.R != 1 || got.G != 2 || got.B != 3 || got.A != 255 {
		t.Errorf("plotted pixel = %v", got)
	}
	if got := img.NRGBAAt(0, 0); got.A != 0 {
		t.Errorf("untouched pixel = %v, want transparent", got)
	}
}
