// Package packer merges the textures of a model's materials into one atlas
// and rewrites the mesh to sample it.
package packer

import (
	"image"
	"image/color"
	"sort"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"rw-repacker/internal/dff"
	"rw-repacker/internal/txd"
)

const (
	DefaultMaxSize      = 4096
	DefaultMaxMaterials = 256
)

type Options struct {
	// MaxSize bounds both atlas dimensions.
	MaxSize int
	// MaxMaterials bounds the number of distinct materials per model.
	MaxMaterials int
}

func DefaultOptions() Options {
	return Options{MaxSize: DefaultMaxSize, MaxMaterials: DefaultMaxMaterials}
}

func (o Options) withDefaults() Options {
	if o.MaxSize <= 0 {
		o.MaxSize = DefaultMaxSize
	}
	if o.MaxMaterials <= 0 {
		o.MaxMaterials = DefaultMaxMaterials
	}
	return o
}

// Frame is a tile rectangle in normalized atlas coordinates.
type Frame struct {
	TopLeft     [2]float32
	BottomRight [2]float32
}

// Remap moves a texture coordinate into the frame. Coordinates outside
// [0,1] are clamped first, so tiling textures do not bleed into neighbours.
func (f Frame) Remap(uv [2]float32) [2]float32 {
	var out [2]float32
	for i := range out {
		t := clamp01(uv[i])
		out[i] = f.TopLeft[i] + (f.BottomRight[i]-f.TopLeft[i])*t
	}
	return out
}

// PackedTexture is an RGBA8 atlas. Frames has one entry per material slot.
type PackedTexture struct {
	Width  int
	Height int
	Pixels []byte
	Frames []Frame
}

// Image wraps the atlas pixels without copying.
func (p *PackedTexture) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    p.Pixels,
		Stride: p.Width * 4,
		Rect:   image.Rect(0, 0, p.Width, p.Height),
	}
}

// Repack builds the atlas for a material list. materialIndices maps each slot
// to an entry of materials; slots sharing a material share a tile.
// An empty slot list yields an empty atlas.
func Repack(materials []dff.Material, materialIndices []int, textures txd.Set, opts Options) (*PackedTexture, error) {
	opts = opts.withDefaults()
	if len(materialIndices) == 0 {
		return &PackedTexture{}, nil
	}

	tileOf := make(map[int]*tile)
	var tiles []*tile
	for slot, idx := range materialIndices {
		if idx < 0 || idx >= len(materials) {
			return nil, errors.Wrapf(dff.ErrIndexOutOfRange,
				"material slot %d needs material %d, list holds %d", slot, idx, len(materials))
		}
		if _, ok := tileOf[idx]; ok {
			continue
		}
		if len(tiles) == opts.MaxMaterials {
			return nil, errors.Wrapf(ErrMaterialCeilingExceeded, "more than %d materials", opts.MaxMaterials)
		}
		t := newTile(idx, &materials[idx], textures)
		tileOf[idx] = t
		tiles = append(tiles, t)
	}

	order := make([]*tile, len(tiles))
	copy(order, tiles)
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].area() > order[j].area()
	})

	width, height, err := pack(order, opts.MaxSize)
	if err != nil {
		return nil, err
	}

	atlas := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(atlas, atlas.Bounds(), image.NewUniform(color.NRGBA{A: 255}), image.Point{}, draw.Src)
	for _, t := range order {
		b := t.img.Bounds()
		draw.Draw(atlas, image.Rect(t.x, t.y, t.x+b.Dx(), t.y+b.Dy()), t.img, b.Min, draw.Src)
	}

	frames := make([]Frame, len(materialIndices))
	for slot, idx := range materialIndices {
		frames[slot] = frameOf(tileOf[idx], width, height)
	}
	return &PackedTexture{Width: width, Height: height, Pixels: atlas.Pix, Frames: frames}, nil
}

// pack places the tiles on the smallest power-of-two square that holds
// them and returns the used extent.
func pack(tiles []*tile, maxSize int) (width, height int, err error) {
	size := min(startSize(tiles), maxSize)
	sky := NewSkyline(size, size)
	for {
		if placeAll(sky, tiles) {
			width, height = sky.Used()
			return width, height, nil
		}
		if size == maxSize {
			return 0, 0, errors.Wrapf(ErrAtlasOverflow, "%d tiles, limit %dx%d", len(tiles), maxSize, maxSize)
		}
		size = min(size*2, maxSize)
		sky.Reset(size, size)
	}
}

func placeAll(sky *Skyline, tiles []*tile) bool {
	for _, t := range tiles {
		b := t.img.Bounds()
		x, y, ok := sky.Allocate(b.Dx(), b.Dy())
		if !ok {
			return false
		}
		t.x, t.y = x, y
	}
	return true
}

func startSize(tiles []*tile) int {
	total, edge := 0, 0
	for _, t := range tiles {
		b := t.img.Bounds()
		total += b.Dx() * b.Dy()
		edge = max(edge, b.Dx(), b.Dy())
	}
	edge = max(edge, int(math32.Ceil(math32.Sqrt(float32(total)))))
	size := 1
	for size < edge {
		size *= 2
	}
	return size
}

func frameOf(t *tile, width, height int) Frame {
	b := t.img.Bounds()
	w, h := float32(width), float32(height)
	return Frame{
		TopLeft:     [2]float32{float32(t.x) / w, float32(t.y) / h},
		BottomRight: [2]float32{float32(t.x+b.Dx()) / w, float32(t.y+b.Dy()) / h},
	}
}
