package packer

import (
	"sort"

	"github.com/pkg/errors"

	"rw-repacker/internal/dff"
	"rw-repacker/internal/txd"
)

// Submesh is the part of a mesh drawn with one material slot.
// MaterialID is -1 for a model without a material list.
type Submesh struct {
	MaterialID int
	Material   *dff.Material
	Frame      Frame
	Vertices   []dff.Vertex
	Indices    []uint16
}

// Mesh is a model rewritten to sample a single atlas.
type Mesh struct {
	Atlas     *PackedTexture
	Submeshes []Submesh
}

// TriangleCount returns the number of triangles over all submeshes.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, s := range m.Submeshes {
		n += len(s.Indices) / 3
	}
	return n
}

// BuildMesh packs the model's materials and splits its triangles into one
// submesh per material slot, in ascending slot order. Every submesh has its
// own compact vertex buffer with texture coordinates moved into the slot's
// atlas frame.
func BuildMesh(model *dff.Model, textures txd.Set, opts Options) (*Mesh, error) {
	for i, t := range model.Triangles {
		for _, v := range [3]uint16{t.Vertex1, t.Vertex2, t.Vertex3} {
			if int(v) >= len(model.Vertices) {
				return nil, errors.Wrapf(dff.ErrIndexOutOfRange,
					"triangle %d vertex %d, model has %d", i, v, len(model.Vertices))
			}
		}
	}
	if len(model.MaterialIndices) == 0 {
		sub := split(model, nil, func(v dff.Vertex) dff.Vertex { return v })
		sub.MaterialID = -1
		return &Mesh{Submeshes: []Submesh{sub}}, nil
	}

	atlas, err := Repack(model.Materials, model.MaterialIndices, textures, opts)
	if err != nil {
		return nil, err
	}

	groups := make(map[int][]int)
	for i, t := range model.Triangles {
		id := int(t.MaterialID)
		if id >= len(atlas.Frames) {
			return nil, errors.Wrapf(dff.ErrIndexOutOfRange,
				"triangle %d material %d, list has %d", i, id, len(atlas.Frames))
		}
		groups[id] = append(groups[id], i)
	}
	ids := make([]int, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	mesh := &Mesh{Atlas: atlas, Submeshes: make([]Submesh, 0, len(ids))}
	for _, id := range ids {
		frame := atlas.Frames[id]
		sub := split(model, groups[id], func(v dff.Vertex) dff.Vertex {
			v.UV = frame.Remap(v.UV)
			return v
		})
		sub.MaterialID = id
		sub.Material = model.Material(uint16(id))
		sub.Frame = frame
		mesh.Submeshes = append(mesh.Submeshes, sub)
	}
	return mesh, nil
}

// split copies the given triangles (all when tris is nil) into a compact
// vertex buffer, numbering vertices by first use.
func split(model *dff.Model, tris []int, conv func(dff.Vertex) dff.Vertex) Submesh {
	if tris == nil {
		tris = make([]int, len(model.Triangles))
		for i := range tris {
			tris[i] = i
		}
	}
	var sub Submesh
	remap := make(map[uint16]uint16)
	index := func(v uint16) uint16 {
		if i, ok := remap[v]; ok {
			return i
		}
		i := uint16(len(sub.Vertices))
		remap[v] = i
		sub.Vertices = append(sub.Vertices, conv(model.Vertices[v]))
		return i
	}
	sub.Indices = make([]uint16, 0, len(tris)*3)
	for _, ti := range tris {
		t := model.Triangles[ti]
		sub.Indices = append(sub.Indices, index(t.Vertex1), index(t.Vertex2), index(t.Vertex3))
	}
	return sub
}
