package dff

import (
	"github.com/pkg/errors"

	"rw-repacker/internal/mathutil"
	"rw-repacker/internal/rw"
)

type Topology int

const (
	TriangleList Topology = iota
	TriangleStrip
)

func (t Topology) String() string {
	if t == TriangleStrip {
		return "TriangleStrip"
	}
	return "TriangleList"
}

type Vertex struct {
	Position mathutil.Vec3
	Normal   mathutil.Vec3
	UV       [2]float32
}

// Model is the flat mesh of one geometry. Triangle material ids index
// MaterialIndices, whose entries index Materials.
type Model struct {
	Vertices        []Vertex
	Triangles       []rw.Triangle
	Topology        Topology
	Materials       []Material
	MaterialIndices []int
	Prelit          []rw.Color
	Format          rw.GeometryFormat

	// Native is set when the mesh data was a platform blob and no
	// triangles could be read.
	Native bool
}

// Material returns the material of a triangle slot, or nil when the model has
// no material list.
func (m *Model) Material(slot uint16) *Material {
	if int(slot) >= len(m.MaterialIndices) {
		return nil
	}
	return &m.Materials[m.MaterialIndices[slot]]
}

// Bounds returns the axis-aligned box around all vertices.
func (m *Model) Bounds() (min, max mathutil.Vec3, ok bool) {
	if len(m.Vertices) == 0 {
		return min, max, false
	}
	min, max = m.Vertices[0].Position, m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		min = min.Min(v.Position)
		max = max.Max(v.Position)
	}
	return min, max, true
}

// buildModel flattens g. A native geometry yields a model without triangles.
func buildModel(g *Geometry) (*Model, error) {
	if g.err != nil {
		return nil, g.err
	}
	m := &Model{
		// Strip-flagged geometry still stores a plain triangle list.
		Topology:        TriangleList,
		Materials:       g.Materials,
		MaterialIndices: g.MaterialIndices,
		Format:          g.Format,
	}

	var positions, normals []mathutil.Vec3
	if len(g.MorphTargets) > 0 {
		positions = g.MorphTargets[0].Vertices
		normals = g.MorphTargets[0].Normals
	}
	var uvs []rw.UV
	if g.Data != nil && len(g.Data.TextureSets) > 0 {
		uvs = g.Data.TextureSets[0]
	}

	m.Vertices = make([]Vertex, len(positions))
	for i, p := range positions {
		v := Vertex{Position: p}
		if i < len(normals) {
			v.Normal = normals[i]
		}
		if i < len(uvs) {
			v.UV = [2]float32{uvs[i].U, uvs[i].V}
		}
		m.Vertices[i] = v
	}

	if g.Data == nil {
		m.Native = true
		return m, nil
	}
	m.Prelit = g.Data.Prelit
	if err := validateTriangles(g.Data.Triangles, len(m.Vertices), m.MaterialIndices); err != nil {
		return nil, err
	}
	m.Triangles = g.Data.Triangles
	return m, nil
}

func validateTriangles(tris []rw.Triangle, vertices int, slots []int) error {
	for i, t := range tris {
		for _, v := range [3]uint16{t.Vertex1, t.Vertex2, t.Vertex3} {
			if int(v) >= vertices {
				return errors.Wrapf(ErrIndexOutOfRange,
					"triangle %d vertex %d, geometry has %d", i, v, vertices)
			}
		}
		if slots != nil && int(t.MaterialID) >= len(slots) {
			return errors.Wrapf(ErrIndexOutOfRange,
				"triangle %d material %d, list has %d", i, t.MaterialID, len(slots))
		}
	}
	return nil
}
