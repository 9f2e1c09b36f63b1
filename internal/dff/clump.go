package dff

import (
	"github.com/pkg/errors"

	"rw-repacker/internal/rw"
)

// Clump is the typed form of a clump section. Lists are kept in stream
// order so atomics can refer to them by index.
type Clump struct {
	Version    uint32
	Header     rw.ClumpStruct
	Frames     []rw.Frame
	FrameNames []string
	Geometries []*Geometry
	Atomics    []rw.AtomicStruct
}

// Geometry pairs a geometry struct with its resolved material list.
type Geometry struct {
	*rw.GeometryStruct
	Materials       []Material
	MaterialIndices []int

	// err holds a material list problem; it fails every atomic using this geometry.
	err error
}

// FindClump returns root if it is a clump, otherwise its first clump child.
func FindClump(root *rw.Section) *rw.Section {
	if root == nil {
		return nil
	}
	if root.Type == rw.TypeClump {
		return root
	}
	return root.Child(rw.TypeClump)
}

// ReadClump resolves the frame list, geometry list and atomics of the clump
// under root in a single pass.
func ReadClump(root *rw.Section) (*Clump, error) {
	cs := FindClump(root)
	if cs == nil {
		return nil, ErrNoClump
	}
	header, ok := cs.Struct().(*rw.ClumpStruct)
	if !ok {
		return nil, errors.Wrap(rw.ErrMalformedField, "dff: clump without struct")
	}
	c := &Clump{Version: cs.Version, Header: *header}

	fl := cs.Child(rw.TypeFrameList)
	if fl == nil {
		return nil, errors.Wrap(rw.ErrMalformedField, "dff: clump without frame list")
	}
	frames, ok := fl.Struct().(*rw.FrameListStruct)
	if !ok {
		return nil, errors.Wrap(rw.ErrMalformedField, "dff: frame list without struct")
	}
	c.Frames = frames.Frames
	c.FrameNames = frameNames(fl, len(c.Frames))

	gl := cs.Child(rw.TypeGeometryList)
	if gl == nil {
		return nil, errors.Wrap(rw.ErrMalformedField, "dff: clump without geometry list")
	}
	glh, ok := gl.Struct().(*rw.GeometryListStruct)
	if !ok {
		return nil, errors.Wrap(rw.ErrMalformedField, "dff: geometry list without struct")
	}
	geoms := gl.ChildrenOf(rw.TypeGeometry)
	if len(geoms) != int(glh.Count) {
		return nil, errors.Wrapf(rw.ErrMalformedField,
			"dff: geometry list declares %d geometries, holds %d", glh.Count, len(geoms))
	}
	for i, gs := range geoms {
		g, err := readGeometry(gs)
		if err != nil {
			return nil, errors.Wrapf(err, "dff: geometry %d", i)
		}
		c.Geometries = append(c.Geometries, g)
	}

	for i, as := range cs.ChildrenOf(rw.TypeAtomic) {
		a, ok := as.Struct().(*rw.AtomicStruct)
		if !ok {
			return nil, errors.Wrapf(rw.ErrMalformedField, "dff: atomic %d without struct", i)
		}
		c.Atomics = append(c.Atomics, *a)
	}
	return c, nil
}

func readGeometry(s *rw.Section) (*Geometry, error) {
	gs, ok := s.Struct().(*rw.GeometryStruct)
	if !ok {
		return nil, errors.Wrap(rw.ErrMalformedField, "geometry without struct")
	}
	g := &Geometry{GeometryStruct: gs}
	if ml := s.Child(rw.TypeMaterialList); ml != nil {
		g.Materials, g.MaterialIndices, g.err = readMaterialList(ml)
	}
	return g, nil
}

// frameNames collects the NodeName extension of each frame, if any.
func frameNames(fl *rw.Section, n int) []string {
	names := make([]string, n)
	for i, ext := range fl.ChildrenOf(rw.TypeExtension) {
		if i >= n {
			break
		}
		if nn := ext.Child(rw.TypeNodeName); nn != nil {
			if v, ok := nn.Data.(rw.NodeName); ok {
				names[i] = string(v)
			}
		}
	}
	return names
}

// World composes the frame at index i with its ancestors. Parent links that
// point outside the list or loop back end the chain.
func (c *Clump) World(i int) Transform {
	if i < 0 || i >= len(c.Frames) {
		return Identity()
	}
	t := LocalTransform(c.Frames[i])
	visited := map[int]bool{i: true}
	for p := int(c.Frames[i].Parent); p >= 0 && p < len(c.Frames) && !visited[p]; p = int(c.Frames[p].Parent) {
		visited[p] = true
		t = t.Then(LocalTransform(c.Frames[p]))
	}
	return t
}
