package dff

import (
	"github.com/pkg/errors"

	"rw-repacker/internal/rw"
)

// TextureRef names the texture a material samples.
type TextureRef struct {
	Filtering rw.TextureFiltering
	AddressU  rw.TextureAddressing
	AddressV  rw.TextureAddressing
	Name      string
	AlphaName string
}

type Material struct {
	Color    rw.Color
	Textured bool
	Lighting *rw.Lighting
	Texture  *TextureRef
}

// UnpackMaterialIndices expands a material list table into one dense material
// index per slot. A -1 entry introduces the next new material; an entry k >= 0
// repeats whatever the k-th new material resolved to.
func UnpackMaterialIndices(table []int32) ([]int, error) {
	present := make([]int, 0, len(table))
	out := make([]int, 0, len(table))
	next := 0
	for slot, idx := range table {
		switch {
		case idx == -1:
			present = append(present, next)
			out = append(out, next)
			next++
		case idx >= 0 && int(idx) < len(present):
			out = append(out, present[idx])
		default:
			return nil, errors.Wrapf(ErrIndexOutOfRange,
				"material slot %d refers to entry %d, %d defined so far", slot, idx, len(present))
		}
	}
	return out, nil
}

func readMaterialList(ml *rw.Section) ([]Material, []int, error) {
	table, ok := ml.Struct().(*rw.MaterialListStruct)
	if !ok {
		return nil, nil, errors.Wrap(rw.ErrMalformedField, "material list without struct")
	}

	var materials []Material
	for i, ms := range ml.ChildrenOf(rw.TypeMaterial) {
		m, err := readMaterial(ms)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "material %d", i)
		}
		materials = append(materials, m)
	}

	indices, err := UnpackMaterialIndices(table.Indices)
	if err != nil {
		return nil, nil, err
	}
	for slot, idx := range indices {
		if idx >= len(materials) {
			return nil, nil, errors.Wrapf(ErrIndexOutOfRange,
				"material slot %d needs material %d, list holds %d", slot, idx, len(materials))
		}
	}
	return materials, indices, nil
}

func readMaterial(s *rw.Section) (Material, error) {
	ms, ok := s.Struct().(*rw.MaterialStruct)
	if !ok {
		return Material{}, errors.Wrap(rw.ErrMalformedField, "material without struct")
	}
	m := Material{Color: ms.Color, Textured: ms.Textured, Lighting: ms.Lighting}
	if ts := s.Child(rw.TypeTexture); ts != nil {
		ref, err := readTextureRef(ts)
		if err != nil {
			return Material{}, err
		}
		m.Texture = ref
	}
	return m, nil
}

func readTextureRef(s *rw.Section) (*TextureRef, error) {
	ts, ok := s.Struct().(*rw.TextureStruct)
	if !ok {
		return nil, errors.Wrap(rw.ErrMalformedField, "texture without struct")
	}
	ref := &TextureRef{
		Filtering: ts.Filtering,
		AddressU:  ts.AddressU,
		AddressV:  ts.AddressV,
	}
	names := s.ChildrenOf(rw.TypeString)
	if len(names) > 0 {
		ref.Name = string(stringOf(names[0]))
	}
	if len(names) > 1 {
		ref.AlphaName = string(stringOf(names[1]))
	}
	return ref, nil
}

func stringOf(s *rw.Section) rw.String {
	if v, ok := s.Data.(rw.String); ok {
		return v
	}
	return ""
}
