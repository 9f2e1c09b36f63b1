package packer

import "errors"

var (
	// ErrMaterialCeilingExceeded is returned when a model has more distinct
	// materials than consumers can hold in their per-submaterial arrays.
	ErrMaterialCeilingExceeded = errors.New("packer: too many materials")

	// ErrAtlasOverflow is returned when the tiles do not fit in the largest atlas.
	ErrAtlasOverflow = errors.New("packer: tiles do not fit in atlas")
)
