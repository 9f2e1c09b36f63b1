package dff

import (
	"errors"
	"fmt"
)

var (
	// ErrNoClump is returned when neither the root nor its children is a clump.
	ErrNoClump = errors.New("dff: no clump section")

	// ErrIndexOutOfRange is returned when an atomic, triangle or material
	// table entry refers outside its list.
	ErrIndexOutOfRange = errors.New("dff: index out of range")

	// ErrUnsupportedNativeGeometry is reported for geometry whose mesh data is a
	// platform-specific blob. The model is kept with zero triangles.
	ErrUnsupportedNativeGeometry = errors.New("dff: native platform geometry not supported")
)

// AtomicError ties a resolve failure or warning to the atomic that caused it.
type AtomicError struct {
	AtomicIndex int
	Err         error
}

func (e *AtomicError) Error() string {
	return fmt.Sprintf("dff: atomic %d: %v", e.AtomicIndex, e.Err)
}

func (e *AtomicError) Unwrap() error { return e.Err }
