package rw

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated is returned when a header, field or declared size runs past the available bytes.
	ErrTruncated = errors.New("rw: truncated input")

	// ErrUnknownSectionType is returned for a tag outside the section table.
	// Decoding cannot continue because the section length cannot be trusted.
	ErrUnknownSectionType = errors.New("rw: unknown section type")

	// ErrMalformedField is returned for a decoded value that is out of range
	// or inconsistent with the rest of its struct.
	ErrMalformedField = errors.New("rw: malformed field")

	// ErrUnsupportedPlatform is returned for rasters whose platform id is not D3D8.
	ErrUnsupportedPlatform = errors.New("rw: unsupported raster platform")
)

// DecodeError locates a decode failure in the input stream.
type DecodeError struct {
	Type   SectionType
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("rw: decode %s at offset %d: %v", e.Type, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
