package rw

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// HeaderSize is the byte length of a section header: type, size, version.
const HeaderSize = 12

// maxDepth bounds section nesting. Real files nest fewer than ten levels.
const maxDepth = 64

// noParent is passed for top-level sections; 0 is not a section tag.
const noParent SectionType = 0

// Section is one node of a decoded stream.
type Section struct {
	Type       SectionType
	Version    uint32 // decoded, see DecodeVersion
	RawVersion uint32
	Size       uint32 // region length, excluding the header
	Offset     int    // header offset in the decoded buffer
	Children   []*Section
	Data       Payload
}

// DecodeVersion maps a header version word to the linear form used for
// feature thresholds. Packed library ids (high half set) are unpacked;
// legacy values are shifted left by 8.
func DecodeVersion(raw uint32) uint32 {
	if raw&0xFFFF0000 != 0 {
		return ((raw>>14&0x3FF00)+0x30000) | (raw >> 16 & 0x3F)
	}
	return raw << 8
}

// Decode reads the first top-level section of data. Bytes after it are ignored.
func Decode(data []byte) (*Section, error) {
	s, _, err := decodeSection(data, 0, noParent, 0)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// DecodeAll reads consecutive top-level sections until data is exhausted.
func DecodeAll(data []byte) ([]*Section, error) {
	var out []*Section
	for off := 0; off < len(data); {
		s, n, err := decodeSection(data[off:], off, noParent, 0)
		if err != nil {
			return out, err
		}
		out = append(out, s)
		off += n
	}
	return out, nil
}

// decodeSection decodes one section from the start of buf and returns the
// number of bytes consumed, which is always HeaderSize plus the declared size.
func decodeSection(buf []byte, base int, parent SectionType, depth int) (*Section, int, error) {
	if len(buf) < HeaderSize {
		return nil, 0, &DecodeError{Type: parent, Offset: base,
			Err: errors.Wrapf(ErrTruncated, "header needs %d bytes, have %d", HeaderSize, len(buf))}
	}
	typ := SectionType(binary.LittleEndian.Uint32(buf[0:]))
	size := binary.LittleEndian.Uint32(buf[4:])
	raw := binary.LittleEndian.Uint32(buf[8:])

	if !typ.Known() {
		return nil, 0, &DecodeError{Type: typ, Offset: base, Err: ErrUnknownSectionType}
	}
	if uint64(size) > uint64(len(buf)-HeaderSize) {
		return nil, 0, &DecodeError{Type: typ, Offset: base,
			Err: errors.Wrapf(ErrTruncated, "declared size %d, have %d", size, len(buf)-HeaderSize)}
	}
	if depth >= maxDepth {
		return nil, 0, &DecodeError{Type: typ, Offset: base,
			Err: errors.Wrapf(ErrMalformedField, "nesting deeper than %d", maxDepth)}
	}

	s := &Section{
		Type:       typ,
		Version:    DecodeVersion(raw),
		RawVersion: raw,
		Size:       size,
		Offset:     base,
	}
	region := buf[HeaderSize : HeaderSize+int(size)]
	r := newReader(region)

	switch {
	case typ == TypeStruct:
		s.Data = parseStruct(r, parent, s.Version)
		if r.err != nil {
			return nil, 0, &DecodeError{Type: typ, Offset: base,
				Err: errors.Wrapf(r.err, "%s struct", parent)}
		}
	case typ == TypeString:
		s.Data = String(decodeString(r.rest()))
	case typ == TypeNodeName:
		s.Data = NodeName(decodeString(r.rest()))
	case typ.container():
	default:
		s.Data = &Opaque{Data: r.rest()}
	}

	for r.remaining() > 0 {
		child, n, err := decodeSection(region[r.off:], base+HeaderSize+r.off, typ, depth+1)
		if err != nil {
			return nil, 0, err
		}
		s.Children = append(s.Children, child)
		r.off += n
	}
	return s, HeaderSize + int(size), nil
}

// Child returns the first direct child of type t.
func (s *Section) Child(t SectionType) *Section {
	for _, c := range s.Children {
		if c.Type == t {
			return c
		}
	}
	return nil
}

// ChildrenOf returns the direct children of type t in stream order.
func (s *Section) ChildrenOf(t SectionType) []*Section {
	var out []*Section
	for _, c := range s.Children {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// Struct returns the payload of the first Struct child, or nil.
func (s *Section) Struct() Payload {
	if c := s.Child(TypeStruct); c != nil {
		return c.Data
	}
	return nil
}

// Walk visits s and its descendants depth-first. Returning false from fn
// skips the children of that section.
func (s *Section) Walk(fn func(s *Section, depth int) bool) {
	s.walk(fn, 0)
}

func (s *Section) walk(fn func(*Section, int) bool, depth int) {
	if !fn(s, depth) {
		return
	}
	for _, c := range s.Children {
		c.walk(fn, depth+1)
	}
}

// Find returns every descendant of type t, depth-first.
func (s *Section) Find(t SectionType) []*Section {
	var out []*Section
	s.Walk(func(c *Section, _ int) bool {
		if c != s && c.Type == t {
			out = append(out, c)
		}
		return true
	})
	return out
}
