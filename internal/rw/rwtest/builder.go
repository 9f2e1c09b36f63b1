// Package rwtest builds section streams for tests.
package rwtest

import (
	"bytes"
	"encoding/binary"
	"math"

	"rw-repacker/internal/rw"
)

// Raw header version words used by the games the decoder targets.
const (
	VersionGTA3   = 0x0800FFFF // decodes to 0x32000
	VersionVC     = 0x0C02FFFF // decodes to 0x33002
	VersionSA     = 0x1803FFFF // decodes to 0x36003
	VersionLegacy = 0x00000310 // decodes to 0x31000
)

// Buf accumulates little-endian fields.
type Buf struct {
	bytes.Buffer
}

func (b *Buf) U8(v uint8) *Buf {
	b.WriteByte(v)
	return b
}

func (b *Buf) U16(v uint16) *Buf {
	b.Write(binary.LittleEndian.AppendUint16(nil, v))
	return b
}

func (b *Buf) U32(v uint32) *Buf {
	b.Write(binary.LittleEndian.AppendUint32(nil, v))
	return b
}

func (b *Buf) I32(v int32) *Buf { return b.U32(uint32(v)) }

func (b *Buf) F32(v ...float32) *Buf {
	for _, f := range v {
		b.U32(math.Float32bits(f))
	}
	return b
}

func (b *Buf) Raw(p []byte) *Buf {
	b.Write(p)
	return b
}

// Name writes s into a fixed-width NUL-padded field.
func (b *Buf) Name(s string, width int) *Buf {
	field := make([]byte, width)
	copy(field, s)
	b.Write(field)
	return b
}

// Section encodes a header followed by the concatenated parts.
func Section(t rw.SectionType, version uint32, parts ...[]byte) []byte {
	var body []byte
	for _, p := range parts {
		body = append(body, p...)
	}
	out := binary.LittleEndian.AppendUint32(nil, uint32(t))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(body)))
	out = binary.LittleEndian.AppendUint32(out, version)
	return append(out, body...)
}

// Header encodes a header whose declared size need not match any body.
func Header(t rw.SectionType, size, version uint32) []byte {
	out := binary.LittleEndian.AppendUint32(nil, uint32(t))
	out = binary.LittleEndian.AppendUint32(out, size)
	return binary.LittleEndian.AppendUint32(out, version)
}

func Struct(version uint32, body []byte) []byte {
	return Section(rw.TypeStruct, version, body)
}

func String(version uint32, s string) []byte {
	// Strings are NUL-terminated and padded to four bytes.
	n := (len(s) + 4) &^ 3
	field := make([]byte, n)
	copy(field, s)
	return Section(rw.TypeString, version, field)
}

func Extension(version uint32, children ...[]byte) []byte {
	return Section(rw.TypeExtension, version, children...)
}

// Texture builds a texture reference with wrap addressing.
func Texture(version uint32, name, alpha string) []byte {
	var b Buf
	b.U8(uint8(rw.FilterLinear)).U8(0x11).U8(0).U8(0)
	return Section(rw.TypeTexture, version,
		Struct(version, b.Bytes()),
		String(version, name),
		String(version, alpha),
		Extension(version))
}

// Material builds a material; an empty texture name omits the reference.
func Material(version uint32, c rw.Color, texture string) []byte {
	var b Buf
	b.U32(0).U8(c.R).U8(c.G).U8(c.B).U8(c.A).U32(0)
	textured := uint32(0)
	if texture != "" {
		textured = 1
	}
	b.U32(textured)
	if rw.DecodeVersion(version) > rw.VersionMaterialLighting {
		b.F32(1, 1, 1)
	}
	parts := [][]byte{Struct(version, b.Bytes())}
	if texture != "" {
		parts = append(parts, Texture(version, texture, ""))
	}
	parts = append(parts, Extension(version))
	return Section(rw.TypeMaterial, version, parts...)
}

func MaterialList(version uint32, indices []int32, materials ...[]byte) []byte {
	var b Buf
	b.U32(uint32(len(indices)))
	for _, i := range indices {
		b.I32(i)
	}
	parts := append([][]byte{Struct(version, b.Bytes())}, materials...)
	return Section(rw.TypeMaterialList, version, parts...)
}

func FrameList(version uint32, frames ...rw.Frame) []byte {
	var b Buf
	b.U32(uint32(len(frames)))
	for _, f := range frames {
		b.F32(f.Rotation[:]...)
		b.F32(f.Translation[:]...)
		b.I32(f.Parent).U32(f.Flags)
	}
	ext := make([][]byte, len(frames))
	for i := range ext {
		ext[i] = Extension(version)
	}
	return Section(rw.TypeFrameList, version, append([][]byte{Struct(version, b.Bytes())}, ext...)...)
}

// Mesh describes the inline data of a geometry.
type Mesh struct {
	Format    rw.GeometryFormat
	Positions [][3]float32
	Normals   [][3]float32
	UVs       []rw.UV
	Prelit    []rw.Color
	Triangles []rw.Triangle
	Morphs    int // extra morph targets without vertex data
}

// Geometry builds a geometry section. Material list bytes may be nil.
func Geometry(version uint32, m Mesh, materialList []byte) []byte {
	format := uint32(m.Format)
	if len(m.UVs) > 0 {
		format |= uint32(rw.GeometryTextured) | 1<<16
	}
	if len(m.Prelit) > 0 {
		format |= uint32(rw.GeometryPrelit)
	}
	if len(m.Normals) > 0 {
		format |= uint32(rw.GeometryNormals)
	}
	nv := len(m.Positions)

	var b Buf
	b.U32(format).U32(uint32(len(m.Triangles))).U32(uint32(nv)).U32(uint32(1 + m.Morphs))
	if rw.DecodeVersion(version) < rw.VersionGeometryLighting {
		b.F32(1, 1, 1)
	}
	if !m.Format.Has(rw.GeometryNative) {
		for _, c := range m.Prelit {
			b.U8(c.R).U8(c.G).U8(c.B).U8(c.A)
		}
		for _, uv := range m.UVs {
			b.F32(uv.U, uv.V)
		}
		for _, t := range m.Triangles {
			b.U16(t.Vertex2).U16(t.Vertex1).U16(t.MaterialID).U16(t.Vertex3)
		}
	}
	b.F32(0, 0, 0, 1)
	b.U32(1)
	if len(m.Normals) > 0 {
		b.U32(1)
	} else {
		b.U32(0)
	}
	for _, p := range m.Positions {
		b.F32(p[:]...)
	}
	for _, n := range m.Normals {
		b.F32(n[:]...)
	}
	for i := 0; i < m.Morphs; i++ {
		b.F32(0, 0, 0, 1).U32(0).U32(0)
	}

	parts := [][]byte{Struct(version, b.Bytes())}
	if materialList != nil {
		parts = append(parts, materialList)
	}
	parts = append(parts, Extension(version))
	return Section(rw.TypeGeometry, version, parts...)
}

func GeometryList(version uint32, geometries ...[]byte) []byte {
	var b Buf
	b.U32(uint32(len(geometries)))
	return Section(rw.TypeGeometryList, version, append([][]byte{Struct(version, b.Bytes())}, geometries...)...)
}

// Atomic builds an atomic with the given flags (0x04 renders).
func Atomic(version uint32, frame, geometry, flags uint32) []byte {
	var b Buf
	b.U32(frame).U32(geometry).U32(flags).U32(0)
	return Section(rw.TypeAtomic, version, Struct(version, b.Bytes()), Extension(version))
}

// Clump wraps frame list, geometry list and atomics into a clump.
func Clump(version uint32, frameList, geometryList []byte, atomics ...[]byte) []byte {
	var b Buf
	b.U32(uint32(len(atomics)))
	if rw.DecodeVersion(version) > rw.VersionClumpCounts {
		b.U32(0).U32(0)
	}
	parts := [][]byte{Struct(version, b.Bytes()), frameList, geometryList}
	parts = append(parts, atomics...)
	parts = append(parts, Extension(version))
	return Section(rw.TypeClump, version, parts...)
}

// Raster describes one D3D8 raster.
type Raster struct {
	Platform    uint32 // 0 means D3D8
	Name        string
	Mask        string
	Format      rw.RasterFormat // 0 means 8888
	Width       uint16
	Height      uint16
	Compression uint8
	Palette     []byte // written after the header when Format has a palette flag
	Levels      [][]byte
}

func NativeTexture(version uint32, r Raster) []byte {
	platform := r.Platform
	if platform == 0 {
		platform = rw.PlatformD3D8
	}
	format := r.Format
	if format == 0 {
		format = rw.RasterFormat(rw.Scheme8888) << 8
	}
	var b Buf
	b.U32(platform)
	b.U8(uint8(rw.FilterLinear)).U8(0x11).U16(0)
	b.Name(r.Name, 32).Name(r.Mask, 32)
	b.U32(uint32(format)).U32(0)
	b.U16(r.Width).U16(r.Height).U8(32).U8(uint8(len(r.Levels))).U8(4).U8(r.Compression)
	b.Raw(r.Palette)
	for _, l := range r.Levels {
		b.U32(uint32(len(l))).Raw(l)
	}
	return Section(rw.TypeRaster, version, Struct(version, b.Bytes()), Extension(version))
}

func TextureDictionary(version uint32, rasters ...[]byte) []byte {
	var b Buf
	if rw.DecodeVersion(version) < rw.VersionDictionaryDevice {
		b.U32(uint32(len(rasters)))
	} else {
		b.U16(uint16(len(rasters))).U16(1)
	}
	parts := append([][]byte{Struct(version, b.Bytes())}, rasters...)
	parts = append(parts, Extension(version))
	return Section(rw.TypeTextureDictionary, version, parts...)
}
