package rw

import (
	"github.com/pkg/errors"

	"rw-repacker/internal/mathutil"
)

// Payload is the interpreted content of a section region.
// Container sections carry a nil payload.
type Payload interface {
	payload()
}

// Opaque keeps the bytes of a section or struct that is not interpreted.
type Opaque struct {
	Data []byte
}

// String is the payload of a String section.
type String string

// NodeName is the payload of a NodeName extension section.
type NodeName string

type Color struct {
	R, G, B, A uint8
}

// Lighting holds the surface coefficients stored by older files.
type Lighting struct {
	Ambient, Specular, Diffuse float32
}

type TextureStruct struct {
	Filtering TextureFiltering
	AddressU  TextureAddressing
	AddressV  TextureAddressing
	Mipmaps   bool
}

type MaterialStruct struct {
	Flags    uint32
	Color    Color
	Textured bool
	Lighting *Lighting
}

// MaterialListStruct holds the raw de-duplication table; -1 marks a new material.
type MaterialListStruct struct {
	Indices []int32
}

type Frame struct {
	Rotation    mathutil.Mat3
	Translation mathutil.Vec3
	Parent      int32
	Flags       uint32
}

type FrameListStruct struct {
	Frames []Frame
}

// Triangle is stored on disk as (vertex2, vertex1, material, vertex3).
type Triangle struct {
	Vertex1    uint16
	Vertex2    uint16
	Vertex3    uint16
	MaterialID uint16
}

type UV struct {
	U, V float32
}

type Sphere struct {
	Center mathutil.Vec3
	Radius float32
}

type MorphTarget struct {
	Bounds   Sphere
	Vertices []mathutil.Vec3
	Normals  []mathutil.Vec3
}

// GeometryData is the inline mesh data absent from native geometry.
type GeometryData struct {
	Prelit      []Color
	TextureSets [][]UV
	Triangles   []Triangle
}

type GeometryStruct struct {
	Format        GeometryFormat
	TextureSets   int
	TriangleCount uint32
	VertexCount   uint32
	Lighting      *Lighting
	Data          *GeometryData
	MorphTargets  []MorphTarget
}

// Native reports whether the mesh data is a platform-specific blob.
func (g *GeometryStruct) Native() bool { return g.Format.Has(GeometryNative) }

type ClumpStruct struct {
	Atomics uint32
	Lights  uint32
	Cameras uint32
}

const atomicRender = 0x04

type AtomicStruct struct {
	Frame    uint32
	Geometry uint32
	Flags    uint32
	Render   bool
}

// RasterStruct is a D3D8 raster header plus the level 0 pixel payload.
// Rasters for other platforms set Unsupported and keep their bytes in Raw.
type RasterStruct struct {
	Platform    uint32
	Unsupported bool
	Raw         []byte

	Filtering TextureFiltering
	AddressU  TextureAddressing
	AddressV  TextureAddressing
	Name      string
	MaskName  string
	Format    RasterFormat
	HasAlpha  bool
	Width     uint16
	Height    uint16
	Depth     uint8
	Levels    uint8
	Type      uint8
	Compress  uint8
	Palette   []byte // RGBA entries of PAL8 and PAL4 rasters
	Data      []byte
}

type TextureDictionaryStruct struct {
	Count     uint32
	Device    uint16
	HasDevice bool
}

type GeometryListStruct struct {
	Count uint32
}

func (*Opaque) payload()                  {}
func (String) payload()                   {}
func (NodeName) payload()                 {}
func (*TextureStruct) payload()           {}
func (*MaterialStruct) payload()          {}
func (*MaterialListStruct) payload()      {}
func (*FrameListStruct) payload()         {}
func (*GeometryStruct) payload()          {}
func (*ClumpStruct) payload()             {}
func (*AtomicStruct) payload()            {}
func (*RasterStruct) payload()            {}
func (*TextureDictionaryStruct) payload() {}
func (*GeometryListStruct) payload()      {}

// parseStruct decodes a Struct region according to the parent section type.
// Bytes left in r afterwards are decoded as children by the caller.
func parseStruct(r *reader, parent SectionType, version uint32) Payload {
	switch parent {
	case TypeTexture:
		return parseTexture(r)
	case TypeMaterial:
		return parseMaterial(r, version)
	case TypeMaterialList:
		return parseMaterialList(r)
	case TypeFrameList:
		return parseFrameList(r)
	case TypeGeometry:
		return parseGeometry(r, version)
	case TypeClump:
		return parseClump(r, version)
	case TypeAtomic:
		return parseAtomic(r)
	case TypeRaster:
		return parseRaster(r)
	case TypeTextureDictionary:
		return parseTextureDictionary(r, version)
	case TypeGeometryList:
		return &GeometryListStruct{Count: r.u32()}
	}
	return &Opaque{Data: r.rest()}
}

func readColor(r *reader) Color {
	return Color{R: r.u8(), G: r.u8(), B: r.u8(), A: r.u8()}
}

func readLighting(r *reader) *Lighting {
	return &Lighting{Ambient: r.f32(), Specular: r.f32(), Diffuse: r.f32()}
}

func readVec3(r *reader) mathutil.Vec3 {
	return mathutil.Vec3{r.f32(), r.f32(), r.f32()}
}

func checkFiltering(r *reader, f TextureFiltering) {
	if !f.valid() {
		r.fail(errors.Wrapf(ErrMalformedField, "filtering mode %d", f))
	}
}

func checkAddressing(r *reader, a TextureAddressing) {
	if !a.valid() {
		r.fail(errors.Wrapf(ErrMalformedField, "addressing mode %d", a))
	}
}

func parseTexture(r *reader) Payload {
	t := &TextureStruct{Filtering: TextureFiltering(r.u8())}
	b := r.bits(3)
	t.AddressU = TextureAddressing(b.take(4))
	t.AddressV = TextureAddressing(b.take(4))
	t.Mipmaps = b.take(1) != 0
	b.take(15)

	checkFiltering(r, t.Filtering)
	checkAddressing(r, t.AddressU)
	checkAddressing(r, t.AddressV)
	return t
}

func parseMaterial(r *reader, version uint32) Payload {
	m := &MaterialStruct{Flags: r.u32(), Color: readColor(r)}
	r.u32()
	m.Textured = r.u32() != 0
	if version > VersionMaterialLighting {
		m.Lighting = readLighting(r)
	}
	return m
}

func parseMaterialList(r *reader) Payload {
	n := r.u32()
	if !r.fits(uint64(n), 4) {
		return &MaterialListStruct{}
	}
	indices := make([]int32, n)
	for i := range indices {
		indices[i] = r.i32()
	}
	return &MaterialListStruct{Indices: indices}
}

// frameSize is mat3 + vec3 + parent + flags.
const frameSize = 9*4 + 3*4 + 4 + 4

func parseFrameList(r *reader) Payload {
	n := r.u32()
	if !r.fits(uint64(n), frameSize) {
		return &FrameListStruct{}
	}
	frames := make([]Frame, n)
	for i := range frames {
		f := &frames[i]
		for k := range f.Rotation {
			f.Rotation[k] = r.f32()
		}
		f.Translation = readVec3(r)
		f.Parent = r.i32()
		f.Flags = r.u32()
	}
	return &FrameListStruct{Frames: frames}
}

// textureSetCount reads the set count from the format word, falling back to
// the TEXTURED flags for files that leave the count byte zero.
func textureSetCount(format uint32) int {
	if n := int(format>>16) & 0xFF; n > 0 {
		return n
	}
	f := GeometryFormat(format)
	switch {
	case f.Has(GeometryTextured2):
		return 2
	case f.Has(GeometryTextured):
		return 1
	}
	return 0
}

func parseGeometry(r *reader, version uint32) Payload {
	raw := r.u32()
	g := &GeometryStruct{
		Format:        GeometryFormat(raw &^ 0x00FF0000),
		TextureSets:   textureSetCount(raw),
		TriangleCount: r.u32(),
		VertexCount:   r.u32(),
	}
	morphs := r.u32()
	if version < VersionGeometryLighting {
		g.Lighting = readLighting(r)
	}
	if r.err != nil {
		return g
	}

	if !g.Native() {
		g.Data = parseGeometryData(r, g)
	}

	// Each morph target carries at least a sphere and two flags.
	if !r.fits(uint64(morphs), 4*4+8) {
		return g
	}
	g.MorphTargets = make([]MorphTarget, 0, morphs)
	for i := uint32(0); i < morphs && r.err == nil; i++ {
		g.MorphTargets = append(g.MorphTargets, parseMorphTarget(r, g.VertexCount))
	}
	return g
}

func parseGeometryData(r *reader, g *GeometryStruct) *GeometryData {
	d := &GeometryData{}
	nv := uint64(g.VertexCount)

	if g.Format.Has(GeometryPrelit) {
		if !r.fits(nv, 4) {
			return d
		}
		d.Prelit = make([]Color, nv)
		for i := range d.Prelit {
			d.Prelit[i] = readColor(r)
		}
	}

	if !r.fits(nv*uint64(g.TextureSets), 8) {
		return d
	}
	d.TextureSets = make([][]UV, g.TextureSets)
	for s := range d.TextureSets {
		set := make([]UV, nv)
		for i := range set {
			set[i] = UV{U: r.f32(), V: r.f32()}
		}
		d.TextureSets[s] = set
	}

	if !r.fits(uint64(g.TriangleCount), 8) {
		return d
	}
	d.Triangles = make([]Triangle, g.TriangleCount)
	for i := range d.Triangles {
		d.Triangles[i] = readTriangle(r)
	}
	return d
}

func readTriangle(r *reader) Triangle {
	var t Triangle
	t.Vertex2 = r.u16()
	t.Vertex1 = r.u16()
	t.MaterialID = r.u16()
	t.Vertex3 = r.u16()
	return t
}

func parseMorphTarget(r *reader, vertexCount uint32) MorphTarget {
	m := MorphTarget{Bounds: Sphere{Center: readVec3(r), Radius: r.f32()}}
	hasVertices := r.u32() != 0
	hasNormals := r.u32() != 0
	if hasVertices {
		m.Vertices = readVec3s(r, vertexCount)
	}
	if hasNormals {
		m.Normals = readVec3s(r, vertexCount)
	}
	return m
}

func readVec3s(r *reader, n uint32) []mathutil.Vec3 {
	if !r.fits(uint64(n), 12) {
		return nil
	}
	out := make([]mathutil.Vec3, n)
	for i := range out {
		out[i] = readVec3(r)
	}
	return out
}

func parseClump(r *reader, version uint32) Payload {
	c := &ClumpStruct{Atomics: r.u32()}
	if version > VersionClumpCounts && r.remaining() > 4 {
		c.Lights = r.u32()
		c.Cameras = r.u32()
	}
	return c
}

func parseAtomic(r *reader) Payload {
	a := &AtomicStruct{Frame: r.u32(), Geometry: r.u32(), Flags: r.u32()}
	r.u32()
	a.Render = a.Flags&atomicRender != 0
	return a
}

// rasterNameLen is the fixed width of raster name and mask fields.
const rasterNameLen = 32

func parseRaster(r *reader) Payload {
	platform := r.u32()
	if r.err != nil {
		return &RasterStruct{}
	}
	if platform != PlatformD3D8 {
		return &RasterStruct{Platform: platform, Unsupported: true, Raw: r.rest()}
	}

	rs := &RasterStruct{Platform: platform}
	b := r.bits(4)
	rs.Filtering = TextureFiltering(b.take(8))
	rs.AddressU = TextureAddressing(b.take(4))
	rs.AddressV = TextureAddressing(b.take(4))
	b.take(16)
	checkFiltering(r, rs.Filtering)
	checkAddressing(r, rs.AddressU)
	checkAddressing(r, rs.AddressV)

	rs.Name = r.str(rasterNameLen)
	rs.MaskName = r.str(rasterNameLen)
	rs.Format = RasterFormat(r.u32())
	if _, ok := rs.Format.Scheme(); !ok && r.err == nil {
		r.fail(errors.Wrapf(ErrMalformedField, "raster %q format 0x%X", rs.Name, uint32(rs.Format)))
	}
	rs.HasAlpha = r.u32() != 0
	rs.Width = r.u16()
	rs.Height = r.u16()
	rs.Depth = r.u8()
	rs.Levels = r.u8()
	rs.Type = r.u8()
	rs.Compress = r.u8()

	if n := rs.Format.PaletteSize(); n > 0 && r.fits(uint64(n), 4) {
		rs.Palette = r.bytes(n * 4)
	}

	levels := int(rs.Levels)
	if levels == 0 {
		levels = 1
	}
	for i := 0; i < levels && r.err == nil; i++ {
		size := r.u32()
		if !r.fits(uint64(size), 1) {
			break
		}
		data := r.bytes(int(size))
		if i == 0 {
			rs.Data = data
		}
	}
	return rs
}

func parseTextureDictionary(r *reader, version uint32) Payload {
	if version < VersionDictionaryDevice {
		return &TextureDictionaryStruct{Count: r.u32()}
	}
	return &TextureDictionaryStruct{Count: uint32(r.u16()), Device: r.u16(), HasDevice: true}
}
