package rw_test

import (
	"errors"
	"testing"

	"rw-repacker/internal/mathutil"
	"rw-repacker/internal/rw"
	"rw-repacker/internal/rw/rwtest"
)

func TestDecodeVersion(t *testing.T) {
	tests := []struct {
		raw  uint32
		want uint32
	}{
		{0x00000000, 0x00000},
		{0x00000304, 0x30400},
		{0x00000310, 0x31000},
		{0x00000340, 0x34000},
		{0x00000360, 0x36000},
		{0x0000FFFF, 0xFFFF00},
		{0x0800FFFF, 0x32000},
		{0x0C02FFFF, 0x33002},
		{0x1003FFFF, 0x34003},
		{0x1803FFFF, 0x36003},
		{0x00010000, 0x30001},
		{0xFFFFFFFF, 0x6FF3F},
	}
	for _, tt := range tests {
		if got := rw.DecodeVersion(tt.raw); got != tt.want {
			t.Errorf("DecodeVersion(0x%08X) = 0x%X, want 0x%X", tt.raw, got, tt.want)
		}
	}
}

func TestDecodeVersionLegacyRange(t *testing.T) {
	for raw := uint32(0); raw <= 0xFFFF; raw += 0x11 {
		if got := rw.DecodeVersion(raw); got != raw<<8 {
			t.Fatalf("DecodeVersion(0x%X) = 0x%X, want 0x%X", raw, got, raw<<8)
		}
	}
}

func TestDecodeVersionPackedRange(t *testing.T) {
	for hi := uint32(1); hi <= 0xFFFF; hi += 7 {
		raw := hi<<16 | 0xFFFF
		want := ((raw>>14)&0x3FF00 + 0x30000) | (raw>>16)&0x3F
		if got := rw.DecodeVersion(raw); got != want {
			t.Fatalf("DecodeVersion(0x%X) = 0x%X, want 0x%X", raw, got, want)
		}
		if got := rw.DecodeVersion(raw); got < 0x30000 {
			t.Fatalf("packed version 0x%X decoded below 3.0: 0x%X", raw, got)
		}
	}
}

func TestDecodeConsumesDeclaredSize(t *testing.T) {
	v := uint32(rwtest.VersionVC)
	data := rwtest.Clump(v,
		rwtest.FrameList(v, rw.Frame{Rotation: mathutil.Mat3Identity(), Parent: -1}),
		rwtest.GeometryList(v, rwtest.Geometry(v, rwtest.Mesh{
			Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			Triangles: []rw.Triangle{{Vertex1: 0, Vertex2: 1, Vertex3: 2}},
		}, rwtest.MaterialList(v, []int32{-1}, rwtest.Material(v, rw.Color{R: 255, A: 255}, "")))),
		rwtest.Atomic(v, 0, 0, 0x04),
	)
	// Trailing garbage after the first section is ignored.
	data = append(data, 0xDE, 0xAD)

	root, err := rw.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if root.Type != rw.TypeClump {
		t.Fatalf("root type = %s, want Clump", root.Type)
	}
	if int(root.Size)+rw.HeaderSize != len(data)-2 {
		t.Errorf("root size = %d, want %d", root.Size, len(data)-2-rw.HeaderSize)
	}

	root.Walk(func(s *rw.Section, _ int) bool {
		var sum int
		for _, c := range s.Children {
			sum += rw.HeaderSize + int(c.Size)
			if c.Offset < s.Offset+rw.HeaderSize || c.Offset+rw.HeaderSize+int(c.Size) > s.Offset+rw.HeaderSize+int(s.Size) {
				t.Errorf("%s child %s at %d escapes parent region", s.Type, c.Type, c.Offset)
			}
		}
		if sum > int(s.Size) {
			t.Errorf("%s children consume %d bytes, region is %d", s.Type, sum, s.Size)
		}
		return true
	})
}

func TestDecodeClumpStructs(t *testing.T) {
	v := uint32(rwtest.VersionVC)
	frame := rw.Frame{
		Rotation:    mathutil.Mat3Identity(),
		Translation: mathutil.Vec3{1, 2, 3},
		Parent:      -1,
	}
	data := rwtest.Clump(v,
		rwtest.FrameList(v, frame),
		rwtest.GeometryList(v),
		rwtest.Atomic(v, 0, 0, 0x05),
	)
	root, err := rw.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	cs, ok := root.Struct().(*rw.ClumpStruct)
	if !ok {
		t.Fatalf("clump struct = %T", root.Struct())
	}
	if cs.Atomics != 1 {
		t.Errorf("atomics = %d, want 1", cs.Atomics)
	}

	fl, ok := root.Child(rw.TypeFrameList).Struct().(*rw.FrameListStruct)
	if !ok || len(fl.Frames) != 1 {
		t.Fatalf("frame list = %#v", root.Child(rw.TypeFrameList).Struct())
	}
	if fl.Frames[0] != frame {
		t.Errorf("frame = %+v, want %+v", fl.Frames[0], frame)
	}

	as, ok := root.Child(rw.TypeAtomic).Struct().(*rw.AtomicStruct)
	if !ok {
		t.Fatalf("atomic struct = %T", root.Child(rw.TypeAtomic).Struct())
	}
	if !as.Render || as.Flags != 0x05 {
		t.Errorf("atomic = %+v, want render with flags 0x05", as)
	}

	gl, ok := root.Child(rw.TypeGeometryList).Struct().(*rw.GeometryListStruct)
	if !ok || gl.Count != 0 {
		t.Errorf("geometry list = %#v", root.Child(rw.TypeGeometryList).Struct())
	}
}

func TestDecodeAtomicRenderFlag(t *testing.T) {
	v := uint32(rwtest.VersionVC)
	for _, tt := range []struct {
		flags  uint32
		render bool
	}{
		{0x00, false},
		{0x01, false},
		{0x04, true},
		{0x05, true},
		{0xFB, false},
	} {
		s, err := rw.Decode(rwtest.Atomic(v, 0, 0, tt.flags))
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got := s.Struct().(*rw.AtomicStruct).Render; got != tt.render {
			t.Errorf("flags 0x%02X: render = %v, want %v", tt.flags, got, tt.render)
		}
	}
}

func TestDecodeTriangleOrder(t *testing.T) {
	v := uint32(rwtest.VersionVC)
	var b rwtest.Buf
	b.U32(0).U32(1).U32(0).U32(0) // format, 1 triangle, 0 vertices, 0 morphs
	b.F32(1, 1, 1)
	b.Raw([]byte{0x02, 0x00, 0x01, 0x00, 0x05, 0x00, 0x03, 0x00})
	data := rwtest.Section(rw.TypeGeometry, v, rwtest.Struct(v, b.Bytes()))

	s, err := rw.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	g := s.Struct().(*rw.GeometryStruct)
	want := rw.Triangle{Vertex2: 2, Vertex1: 1, MaterialID: 5, Vertex3: 3}
	if len(g.Data.Triangles) != 1 || g.Data.Triangles[0] != want {
		t.Errorf("triangles = %+v, want [%+v]", g.Data.Triangles, want)
	}
}

func TestDecodeGeometry(t *testing.T) {
	mesh := rwtest.Mesh{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:   [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		UVs:       []rw.UV{{0, 0}, {1, 0}, {0, 1}},
		Prelit:    []rw.Color{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 11, 12}},
		Triangles: []rw.Triangle{{Vertex1: 0, Vertex2: 1, Vertex3: 2}},
		Morphs:    1,
	}
	for _, version := range []uint32{rwtest.VersionVC, rwtest.VersionSA, rwtest.VersionLegacy} {
		s, err := rw.Decode(rwtest.Geometry(version, mesh, nil))
		if err != nil {
			t.Fatalf("version 0x%X: Decode: %v", version, err)
		}
		g := s.Struct().(*rw.GeometryStruct)
		if g.TextureSets != 1 || len(g.Data.TextureSets) != 1 {
			t.Errorf("version 0x%X: texture sets = %d", version, g.TextureSets)
		}
		if hasLighting := g.Lighting != nil; hasLighting != (rw.DecodeVersion(version) < rw.VersionGeometryLighting) {
			t.Errorf("version 0x%X: lighting present = %v", version, hasLighting)
		}
		if len(g.Data.Prelit) != 3 || g.Data.Prelit[2] != (rw.Color{9, 10, 11, 12}) {
			t.Errorf("version 0x%X: prelit = %v", version, g.Data.Prelit)
		}
		if len(g.MorphTargets) != 2 {
			t.Fatalf("version 0x%X: morph targets = %d, want 2", version, len(g.MorphTargets))
		}
		mt := g.MorphTargets[0]
		if len(mt.Vertices) != 3 || mt.Vertices[1] != (mathutil.Vec3{1, 0, 0}) {
			t.Errorf("version 0x%X: vertices = %v", version, mt.Vertices)
		}
		if len(mt.Normals) != 3 {
			t.Errorf("version 0x%X: normals = %v", version, mt.Normals)
		}
		if g.MorphTargets[1].Vertices != nil {
			t.Errorf("version 0x%X: second morph target has vertices", version)
		}
	}
}

func TestDecodeNativeGeometry(t *testing.T) {
	v := uint32(rwtest.VersionVC)
	mesh := rwtest.Mesh{
		Format:    rw.GeometryNative,
		Positions: [][3]float32{{0, 0, 0}},
		Triangles: []rw.Triangle{{}},
	}
	s, err := rw.Decode(rwtest.Geometry(v, mesh, nil))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	g := s.Struct().(*rw.GeometryStruct)
	if !g.Native() {
		t.Errorf("format 0x%X lost native flag", uint32(g.Format))
	}
	if g.Data != nil {
		t.Errorf("native geometry has inline data: %+v", g.Data)
	}
}

func TestTextureSetFallback(t *testing.T) {
	v := uint32(rwtest.VersionSA)
	var b rwtest.Buf
	b.U32(uint32(rw.GeometryTextured2)).U32(0).U32(1).U32(0)
	b.F32(0.25, 0.5, 0.75, 1)
	s, err := rw.Decode(rwtest.Section(rw.TypeGeometry, v, rwtest.Struct(v, b.Bytes())))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	g := s.Struct().(*rw.GeometryStruct)
	if g.TextureSets != 2 {
		t.Fatalf("texture sets = %d, want 2", g.TextureSets)
	}
	if got := g.Data.TextureSets[1][0]; got != (rw.UV{U: 0.75, V: 1}) {
		t.Errorf("second set = %+v", got)
	}
}

func TestDecodeMaterialLightingThreshold(t *testing.T) {
	c := rw.Color{R: 10, G: 20, B: 30, A: 40}
	for _, tt := range []struct {
		raw      uint32
		lighting bool
	}{
		{0x0304, false}, // exactly 0x30400
		{0x0305, true},
		{rwtest.VersionVC, true},
	} {
		s, err := rw.Decode(rwtest.Material(tt.raw, c, "body"))
		if err != nil {
			t.Fatalf("0x%X: Decode: %v", tt.raw, err)
		}
		m := s.Struct().(*rw.MaterialStruct)
		if (m.Lighting != nil) != tt.lighting {
			t.Errorf("0x%X: lighting = %v, want present %v", tt.raw, m.Lighting, tt.lighting)
		}
		if m.Color != c || !m.Textured {
			t.Errorf("0x%X: material = %+v", tt.raw, m)
		}
		tex := s.Child(rw.TypeTexture)
		ts := tex.Struct().(*rw.TextureStruct)
		if ts.Filtering != rw.FilterLinear || ts.AddressU != rw.AddressWrap || ts.AddressV != rw.AddressWrap {
			t.Errorf("0x%X: texture struct = %+v", tt.raw, ts)
		}
		names := tex.ChildrenOf(rw.TypeString)
		if len(names) != 2 || names[0].Data != rw.String("body") || names[1].Data != rw.String("") {
			t.Errorf("0x%X: texture names = %v", tt.raw, names)
		}
	}
}

func TestDecodeClumpCountsThreshold(t *testing.T) {
	body := func(extra bool) []byte {
		var b rwtest.Buf
		b.U32(3)
		if extra {
			b.U32(1).U32(2)
		}
		return b.Bytes()
	}
	tests := []struct {
		name    string
		raw     uint32
		extra   bool
		wantErr bool
		lights  uint32
		cameras uint32
	}{
		// At 0x33000 the counts are not read; the leftover 8 bytes are too
		// short for a child header.
		{"at threshold", 0x0330, true, true, 0, 0},
		{"above threshold", rwtest.VersionVC, true, false, 1, 2},
		{"above threshold without counts", rwtest.VersionVC, false, false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := rwtest.Section(rw.TypeClump, tt.raw, rwtest.Struct(tt.raw, body(tt.extra)))
			s, err := rw.Decode(data)
			if tt.wantErr {
				if !errors.Is(err, rw.ErrTruncated) {
					t.Fatalf("err = %v, want ErrTruncated", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			c := s.Struct().(*rw.ClumpStruct)
			if c.Atomics != 3 || c.Lights != tt.lights || c.Cameras != tt.cameras {
				t.Errorf("clump = %+v", c)
			}
		})
	}
}

func TestDecodeTextureDictionaryThreshold(t *testing.T) {
	s, err := rw.Decode(rwtest.TextureDictionary(rwtest.VersionVC))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d := s.Struct().(*rw.TextureDictionaryStruct); d.HasDevice {
		t.Errorf("0x33002 dictionary has device id: %+v", d)
	}

	s, err = rw.Decode(rwtest.TextureDictionary(0x0360))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d := s.Struct().(*rw.TextureDictionaryStruct); !d.HasDevice || d.Device != 1 {
		t.Errorf("0x36000 dictionary = %+v", d)
	}
}

func TestDecodeRaster(t *testing.T) {
	v := uint32(rwtest.VersionVC)
	level0 := make([]byte, 2*2*4)
	level1 := make([]byte, 4)
	data := rwtest.TextureDictionary(v, rwtest.NativeTexture(v, rwtest.Raster{
		Name: "wheel", Mask: "wheelm", Width: 2, Height: 2,
		Levels: [][]byte{level0, level1},
	}))
	s, err := rw.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	rasters := s.ChildrenOf(rw.TypeRaster)
	if len(rasters) != 1 {
		t.Fatalf("rasters = %d", len(rasters))
	}
	r := rasters[0].Struct().(*rw.RasterStruct)
	if r.Name != "wheel" || r.MaskName != "wheelm" || r.Width != 2 || r.Height != 2 {
		t.Errorf("raster = %+v", r)
	}
	if r.Levels != 2 || len(r.Data) != len(level0) {
		t.Errorf("levels = %d, data = %d bytes", r.Levels, len(r.Data))
	}
	if r.Filtering != rw.FilterLinear || r.AddressU != rw.AddressWrap {
		t.Errorf("sampler = %d %d", r.Filtering, r.AddressU)
	}
}

func TestDecodeRasterPalette(t *testing.T) {
	v := uint32(rwtest.VersionVC)
	tests := []struct {
		name    string
		format  rw.RasterFormat
		palette int
		level   int
	}{
		{"pal8", 0x2500, 256, 16},
		{"pal4", 0x4500, 16, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			palette := make([]byte, tt.palette*4)
			palette[0] = 0xFF
			data := rwtest.TextureDictionary(v, rwtest.NativeTexture(v, rwtest.Raster{
				Name: "sign", Format: tt.format, Width: 4, Height: 4,
				Palette: palette, Levels: [][]byte{make([]byte, tt.level)},
			}))
			s, err := rw.Decode(data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			r := s.Child(rw.TypeRaster).Struct().(*rw.RasterStruct)
			if len(r.Palette) != tt.palette*4 || r.Palette[0] != 0xFF {
				t.Errorf("palette = %d bytes", len(r.Palette))
			}
			if len(r.Data) != tt.level {
				t.Errorf("level 0 = %d bytes, want %d", len(r.Data), tt.level)
			}
		})
	}
}

func TestDecodeRasterOtherPlatform(t *testing.T) {
	v := uint32(rwtest.VersionVC)
	s, err := rw.Decode(rwtest.NativeTexture(v, rwtest.Raster{Platform: 9, Name: "x", Width: 1, Height: 1}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	r := s.Struct().(*rw.RasterStruct)
	if !r.Unsupported || r.Platform != 9 || len(r.Raw) == 0 {
		t.Errorf("raster = %+v", r)
	}
}

func TestDecodeStrings(t *testing.T) {
	v := uint32(rwtest.VersionVC)
	s, err := rw.Decode(rwtest.Section(rw.TypeString, v, []byte("caf\xe9\x00\x00\x00\x00")))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.Data != rw.String("café") {
		t.Errorf("string = %q", s.Data)
	}

	s, err = rw.Decode(rwtest.Section(rw.TypeNodeName, v, []byte("chassis")))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.Data != rw.NodeName("chassis") {
		t.Errorf("node name = %q", s.Data)
	}
}

func TestDecodeOpaque(t *testing.T) {
	v := uint32(rwtest.VersionVC)
	payload := []byte{1, 2, 3, 4, 5}
	s, err := rw.Decode(rwtest.Extension(v, rwtest.Section(rw.TypeBinMeshPLG, v, payload)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	bin := s.Child(rw.TypeBinMeshPLG)
	if bin == nil {
		t.Fatal("BinMeshPLG child missing")
	}
	if o, ok := bin.Data.(*rw.Opaque); !ok || string(o.Data) != string(payload) || len(bin.Children) != 0 {
		t.Errorf("opaque = %#v, children = %d", bin.Data, len(bin.Children))
	}
}

func TestDecodeErrors(t *testing.T) {
	v := uint32(rwtest.VersionVC)
	var badTexture rwtest.Buf
	badTexture.U8(9).U8(0x11).U16(0)
	var badAddress rwtest.Buf
	badAddress.U8(1).U8(0x71).U16(0)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short header", []byte{1, 0, 0, 0, 0}, rw.ErrTruncated},
		{"size past end", rwtest.Header(rw.TypeClump, 100, v), rw.ErrTruncated},
		{"unknown tag", rwtest.Section(0xABCDEF, v), rw.ErrUnknownSectionType},
		{"unknown child", rwtest.Extension(v, rwtest.Section(0x7777, v)), rw.ErrUnknownSectionType},
		{"short struct", rwtest.Section(rw.TypeAtomic, v, rwtest.Struct(v, []byte{1, 2, 3})), rw.ErrTruncated},
		{"bad filtering", rwtest.Section(rw.TypeTexture, v, rwtest.Struct(v, badTexture.Bytes())), rw.ErrMalformedField},
		{"bad addressing", rwtest.Section(rw.TypeTexture, v, rwtest.Struct(v, badAddress.Bytes())), rw.ErrMalformedField},
		{"bad raster format", rwtest.NativeTexture(v, rwtest.Raster{Format: 0x0F00, Width: 1, Height: 1}), rw.ErrMalformedField},
		{"huge material count", rwtest.Section(rw.TypeMaterialList, v, rwtest.Struct(v, []byte{0xFF, 0xFF, 0xFF, 0x7F})), rw.ErrTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rw.Decode(tt.data)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var de *rw.DecodeError
			if !errors.As(err, &de) {
				t.Errorf("err %T is not a *DecodeError", err)
			}
		})
	}
}

func TestDecodeChildBoundedByParent(t *testing.T) {
	v := uint32(rwtest.VersionVC)
	// The child claims 100 bytes. The file has them, its parent does not.
	data := rwtest.Extension(v, rwtest.Header(rw.TypeClump, 100, v))
	data = append(data, make([]byte, 200)...)

	_, err := rw.Decode(data)
	if !errors.Is(err, rw.ErrTruncated) {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
	var de *rw.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("err %T is not a *DecodeError", err)
	}
	if de.Type != rw.TypeClump || de.Offset != rw.HeaderSize {
		t.Errorf("error at %s offset %d, want Clump at %d", de.Type, de.Offset, rw.HeaderSize)
	}
}

func TestDecodeAll(t *testing.T) {
	v := uint32(rwtest.VersionVC)
	data := append(rwtest.String(v, "a"), rwtest.String(v, "b")...)
	sections, err := rw.DecodeAll(data)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(sections) != 2 || sections[1].Data != rw.String("b") || sections[1].Offset != len(data)/2 {
		t.Errorf("sections = %+v", sections)
	}
}

func TestFind(t *testing.T) {
	v := uint32(rwtest.VersionVC)
	data := rwtest.TextureDictionary(v,
		rwtest.NativeTexture(v, rwtest.Raster{Name: "a", Width: 1, Height: 1, Levels: [][]byte{make([]byte, 4)}}),
		rwtest.NativeTexture(v, rwtest.Raster{Name: "b", Width: 1, Height: 1, Levels: [][]byte{make([]byte, 4)}}),
	)
	s, err := rw.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := len(s.Find(rw.TypeRaster)); got != 2 {
		t.Errorf("Find(Raster) = %d sections, want 2", got)
	}
	if got := len(s.Find(rw.TypeExtension)); got != 3 {
		t.Errorf("Find(Extension) = %d sections, want 3", got)
	}
}
