package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"rw-repacker/internal/dff"
	"rw-repacker/internal/rw"
)

func main() {
	resolve := flag.Bool("resolve", false, "Also resolve clumps and print per-instance model stats")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: rwdump [-resolve] file.dff|file.txd ...\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	failed := 0
	for _, path := range flag.Args() {
		if err := dump(path, *resolve); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", path, err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func dump(path string, resolve bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sections, err := rw.DecodeAll(data)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%d bytes)\n", path, len(data))
	for _, root := range sections {
		root.Walk(func(s *rw.Section, depth int) bool {
			fmt.Printf("%s%s (v=0x%05X, size=%d, @%d)%s\n",
				strings.Repeat("  ", depth+1), s.Type, s.Version, s.Size, s.Offset, summary(s.Data))
			return true
		})
		if !resolve {
			continue
		}
		clumps := root.Find(rw.TypeClump)
		if root.Type == rw.TypeClump {
			clumps = []*rw.Section{root}
		}
		for _, c := range clumps {
			printInstances(c)
		}
	}
	return nil
}

func summary(p rw.Payload) string {
	switch d := p.(type) {
	case nil:
		return ""
	case *rw.Opaque:
		return fmt.Sprintf(": %d opaque bytes", len(d.Data))
	case rw.String:
		return fmt.Sprintf(": %q", string(d))
	case rw.NodeName:
		return fmt.Sprintf(": node %q", string(d))
	case *rw.TextureStruct:
		return fmt.Sprintf(": filter=%d address=%d/%d mipmaps=%v", d.Filtering, d.AddressU, d.AddressV, d.Mipmaps)
	case *rw.MaterialStruct:
		return fmt.Sprintf(": color=%d,%d,%d,%d textured=%v", d.Color.R, d.Color.G, d.Color.B, d.Color.A, d.Textured)
	case *rw.MaterialListStruct:
		return fmt.Sprintf(": indices=%v", d.Indices)
	case *rw.FrameListStruct:
		return fmt.Sprintf(": %d frames", len(d.Frames))
	case *rw.GeometryStruct:
		s := fmt.Sprintf(": format=0x%08X verts=%d tris=%d uvsets=%d morphs=%d",
			uint32(d.Format), d.VertexCount, d.TriangleCount, d.TextureSets, len(d.MorphTargets))
		if d.Native() {
			s += " native"
		}
		return s
	case *rw.ClumpStruct:
		return fmt.Sprintf(": atomics=%d lights=%d cameras=%d", d.Atomics, d.Lights, d.Cameras)
	case *rw.AtomicStruct:
		return fmt.Sprintf(": frame=%d geometry=%d render=%v", d.Frame, d.Geometry, d.Render)
	case *rw.RasterStruct:
		if d.Unsupported {
			return fmt.Sprintf(": platform %d (unsupported, %d bytes)", d.Platform, len(d.Raw))
		}
		s := fmt.Sprintf(": %q %dx%d depth=%d levels=%d compression=%d format=0x%X",
			d.Name, d.Width, d.Height, d.Depth, d.Levels, d.Compress, uint32(d.Format))
		if n := d.Format.PaletteSize(); n > 0 {
			s += fmt.Sprintf(" palette=%d", n)
		}
		if d.Format.HasMipmaps() {
			s += " mipmaps"
		}
		if d.Format.AutoMipmap() {
			s += " automipmap"
		}
		return s
	case *rw.TextureDictionaryStruct:
		return fmt.Sprintf(": %d textures", d.Count)
	case *rw.GeometryListStruct:
		return fmt.Sprintf(": %d geometries", d.Count)
	default:
		return fmt.Sprintf(": %T", p)
	}
}

func printInstances(clump *rw.Section) {
	res, err := dff.ResolveTolerant(clump)
	if err != nil {
		fmt.Printf("  resolve: %v\n", err)
		return
	}
	fmt.Printf("  Instances: %d, hidden: %d\n", len(res.Instances), res.Hidden)
	for _, inst := range res.Instances {
		m := inst.Model
		fmt.Printf("    Atomic[%d]: frame=%d %q geometry=%d verts=%d tris=%d materials=%d slots=%d\n",
			inst.AtomicIndex, inst.FrameIndex, inst.Name, inst.GeometryIndex,
			len(m.Vertices), len(m.Triangles), len(m.Materials), len(m.MaterialIndices))
		w := inst.World.Translation
		fmt.Printf("      World: (%.2f, %.2f, %.2f)\n", w[0], w[1], w[2])
		if lo, hi, ok := m.Bounds(); ok {
			fmt.Printf("      BBox: X[%.2f, %.2f] Y[%.2f, %.2f] Z[%.2f, %.2f]\n",
				lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
		}
		for slot := range m.MaterialIndices {
			mat := m.Material(uint16(slot))
			tex := "-"
			if mat.Texture != nil {
				tex = mat.Texture.Name
			}
			fmt.Printf("      slot %d: material %d texture=%s\n", slot, m.MaterialIndices[slot], tex)
		}
	}
	for _, e := range res.Errors {
		fmt.Printf("    dropped: %v\n", e)
	}
	for _, w := range res.Warnings {
		fmt.Printf("    warning: %v\n", w)
	}
}
