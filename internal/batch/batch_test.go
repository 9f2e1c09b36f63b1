package batch

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"rw-repacker/internal/mathutil"
	"rw-repacker/internal/packer"
	"rw-repacker/internal/rw"
	"rw-repacker/internal/rw/rwtest"
	"rw-repacker/internal/scene"
	"rw-repacker/internal/texture"
)

const v = rwtest.VersionVC

func carClump() []byte {
	mesh := rwtest.Mesh{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0.5}},
		UVs:       []rw.UV{{U: 0, V: 0}, {U: 1, V: 0}, {U: 0, V: 1}, {U: 1, V: 1}},
		Triangles: []rw.Triangle{
			{Vertex1: 0, Vertex2: 1, Vertex3: 2, MaterialID: 0},
			{Vertex1: 1, Vertex2: 3, Vertex3: 2, MaterialID: 1},
		},
	}
	materials := rwtest.MaterialList(v, []int32{-1, -1},
		rwtest.Material(v, rw.Color{R: 255, G: 255, B: 255, A: 255}, "body"),
		rwtest.Material(v, rw.Color{G: 255, A: 255}, ""))
	frame := rw.Frame{Rotation: mathutil.Mat3Identity(), Parent: -1}
	return rwtest.Clump(v,
		rwtest.FrameList(v, frame, frame),
		rwtest.GeometryList(v, rwtest.Geometry(v, mesh, materials)),
		rwtest.Atomic(v, 0, 0, 0x04),
		rwtest.Atomic(v, 1, 0, 0x04),
		rwtest.Atomic(v, 1, 5, 0x04))
}

func carTextures() []byte {
	return rwtest.TextureDictionary(v, rwtest.NativeTexture(v, rwtest.Raster{
		Name: "body", Width: 2, Height: 2, Levels: [][]byte{bytes.Repeat([]byte{255, 0, 0, 255}, 4)},
	}))
}

func setup(t *testing.T) (string, Config) {
	t.Helper()
	dir := t.TempDir()
	models := filepath.Join(dir, "models")
	if err := os.MkdirAll(models, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, data := range map[string][]byte{
		"car.dff":    carClump(),
		"paint.txd":  carTextures(),
		"broken.dff": {1, 2, 3},
	} {
		if err := os.WriteFile(filepath.Join(models, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfg := Config{
		OutputDir:   filepath.Join(dir, "out"),
		Format:      "png",
		Textures:    texture.NewCache(texture.BuildIndex(models)),
		TextureMap:  scene.TextureMap{"car": "paint"},
		Packer:      packer.DefaultOptions(),
		Preview:     true,
		PreviewSize: 32,
		Supersample: 2,
		Workers:     2,
	}
	return dir, cfg
}

func TestRun(t *testing.T) {
	dir, cfg := setup(t)
	var logs bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	results := Run(cfg, []Job{
		{Path: filepath.Join(dir, "models", "car.dff")},
		{Path: filepath.Join(dir, "models", "broken.dff")},
		{Path: filepath.Join(dir, "models", "missing.dff")},
	})
	if len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}

	car := results[0]
	if !car.Success {
		t.Fatalf("car failed: %s", car.Error)
	}
	if car.Dictionary != "paint" {
		t.Errorf("dictionary = %q", car.Dictionary)
	}
	if len(car.Warnings) != 1 || !strings.Contains(car.Warnings[0], "dropped") {
		t.Errorf("warnings = %v", car.Warnings)
	}
	if len(car.Atlases) != 1 {
		t.Fatalf("atlases = %+v", car.Atlases)
	}
	a := car.Atlases[0]
	if !reflect.DeepEqual(a.Atomics, []int{0, 1}) || a.Submeshes != 2 || a.Triangles != 2 {
		t.Errorf("atlas = %+v", a)
	}
	if a.Width != 10 || a.Height != 8 {
		t.Errorf("atlas size = %dx%d, want 10x8", a.Width, a.Height)
	}
	for _, name := range []string{a.Image, a.Preview} {
		if name == "" {
			t.Fatalf("atlas = %+v", a)
		}
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, name)); err != nil {
			t.Errorf("output %s: %v", name, err)
		}
	}

	for _, r := range results[1:] {
		if r.Success || r.Error == "" {
			t.Errorf("%s: success=%v err=%q", r.Model, r.Success, r.Error)
		}
	}

	out := logs.String()
	for _, want := range []string{"batch start", "model failed", "batch done"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestRunMissingDictionary(t *testing.T) {
	dir, cfg := setup(t)
	cfg.Preview = false
	results := Run(cfg, []Job{{Path: filepath.Join(dir, "models", "car.dff"), Dictionary: "nothere"}})
	r := results[0]
	if !r.Success {
		t.Fatalf("model failed: %s", r.Error)
	}
	found := false
	for _, w := range r.Warnings {
		if strings.Contains(w, "not found") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v", r.Warnings)
	}
	// Both materials fall back to solid tiles.
	if a := r.Atlases[0]; a.Width != 16 || a.Height != 8 || a.Preview != "" {
		t.Errorf("atlas = %+v", a)
	}
}

func TestManifest(t *testing.T) {
	results := []Result{
		{Model: "a", Success: true, Atlases: []Atlas{{Image: "a_0.png", Width: 8, Height: 8}}},
		{Model: "b", Error: "boom"},
	}
	id := NewRunID()
	m := NewManifest(id, "png", results)
	if m.Succeeded != 1 || m.Failed != 1 {
		t.Errorf("counts = %d/%d", m.Succeeded, m.Failed)
	}

	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := WriteManifest(path, m); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var back Manifest
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("manifest JSON: %v", err)
	}
	if back.RunID != id || len(back.Models) != 2 || back.Models[0].Atlases[0].Image != "a_0.png" {
		t.Errorf("manifest = %+v", back)
	}
}
