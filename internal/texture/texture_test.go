package texture

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"rw-repacker/internal/rw/rwtest"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func dictionary(names ...string) []byte {
	var rasters [][]byte
	for _, n := range names {
		rasters = append(rasters, rwtest.NativeTexture(rwtest.VersionVC, rwtest.Raster{
			Name: n, Width: 1, Height: 1, Levels: [][]byte{{1, 2, 3, 4}},
		}))
	}
	return rwtest.TextureDictionary(rwtest.VersionVC, rasters...)
}

func writePNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < 4; i++ {
		img.SetNRGBA(i%2, i/2, c)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestIndex(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "models", "Generic.TXD"), dictionary("wheel"))
	writeFile(t, filepath.Join(root, "models", "gta3", "vehicle.txd"), dictionary("body"))
	writeFile(t, filepath.Join(root, "models", "notes.txt"), []byte("x"))
	writePNG(t, filepath.Join(root, "overrides", "generic", "Wheel.png"), color.NRGBA{A: 255})

	idx := BuildIndex(root)
	if idx.Len() != 2 {
		t.Fatalf("Len = %d, want 2", idx.Len())
	}
	if !reflect.DeepEqual(idx.Names(), []string{"generic", "vehicle"}) {
		t.Errorf("Names = %v", idx.Names())
	}
	for _, name := range []string{"generic", "GENERIC", `models\generic.txd`} {
		if _, ok := idx.ResolvePath(name); !ok {
			t.Errorf("ResolvePath(%q) failed", name)
		}
	}
	if _, ok := idx.ResolvePath("missing"); ok {
		t.Error("ResolvePath(missing) succeeded")
	}
	if o := idx.Overrides("Generic"); len(o) != 1 || o["wheel"] == "" {
		t.Errorf("Overrides = %v", o)
	}
}

func TestCache(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "generic.txd"), dictionary("Wheel", "rim"))
	writeFile(t, filepath.Join(root, "broken.txd"), []byte{1, 2, 3})
	writePNG(t, filepath.Join(root, "generic", "wheel.png"), color.NRGBA{R: 9, A: 255})
	writePNG(t, filepath.Join(root, "generic", "extra.png"), color.NRGBA{G: 9, A: 255})

	c := NewCache(BuildIndex(root))

	var wg sync.WaitGroup
	sets := make([]map[string]bool, 8)
	for i := range sets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			set, err := c.Dictionary("generic")
			if err != nil {
				t.Errorf("Dictionary: %v", err)
				return
			}
			sets[i] = map[string]bool{}
			for _, n := range set.Names() {
				sets[i][n] = true
			}
		}(i)
	}
	wg.Wait()

	set, err := c.Dictionary("GENERIC")
	if err != nil {
		t.Fatalf("Dictionary: %v", err)
	}
	if !reflect.DeepEqual(set.Names(), []string{"Wheel", "extra", "rim"}) {
		t.Errorf("names = %v", set.Names())
	}
	wheel := set["Wheel"]
	if wheel.Width != 2 || wheel.Pixels[0] != 9 {
		t.Errorf("override not applied: %dx%d %v", wheel.Width, wheel.Height, wheel.Pixels[:4])
	}
	if set["rim"].Pixels[0] != 1 {
		t.Errorf("rim pixels = %v", set["rim"].Pixels)
	}

	if _, err := c.Dictionary("nowhere"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing dictionary err = %v", err)
	}
	_, err1 := c.Dictionary("broken")
	_, err2 := c.Dictionary("broken")
	if err1 == nil || err1 != err2 {
		t.Errorf("broken dictionary errors = %v, %v", err1, err2)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestLoadImageErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.png")
	writeFile(t, bad, []byte("not an image"))
	if _, err := LoadImage(bad); err == nil {
		t.Error("garbage decoded")
	}
	if _, err := LoadImage(filepath.Join(dir, "none.png")); err == nil {
		t.Error("missing file loaded")
	}
}
