package texture

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Index maps lowercase dictionary names to .txd paths, and dictionary names
// to loose override images found in a directory of the same name.
type Index struct {
	dictionaries map[string]string            // stem.lower() → full path
	overrides    map[string]map[string]string // dict.lower() → texture.lower() → image path
}

// BuildIndex walks root for .txd files and override images.
// Unreadable directories are skipped.
func BuildIndex(root string) *Index {
	idx := &Index{
		dictionaries: make(map[string]string),
		overrides:    make(map[string]map[string]string),
	}

	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		switch {
		case ext == ".txd":
			// The first dictionary found for a name wins.
			if _, exists := idx.dictionaries[stem]; !exists {
				idx.dictionaries[stem] = path
			}
		case isImage(ext):
			dict := strings.ToLower(filepath.Base(filepath.Dir(path)))
			if idx.overrides[dict] == nil {
				idx.overrides[dict] = make(map[string]string)
			}
			idx.overrides[dict][stem] = path
		}
		return nil
	})

	return idx
}

func isImage(ext string) bool {
	switch ext {
	case ".png", ".tga", ".bmp":
		return true
	}
	return false
}

// ResolvePath returns the .txd path for a dictionary name, or ("", false).
// Directory prefixes and the extension are ignored.
func (idx *Index) ResolvePath(name string) (string, bool) {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	path, ok := idx.dictionaries[stem]
	return path, ok
}

// Overrides returns the override images of a dictionary keyed by
// lowercase texture name.
func (idx *Index) Overrides(name string) map[string]string {
	return idx.overrides[strings.ToLower(name)]
}

// Names returns the indexed dictionary names in sorted order.
func (idx *Index) Names() []string {
	names := make([]string, 0, len(idx.dictionaries))
	for k := range idx.dictionaries {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of indexed dictionaries.
func (idx *Index) Len() int {
	return len(idx.dictionaries)
}
