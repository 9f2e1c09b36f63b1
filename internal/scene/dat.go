// Package scene reads the text files that tie a level together: the level
// list, item definitions and item placements.
package scene

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// DefaultIDE is loaded before any file a level list names.
const DefaultIDE = "data/default.ide"

// ParseDat reads the IDE and IPL entries of a level list such as
// gta_vc.dat. Paths are returned with forward slashes.
func ParseDat(r io.Reader) (*Dat, error) {
	dat := &Dat{IDEs: []string{DefaultIDE}}
	seen := map[string]bool{DefaultIDE: true}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		kind, path, ok := strings.Cut(text, " ")
		if !ok {
			continue
		}
		path = strings.ReplaceAll(strings.TrimSpace(path), `\`, "/")
		key := strings.ToLower(path)
		if seen[key] {
			continue
		}
		switch strings.ToUpper(kind) {
		case "IDE":
			dat.IDEs = append(dat.IDEs, path)
		case "IPL":
			dat.IPLs = append(dat.IPLs, path)
		default:
			continue
		}
		seen[key] = true
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "dat: read")
	}
	return dat, nil
}

// ResolvePath finds rel under root, matching each path element without
// regard to case. Game data lists paths in whatever case its authors typed.
func ResolvePath(root, rel string) (string, error) {
	dir := root
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == "" || part == "." {
			continue
		}
		exact := filepath.Join(dir, part)
		if _, err := os.Stat(exact); err == nil {
			dir = exact
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return "", errors.Wrapf(err, "resolve %s", rel)
		}
		found := ""
		for _, e := range entries {
			if strings.EqualFold(e.Name(), part) {
				found = e.Name()
				break
			}
		}
		if found == "" {
			return "", errors.Wrapf(os.ErrNotExist, "resolve %s: no %q in %s", rel, part, dir)
		}
		dir = filepath.Join(dir, found)
	}
	return dir, nil
}

// LoadTextureMap parses every IDE a level list names and merges their
// model to dictionary tables. Missing IDE files are skipped and returned
// by name.
func LoadTextureMap(root, datPath string) (TextureMap, []string, error) {
	f, err := os.Open(datPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "dat: open")
	}
	defer f.Close()
	dat, err := ParseDat(f)
	if err != nil {
		return nil, nil, err
	}

	m := make(TextureMap)
	var missing []string
	for _, rel := range dat.IDEs {
		path, err := ResolvePath(root, rel)
		if err != nil {
			missing = append(missing, rel)
			continue
		}
		ide, err := parseIDEFile(path)
		if err != nil {
			return nil, nil, err
		}
		m.Merge(ide.ModelTextureMap())
	}
	return m, missing, nil
}

func parseIDEFile(path string) (*IDE, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "ide: open")
	}
	defer f.Close()
	ide, err := ParseIDE(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return ide, nil
}
