package scene

import (
	"io"
	"strings"

	"github.com/pkg/errors"
)

// ParseIDE reads the objs, tobj and weap sections of an item definition
// file. Other sections are ignored.
func ParseIDE(r io.Reader) (*IDE, error) {
	sections, err := sectionLines(r)
	if err != nil {
		return nil, err
	}
	ide := &IDE{}
	for _, name := range []string{"objs", "tobj"} {
		for _, l := range sections[name] {
			o, err := parseObject(l, name == "tobj")
			if err != nil {
				return nil, errors.Wrapf(err, "ide: %s", name)
			}
			ide.Objects = append(ide.Objects, o)
		}
	}
	for _, l := range sections["weap"] {
		p := fieldParser{l: l}
		w := Weapon{
			ID:            p.integer(0),
			ModelName:     p.str(1),
			TextureName:   p.str(2),
			AnimationName: p.str(3),
			DrawDistance:  p.number(5),
		}
		if p.err != nil {
			return nil, errors.Wrap(p.err, "ide: weap")
		}
		ide.Weapons = append(ide.Weapons, w)
	}
	return ide, nil
}

// parseObject reads "id, model, txd, [meshes,] distance..., flags" with
// two trailing hours for timed objects.
func parseObject(l line, timed bool) (Object, error) {
	p := fieldParser{l: l}
	var o Object
	if timed {
		n := len(l.fields)
		if n < 2 {
			return o, errors.Wrapf(ErrMalformedLine, "line %d: %d fields", l.num, n)
		}
		o.Timed = true
		o.TimeOn = p.integer(n - 2)
		o.TimeOff = p.integer(n - 1)
		p.l.fields = l.fields[:n-2]
	}

	fields := p.l.fields
	o.ID = p.integer(0)
	o.ModelName = p.str(1)
	o.TextureName = p.str(2)
	switch len(fields) {
	case 5:
		o.DrawDistance = p.number(3)
	case 6, 7, 8:
		o.MeshCount = p.integer(3)
		o.DrawDistance = p.number(4)
	default:
		return o, errors.Wrapf(ErrMalformedLine, "line %d: %d object fields", l.num, len(fields))
	}
	o.Flags = ObjectFlags(p.unsigned(len(fields) - 1))
	return o, p.err
}

// TextureMap maps lowercase model names to texture dictionary names.
type TextureMap map[string]string

// ModelTextureMap returns the dictionary of every object and weapon.
func (ide *IDE) ModelTextureMap() TextureMap {
	m := make(TextureMap, len(ide.Objects)+len(ide.Weapons))
	for _, o := range ide.Objects {
		m[strings.ToLower(o.ModelName)] = o.TextureName
	}
	for _, w := range ide.Weapons {
		m[strings.ToLower(w.ModelName)] = w.TextureName
	}
	return m
}

// Merge copies other into m. Later definitions win.
func (m TextureMap) Merge(other TextureMap) {
	for k, v := range other {
		m[k] = v
	}
}

// Lookup returns the dictionary for a model, ignoring case.
func (m TextureMap) Lookup(model string) (string, bool) {
	v, ok := m[strings.ToLower(model)]
	return v, ok
}
