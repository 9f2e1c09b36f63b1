package scene

import (
	"io"
	"strings"

	"github.com/pkg/errors"

	"rw-repacker/internal/mathutil"
)

// ParseIPL reads the inst section of an item placement file:
// "id, model, interior, px, py, pz, sx, sy, sz, rx, ry, rz, rw".
func ParseIPL(r io.Reader) (*IPL, error) {
	sections, err := sectionLines(r)
	if err != nil {
		return nil, err
	}
	ipl := &IPL{}
	for _, l := range sections["inst"] {
		p := fieldParser{l: l}
		inst := Instance{
			ID:        p.integer(0),
			ModelName: p.str(1),
			Interior:  p.integer(2),
			Position:  mathutil.Vec3{p.number(3), p.number(4), p.number(5)},
			Scale:     mathutil.Vec3{p.number(6), p.number(7), p.number(8)},
			Rotation:  mathutil.Quat{p.number(9), p.number(10), p.number(11), p.number(12)},
		}
		if p.err != nil {
			return nil, errors.Wrap(p.err, "ipl: inst")
		}
		ipl.Instances = append(ipl.Instances, inst)
	}
	return ipl, nil
}

// Requests returns one load request per placed exterior model, skipping
// interiors and low-detail models.
func (ipl *IPL) Requests() []LoadRequest {
	var out []LoadRequest
	for _, inst := range ipl.Instances {
		if inst.Interior != 0 || isLOD(inst.ModelName) {
			continue
		}
		out = append(out, LoadRequest{
			ModelName: inst.ModelName,
			Transform: Transform{
				Translation: inst.Position,
				// Placement files store the inverse rotation.
				Rotation: inst.Rotation.Normalize().Conjugate(),
				Scale:    inst.Scale,
			},
		})
	}
	return out
}

func isLOD(name string) bool {
	return len(name) > 3 && strings.EqualFold(name[:3], "lod")
}
