package dff

import (
	"github.com/pkg/errors"

	"rw-repacker/internal/mathutil"
	"rw-repacker/internal/rw"
)

// Transform is a frame's rotation and translation. Rotation rows are the
// right, up and at vectors, so points transform as p*R + t.
type Transform struct {
	Rotation    mathutil.Mat3
	Translation mathutil.Vec3
}

func Identity() Transform {
	return Transform{Rotation: mathutil.Mat3Identity()}
}

func LocalTransform(f rw.Frame) Transform {
	return Transform{Rotation: f.Rotation, Translation: f.Translation}
}

// Apply transforms a point.
func (t Transform) Apply(p mathutil.Vec3) mathutil.Vec3 {
	return t.Rotation.Transpose().MulVec3(p).Add(t.Translation)
}

// Then returns the transform applying t first and parent second.
func (t Transform) Then(parent Transform) Transform {
	return Transform{
		Rotation:    mathutil.Mat3Mul(t.Rotation, parent.Rotation),
		Translation: parent.Apply(t.Translation),
	}
}

// Matrix returns the column-vector affine form of t.
func (t Transform) Matrix() mathutil.Mat4 {
	return mathutil.FromMat3Translation(t.Rotation.Transpose(), t.Translation)
}

// Instance is one rendered atomic.
type Instance struct {
	AtomicIndex   int
	FrameIndex    int
	GeometryIndex int
	Name          string
	Transform     Transform // local to the parent frame
	World         Transform // composed with every ancestor
	Model         *Model
}

// Resolution is the result of tolerant resolution. Errors lists atomics that
// were dropped; Warnings lists atomics kept with reduced data.
type Resolution struct {
	Instances []Instance
	Errors    []*AtomicError
	Warnings  []*AtomicError
	Hidden    int
}

// Resolve returns one instance per rendered atomic, failing on the first
// atomic that cannot be resolved.
func Resolve(root *rw.Section) ([]Instance, error) {
	res, err := ResolveTolerant(root)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		return nil, res.Errors[0]
	}
	return res.Instances, nil
}

// ResolveTolerant resolves every atomic it can. Only structural problems
// with the clump itself are returned as an error.
func ResolveTolerant(root *rw.Section) (*Resolution, error) {
	c, err := ReadClump(root)
	if err != nil {
		return nil, err
	}
	return c.Resolve(), nil
}

// Resolve pairs each rendered atomic with its frame and geometry. Geometries
// shared by several atomics share one Model.
func (c *Clump) Resolve() *Resolution {
	res := &Resolution{}
	type built struct {
		model *Model
		err   error
	}
	models := make(map[int]built)

	for i, a := range c.Atomics {
		if !a.Render {
			res.Hidden++
			continue
		}
		if int(a.Frame) >= len(c.Frames) {
			res.Errors = append(res.Errors, &AtomicError{AtomicIndex: i, Err: errors.Wrapf(ErrIndexOutOfRange,
				"frame %d, list has %d", a.Frame, len(c.Frames))})
			continue
		}
		if int(a.Geometry) >= len(c.Geometries) {
			res.Errors = append(res.Errors, &AtomicError{AtomicIndex: i, Err: errors.Wrapf(ErrIndexOutOfRange,
				"geometry %d, list has %d", a.Geometry, len(c.Geometries))})
			continue
		}

		gi := int(a.Geometry)
		b, ok := models[gi]
		if !ok {
			b.model, b.err = buildModel(c.Geometries[gi])
			models[gi] = b
		}
		if b.err != nil {
			res.Errors = append(res.Errors, &AtomicError{AtomicIndex: i, Err: errors.Wrapf(b.err, "geometry %d", gi)})
			continue
		}
		if b.model.Native {
			res.Warnings = append(res.Warnings, &AtomicError{AtomicIndex: i,
				Err: errors.Wrapf(ErrUnsupportedNativeGeometry, "geometry %d", gi)})
		}

		fi := int(a.Frame)
		res.Instances = append(res.Instances, Instance{
			AtomicIndex:   i,
			FrameIndex:    fi,
			GeometryIndex: gi,
			Name:          c.FrameNames[fi],
			Transform:     LocalTransform(c.Frames[fi]),
			World:         c.World(fi),
			Model:         b.model,
		})
	}
	return res
}
