package mathutil

import "github.com/chewxy/math32"

// Axis names a coordinate axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Rotation returns the right-handed rotation by radians about axis, for
// column vectors (M × v).
func Rotation(axis Axis, radians float32) Mat3 {
	s, c := math32.Sincos(radians)
	// i and j span the plane of rotation, in cyclic order after axis.
	i, j := (int(axis)+1)%3, (int(axis)+2)%3
	m := Mat3Identity()
	m[i*3+i], m[i*3+j] = c, -s
	m[j*3+i], m[j*3+j] = s, c
	return m
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float32) float32 {
	return d * math32.Pi / 180
}
