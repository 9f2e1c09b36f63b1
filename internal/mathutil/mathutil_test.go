package mathutil

import "testing"

func near(a, b Vec3) bool {
	for i := range a {
		if d := a[i] - b[i]; d > 1e-6 || d < -1e-6 {
			return false
		}
	}
	return true
}

func TestRotationQuarterTurns(t *testing.T) {
	tests := []struct {
		axis   Axis
		in     Vec3
		want   Vec3
		around string
	}{
		{AxisX, Vec3{0, 1, 0}, Vec3{0, 0, 1}, "x"},
		{AxisY, Vec3{0, 0, 1}, Vec3{1, 0, 0}, "y"},
		{AxisZ, Vec3{1, 0, 0}, Vec3{0, 1, 0}, "z"},
	}
	for _, tt := range tests {
		if got := Rotation(tt.axis, Deg2Rad(90)).MulVec3(tt.in); !near(got, tt.want) {
			t.Errorf("90° about %s: %v -> %v, want %v", tt.around, tt.in, got, tt.want)
		}
	}
}

func TestZUpToYUp(t *testing.T) {
	if got := ZUpToYUp.MulVec3(Vec3{0, 0, 1}); !near(got, Vec3{0, 1, 0}) {
		t.Errorf("model up maps to %v, want +Y", got)
	}
}
