package mathutil

import "github.com/chewxy/math32"

// Preview camera matrices. Models are Z-up.
var (
	// ZUpToYUp rotates Z-up model space to Y-up view space: Rx(-90°)
	ZUpToYUp = Rotation(AxisX, math32.Pi/-2)

	// ViewThreeQuarter looks down at the model from the front-left:
	// Rx(20°) @ Ry(-35°) @ ZUpToYUp
	ViewThreeQuarter = Mat3Mul(Mat3Mul(Rotation(AxisX, Deg2Rad(20)), Rotation(AxisY, Deg2Rad(-35))), ZUpToYUp)
)
