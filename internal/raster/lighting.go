package raster

import (
	"github.com/chewxy/math32"

	"rw-repacker/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters.
type LightConfig struct {
	LightDir  mathutil.Vec3
	RimDir    mathutil.Vec3
	ViewDir   mathutil.Vec3
	HalfMain  mathutil.Vec3 // precomputed half-vector for Blinn-Phong
	Ambient   float32
	Hemi      float32
	Direct    float32
	Rim       float32
	SpecInt   float32
	SpecPow   float32
	Exposure  float32
	SRGBGamma float32
	InvGamma  float32
}

// DefaultLightConfig returns a key light from the upper right with a rim
// light behind the model.
func DefaultLightConfig() LightConfig {
	lightDir := mathutil.Vec3{180, 260, 140}.Normalize()
	rimDir := mathutil.Vec3{-160, 130, -210}.Normalize()
	viewDir := mathutil.Vec3{0, -110, -400}.Normalize()

	halfMain := lightDir.Sub(viewDir).Normalize()

	return LightConfig{
		LightDir:  lightDir,
		RimDir:    rimDir,
		ViewDir:   viewDir,
		HalfMain:  halfMain,
		Ambient:   0.55,
		Hemi:      0.50,
		Direct:    1.50,
		Rim:       0.60,
		SpecInt:   0.45,
		SpecPow:   12.0,
		Exposure:  1.05,
		SRGBGamma: 2.2,
		InvGamma:  1.0 / 2.2,
	}
}

// ComputeShade returns the combined lighting scalar for a face normal.
func (lc *LightConfig) ComputeShade(normal mathutil.Vec3) float32 {
	// Lambertian (abs for double-sided)
	ndlMain := math32.Abs(normal.Dot(lc.LightDir))
	ndlRim := math32.Abs(normal.Dot(lc.RimDir))

	// Hemisphere fill
	hemi := (1.0-math32.Abs(normal[1]))*0.5 + 0.5
	hemiLight := hemi * lc.Hemi

	// Blinn-Phong specular
	ndh := normal.Dot(lc.HalfMain)
	if ndh < 0 {
		ndh = 0
	}
	spec := math32.Pow(ndh, lc.SpecPow) * lc.SpecInt

	return lc.Ambient + hemiLight + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float32

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math32.Pow(float32(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float32) float32 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

// shadeColor lights an sRGB color and encodes it back to sRGB.
func (lc *LightConfig) shadeColor(c uint8, shade float32) uint8 {
	l := srgbToLinear[c] * shade * lc.Exposure
	return clamp255(math32.Pow(ACESTonemap(l), lc.InvGamma) * 255)
}

func clamp255(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
