package scene

import "rw-repacker/internal/mathutil"

// ObjectFlags are the Vice City IDE object flags.
type ObjectFlags uint32

const (
	FlagRoad               ObjectFlags = 0x1
	FlagNoFade             ObjectFlags = 0x2
	FlagDrawLast           ObjectFlags = 0x4
	FlagAdditive           ObjectFlags = 0x8
	FlagIgnoreLighting     ObjectFlags = 0x20
	FlagNoZBufferWrite     ObjectFlags = 0x40
	FlagNoReceiveShadows   ObjectFlags = 0x80
	FlagIgnoreDrawDistance ObjectFlags = 0x100
	FlagGlassType1         ObjectFlags = 0x200
	FlagGlassType2         ObjectFlags = 0x400
)

// Object is one objs or tobj entry. MeshCount is 0 when the line omits it.
type Object struct {
	ID           int
	ModelName    string
	TextureName  string
	MeshCount    int
	DrawDistance float32
	Flags        ObjectFlags

	// Timed objects are visible between TimeOn and TimeOff game hours.
	Timed   bool
	TimeOn  int
	TimeOff int
}

type Weapon struct {
	ID            int
	ModelName     string
	TextureName   string
	AnimationName string
	DrawDistance  float32
}

// IDE is an item definition file.
type IDE struct {
	Objects []Object
	Weapons []Weapon
}

// Instance is one inst entry of a placement file, in game coordinates (Z up).
type Instance struct {
	ID        int
	ModelName string
	Interior  int
	Position  mathutil.Vec3
	Scale     mathutil.Vec3
	Rotation  mathutil.Quat
}

// IPL is an item placement file.
type IPL struct {
	Instances []Instance
}

// Dat lists the definition and placement files a level loads, in order.
type Dat struct {
	IDEs []string
	IPLs []string
}

type Transform struct {
	Translation mathutil.Vec3
	Rotation    mathutil.Quat
	Scale       mathutil.Vec3
}

// Matrix returns translation × rotation × scale.
func (t Transform) Matrix() mathutil.Mat4 {
	return mathutil.FromTRS(t.Translation, t.Rotation, t.Scale)
}

// LoadRequest asks for a model to be loaded and placed.
type LoadRequest struct {
	ModelName string
	Transform Transform
}
