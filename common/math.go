package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Axis vectors in the engine's right-handed, Y-up world.
var (
	Up      = mgl32.Vec3{0, 1, 0}
	Forward = mgl32.Vec3{0, 0, 1}
	Back    = mgl32.Vec3{0, 0, -1}
	Right   = mgl32.Vec3{1, 0, 0}
)

const epsilon = 1e-6

func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// Normalize returns v scaled to unit length, or the zero vector when v is
// degenerate.
func Normalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < epsilon {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// LookRotation returns the rotation that maps +Z onto forward and keeps +Y
// as close to up as possible.
func LookRotation(forward, up mgl32.Vec3) mgl32.Quat {
	z := Normalize(forward)
	if z.Len() < epsilon {
		return mgl32.QuatIdent()
	}
	x := Normalize(up.Cross(z))
	if x.Len() < epsilon {
		// forward is parallel to up; any perpendicular reference will do.
		x = Normalize(Forward.Cross(z))
		if x.Len() < epsilon {
			x = Normalize(Right.Cross(z))
		}
	}
	y := z.Cross(x)
	return mgl32.Mat4ToQuat(mgl32.Mat3FromCols(x, y, z).Mat4()).Normalize()
}

// ViewDirection is the direction a camera with rotation rot is looking in.
// Cameras look down their back (-Z) axis.
func ViewDirection(rot mgl32.Quat) mgl32.Vec3 {
	return Normalize(rot.Rotate(Back))
}

// YawForward strips pitch and roll from the camera view direction, leaving a
// unit vector on the XZ plane. A camera looking straight up or down falls
// back to world -Z.
func YawForward(rot mgl32.Quat) mgl32.Vec3 {
	dir := ViewDirection(rot)
	flat := Normalize(mgl32.Vec3{dir.X(), 0, dir.Z()})
	if flat.Len() < epsilon {
		return Back
	}
	return flat
}

// RotationZ returns a rotation of deg degrees about the local Z axis.
func RotationZ(deg float32) mgl32.Quat {
	return mgl32.QuatRotate(mgl32.DegToRad(deg), Forward)
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b mgl32.Vec3) float32 {
	return a.Sub(b).Len()
}

func Clamp01(v float32) float32 {
	if math.IsNaN(float64(v)) {
		return 0
	}
	return mgl32.Clamp(v, 0, 1)
}
