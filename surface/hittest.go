package surface

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/lenstrace/common"
)

// Hit is a single ray-vs-world result.
type Hit struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
}

// HitTester is the host hit-test capability. The callback receives nil when
// nothing was hit. Hosts may call back later than HitTest returns.
type HitTester interface {
	HitTest(start, end mgl32.Vec3, done func(*Hit))
}

// HitTesterFunc adapts a function to HitTester.
type HitTesterFunc func(start, end mgl32.Vec3, done func(*Hit))

func (f HitTesterFunc) HitTest(start, end mgl32.Vec3, done func(*Hit)) {
	f(start, end, done)
}

// Kind classifies a surface by its normal.
type Kind int

const (
	Wall Kind = iota
	Floor
	Ceiling
)

func (k Kind) String() string {
	switch k {
	case Floor:
		return "floor"
	case Ceiling:
		return "ceiling"
	default:
		return "wall"
	}
}

// DefaultThreshold is the normal·up cutoff between floor/ceiling and wall.
const DefaultThreshold = 0.9

// Classify returns Floor when normal·up > threshold, Ceiling when it is below
// -threshold and Wall otherwise.
func Classify(normal mgl32.Vec3, threshold float32) Kind {
	d := common.Normalize(normal).Dot(common.Up)
	switch {
	case d > threshold:
		return Floor
	case d < -threshold:
		return Ceiling
	default:
		return Wall
	}
}
