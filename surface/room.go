package surface

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/lenstrace/common"
)

// Plane is an axis-aligned rectangle used by Room. Points p on the plane
// satisfy p·Normal == Offset; Min/Max bound the hit point on all axes.
type Plane struct {
	Name   string
	Normal mgl32.Vec3
	Offset float32
	Min    mgl32.Vec3
	Max    mgl32.Vec3
}

// Room is an offline HitTester: a box of planes facing inward. It answers
// synchronously.
type Room struct {
	Planes []Plane
}

// NewBoxRoom returns a floor at y=0, a ceiling at height and four walls at
// ±halfWidth/±halfDepth, all facing the room's interior.
func NewBoxRoom(halfWidth, halfDepth, height float32) *Room {
	lo := mgl32.Vec3{-halfWidth, 0, -halfDepth}
	hi := mgl32.Vec3{halfWidth, height, halfDepth}
	return &Room{Planes: []Plane{
		{Name: "floor", Normal: mgl32.Vec3{0, 1, 0}, Offset: 0, Min: lo, Max: hi},
		{Name: "ceiling", Normal: mgl32.Vec3{0, -1, 0}, Offset: -height, Min: lo, Max: hi},
		{Name: "wall_north", Normal: mgl32.Vec3{0, 0, 1}, Offset: -halfDepth, Min: lo, Max: hi},
		{Name: "wall_south", Normal: mgl32.Vec3{0, 0, -1}, Offset: -halfDepth, Min: lo, Max: hi},
		{Name: "wall_west", Normal: mgl32.Vec3{1, 0, 0}, Offset: -halfWidth, Min: lo, Max: hi},
		{Name: "wall_east", Normal: mgl32.Vec3{-1, 0, 0}, Offset: -halfWidth, Min: lo, Max: hi},
	}}
}

const boundsSlack = 1e-3

// Cast returns the nearest front-facing plane hit along the segment.
func (r *Room) Cast(start, end mgl32.Vec3) *Hit {
	if r == nil {
		return nil
	}
	seg := end.Sub(start)
	length := seg.Len()
	dir := common.Normalize(seg)
	if length == 0 {
		return nil
	}

	best := float32(math.MaxFloat32)
	var hit *Hit
	for _, p := range r.Planes {
		denom := p.Normal.Dot(dir)
		if denom >= 0 {
			// parallel or hitting the back face
			continue
		}
		t := (p.Offset - p.Normal.Dot(start)) / denom
		if t < 0 || t > length || t >= best {
			continue
		}
		point := start.Add(dir.Mul(t))
		if !within(point, p.Min, p.Max) {
			continue
		}
		best = t
		hit = &Hit{Position: point, Normal: p.Normal}
	}
	return hit
}

func (r *Room) HitTest(start, end mgl32.Vec3, done func(*Hit)) {
	if done == nil {
		return
	}
	done(r.Cast(start, end))
}

func within(p, lo, hi mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < lo[i]-boundsSlack || p[i] > hi[i]+boundsSlack {
			return false
		}
	}
	return true
}
