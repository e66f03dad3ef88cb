package placement

import "github.com/go-gl/mathgl/mgl32"

// State is the placement lifecycle of the single anchor object. The
// Controller is its only writer; other components read copies.
type State struct {
	IsPlaced           bool
	IsClicked          bool
	HasPositionedImage bool
	LastPosition       *mgl32.Vec3
	LastRotation       *mgl32.Quat
	// AllowAutoPositioning permits surface hits to move the anchor.
	AllowAutoPositioning bool
	// ResetCooldown is in seconds and decays to zero.
	ResetCooldown     float64
	IgnoreNextHitTest bool
}

// Locked reports whether the anchor is placed and confirmed by the user;
// surface hits are ignored while locked.
func (s State) Locked() bool {
	return s.IsPlaced && s.IsClicked
}

// Suppressed reports whether an incoming hit result must be discarded.
func (s State) Suppressed() bool {
	return s.ResetCooldown > 0 || s.IgnoreNextHitTest
}

// HasCachedHit reports whether a surface hit pose is available to snap to.
func (s State) HasCachedHit() bool {
	return s.LastPosition != nil && s.LastRotation != nil
}

// Clone returns a copy that shares no pointers with s.
func (s State) Clone() State {
	out := s
	if s.LastPosition != nil {
		p := *s.LastPosition
		out.LastPosition = &p
	}
	if s.LastRotation != nil {
		r := *s.LastRotation
		out.LastRotation = &r
	}
	return out
}

// Result is the observable outcome of Place.
type Result int

const (
	Placed Result = iota
	// NoCachedHit means no surface had been hit yet; the controller fell back
	// to preview via ManualPlace instead of locking.
	NoCachedHit
)

func (r Result) String() string {
	switch r {
	case Placed:
		return "placed"
	case NoCachedHit:
		return "no_cached_hit"
	default:
		return "unknown"
	}
}
