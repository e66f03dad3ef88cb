package placement

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/juju/loggo"
	"github.com/milk9111/lenstrace/common"
	"github.com/milk9111/lenstrace/scene"
)

var logger = loggo.GetLogger("lenstrace.placement")

// DefaultResetCooldown suppresses hit results briefly after a reset.
const DefaultResetCooldown = 0.1

// PoseFunc supplies the preview pose used by ManualPlace.
type PoseFunc func() (mgl32.Vec3, mgl32.Quat)

// InFrontOf places the anchor distance units along the camera's view
// direction, facing back at the camera on the horizontal plane.
func InFrontOf(cam scene.Camera, distance float32) PoseFunc {
	return func() (mgl32.Vec3, mgl32.Quat) {
		if cam == nil {
			return mgl32.Vec3{0, 0, -distance}, mgl32.QuatIdent()
		}
		rot := cam.WorldRotation()
		pos := cam.WorldPosition().Add(common.ViewDirection(rot).Mul(distance))
		facing := common.LookRotation(common.YawForward(rot).Mul(-1), common.Up)
		return pos, facing
	}
}

type Config struct {
	ResetCooldown float64
	DefaultPose   PoseFunc
	// Skip filters the anchor subtree when the anchor is re-enabled.
	Skip func(scene.Node) bool
}

// Controller owns the preview/placed lifecycle of the anchor.
type Controller struct {
	anchor scene.Node
	cfg    Config
	state  State

	OnPlacementChanged func(placed bool)
	OnReset            func()
}

func NewController(anchor scene.Node, cfg Config) *Controller {
	if cfg.ResetCooldown <= 0 {
		cfg.ResetCooldown = DefaultResetCooldown
	}
	if cfg.Skip == nil {
		cfg.Skip = scene.Excluded
	}
	if anchor == nil {
		logger.Warningf("placement controller created without an anchor object")
	}
	return &Controller{
		anchor: anchor,
		cfg:    cfg,
		state:  State{AllowAutoPositioning: true},
	}
}

// State returns a copy of the current placement state.
func (c *Controller) State() State {
	if c == nil {
		return State{}
	}
	return c.state.Clone()
}

func (c *Controller) Anchor() scene.Node {
	if c == nil {
		return nil
	}
	return c.anchor
}

// Place locks the anchor at the last surface hit. Without a cached hit it
// falls back to ManualPlace and reports NoCachedHit.
func (c *Controller) Place() Result {
	if c == nil {
		return NoCachedHit
	}
	if !c.state.HasCachedHit() {
		logger.Warningf("place requested before any surface hit; staying in preview")
		c.ManualPlace()
		return NoCachedHit
	}

	if c.anchor != nil {
		c.anchor.SetWorldPosition(*c.state.LastPosition)
		c.anchor.SetWorldRotation(*c.state.LastRotation)
		scene.EnableTree(c.anchor, c.cfg.Skip)
	}
	c.state.IsPlaced = true
	c.state.IsClicked = true
	c.state.AllowAutoPositioning = false

	logger.Debugf("anchor placed at %v", *c.state.LastPosition)
	if c.OnPlacementChanged != nil {
		c.OnPlacementChanged(true)
	}
	return Placed
}

// ManualPlace resets to preview regardless of the current state, moves the
// anchor to the default pose and waits for the next surface hit.
func (c *Controller) ManualPlace() {
	if c == nil {
		return
	}
	c.state = State{AllowAutoPositioning: true}

	if c.anchor == nil {
		logger.Warningf("manual place skipped: no anchor object")
		return
	}
	scene.EnableTree(c.anchor, c.cfg.Skip)
	if c.cfg.DefaultPose != nil {
		pos, rot := c.cfg.DefaultPose()
		c.anchor.SetWorldPosition(pos)
		c.anchor.SetWorldRotation(rot)
	}
}

// Reset returns to preview. The cached hit is kept for continuity unless
// clearPosition is set. A short cooldown and an ignore flag swallow a hit
// result that was already in flight.
func (c *Controller) Reset(clearPosition bool) {
	if c == nil {
		return
	}
	c.state.IsPlaced = false
	c.state.IsClicked = false
	c.state.AllowAutoPositioning = true
	c.state.ResetCooldown = c.cfg.ResetCooldown
	c.state.IgnoreNextHitTest = true
	if clearPosition {
		c.state.LastPosition = nil
		c.state.LastRotation = nil
		c.state.HasPositionedImage = false
	}
	if c.anchor != nil {
		scene.EnableTree(c.anchor, c.cfg.Skip)
	}

	logger.Debugf("placement reset (clear=%v)", clearPosition)
	if c.OnReset != nil {
		c.OnReset()
	}
	if c.OnPlacementChanged != nil {
		c.OnPlacementChanged(false)
	}
}

// UpdatePosition caches an accepted surface hit pose. It never changes the
// placed flag.
func (c *Controller) UpdatePosition(pos mgl32.Vec3, rot mgl32.Quat) {
	if c == nil {
		return
	}
	c.state.LastPosition = &pos
	c.state.LastRotation = &rot
	c.state.HasPositionedImage = true
}

// ConsumeIgnoredHit clears the ignore flag after a discarded hit result.
func (c *Controller) ConsumeIgnoredHit() {
	if c == nil {
		return
	}
	c.state.IgnoreNextHitTest = false
}

// Update decays the reset cooldown by the frame delta.
func (c *Controller) Update(dt float64) {
	if c == nil || c.state.ResetCooldown <= 0 {
		return
	}
	c.state.ResetCooldown -= dt
	if c.state.ResetCooldown < 0 {
		c.state.ResetCooldown = 0
	}
}
