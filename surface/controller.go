package surface

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/juju/loggo"
	"github.com/milk9111/lenstrace/common"
	"github.com/milk9111/lenstrace/placement"
	"github.com/milk9111/lenstrace/scene"
)

var logger = loggo.GetLogger("lenstrace.surface")

const DefaultRayLength = 1000

type Config struct {
	RayLength float32
	Threshold float32
	// Z-axis offsets in degrees applied to floor and ceiling orientations.
	FloorZOffset   float32
	CeilingZOffset float32
}

func DefaultConfig() Config {
	return Config{
		RayLength:      DefaultRayLength,
		Threshold:      DefaultThreshold,
		CeilingZOffset: 180,
	}
}

// Controller casts one ray per eligible frame from the reference camera and
// moves the anchor onto the surface it hits.
type Controller struct {
	tester    HitTester
	camera    scene.Camera
	anchor    scene.Node
	placement *placement.Controller
	cfg       Config
	enabled   bool
	lastKind  Kind
	casts     uint64

	OnSurfaceHit   func(pos, normal mgl32.Vec3)
	OnNoSurfaceHit func()
}

func NewController(tester HitTester, camera scene.Camera, pc *placement.Controller, cfg Config) *Controller {
	if cfg.RayLength <= 0 {
		cfg.RayLength = DefaultRayLength
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	c := &Controller{
		tester:    tester,
		camera:    camera,
		placement: pc,
		cfg:       cfg,
	}
	if pc != nil {
		c.anchor = pc.Anchor()
	}
	switch {
	case tester == nil:
		logger.Warningf("no hit-test capability wired; surface detection disabled")
	case camera == nil:
		logger.Warningf("no reference camera wired; surface detection disabled")
	case pc == nil:
		logger.Warningf("no placement controller wired; surface detection disabled")
	}
	return c
}

// SetEnabled turns per-frame hit testing on or off.
func (c *Controller) SetEnabled(enabled bool) {
	if c == nil {
		return
	}
	c.enabled = enabled
}

func (c *Controller) Enabled() bool {
	return c != nil && c.enabled
}

// Casts returns how many rays have been submitted.
func (c *Controller) Casts() uint64 {
	if c == nil {
		return 0
	}
	return c.casts
}

// LastKind is the classification of the last accepted hit.
func (c *Controller) LastKind() Kind {
	if c == nil {
		return Wall
	}
	return c.lastKind
}

func (c *Controller) Update(float64) {
	if c == nil || !c.enabled || c.tester == nil || c.camera == nil || c.placement == nil {
		return
	}
	st := c.placement.State()
	if st.Locked() || !st.AllowAutoPositioning {
		return
	}

	start := c.camera.WorldPosition()
	dir := common.ViewDirection(c.camera.WorldRotation())
	end := start.Add(dir.Mul(c.cfg.RayLength))
	c.casts++
	c.tester.HitTest(start, end, c.handleResult)
}

func (c *Controller) handleResult(hit *Hit) {
	st := c.placement.State()
	// The host may answer after the state moved on.
	if st.Locked() || !st.AllowAutoPositioning {
		return
	}
	if st.Suppressed() {
		if st.IgnoreNextHitTest {
			c.placement.ConsumeIgnoredHit()
		}
		return
	}

	if hit == nil {
		if c.OnNoSurfaceHit != nil {
			c.OnNoSurfaceHit()
		}
		return
	}

	kind := Classify(hit.Normal, c.cfg.Threshold)
	rot := c.orientation(kind, hit.Normal)
	if c.anchor != nil {
		c.anchor.SetWorldPosition(hit.Position)
		c.anchor.SetWorldRotation(rot)
	}
	c.lastKind = kind
	c.placement.UpdatePosition(hit.Position, rot)

	if c.OnSurfaceHit != nil {
		c.OnSurfaceHit(hit.Position, hit.Normal)
	}
}

// Orientation returns the anchor rotation for a surface hit with the given
// normal, seen from the current camera.
func (c *Controller) Orientation(normal mgl32.Vec3) mgl32.Quat {
	if c == nil {
		return mgl32.QuatIdent()
	}
	return c.orientation(Classify(normal, c.cfg.Threshold), normal)
}

func (c *Controller) orientation(kind Kind, normal mgl32.Vec3) mgl32.Quat {
	switch kind {
	case Floor, Ceiling:
		camRot := mgl32.QuatIdent()
		if c.camera != nil {
			camRot = c.camera.WorldRotation()
		}
		base := common.LookRotation(common.YawForward(camRot), common.Up)
		offset := c.cfg.FloorZOffset
		if kind == Ceiling {
			offset = c.cfg.CeilingZOffset
		}
		return base.Mul(common.RotationZ(offset)).Normalize()
	default:
		return common.LookRotation(normal, common.Up)
	}
}
