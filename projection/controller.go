package projection

import (
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/milk9111/lenstrace/placement"
	"github.com/milk9111/lenstrace/scene"
	"github.com/milk9111/lenstrace/state"
	"github.com/milk9111/lenstrace/surface"
)

var logger = loggo.GetLogger("lenstrace.projection")

// ErrNotPlaced is returned when confirm is pressed before the anchor is locked.
const ErrNotPlaced = errors.ConstError("anchor is not placed")

// Nodes are the scene objects the controller shows and hides directly. All
// of them are expected to carry the no-bulk-enable marker.
type Nodes struct {
	PlaceButton   scene.Node
	ConfirmButton scene.Node
	ResetButton   scene.Node

	TutorialRoot    scene.Node
	TutorialNav     scene.Node
	ProjectionGuide scene.Node
	GuideBackground scene.Node
}

// Controller orchestrates the projection sub-states. It reacts to state
// notifications and drives surface detection and placement every frame.
type Controller struct {
	states    *state.Manager
	placement *placement.Controller
	surface   *surface.Controller
	nodes     Nodes

	entered       bool
	lastSub       state.SubState
	buttonsShown  bool
	repositioning bool

	// OnPlaced runs after a successful place, once the sub-state is PLACED.
	OnPlaced func()
	// OnConfirm replaces the default transition to HOW_TO_EDIT.
	OnConfirm func()
}

func NewController(states *state.Manager, pc *placement.Controller, sc *surface.Controller, nodes Nodes) *Controller {
	c := &Controller{
		states:    states,
		placement: pc,
		surface:   sc,
		nodes:     nodes,
	}
	if states == nil {
		logger.Warningf("projection controller has no state manager; it will not react to transitions")
	}
	if pc == nil {
		logger.Warningf("projection controller has no placement controller")
	}
	for name, n := range map[string]scene.Node{
		"place button":     nodes.PlaceButton,
		"confirm button":   nodes.ConfirmButton,
		"reset button":     nodes.ResetButton,
		"tutorial root":    nodes.TutorialRoot,
		"projection guide": nodes.ProjectionGuide,
	} {
		if n == nil {
			logger.Warningf("projection controller: %s not wired", name)
		}
	}

	states.AddStateListener(c.handleState)
	states.AddSubStateListener(c.handleSubState)
	return c
}

// ButtonsShown reports whether confirm and reset are currently offered.
func (c *Controller) ButtonsShown() bool {
	return c != nil && c.buttonsShown
}

// Repositioning reports whether the next SURFACE_DETECTION entry keeps the
// current placement instead of forcing a manual place.
func (c *Controller) Repositioning() bool {
	return c != nil && c.repositioning
}

func (c *Controller) handleState(evt state.ChangeEvent) {
	c.entered = true
	c.lastSub = state.None
	c.repositioning = false
	c.applySubState(state.None)
	c.updateGuides()
}

func (c *Controller) handleSubState(sub state.SubState) {
	if c.entered && sub == c.lastSub {
		// Repeated notification; nothing changes, but a pending reposition
		// request has been served.
		c.repositioning = false
		return
	}
	c.entered = true
	c.lastSub = sub
	c.applySubState(sub)
	c.updateGuides()
}

func (c *Controller) applySubState(sub state.SubState) {
	switch sub {
	case state.SurfaceDetect:
		show(c.nodes.PlaceButton, true)
		show(c.nodes.ConfirmButton, false)
		show(c.nodes.ResetButton, false)
		show(c.nodes.TutorialNav, false)
		c.buttonsShown = false
		c.surface.SetEnabled(true)
		if c.repositioning {
			c.repositioning = false
			logger.Debugf("re-entering surface detection with placement kept")
			return
		}
		c.placement.ManualPlace()
	case state.Placed:
		show(c.nodes.PlaceButton, false)
		c.surface.SetEnabled(true)
		c.syncLockButtons()
	default:
		c.hideButtons()
		c.surface.SetEnabled(false)
	}
}

func (c *Controller) hideButtons() {
	show(c.nodes.PlaceButton, false)
	show(c.nodes.ConfirmButton, false)
	show(c.nodes.ResetButton, false)
	c.buttonsShown = false
}

// syncLockButtons offers confirm and reset on the edge where the anchor
// becomes locked and withdraws them when it unlocks.
func (c *Controller) syncLockButtons() {
	if c.lastSub != state.Placed {
		return
	}
	locked := c.placement.State().Locked()
	switch {
	case locked && !c.buttonsShown:
		show(c.nodes.ConfirmButton, true)
		show(c.nodes.ResetButton, true)
		c.buttonsShown = true
	case !locked && c.buttonsShown:
		show(c.nodes.ConfirmButton, false)
		show(c.nodes.ResetButton, false)
		c.buttonsShown = false
	}
}

func (c *Controller) updateGuides() {
	current := c.states.CurrentState()
	tutorial := current == state.HowToEdit
	guide := current == state.ImageGen && c.lastSub.Projecting()

	show(c.nodes.TutorialRoot, tutorial)
	show(c.nodes.TutorialNav, tutorial)
	show(c.nodes.ProjectionGuide, guide && !tutorial)
	show(c.nodes.GuideBackground, tutorial || guide)
}

// Update runs one frame: raycast, cooldown decay, then button reconciliation.
func (c *Controller) Update(dt float64) {
	if c == nil {
		return
	}
	c.surface.Update(dt)
	c.placement.Update(dt)
	c.syncLockButtons()
}

// PressPlace locks the anchor at the last surface hit and moves to PLACED.
// It is only valid in SURFACE_DETECTION. Without a cached hit the anchor
// stays in preview and NoCachedHit is returned.
func (c *Controller) PressPlace() (placement.Result, error) {
	if c == nil || c.placement == nil {
		return placement.NoCachedHit, errors.NotFoundf("placement controller")
	}
	if err := c.require("place", func(sub state.SubState) bool { return sub == state.SurfaceDetect }); err != nil {
		return placement.NoCachedHit, err
	}
	c.buttonsShown = false
	res := c.placement.Place()
	if res != placement.Placed {
		logger.Infof("place pressed without a surface hit")
		return res, nil
	}
	if err := c.states.SetSubState(state.Placed); err != nil {
		return res, errors.Annotate(err, "enter placed")
	}
	if c.OnPlaced != nil {
		c.OnPlaced()
	}
	return res, nil
}

// PressConfirm hides the projection UI and hands over to the tutorial. It is
// only valid in PLACED.
func (c *Controller) PressConfirm() error {
	if c == nil || c.placement == nil {
		return errors.NotFoundf("placement controller")
	}
	if err := c.require("confirm", func(sub state.SubState) bool { return sub == state.Placed }); err != nil {
		return err
	}
	if !c.placement.State().Locked() {
		return ErrNotPlaced
	}
	c.hideButtons()
	show(c.nodes.ProjectionGuide, false)
	c.surface.SetEnabled(false)

	if c.OnConfirm != nil {
		c.OnConfirm()
		return nil
	}
	c.states.SetState(state.HowToEdit)
	return nil
}

// PressReset unlocks the anchor and returns to SURFACE_DETECTION keeping the
// cached hit, so the image continues from where it was. It is only valid in
// a projecting sub-state.
func (c *Controller) PressReset() error {
	if c == nil || c.placement == nil {
		return errors.NotFoundf("placement controller")
	}
	if err := c.require("reset", state.SubState.Projecting); err != nil {
		return err
	}
	c.placement.Reset(false)
	c.repositioning = true
	if err := c.states.SetSubState(state.SurfaceDetect); err != nil {
		c.repositioning = false
		return errors.Annotate(err, "reset placement")
	}
	return nil
}

// require rejects a press unless IMAGE_GEN is active with a sub-state
// accepted by allowed.
func (c *Controller) require(press string, allowed func(state.SubState) bool) error {
	current, sub := c.states.CurrentState(), c.states.CurrentSubState()
	if current != state.ImageGen || !allowed(sub) {
		return errors.NotValidf("%s in %s/%q", press, current, sub)
	}
	return nil
}

func show(n scene.Node, on bool) {
	if n == nil {
		return
	}
	scene.SetTreeEnabled(n, on, scene.Excluded)
}
