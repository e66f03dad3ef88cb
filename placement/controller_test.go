package placement

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/lenstrace/scene"
)

func newAnchor() (*scene.Object, *scene.Object) {
	anchor := scene.NewObject("anchor")
	anchor.AddChild(scene.NewObject("anchor_image"))
	nav := anchor.AddChild(scene.NewObject("tutorial_nav"))
	nav.AddTag(scene.TagNoBulkEnable)
	scene.DisableTree(anchor)
	return anchor, nav
}

var defaultPos = mgl32.Vec3{0, 1.6, -1.5}

func newController(anchor scene.Node) *Controller {
	return NewController(anchor, Config{
		DefaultPose: func() (mgl32.Vec3, mgl32.Quat) { return defaultPos, mgl32.QuatIdent() },
	})
}

func TestManualPlaceAlwaysClearsLock(t *testing.T) {
	hit := mgl32.Vec3{0, 0, -3}
	rot := mgl32.QuatRotate(1, mgl32.Vec3{0, 1, 0})

	setups := []struct {
		name  string
		setup func(c *Controller)
	}{
		{"fresh", func(c *Controller) {}},
		{"placed", func(c *Controller) {
			c.UpdatePosition(hit, rot)
			c.Place()
		}},
		{"reset_pending", func(c *Controller) {
			c.UpdatePosition(hit, rot)
			c.Place()
			c.Reset(false)
		}},
		{"hit_cached", func(c *Controller) { c.UpdatePosition(hit, rot) }},
	}

	for _, s := range setups {
		t.Run(s.name, func(t *testing.T) {
			anchor, nav := newAnchor()
			c := newController(anchor)
			s.setup(c)

			c.ManualPlace()

			st := c.State()
			if st.IsPlaced || st.IsClicked || !st.AllowAutoPositioning {
				t.Fatalf("expected preview state, got %+v", st)
			}
			if st.HasCachedHit() || st.HasPositionedImage || st.IgnoreNextHitTest || st.ResetCooldown != 0 {
				t.Fatalf("expected cleared cache, got %+v", st)
			}
			if !anchor.Enabled() || anchor.WorldPosition() != defaultPos {
				t.Fatalf("expected anchor enabled at default pose, got enabled=%v pos=%v", anchor.Enabled(), anchor.WorldPosition())
			}
			if nav.Enabled() {
				t.Fatalf("excluded child must stay hidden")
			}
		})
	}
}

func TestPlaceSnapsToCachedHit(t *testing.T) {
	anchor, nav := newAnchor()
	c := newController(anchor)
	changes := []bool{}
	c.OnPlacementChanged = func(placed bool) { changes = append(changes, placed) }

	hit := mgl32.Vec3{0, 0, -3}
	c.UpdatePosition(hit, mgl32.QuatIdent())
	anchor.SetWorldPosition(mgl32.Vec3{9, 9, 9})

	if res := c.Place(); res != Placed {
		t.Fatalf("expected Placed, got %v", res)
	}
	st := c.State()
	if !st.Locked() || st.AllowAutoPositioning {
		t.Fatalf("expected locked state, got %+v", st)
	}
	if anchor.WorldPosition() != hit {
		t.Fatalf("expected anchor snapped to %v, got %v", hit, anchor.WorldPosition())
	}
	if !anchor.Children()[0].Enabled() {
		t.Fatalf("expected anchor children enabled")
	}
	if nav.Enabled() {
		t.Fatalf("tutorial nav must not be resurrected by place")
	}
	if len(changes) != 1 || !changes[0] {
		t.Fatalf("expected one placement change to true, got %v", changes)
	}
}

func TestPlaceWithoutHitFallsBack(t *testing.T) {
	anchor, _ := newAnchor()
	c := newController(anchor)
	notified := false
	c.OnPlacementChanged = func(bool) { notified = true }

	if res := c.Place(); res != NoCachedHit {
		t.Fatalf("expected NoCachedHit, got %v", res)
	}
	if c.State().Locked() {
		t.Fatalf("fallback must not lock")
	}
	if notified {
		t.Fatalf("fallback must not report a placement change")
	}
	if anchor.WorldPosition() != defaultPos {
		t.Fatalf("expected default pose, got %v", anchor.WorldPosition())
	}
}

func TestReset(t *testing.T) {
	cases := []struct {
		name      string
		clear     bool
		wantCache bool
	}{
		{"keep_position", false, true},
		{"clear_position", true, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			anchor, _ := newAnchor()
			c := newController(anchor)
			c.UpdatePosition(mgl32.Vec3{1, 0, -2}, mgl32.QuatIdent())
			c.Place()

			var order []string
			c.OnReset = func() { order = append(order, "reset") }
			c.OnPlacementChanged = func(p bool) {
				if !p {
					order = append(order, "unplaced")
				}
			}

			c.Reset(tc.clear)

			st := c.State()
			if st.Locked() || !st.AllowAutoPositioning {
				t.Fatalf("expected preview after reset, got %+v", st)
			}
			if st.ResetCooldown != DefaultResetCooldown || !st.IgnoreNextHitTest {
				t.Fatalf("expected cooldown and ignore flag, got %+v", st)
			}
			if st.HasCachedHit() != tc.wantCache || st.HasPositionedImage != tc.wantCache {
				t.Fatalf("expected cache=%v, got %+v", tc.wantCache, st)
			}
			if len(order) != 2 || order[0] != "reset" || order[1] != "unplaced" {
				t.Fatalf("unexpected callback order %v", order)
			}
		})
	}
}

func TestCooldownDecays(t *testing.T) {
	c := newController(nil)
	c.Reset(false)
	c.Update(0.05)
	if st := c.State(); st.ResetCooldown <= 0 || !st.Suppressed() {
		t.Fatalf("expected cooldown still active, got %+v", st)
	}
	c.Update(0.2)
	if st := c.State(); st.ResetCooldown != 0 {
		t.Fatalf("expected cooldown clamped to zero, got %v", st.ResetCooldown)
	}
	c.ConsumeIgnoredHit()
	if c.State().Suppressed() {
		t.Fatalf("expected no suppression after cooldown and consumed flag")
	}
}

func TestUpdatePositionNeverPlaces(t *testing.T) {
	c := newController(nil)
	c.UpdatePosition(mgl32.Vec3{1, 2, 3}, mgl32.QuatIdent())
	st := c.State()
	if st.IsPlaced || !st.HasPositionedImage || *st.LastPosition != (mgl32.Vec3{1, 2, 3}) {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestStateCloneIsIndependent(t *testing.T) {
	c := newController(nil)
	c.UpdatePosition(mgl32.Vec3{1, 2, 3}, mgl32.QuatIdent())
	st := c.State()
	*st.LastPosition = mgl32.Vec3{}
	if *c.State().LastPosition != (mgl32.Vec3{1, 2, 3}) {
		t.Fatalf("mutating a copy leaked into the controller")
	}
}

func TestInFrontOf(t *testing.T) {
	cam := scene.NewObject("camera")
	cam.SetWorldPosition(mgl32.Vec3{0, 1.6, 0})
	pos, _ := InFrontOf(cam, 2)()
	want := mgl32.Vec3{0, 1.6, -2}
	if !pos.ApproxEqualThreshold(want, 1e-4) {
		t.Fatalf("expected %v, got %v", want, pos)
	}
}
