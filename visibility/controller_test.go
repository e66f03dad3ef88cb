package visibility

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/milk9111/lenstrace/prefabs"
	"github.com/milk9111/lenstrace/scene"
	"github.com/milk9111/lenstrace/state"
)

func loadFixture(c *qt.C) (*scene.Object, *UIController, *ButtonVisibilityController) {
	root, err := scene.LoadScene(prefabs.SceneFile)
	c.Assert(err, qt.IsNil)
	spec, err := prefabs.LoadVisibilitySpec()
	c.Assert(err, qt.IsNil)

	NewExclusions(spec.Exclusions...).Mark(root)
	ui, err := TableFromSpec(spec.UI)
	c.Assert(err, qt.IsNil)
	buttons, err := TableFromSpec(spec.Buttons)
	c.Assert(err, qt.IsNil)
	return root, NewUIController(root, ui), NewButtonVisibilityController(root, buttons)
}

func enabled(root scene.Node, name string) bool {
	n := scene.Find(root, name)
	return n != nil && n.Enabled()
}

func TestResolveOverlaysSubState(t *testing.T) {
	c := qt.New(t)
	table := Table{
		States: map[state.AppState]Rule{
			state.ImageGen: {Show: []string{"panel", "prompt"}},
		},
		SubStates: map[state.SubState]Rule{
			state.Recording: {Show: []string{"indicator"}, Hide: []string{"prompt"}},
		},
	}

	c.Assert(table.Resolve(state.ImageGen, state.None), qt.DeepEquals, map[string]bool{
		"panel": true, "prompt": true,
	})
	c.Assert(table.Resolve(state.ImageGen, state.Recording), qt.DeepEquals, map[string]bool{
		"panel": true, "prompt": false, "indicator": true,
	})
	// Sub-states outside IMAGE_GEN are not consulted.
	c.Assert(table.Resolve(state.Tracing, state.Recording), qt.DeepEquals, map[string]bool{})
}

func TestTableFromSpecRejectsUnknownNames(t *testing.T) {
	c := qt.New(t)
	_, err := TableFromSpec(prefabs.VisibilityTableSpec{
		States: map[string]prefabs.VisibilityRuleSpec{"LOBBY": {}},
	})
	c.Assert(err, qt.ErrorMatches, `visibility table: .*LOBBY.*`)

	_, err = TableFromSpec(prefabs.VisibilityTableSpec{
		SubStates: map[string]prefabs.VisibilityRuleSpec{"DANCING": {}},
	})
	c.Assert(err, qt.ErrorMatches, `visibility table sub-state "DANCING" not valid`)
}

func TestApplyFollowsTable(t *testing.T) {
	c := qt.New(t)
	root, ui, buttons := loadFixture(c)

	ui.Apply(state.Intro, state.None)
	buttons.Apply(state.Intro, state.None)
	c.Assert(enabled(root, "intro_ui"), qt.IsTrue)
	c.Assert(enabled(root, "start_button"), qt.IsTrue)
	c.Assert(enabled(root, "image_gen_ui"), qt.IsFalse)
	c.Assert(enabled(root, "home_button"), qt.IsFalse)

	ui.Apply(state.ImageGen, state.ReadyToRecord)
	buttons.Apply(state.ImageGen, state.ReadyToRecord)
	c.Assert(enabled(root, "intro_ui"), qt.IsFalse)
	c.Assert(enabled(root, "record_prompt"), qt.IsTrue)
	c.Assert(enabled(root, "recording_indicator"), qt.IsFalse)
	c.Assert(enabled(root, "preview_panel"), qt.IsFalse)
	c.Assert(enabled(root, "record_button"), qt.IsTrue)
	c.Assert(enabled(root, "home_button"), qt.IsTrue)

	ui.Apply(state.ImageGen, state.Preview)
	buttons.Apply(state.ImageGen, state.Preview)
	c.Assert(enabled(root, "preview_panel"), qt.IsTrue)
	c.Assert(enabled(root, "confirm_image_button"), qt.IsTrue)
	c.Assert(enabled(root, "record_button"), qt.IsFalse)
}

func TestApplyIsIdempotent(t *testing.T) {
	c := qt.New(t)
	root, ui, _ := loadFixture(c)

	ui.Apply(state.ImageGen, state.Generating)
	first := ui.Visible()

	// Somebody else flips a region; a repeated notification must not fight it.
	scene.Find(root, "generating_spinner").SetEnabled(false)
	ui.Apply(state.ImageGen, state.Generating)
	c.Assert(enabled(root, "generating_spinner"), qt.IsFalse)
	c.Assert(ui.Visible(), qt.DeepEquals, first)

	ui.Refresh(state.ImageGen, state.Generating)
	c.Assert(enabled(root, "generating_spinner"), qt.IsTrue)
	c.Assert(ui.Visible(), qt.DeepEquals, first)
}

func TestProjectionButtonsSurviveContainerEnable(t *testing.T) {
	c := qt.New(t)
	root, ui, _ := loadFixture(c)

	for _, sub := range []state.SubState{state.SurfaceDetect, state.Placed} {
		ui.Apply(state.ImageGen, sub)
		c.Assert(enabled(root, "projection_ui"), qt.IsTrue, qt.Commentf("sub-state %s", sub))
		for _, name := range []string{"place_button", "confirm_button", "reset_button"} {
			c.Assert(enabled(root, name), qt.IsFalse, qt.Commentf("%s under %s", name, sub))
		}
	}

	ui.Apply(state.HowToEdit, state.None)
	c.Assert(enabled(root, "anchor"), qt.IsTrue)
	c.Assert(enabled(root, "tutorial_nav"), qt.IsFalse)
}

func TestExclusionsMarkNewChildren(t *testing.T) {
	c := qt.New(t)
	root := scene.NewObject("root")
	panel := root.AddChild(scene.NewObject("panel"))
	ex := NewExclusions("confirm_button", "")
	c.Assert(ex.Mark(root), qt.Equals, 0)

	// A node added after setup is checked against the predicate, not a list.
	confirm := panel.AddChild(scene.NewObject("wrapper")).AddChild(scene.NewObject("confirm_button"))
	confirm.SetEnabled(false)
	c.Assert(ex.Resolve(confirm), qt.IsTrue)
	c.Assert(ex.Resolve(panel), qt.IsFalse)

	scene.EnableTree(root, scene.Excluded)
	c.Assert(confirm.Enabled(), qt.IsFalse)
}

func TestBindFollowsManager(t *testing.T) {
	c := qt.New(t)
	root, ui, buttons := loadFixture(c)
	m := state.NewManager()
	Bind(m, ui, buttons)

	m.SetState(state.ImageGen)
	c.Assert(m.SetSubState(state.Recording), qt.IsNil)
	c.Assert(enabled(root, "recording_indicator"), qt.IsTrue)
	c.Assert(enabled(root, "record_prompt"), qt.IsFalse)

	m.SetState(state.Tracing)
	c.Assert(enabled(root, "tracing_ui"), qt.IsTrue)
	c.Assert(enabled(root, "lock_button"), qt.IsTrue)
	c.Assert(enabled(root, "image_gen_ui"), qt.IsFalse)
}

func TestNilControllers(t *testing.T) {
	var ui *UIController
	var buttons *ButtonVisibilityController
	ui.Apply(state.Intro, state.None)
	buttons.Refresh(state.Intro, state.None)
	qt.Assert(t, ui.Visible(), qt.IsNil)
}
