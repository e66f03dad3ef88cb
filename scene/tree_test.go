package scene

import (
	"testing"

	"github.com/milk9111/lenstrace/prefabs"
)

func buildNested() (*Object, *Object) {
	root := NewObject("root")
	a := root.AddChild(NewObject("a"))
	b := a.AddChild(NewObject("b"))
	c := b.AddChild(NewObject("c"))
	confirm := c.AddChild(NewObject("confirm_button"))
	confirm.AddChild(NewObject("confirm_label"))
	confirm.AddTag(TagNoBulkEnable)
	DisableTree(root)
	return root, confirm
}

func TestEnableTreeSkipsExcluded(t *testing.T) {
	root, confirm := buildNested()

	for _, start := range []string{"root", "a", "b", "c"} {
		t.Run(start, func(t *testing.T) {
			DisableTree(root)
			EnableTree(Find(root, start), Excluded)
			if confirm.Enabled() {
				t.Fatalf("excluded node enabled by bulk enable from %s", start)
			}
			if label := Find(root, "confirm_label"); label.Enabled() {
				t.Fatalf("subtree of excluded node should not be enabled")
			}
			if !Find(root, "c").Enabled() {
				t.Fatalf("expected non-excluded ancestor to be enabled")
			}
		})
	}
}

func TestEnableTreeOnExcludedRoot(t *testing.T) {
	_, confirm := buildNested()
	EnableTree(confirm, Excluded)
	if !confirm.Enabled() {
		t.Fatalf("owner enabling an excluded node directly should succeed")
	}
	if !confirm.Children()[0].Enabled() {
		t.Fatalf("expected children of explicitly enabled node to be enabled")
	}
}

func TestActiveInHierarchy(t *testing.T) {
	root, confirm := buildNested()
	EnableTree(confirm, nil)
	if confirm.ActiveInHierarchy() {
		t.Fatalf("expected node under disabled ancestors to be inactive")
	}
	EnableTree(root, nil)
	if !confirm.ActiveInHierarchy() {
		t.Fatalf("expected node to be active once ancestors are enabled")
	}
}

func TestFindMissing(t *testing.T) {
	root, _ := buildNested()
	if Find(root, "nope") != nil {
		t.Fatalf("expected nil for missing node")
	}
	if Find(nil, "root") != nil {
		t.Fatalf("expected nil for nil root")
	}
}

func TestBuildFromSpec(t *testing.T) {
	off := false
	spec := prefabs.NodeSpec{
		Name: "root",
		Children: []prefabs.NodeSpec{
			{Name: "camera", Position: prefabs.Vec3Spec{Y: 1.6}},
			{Name: "panel", Enabled: &off, Tags: []string{string(TagNoBulkEnable)}},
		},
	}

	root, err := Build(spec)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if got := Find(root, "camera").WorldPosition().Y(); got != 1.6 {
		t.Fatalf("expected camera y 1.6, got %v", got)
	}
	panel := Find(root, "panel")
	if panel.Enabled() || !panel.HasTag(TagNoBulkEnable) {
		t.Fatalf("expected disabled tagged panel")
	}
}

func TestBuildRejectsDuplicates(t *testing.T) {
	spec := prefabs.NodeSpec{
		Name:     "root",
		Children: []prefabs.NodeSpec{{Name: "x"}, {Name: "x"}},
	}
	if _, err := Build(spec); err == nil {
		t.Fatalf("expected duplicate name error")
	}
}

func TestLoadEmbeddedScene(t *testing.T) {
	root, err := LoadScene(prefabs.SceneFile)
	if err != nil {
		t.Fatalf("load scene: %v", err)
	}
	for _, name := range []string{"camera", "anchor", "confirm_button", "tutorial_root", "projection_guide"} {
		if Find(root, name) == nil {
			t.Fatalf("expected node %q in embedded scene", name)
		}
	}
}
