package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestCleanScriptPath(t *testing.T) {
	c := qt.New(t)
	for _, test := range []struct {
		in, want string
	}{
		{"", ""},
		{"voice_commands.tengo", "scripts/voice_commands.tengo"},
		{"scripts/voice_commands.tengo", "scripts/voice_commands.tengo"},
		{"prefabs/scripts/voice_commands.tengo", "scripts/voice_commands.tengo"},
		{"prefabs/other.tengo", "scripts/other.tengo"},
	} {
		c.Check(cleanScriptPath(test.in), qt.Equals, test.want, qt.Commentf("input %q", test.in))
	}
}

func TestLoadEmbedded(t *testing.T) {
	c := qt.New(t)

	scene, err := LoadSpec[SceneSpec](SceneFile)
	c.Assert(err, qt.IsNil)
	c.Assert(scene.Root.Name, qt.Equals, "lens_root")
	c.Assert(scene.Root.Children, qt.Not(qt.HasLen), 0)

	vis, err := LoadVisibilitySpec()
	c.Assert(err, qt.IsNil)
	c.Assert(vis.Exclusions, qt.Contains, "place_button")
	c.Assert(vis.UI.States["INTRO"].Show, qt.DeepEquals, []string{"intro_ui"})

	script, err := LoadScript(VoiceScript)
	c.Assert(err, qt.IsNil)
	c.Assert(len(script) > 0, qt.IsTrue)
}

func TestLoadMissing(t *testing.T) {
	c := qt.New(t)
	_, err := LoadSpec[SceneSpec]("missing.yaml")
	c.Assert(err, qt.ErrorMatches, `prefabs: load missing.yaml: .*`)

	_, err = LoadScript("missing.tengo")
	c.Assert(err, qt.Not(qt.IsNil))

	_, err = Load("")
	c.Assert(err, qt.ErrorMatches, "prefabs: empty name")
}

func TestDecodeSpecRejectsBadYAML(t *testing.T) {
	c := qt.New(t)
	_, err := DecodeSpec[SceneSpec]([]byte("root: [unclosed"))
	c.Assert(err, qt.ErrorMatches, `prefabs: unmarshal: .*`)

	spec, err := DecodeSpec[SceneSpec]([]byte("root:\n  name: x\n  enabled: false\n"))
	c.Assert(err, qt.IsNil)
	c.Assert(spec.Root.Name, qt.Equals, "x")
	c.Assert(*spec.Root.Enabled, qt.IsFalse)
}

func TestDiskOverride(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()
	t.Chdir(dir)

	c.Assert(os.MkdirAll(filepath.Join("prefabs", "scripts"), 0o755), qt.IsNil)
	c.Assert(os.WriteFile(filepath.Join("prefabs", SceneFile), []byte("root:\n  name: edited\n"), 0o644), qt.IsNil)
	c.Assert(os.WriteFile(filepath.Join("prefabs", "scripts", VoiceScript), []byte("result := {}"), 0o644), qt.IsNil)

	scene, err := LoadSpec[SceneSpec]("prefabs/" + SceneFile)
	c.Assert(err, qt.IsNil)
	c.Assert(scene.Root.Name, qt.Equals, "edited")

	script, err := LoadScript(VoiceScript)
	c.Assert(err, qt.IsNil)
	c.Assert(string(script), qt.Equals, "result := {}")

	// Files without an override still come from the binary.
	_, err = LoadVisibilitySpec()
	c.Assert(err, qt.IsNil)
}

func TestIsPrefab(t *testing.T) {
	c := qt.New(t)
	c.Assert(IsPrefab("/work/prefabs/visibility.yaml", VisibilityFile), qt.IsTrue)
	c.Assert(IsPrefab("prefabs/visibility.yaml", "prefabs/visibility.yaml"), qt.IsTrue)
	c.Assert(IsPrefab("prefabs/scene.yaml", VisibilityFile), qt.IsFalse)
	c.Assert(IsScript("prefabs/scripts/voice_commands.TENGO"), qt.IsTrue)
	c.Assert(IsScript("prefabs/scene.yaml"), qt.IsFalse)
}

func TestWatcherReportsChangedFiles(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()

	w, err := NewWatcher(dir)
	c.Assert(err, qt.IsNil)
	defer w.Close()

	c.Assert(os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644), qt.IsNil)
	c.Assert(os.WriteFile(filepath.Join(dir, VisibilityFile), []byte("ui: {}"), 0o644), qt.IsNil)

	deadline := time.Now().Add(5 * time.Second)
	var changed []string
	for time.Now().Before(deadline) {
		changed = append(changed, w.Poll()...)
		if len(changed) > 0 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	c.Assert(changed, qt.Not(qt.HasLen), 0)
	for _, name := range changed {
		c.Assert(filepath.Base(name), qt.Equals, VisibilityFile)
	}
}

func TestWatcherCloseAndNil(t *testing.T) {
	c := qt.New(t)

	var nilWatcher *Watcher
	c.Assert(nilWatcher.Poll(), qt.IsNil)

	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"))
	c.Assert(err, qt.Not(qt.IsNil))

	w, err := NewWatcher(t.TempDir())
	c.Assert(err, qt.IsNil)
	c.Assert(w.Close(), qt.IsNil)
	c.Assert(w.Close(), qt.IsNil)
	c.Assert(w.Poll(), qt.HasLen, 0)
}
