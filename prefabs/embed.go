package prefabs

import (
	"embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FS holds the built-in prefabs. A file with the same relative path under
// ./prefabs on disk shadows the embedded copy.
//
//go:embed *.yaml scripts/*.tengo
var FS embed.FS

// Load returns a YAML prefab such as "visibility.yaml" or
// "prefabs/visibility.yaml".
func Load(name string) ([]byte, error) {
	return read(cleanPrefabPath(name))
}

// LoadScript returns a tengo script from prefabs/scripts.
func LoadScript(name string) ([]byte, error) {
	return read(cleanScriptPath(name))
}

func read(clean string) ([]byte, error) {
	if clean == "" {
		return nil, fmt.Errorf("prefabs: empty name")
	}
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return FS.ReadFile(clean)
}

// IsPrefab reports whether a changed path on disk refers to the named prefab.
func IsPrefab(changed, name string) bool {
	return filepath.Base(changed) == path.Base(cleanPrefabPath(name))
}

// IsScript reports whether a changed path on disk is a tengo script.
func IsScript(changed string) bool {
	return isScriptFile(changed)
}

func cleanPrefabPath(name string) string {
	if name == "" {
		return ""
	}
	s := filepath.ToSlash(name)
	s, _ = strings.CutPrefix(s, "prefabs/")
	return s
}

func cleanScriptPath(name string) string {
	if name == "" {
		return ""
	}
	s := filepath.ToSlash(name)
	for _, prefix := range []string{"prefabs/", "scripts/"} {
		s, _ = strings.CutPrefix(s, prefix)
	}
	return "scripts/" + s
}

func diskPrefabPath(clean string) string {
	return filepath.Join("prefabs", filepath.FromSlash(clean))
}
