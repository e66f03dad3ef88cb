package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Well-known prefab files.
const (
	ConfigFile     = "lens.yaml"
	VisibilityFile = "visibility.yaml"
	SceneFile      = "scene.yaml"
	VoiceScript    = "voice_commands.tengo"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// DecodeSpec unmarshals raw YAML bytes the same way LoadSpec does.
func DecodeSpec[T any](data []byte) (T, error) {
	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		var zero T
		return zero, fmt.Errorf("prefabs: unmarshal: %w", err)
	}
	return spec, nil
}

type Vec3Spec struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

// NodeSpec describes one scene node and its subtree.
type NodeSpec struct {
	Name     string     `yaml:"name"`
	Enabled  *bool      `yaml:"enabled"`
	Position Vec3Spec   `yaml:"position"`
	Tags     []string   `yaml:"tags"`
	Children []NodeSpec `yaml:"children"`
}

type SceneSpec struct {
	Root NodeSpec `yaml:"root"`
}

// VisibilityRuleSpec lists the named regions a state or sub-state turns on
// and off.
type VisibilityRuleSpec struct {
	Show []string `yaml:"show"`
	Hide []string `yaml:"hide"`
}

type VisibilityTableSpec struct {
	States    map[string]VisibilityRuleSpec `yaml:"states"`
	SubStates map[string]VisibilityRuleSpec `yaml:"sub_states"`
}

type VisibilitySpec struct {
	UI      VisibilityTableSpec `yaml:"ui"`
	Buttons VisibilityTableSpec `yaml:"buttons"`
	// Exclusions names nodes that recursive enables must skip.
	Exclusions []string `yaml:"exclusions"`
}

func LoadVisibilitySpec() (*VisibilitySpec, error) {
	spec, err := LoadSpec[VisibilitySpec](VisibilityFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}
