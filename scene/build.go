package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/lenstrace/prefabs"
)

// Build instantiates an Object tree from a prefab node spec.
func Build(spec prefabs.NodeSpec) (*Object, error) {
	seen := map[string]struct{}{}
	return build(spec, seen)
}

func build(spec prefabs.NodeSpec, seen map[string]struct{}) (*Object, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("scene: node without name")
	}
	if _, dup := seen[spec.Name]; dup {
		return nil, fmt.Errorf("scene: duplicate node name %q", spec.Name)
	}
	seen[spec.Name] = struct{}{}

	obj := NewObject(spec.Name)
	obj.enabled = spec.Enabled == nil || *spec.Enabled
	obj.position = mgl32.Vec3{spec.Position.X, spec.Position.Y, spec.Position.Z}
	for _, tag := range spec.Tags {
		obj.AddTag(Tag(tag))
	}

	for _, childSpec := range spec.Children {
		child, err := build(childSpec, seen)
		if err != nil {
			return nil, err
		}
		obj.AddChild(child)
	}
	return obj, nil
}

// LoadScene builds the object tree described by a scene prefab file.
func LoadScene(filename string) (*Object, error) {
	spec, err := prefabs.LoadSpec[prefabs.SceneSpec](filename)
	if err != nil {
		return nil, err
	}
	return Build(spec.Root)
}
