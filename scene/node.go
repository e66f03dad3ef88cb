package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Tag is a capability marker attached to a node at setup time.
type Tag string

const (
	// TagNoBulkEnable marks nodes that a recursive enable must never turn on.
	// Only the controller that owns such a node enables it, directly.
	TagNoBulkEnable Tag = "no_bulk_enable"
)

// Node is the scene-graph capability the lens logic drives: enable state,
// world transform, children and tag markers.
type Node interface {
	Name() string
	Enabled() bool
	SetEnabled(enabled bool)
	Children() []Node
	WorldPosition() mgl32.Vec3
	SetWorldPosition(pos mgl32.Vec3)
	WorldRotation() mgl32.Quat
	SetWorldRotation(rot mgl32.Quat)
	HasTag(tag Tag) bool
	AddTag(tag Tag)
}

// Camera is the reference camera used for hit-test rays and default poses.
type Camera interface {
	WorldPosition() mgl32.Vec3
	WorldRotation() mgl32.Quat
}

// Object is an in-memory Node used by the simulator and tests.
type Object struct {
	name     string
	enabled  bool
	position mgl32.Vec3
	rotation mgl32.Quat
	children []*Object
	parent   *Object
	tags     map[Tag]struct{}
}

func NewObject(name string) *Object {
	return &Object{
		name:     name,
		enabled:  true,
		rotation: mgl32.QuatIdent(),
	}
}

func (o *Object) Name() string {
	if o == nil {
		return ""
	}
	return o.name
}

func (o *Object) Enabled() bool {
	if o == nil {
		return false
	}
	return o.enabled
}

func (o *Object) SetEnabled(enabled bool) {
	if o == nil {
		return
	}
	o.enabled = enabled
}

// ActiveInHierarchy reports whether the object and all of its ancestors are
// enabled.
func (o *Object) ActiveInHierarchy() bool {
	for cur := o; cur != nil; cur = cur.parent {
		if !cur.enabled {
			return false
		}
	}
	return o != nil
}

func (o *Object) Children() []Node {
	if o == nil {
		return nil
	}
	out := make([]Node, 0, len(o.children))
	for _, c := range o.children {
		out = append(out, c)
	}
	return out
}

// AddChild appends child and returns it for chaining.
func (o *Object) AddChild(child *Object) *Object {
	if o == nil || child == nil {
		return child
	}
	child.parent = o
	o.children = append(o.children, child)
	return child
}

func (o *Object) Parent() *Object {
	if o == nil {
		return nil
	}
	return o.parent
}

func (o *Object) WorldPosition() mgl32.Vec3 {
	if o == nil {
		return mgl32.Vec3{}
	}
	return o.position
}

func (o *Object) SetWorldPosition(pos mgl32.Vec3) {
	if o == nil {
		return
	}
	o.position = pos
}

func (o *Object) WorldRotation() mgl32.Quat {
	if o == nil {
		return mgl32.QuatIdent()
	}
	return o.rotation
}

func (o *Object) SetWorldRotation(rot mgl32.Quat) {
	if o == nil {
		return
	}
	o.rotation = rot
}

func (o *Object) HasTag(tag Tag) bool {
	if o == nil || o.tags == nil {
		return false
	}
	_, ok := o.tags[tag]
	return ok
}

func (o *Object) AddTag(tag Tag) {
	if o == nil {
		return
	}
	if o.tags == nil {
		o.tags = map[Tag]struct{}{}
	}
	o.tags[tag] = struct{}{}
}
