package visibility

import (
	"github.com/milk9111/lenstrace/scene"
)

// Exclusions resolves the configured exclusion names to node markers once, at
// setup. Recursive enables then only test the marker.
type Exclusions struct {
	names map[string]struct{}
}

func NewExclusions(names ...string) *Exclusions {
	e := &Exclusions{names: map[string]struct{}{}}
	for _, n := range names {
		if n != "" {
			e.names[n] = struct{}{}
		}
	}
	return e
}

// Mark tags every matching node under root and returns how many were marked.
func (e *Exclusions) Mark(root scene.Node) int {
	if e == nil || root == nil {
		return 0
	}
	marked := 0
	scene.Walk(root, func(n scene.Node) bool {
		if e.Resolve(n) {
			marked++
		}
		return true
	})
	return marked
}

// Resolve tags a single node, typically one added after setup. It reports
// whether the node is excluded.
func (e *Exclusions) Resolve(n scene.Node) bool {
	if e == nil || n == nil {
		return false
	}
	if _, ok := e.names[n.Name()]; !ok {
		return n.HasTag(scene.TagNoBulkEnable)
	}
	n.AddTag(scene.TagNoBulkEnable)
	return true
}
