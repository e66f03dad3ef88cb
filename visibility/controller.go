package visibility

import (
	"sort"

	"github.com/juju/loggo"
	"github.com/milk9111/lenstrace/scene"
	"github.com/milk9111/lenstrace/state"
)

var logger = loggo.GetLogger("lenstrace.visibility")

// reconciler applies a Table to named scene regions. It caches the last
// applied (state, sub-state) pair so repeated notifications do no work.
type reconciler struct {
	kind    string
	root    scene.Node
	table   Table
	regions map[string]scene.Node
	applied bool
	last    key
	visible map[string]bool
}

type key struct {
	state state.AppState
	sub   state.SubState
}

func newReconciler(kind string, root scene.Node, table Table) *reconciler {
	r := &reconciler{kind: kind, root: root}
	r.setTable(table)
	return r
}

func (r *reconciler) setTable(table Table) {
	r.table = table
	r.regions = map[string]scene.Node{}
	for _, name := range table.Regions() {
		n := scene.Find(r.root, name)
		if n == nil {
			logger.Warningf("%s visibility: region %q not found in scene", r.kind, name)
			continue
		}
		r.regions[name] = n
	}
	r.applied = false
}

func (r *reconciler) apply(s state.AppState, sub state.SubState, force bool) {
	k := key{state: s, sub: sub}
	if r.applied && !force && k == r.last {
		return
	}
	r.visible = r.table.Resolve(s, sub)
	r.last = k
	r.applied = true

	names := make([]string, 0, len(r.visible))
	for name := range r.visible {
		names = append(names, name)
	}
	sort.Strings(names)

	// Shows first so a hide of a nested region is never undone by a show of
	// its container.
	for _, name := range names {
		if n, ok := r.regions[name]; ok && r.visible[name] {
			scene.EnableTree(n, scene.Excluded)
		}
	}
	for _, name := range names {
		if n, ok := r.regions[name]; ok && !r.visible[name] {
			scene.DisableTree(n)
		}
	}
	logger.Tracef("%s visibility applied for %s/%q", r.kind, s, sub)
}

func (r *reconciler) snapshot() map[string]bool {
	out := make(map[string]bool, len(r.visible))
	for k, v := range r.visible {
		out[k] = v
	}
	return out
}

// UIController maps state transitions onto panels and indicators.
type UIController struct {
	r *reconciler
}

func NewUIController(root scene.Node, table Table) *UIController {
	if root == nil {
		logger.Warningf("ui visibility: no scene root wired")
	}
	return &UIController{r: newReconciler("ui", root, table)}
}

// ButtonVisibilityController maps state transitions onto navigation and
// action buttons.
type ButtonVisibilityController struct {
	r *reconciler
}

func NewButtonVisibilityController(root scene.Node, table Table) *ButtonVisibilityController {
	if root == nil {
		logger.Warningf("button visibility: no scene root wired")
	}
	return &ButtonVisibilityController{r: newReconciler("button", root, table)}
}

// Controller is implemented by both visibility controllers.
type Controller interface {
	Apply(s state.AppState, sub state.SubState)
	Refresh(s state.AppState, sub state.SubState)
	SetTable(table Table)
	Visible() map[string]bool
}

// Apply enters (s, sub). Calling it again with the same pair is a no-op.
func (c *UIController) Apply(s state.AppState, sub state.SubState) {
	if c == nil {
		return
	}
	c.r.apply(s, sub, false)
}

// Refresh re-applies (s, sub) even if it is already current.
func (c *UIController) Refresh(s state.AppState, sub state.SubState) {
	if c == nil {
		return
	}
	c.r.apply(s, sub, true)
}

func (c *UIController) SetTable(table Table) {
	if c == nil {
		return
	}
	c.r.setTable(table)
}

// Visible returns the last resolved region visibility.
func (c *UIController) Visible() map[string]bool {
	if c == nil {
		return nil
	}
	return c.r.snapshot()
}

func (c *ButtonVisibilityController) Apply(s state.AppState, sub state.SubState) {
	if c == nil {
		return
	}
	c.r.apply(s, sub, false)
}

func (c *ButtonVisibilityController) Refresh(s state.AppState, sub state.SubState) {
	if c == nil {
		return
	}
	c.r.apply(s, sub, true)
}

func (c *ButtonVisibilityController) SetTable(table Table) {
	if c == nil {
		return
	}
	c.r.setTable(table)
}

func (c *ButtonVisibilityController) Visible() map[string]bool {
	if c == nil {
		return nil
	}
	return c.r.snapshot()
}

// Bind subscribes controllers to a state manager so every state and
// sub-state notification is reflected in the scene.
func Bind(m *state.Manager, controllers ...Controller) {
	if m == nil {
		return
	}
	m.AddStateListener(func(evt state.ChangeEvent) {
		for _, c := range controllers {
			c.Apply(evt.Current, state.None)
		}
	})
	m.AddSubStateListener(func(sub state.SubState) {
		s := m.CurrentState()
		for _, c := range controllers {
			c.Apply(s, sub)
		}
	})
}
