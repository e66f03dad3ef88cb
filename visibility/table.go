package visibility

import (
	"sort"

	"github.com/juju/errors"
	"github.com/milk9111/lenstrace/prefabs"
	"github.com/milk9111/lenstrace/state"
)

// Rule turns named regions on and off.
type Rule struct {
	Show []string
	Hide []string
}

// Table is the declarative state -> visibility mapping. Sub-state rules are
// applied on top of the state rule and win on conflict.
type Table struct {
	States    map[state.AppState]Rule
	SubStates map[state.SubState]Rule
}

// TableFromSpec validates state and sub-state names from a prefab table.
func TableFromSpec(spec prefabs.VisibilityTableSpec) (Table, error) {
	t := Table{
		States:    map[state.AppState]Rule{},
		SubStates: map[state.SubState]Rule{},
	}
	for name, r := range spec.States {
		s, err := state.ParseAppState(name)
		if err != nil {
			return Table{}, errors.Annotate(err, "visibility table")
		}
		t.States[s] = Rule{Show: r.Show, Hide: r.Hide}
	}
	for name, r := range spec.SubStates {
		sub := state.SubState(name)
		if !state.ImageGen.Allows(sub) {
			return Table{}, errors.NotValidf("visibility table sub-state %q", name)
		}
		t.SubStates[sub] = Rule{Show: r.Show, Hide: r.Hide}
	}
	return t, nil
}

// Resolve is the pure visibility function: for a (state, sub-state) pair it
// returns every region the table mentions and whether it should be visible.
func (t Table) Resolve(s state.AppState, sub state.SubState) map[string]bool {
	out := map[string]bool{}
	apply := func(r Rule) {
		for _, name := range r.Show {
			out[name] = true
		}
		for _, name := range r.Hide {
			out[name] = false
		}
	}
	if r, ok := t.States[s]; ok {
		apply(r)
	}
	if sub != state.None && s.Allows(sub) {
		if r, ok := t.SubStates[sub]; ok {
			apply(r)
		}
	}
	return out
}

// Regions lists every region name the table mentions, sorted.
func (t Table) Regions() []string {
	seen := map[string]struct{}{}
	collect := func(r Rule) {
		for _, n := range r.Show {
			seen[n] = struct{}{}
		}
		for _, n := range r.Hide {
			seen[n] = struct{}{}
		}
	}
	for _, r := range t.States {
		collect(r)
	}
	for _, r := range t.SubStates {
		collect(r)
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
