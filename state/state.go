package state

import (
	"strings"

	"github.com/juju/errors"
)

// AppState is the top-level application state. Exactly one is active.
type AppState int

const (
	Intro AppState = iota
	ImageGen
	HowToEdit
	Tracing
)

var appStateNames = map[AppState]string{
	Intro:     "INTRO",
	ImageGen:  "IMAGE_GEN",
	HowToEdit: "HOW_TO_EDIT",
	Tracing:   "TRACING",
}

func (s AppState) String() string {
	if name, ok := appStateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseAppState accepts the names used in prefab tables.
func ParseAppState(name string) (AppState, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for s, n := range appStateNames {
		if n == upper {
			return s, nil
		}
	}
	return Intro, errors.NotValidf("app state %q", name)
}

// SubState is a secondary state nested in a top-level state. It is a string
// at the API boundary; each AppState declares the closed set it accepts.
type SubState string

const (
	None          SubState = ""
	ReadyToRecord SubState = "READY_TO_RECORD"
	Recording     SubState = "RECORDING"
	Generating    SubState = "GENERATING"
	Preview       SubState = "PREVIEW"
	SurfaceDetect SubState = "SURFACE_DETECTION"
	Placed        SubState = "PLACED"
)

var validSubStates = map[AppState][]SubState{
	ImageGen: {ReadyToRecord, Recording, Generating, Preview, SurfaceDetect, Placed},
}

// SubStates returns the sub-states valid in s.
func (s AppState) SubStates() []SubState {
	subs := validSubStates[s]
	out := make([]SubState, len(subs))
	copy(out, subs)
	return out
}

// Allows reports whether sub is valid while s is active. The empty sub-state
// is always valid.
func (s AppState) Allows(sub SubState) bool {
	if sub == None {
		return true
	}
	for _, v := range validSubStates[s] {
		if v == sub {
			return true
		}
	}
	return false
}

// Projecting reports whether sub is one of the projection sub-states.
func (sub SubState) Projecting() bool {
	return sub == SurfaceDetect || sub == Placed
}

// ChangeEvent is emitted by SetState.
type ChangeEvent struct {
	Previous AppState
	Current  AppState
}
