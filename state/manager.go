package state

import (
	"github.com/juju/errors"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("lenstrace.state")

// Manager is the application state machine. Top-level transitions are not
// restricted; sub-states are checked against the active state.
type Manager struct {
	current     AppState
	sub         SubState
	initialized bool

	// Hooks for the owner; invoked before public listeners.
	OnStateExit      func(AppState)
	OnStateEnter     func(AppState)
	OnSubStateChange func(SubState)

	stateListeners []func(ChangeEvent)
	subListeners   []func(SubState)
}

func NewManager() *Manager {
	return &Manager{}
}

// AddStateListener registers fn for every ChangeEvent, in registration order.
func (m *Manager) AddStateListener(fn func(ChangeEvent)) {
	if m == nil || fn == nil {
		return
	}
	m.stateListeners = append(m.stateListeners, fn)
}

// AddSubStateListener registers fn for every sub-state notification.
func (m *Manager) AddSubStateListener(fn func(SubState)) {
	if m == nil || fn == nil {
		return
	}
	m.subListeners = append(m.subListeners, fn)
}

// SetState switches to next. It is a no-op when next is already active,
// except for the very first call which always initializes. OnStateExit is
// skipped on that first call since no state was active yet. The sub-state is
// cleared on every transition.
func (m *Manager) SetState(next AppState) {
	if m == nil {
		return
	}
	if m.initialized && next == m.current {
		return
	}

	prev := m.current
	if m.initialized && m.OnStateExit != nil {
		m.OnStateExit(prev)
	}
	m.current = next
	m.sub = None
	if m.OnStateEnter != nil {
		m.OnStateEnter(next)
	}
	m.initialized = true

	logger.Debugf("state %s -> %s", prev, next)
	evt := ChangeEvent{Previous: prev, Current: next}
	for _, fn := range m.stateListeners {
		fn(evt)
	}
}

// SetSubState assigns sub and notifies unconditionally; repeated identical
// values are delivered again, so handlers must be idempotent. A sub-state the
// active state does not accept is rejected without notification.
func (m *Manager) SetSubState(sub SubState) error {
	if m == nil {
		return errors.New("state manager not configured")
	}
	if !m.current.Allows(sub) {
		return errors.NotValidf("sub-state %q in state %s", sub, m.current)
	}

	m.sub = sub
	if m.OnSubStateChange != nil {
		m.OnSubStateChange(sub)
	}
	logger.Debugf("sub-state %s/%q", m.current, sub)
	for _, fn := range m.subListeners {
		fn(sub)
	}
	return nil
}

func (m *Manager) CurrentState() AppState {
	if m == nil {
		return Intro
	}
	return m.current
}

func (m *Manager) CurrentSubState() SubState {
	if m == nil {
		return None
	}
	return m.sub
}

// Initialized reports whether SetState has been called at least once.
func (m *Manager) Initialized() bool {
	return m != nil && m.initialized
}
