package game

import (
	"github.com/juju/errors"
	"github.com/milk9111/lenstrace/common"
	"github.com/milk9111/lenstrace/imagegen"
	"github.com/milk9111/lenstrace/placement"
	"github.com/milk9111/lenstrace/state"
)

// GoHome returns to the start of the experience. While projecting it only
// unlocks the anchor and resumes surface detection, keeping placement work.
// Otherwise it clears the placement and goes to the latest image in PREVIEW,
// or to INTRO when there is no history.
func (m *Manager) GoHome() {
	if m.states.CurrentState() == state.ImageGen && m.states.CurrentSubState().Projecting() {
		if err := m.projection.PressReset(); err != nil {
			m.fail(err)
		}
		return
	}

	m.voice.Cancel()
	m.dropGeneration()
	if m.states.CurrentState() != state.Intro {
		m.placement.Reset(true)
	}

	if img, ok := m.latestImage(); ok {
		m.showImage(img)
		m.states.SetState(state.ImageGen)
		m.setSubState(state.Preview)
		return
	}
	m.states.SetState(state.Intro)
}

func (m *Manager) latestImage() (imagegen.Image, bool) {
	entry, ok := m.history.Latest()
	if !ok {
		return imagegen.Image{}, false
	}
	data, err := m.history.Image(entry.ID)
	if err != nil {
		logger.Warningf("cannot restore image %s: %v", entry.ID, err)
		return imagegen.Image{}, false
	}
	return imagegen.Image{ID: entry.ID, Prompt: entry.Prompt, PNG: data}, true
}

// GoToImageGen starts a new recording round.
func (m *Manager) GoToImageGen() {
	m.voice.Cancel()
	m.dropGeneration()
	m.states.SetState(state.ImageGen)
	m.setSubState(state.ReadyToRecord)
}

// GoToProjection starts surface detection for the current image.
func (m *Manager) GoToProjection() error {
	if m.current == nil {
		return errors.NotFoundf("generated image")
	}
	m.voice.Cancel()
	m.states.SetState(state.ImageGen)
	m.setSubState(state.SurfaceDetect)
	return nil
}

func (m *Manager) GoToHowToEdit() {
	m.states.SetState(state.HowToEdit)
}

func (m *Manager) GoToTracing() {
	m.states.SetState(state.Tracing)
}

// NextTutorialStep advances the tutorial; past the last page the tutorial
// is marked completed and tracing starts.
func (m *Manager) NextTutorialStep() {
	if m.states.CurrentState() != state.HowToEdit {
		return
	}
	if m.tutorial.Next() {
		return
	}
	if err := m.history.SetTutorialCompleted(); err != nil {
		logger.Warningf("persist tutorial completion: %v", err)
	}
	m.GoToTracing()
}

func (m *Manager) PrevTutorialStep() {
	if m.states.CurrentState() != state.HowToEdit {
		return
	}
	m.tutorial.Prev()
}

// TutorialCompleted reports whether the tutorial was finished in any session.
func (m *Manager) TutorialCompleted() bool {
	return m.history.TutorialCompleted()
}

// SetLocked locks or unlocks the traced image.
func (m *Manager) SetLocked(locked bool) {
	if m.locked == locked {
		return
	}
	m.locked = locked
	logger.Debugf("image lock %v", locked)
	if m.OnLockChange != nil {
		m.OnLockChange(locked)
	}
}

func (m *Manager) ToggleLock() bool {
	m.SetLocked(!m.locked)
	return m.locked
}

// SetImageOpacity clamps opacity to [0,1] and applies it to the image.
func (m *Manager) SetImageOpacity(opacity float32) {
	opacity = common.Clamp01(opacity)
	if opacity == m.opacity {
		return
	}
	m.opacity = opacity
	if m.image != nil {
		m.image.SetOpacity(opacity)
	}
	if m.OnOpacityChange != nil {
		m.OnOpacityChange(opacity)
	}
}

// PressPlace locks the anchor where the last surface hit was. Presses
// outside SURFACE_DETECTION are rejected with a not-valid error.
func (m *Manager) PressPlace() (placement.Result, error) {
	return m.projection.PressPlace()
}

func (m *Manager) PressConfirm() error {
	return m.projection.PressConfirm()
}

func (m *Manager) PressReset() error {
	return m.projection.PressReset()
}

func (m *Manager) setSubState(sub state.SubState) {
	if err := m.states.SetSubState(sub); err != nil {
		m.fail(err)
	}
}
