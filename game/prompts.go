package game

import (
	"strings"

	"github.com/juju/errors"
	"github.com/milk9111/lenstrace/imagegen"
	"github.com/milk9111/lenstrace/state"
	"github.com/milk9111/lenstrace/voice"
)

const ErrAlreadyGenerating = errors.ConstError("an image is already being generated")

// StartRecording begins voice input in IMAGE_GEN.
func (m *Manager) StartRecording() error {
	if m.states.CurrentState() != state.ImageGen {
		return errors.NotValidf("recording in state %s", m.states.CurrentState())
	}
	if m.generating {
		return ErrAlreadyGenerating
	}
	if err := m.voice.Start(); err != nil {
		return err
	}
	if m.voice.Recording() {
		m.setSubState(state.Recording)
	}
	return nil
}

// StopRecording asks for the final transcript; it is handled on a later
// frame.
func (m *Manager) StopRecording() {
	m.voice.Stop()
}

// HandleTranscript routes a final transcript to a command or a prompt.
func (m *Manager) HandleTranscript(transcript string) {
	cmd := voice.Command{Action: voice.ActionGenerate, Prompt: strings.TrimSpace(transcript)}
	if m.router != nil {
		routed, err := m.router.Route(transcript)
		if err != nil {
			logger.Warningf("routing %q: %v", transcript, err)
		} else {
			cmd = routed
		}
	}
	if err := m.HandleVoiceCommand(cmd); err != nil {
		m.fail(err)
	}
}

// HandleVoiceCommand runs a routed command.
func (m *Manager) HandleVoiceCommand(cmd voice.Command) error {
	if m.states.CurrentSubState() == state.Recording && cmd.Action != voice.ActionGenerate {
		m.setSubState(state.ReadyToRecord)
	}

	switch cmd.Action {
	case voice.ActionNone:
		return nil
	case voice.ActionGenerate:
		err := m.SubmitPrompt(cmd.Prompt)
		if err != nil && m.states.CurrentSubState() == state.Recording {
			m.setSubState(state.ReadyToRecord)
		}
		return err
	case voice.ActionHome:
		m.GoHome()
	case voice.ActionProjection:
		return m.GoToProjection()
	case voice.ActionHowToEdit:
		m.GoToHowToEdit()
	case voice.ActionTracing:
		m.GoToTracing()
	case voice.ActionLock:
		m.SetLocked(true)
	case voice.ActionUnlock:
		m.SetLocked(false)
	case voice.ActionRetry:
		return m.Retry()
	case voice.ActionPlace:
		_, err := m.PressPlace()
		return err
	case voice.ActionConfirm:
		if m.states.CurrentSubState() == state.Preview {
			return m.ConfirmImage()
		}
		return m.PressConfirm()
	case voice.ActionReset:
		return m.PressReset()
	default:
		return errors.NotValidf("voice action %q", cmd.Action)
	}
	return nil
}

// SubmitPrompt generates an image off the frame thread. The result is
// applied on a later frame.
func (m *Manager) SubmitPrompt(prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return errors.NotValidf("empty prompt")
	}
	if m.generator == nil {
		if m.states.CurrentState() == state.ImageGen {
			m.setSubState(state.ReadyToRecord)
		}
		return errors.NotFoundf("image generator")
	}
	if m.generating {
		return ErrAlreadyGenerating
	}
	if m.states.CurrentState() != state.ImageGen {
		m.states.SetState(state.ImageGen)
	}

	m.genSeq++
	seq := m.genSeq
	m.generating = true
	m.setSubState(state.Generating)
	logger.Infof("generating %q", prompt)

	gen, ctx, mailbox := m.generator, m.ctx, m.loop.Mailbox
	go func() {
		img, err := gen.Generate(ctx, prompt)
		mailbox.Post(func() { m.finishGeneration(seq, img, err) })
	}()
	return nil
}

func (m *Manager) finishGeneration(seq uint64, img imagegen.Image, err error) {
	if seq != m.genSeq {
		logger.Debugf("dropping stale generation result")
		return
	}
	m.generating = false
	if m.states.CurrentState() != state.ImageGen || m.states.CurrentSubState() != state.Generating {
		logger.Debugf("generation finished after leaving GENERATING; result dropped")
		return
	}
	if err != nil {
		m.setSubState(state.ReadyToRecord)
		m.fail(errors.Annotate(err, "generate image"))
		return
	}

	if _, err := m.history.Add(img.ID, img.Prompt, img.PNG); err != nil {
		logger.Warningf("saving image to history: %v", err)
	}
	m.showImage(img)
	if m.OnImage != nil {
		m.OnImage(img)
	}
	m.setSubState(state.Preview)
}

func (m *Manager) showImage(img imagegen.Image) {
	m.current = &img
	if m.image != nil {
		m.image.SetImage(img)
		m.image.SetOpacity(m.opacity)
	}
}

func (m *Manager) dropGeneration() {
	if m.generating {
		m.genSeq++
		m.generating = false
	}
}

// ConfirmImage accepts the previewed image and starts projection.
func (m *Manager) ConfirmImage() error {
	if m.current == nil || m.states.CurrentSubState() != state.Preview {
		return errors.NotValidf("confirm without a previewed image")
	}
	if err := m.history.SetLastConfirmed(m.current.ID); err != nil {
		logger.Warningf("persist confirmed image: %v", err)
	}
	return m.GoToProjection()
}

// Retry discards the preview or any in-flight generation and records again.
func (m *Manager) Retry() error {
	if m.states.CurrentState() != state.ImageGen {
		return errors.NotValidf("retry in state %s", m.states.CurrentState())
	}
	m.voice.Cancel()
	m.dropGeneration()
	m.setSubState(state.ReadyToRecord)
	return nil
}

func (m *Manager) voiceFailed(err error) {
	if m.states.CurrentSubState() == state.Recording {
		m.setSubState(state.ReadyToRecord)
	}
	m.fail(err)
}
