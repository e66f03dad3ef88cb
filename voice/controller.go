package voice

import (
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/milk9111/lenstrace/frame"
)

var logger = loggo.GetLogger("lenstrace.voice")

const (
	ErrAlreadyRecording = errors.ConstError("already recording; stop the current recording first")
	ErrNoSpeech         = errors.ConstError("no speech detected")
)

// DefaultTimeout bounds a recording when the transcriber never finalizes.
const DefaultTimeout = 10 * time.Second

// Events receives transcription results. A transcriber may invoke them from
// any goroutine.
type Events struct {
	Partial func(text string)
	Final   func(text string)
	Error   func(err error)
}

// Transcriber is the speech-recognition capability.
type Transcriber interface {
	Start(events Events) error
	Stop() error
}

// Controller wraps a Transcriber with a single-recording guard and a
// timeout. All callbacks run on the frame thread.
type Controller struct {
	transcriber Transcriber
	timers      *frame.Timers
	mailbox     *frame.Mailbox
	timeout     time.Duration

	recording bool
	session   uint64
	partial   string
	timer     *frame.Timer
	warned    bool

	OnPartial func(text string)
	OnResult  func(transcript string)
	OnError   func(err error)
}

func NewController(t Transcriber, timers *frame.Timers, mailbox *frame.Mailbox, timeout time.Duration) *Controller {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Controller{
		transcriber: t,
		timers:      timers,
		mailbox:     mailbox,
		timeout:     timeout,
	}
	if t == nil {
		c.warned = true
		logger.Errorf("no transcriber available; voice input disabled")
	}
	return c
}

// Available reports whether a transcriber is wired.
func (c *Controller) Available() bool {
	return c != nil && c.transcriber != nil
}

func (c *Controller) Recording() bool {
	return c != nil && c.recording
}

// Partial returns the latest partial transcript of the current recording.
func (c *Controller) Partial() string {
	if c == nil {
		return ""
	}
	return c.partial
}

// Start begins a recording. It fails with ErrAlreadyRecording while one is
// in progress and does nothing when no transcriber is available.
func (c *Controller) Start() error {
	if c == nil {
		return nil
	}
	if c.transcriber == nil {
		if !c.warned {
			c.warned = true
			logger.Errorf("voice input requested but no transcriber is available")
		}
		return nil
	}
	if c.recording {
		return ErrAlreadyRecording
	}

	c.session++
	session := c.session
	c.recording = true
	c.partial = ""

	err := c.transcriber.Start(Events{
		Partial: func(text string) { c.post(func() { c.handlePartial(session, text) }) },
		Final:   func(text string) { c.post(func() { c.handleFinal(session, text) }) },
		Error:   func(err error) { c.post(func() { c.finish(session, "", err) }) },
	})
	if err != nil {
		c.recording = false
		return errors.Annotate(err, "start transcription")
	}
	c.timer = c.timers.After(c.timeout.Seconds(), func() { c.handleTimeout(session) })
	logger.Debugf("recording started (session %d)", session)
	return nil
}

// Stop asks the transcriber to finalize. The result arrives through
// OnResult, or through the timeout if the transcriber never answers.
func (c *Controller) Stop() {
	if c == nil || !c.recording || c.transcriber == nil {
		return
	}
	if err := c.transcriber.Stop(); err != nil {
		logger.Warningf("stop transcription: %v", err)
	}
}

// Cancel abandons the current recording without reporting a result.
func (c *Controller) Cancel() {
	if c == nil || !c.recording {
		return
	}
	c.session++
	c.recording = false
	c.timer.Stop()
	if err := c.transcriber.Stop(); err != nil {
		logger.Warningf("stop transcription: %v", err)
	}
	logger.Debugf("recording cancelled")
}

func (c *Controller) post(fn func()) {
	if c.mailbox == nil {
		fn()
		return
	}
	c.mailbox.Post(fn)
}

func (c *Controller) handlePartial(session uint64, text string) {
	if session != c.session || !c.recording {
		return
	}
	c.partial = text
	if c.OnPartial != nil {
		c.OnPartial(text)
	}
}

func (c *Controller) handleFinal(session uint64, text string) {
	if strings.TrimSpace(text) == "" {
		text = c.partial
	}
	c.finish(session, text, nil)
}

func (c *Controller) handleTimeout(session uint64) {
	if session != c.session || !c.recording {
		return
	}
	logger.Infof("recording timed out after %v", c.timeout)
	if err := c.transcriber.Stop(); err != nil {
		logger.Warningf("stop transcription: %v", err)
	}
	c.finish(session, c.partial, nil)
}

func (c *Controller) finish(session uint64, text string, err error) {
	if session != c.session || !c.recording {
		return
	}
	c.recording = false
	c.timer.Stop()

	text = strings.TrimSpace(text)
	switch {
	case err != nil:
		c.fail(errors.Annotate(err, "transcription"))
	case text == "":
		c.fail(ErrNoSpeech)
	default:
		logger.Debugf("transcript %q", text)
		if c.OnResult != nil {
			c.OnResult(text)
		}
	}
}

func (c *Controller) fail(err error) {
	logger.Infof("voice input failed: %v", err)
	if c.OnError != nil {
		c.OnError(err)
	}
}
