package voice

import (
	"strings"
	"sync"

	"github.com/juju/errors"
)

// Scripted is a Transcriber fed with text by the host, e.g. typed or pasted
// input in the simulator. Stop finalizes with the queued text.
type Scripted struct {
	mu      sync.Mutex
	events  *Events
	text    string
	started int
}

// SetText replaces the text delivered on the next Stop.
func (s *Scripted) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
}

// Say emits a partial transcript for the current recording.
func (s *Scripted) Say(text string) {
	s.mu.Lock()
	events := s.events
	s.mu.Unlock()
	if events != nil && events.Partial != nil {
		events.Partial(text)
	}
}

// Fail reports a recognition error for the current recording.
func (s *Scripted) Fail(err error) {
	s.mu.Lock()
	events := s.events
	s.events = nil
	s.mu.Unlock()
	if events != nil && events.Error != nil {
		events.Error(err)
	}
}

func (s *Scripted) Start(events Events) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.events != nil {
		return errors.New("transcriber busy")
	}
	s.events = &events
	s.started++
	return nil
}

func (s *Scripted) Stop() error {
	s.mu.Lock()
	events := s.events
	text := strings.TrimSpace(s.text)
	s.events = nil
	s.text = ""
	s.mu.Unlock()
	if events != nil && events.Final != nil {
		events.Final(text)
	}
	return nil
}

// Listening reports whether a recording is open.
func (s *Scripted) Listening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events != nil
}

// Starts returns how many recordings were opened.
func (s *Scripted) Starts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}
