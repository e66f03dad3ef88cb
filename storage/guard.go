package storage

import (
	"github.com/juju/errors"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("lenstrace.storage")

// ErrUnavailable is returned by reads on a store that failed its probe.
const ErrUnavailable = errors.ConstError("store unavailable")

const probeKey = "__lenstrace_probe"

// Guard wraps a Store that may be unavailable. The backend is probed once at
// construction; if the probe fails every operation becomes a no-op.
type Guard struct {
	backend   Store
	available bool
}

func NewGuard(backend Store) *Guard {
	g := &Guard{backend: backend}
	if backend == nil {
		logger.Errorf("no persistent store wired; persistence disabled")
		return g
	}
	if err := probe(backend); err != nil {
		logger.Errorf("persistent store unavailable, persistence disabled: %v", err)
		return g
	}
	g.available = true
	return g
}

func probe(s Store) error {
	if err := s.PutString(probeKey, "1"); err != nil {
		return errors.Annotate(err, "write probe")
	}
	if _, err := s.GetString(probeKey); err != nil {
		return errors.Annotate(err, "read probe")
	}
	return errors.Annotate(s.Remove(probeKey), "remove probe")
}

// Available reports whether the backend passed its probe.
func (g *Guard) Available() bool {
	return g != nil && g.available
}

func (g *Guard) Has(key string) bool {
	if !g.Available() {
		return false
	}
	return g.backend.Has(key)
}

func (g *Guard) GetString(key string) (string, error) {
	if !g.Available() {
		return "", ErrUnavailable
	}
	return g.backend.GetString(key)
}

func (g *Guard) PutString(key, value string) error {
	if !g.Available() {
		return nil
	}
	return g.backend.PutString(key, value)
}

func (g *Guard) Remove(key string) error {
	if !g.Available() {
		return nil
	}
	return g.backend.Remove(key)
}
