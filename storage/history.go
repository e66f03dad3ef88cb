package storage

import (
	"encoding/base64"
	"encoding/json"
	"slices"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
)

// DefaultMaxEntries caps the image history when no limit is configured.
const DefaultMaxEntries = 10

// Entry is the metadata kept for one generated image.
type Entry struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	CreatedAt time.Time `json:"created_at"`
}

// History keeps generated images and session flags in a Store. Images are
// stored as base64 blobs; metadata is a JSON list ordered oldest first.
type History struct {
	store Store
	clock clock.Clock
	max   int
}

func NewHistory(store Store, clk clock.Clock, maxEntries int) *History {
	if clk == nil {
		clk = clock.WallClock
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{store: store, clock: clk, max: maxEntries}
}

// Entries returns the history, oldest first.
func (h *History) Entries() ([]Entry, error) {
	if h == nil || h.store == nil || !h.store.Has(KeyHistory) {
		return nil, nil
	}
	raw, err := h.store.GetString(KeyHistory)
	if err != nil {
		return nil, errors.Trace(err)
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, errors.Annotatef(err, "decode %s", KeyHistory)
	}
	return entries, nil
}

// Len returns the number of stored images, or zero if the history is
// unreadable.
func (h *History) Len() int {
	entries, err := h.Entries()
	if err != nil {
		logger.Warningf("image history unreadable: %v", err)
		return 0
	}
	return len(entries)
}

// Latest returns the most recently added entry.
func (h *History) Latest() (Entry, bool) {
	entries, err := h.Entries()
	if err != nil || len(entries) == 0 {
		return Entry{}, false
	}
	return entries[len(entries)-1], true
}

// Add stores a new image and returns its entry. Re-adding an id moves it to
// the newest position. The oldest entries and their blobs are evicted beyond
// the cap.
func (h *History) Add(id, prompt string, png []byte) (Entry, error) {
	if h == nil || h.store == nil {
		return Entry{}, errors.NotFoundf("store")
	}
	if id == "" {
		return Entry{}, errors.NotValidf("empty image id")
	}
	entries, err := h.Entries()
	if err != nil {
		return Entry{}, errors.Trace(err)
	}

	if err := h.store.PutString(ImageKey(id), base64.StdEncoding.EncodeToString(png)); err != nil {
		return Entry{}, errors.Annotatef(err, "store image %s", id)
	}
	entry := Entry{ID: id, Prompt: prompt, CreatedAt: h.clock.Now().UTC()}
	entries = slices.DeleteFunc(entries, func(e Entry) bool { return e.ID == id })
	entries = append(entries, entry)

	for len(entries) > h.max {
		evicted := entries[0]
		entries = entries[1:]
		if err := h.store.Remove(ImageKey(evicted.ID)); err != nil {
			logger.Warningf("removing evicted image %s: %v", evicted.ID, err)
		}
		logger.Debugf("evicted image %s from history", evicted.ID)
	}

	if err := h.save(entries); err != nil {
		return Entry{}, errors.Trace(err)
	}
	return entry, nil
}

func (h *History) save(entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Annotatef(h.store.PutString(KeyHistory, string(data)), "store %s", KeyHistory)
}

// Image returns the decoded blob for id.
func (h *History) Image(id string) ([]byte, error) {
	if h == nil || h.store == nil {
		return nil, errors.NotFoundf("store")
	}
	raw, err := h.store.GetString(ImageKey(id))
	if err != nil {
		return nil, errors.Trace(err)
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, errors.Annotatef(err, "decode image %s", id)
	}
	return data, nil
}

// SetLastConfirmed records the image the user confirmed for projection.
func (h *History) SetLastConfirmed(id string) error {
	if h == nil || h.store == nil {
		return nil
	}
	return errors.Trace(h.store.PutString(KeyLastConfirmed, id))
}

func (h *History) LastConfirmed() (string, bool) {
	if h == nil || h.store == nil || !h.store.Has(KeyLastConfirmed) {
		return "", false
	}
	id, err := h.store.GetString(KeyLastConfirmed)
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

func (h *History) TutorialCompleted() bool {
	if h == nil || h.store == nil || !h.store.Has(KeyTutorialCompleted) {
		return false
	}
	v, err := h.store.GetString(KeyTutorialCompleted)
	return err == nil && v == "true"
}

func (h *History) SetTutorialCompleted() error {
	if h == nil || h.store == nil {
		return nil
	}
	return errors.Trace(h.store.PutString(KeyTutorialCompleted, "true"))
}
