package frame

import "sync"

// Mailbox queues callbacks from other goroutines (capability callbacks,
// background generation) so they run on the frame thread.
type Mailbox struct {
	mu    sync.Mutex
	items []func()
}

// Post queues fn. Safe for concurrent use.
func (m *Mailbox) Post(fn func()) {
	if m == nil || fn == nil {
		return
	}
	m.mu.Lock()
	m.items = append(m.items, fn)
	m.mu.Unlock()
}

// Drain runs every queued callback in posting order. Callbacks posted while
// draining run on the next Drain.
func (m *Mailbox) Drain() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	items := m.items
	m.items = nil
	m.mu.Unlock()

	for _, fn := range items {
		fn()
	}
	return len(items)
}
