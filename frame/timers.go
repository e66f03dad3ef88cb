package frame

// Timer is a pending delayed callback.
type Timer struct {
	remaining float64
	fn        func()
	stopped   bool
}

// Stop cancels the timer. It reports whether the timer was still pending.
func (t *Timer) Stop() bool {
	if t == nil || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Pending reports whether the timer has neither fired nor been stopped.
func (t *Timer) Pending() bool {
	return t != nil && !t.stopped
}

// Timers is the frame-driven delayed-callback primitive. Timers decay by the
// frame delta and fire inside Update, never between frames.
type Timers struct {
	pending []*Timer
}

func NewTimers() *Timers {
	return &Timers{}
}

// After schedules fn to run once at least seconds have elapsed.
func (ts *Timers) After(seconds float64, fn func()) *Timer {
	t := &Timer{remaining: seconds, fn: fn}
	if ts == nil || fn == nil {
		t.stopped = true
		return t
	}
	ts.pending = append(ts.pending, t)
	return t
}

func (ts *Timers) Update(dt float64) {
	if ts == nil || len(ts.pending) == 0 {
		return
	}

	// Callbacks may schedule new timers; those start counting next frame.
	current := ts.pending
	ts.pending = nil

	var due []*Timer
	keep := current[:0]
	for _, t := range current {
		if t.stopped {
			continue
		}
		t.remaining -= dt
		if t.remaining <= 0 {
			due = append(due, t)
			continue
		}
		keep = append(keep, t)
	}
	ts.pending = append(keep, ts.pending...)

	for _, t := range due {
		if t.stopped {
			continue
		}
		t.stopped = true
		t.fn()
	}
}

// Len returns the number of timers still pending.
func (ts *Timers) Len() int {
	if ts == nil {
		return 0
	}
	n := 0
	for _, t := range ts.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}
