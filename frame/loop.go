package frame

// Loop is one host frame: queued callbacks, then timers, then systems.
type Loop struct {
	Mailbox   *Mailbox
	Timers    *Timers
	Scheduler *Scheduler
	frames    uint64
}

func NewLoop(systems ...System) *Loop {
	return &Loop{
		Mailbox:   &Mailbox{},
		Timers:    NewTimers(),
		Scheduler: NewScheduler(systems...),
	}
}

func (l *Loop) Tick(dt float64) {
	if l == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	l.frames++
	l.Mailbox.Drain()
	l.Timers.Update(dt)
	l.Scheduler.Update(dt)
}

func (l *Loop) Frames() uint64 {
	if l == nil {
		return 0
	}
	return l.frames
}
