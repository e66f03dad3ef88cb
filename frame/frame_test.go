package frame

import (
	"sync"
	"testing"
)

func TestSchedulerOrder(t *testing.T) {
	var order []string
	s := NewScheduler(
		SystemFunc(func(float64) { order = append(order, "surface") }),
		SystemFunc(func(float64) { order = append(order, "placement") }),
	)
	s.Add(SystemFunc(func(float64) { order = append(order, "projection") }))
	s.Add(nil)

	s.Update(0.016)

	want := []string{"surface", "placement", "projection"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestTimers(t *testing.T) {
	cases := []struct {
		name   string
		delay  float64
		steps  []float64
		fired  bool
		stopAt int // -1 = never
	}{
		{"fires_after_delay", 0.1, []float64{0.05, 0.05}, true, -1},
		{"not_yet", 0.5, []float64{0.1, 0.1}, false, -1},
		{"stopped", 0.1, []float64{0.05, 0.05}, false, 1},
		{"zero_delay_fires_next_update", 0, []float64{0}, true, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ts := NewTimers()
			fired := 0
			timer := ts.After(c.delay, func() { fired++ })
			for i, dt := range c.steps {
				if i == c.stopAt {
					timer.Stop()
				}
				ts.Update(dt)
			}
			if (fired == 1) != c.fired {
				t.Fatalf("expected fired=%v, got %d calls", c.fired, fired)
			}
			ts.Update(1)
			if fired > 1 {
				t.Fatalf("timer fired more than once")
			}
			if ts.Len() != 0 {
				t.Fatalf("expected no pending timers, got %d", ts.Len())
			}
		})
	}
}

func TestTimerScheduledFromCallbackWaitsForNextFrame(t *testing.T) {
	ts := NewTimers()
	second := false
	ts.After(0, func() {
		ts.After(0, func() { second = true })
	})
	ts.Update(0.016)
	if second {
		t.Fatalf("nested timer should not fire in the same update")
	}
	ts.Update(0.016)
	if !second {
		t.Fatalf("nested timer should fire on the next update")
	}
}

func TestMailboxDrainsPostsFromGoroutines(t *testing.T) {
	var m Mailbox
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Post(func() {})
		}()
	}
	wg.Wait()
	if n := m.Drain(); n != 8 {
		t.Fatalf("expected 8 callbacks, got %d", n)
	}
	if n := m.Drain(); n != 0 {
		t.Fatalf("expected empty mailbox, got %d", n)
	}
}

func TestLoopOrder(t *testing.T) {
	var order []string
	l := NewLoop(SystemFunc(func(float64) { order = append(order, "system") }))
	l.Timers.After(0, func() { order = append(order, "timer") })
	l.Mailbox.Post(func() { order = append(order, "mail") })

	l.Tick(0.016)

	if len(order) != 3 || order[0] != "mail" || order[1] != "timer" || order[2] != "system" {
		t.Fatalf("unexpected order %v", order)
	}
	if l.Frames() != 1 {
		t.Fatalf("expected 1 frame, got %d", l.Frames())
	}
}
