package dom

import (
	"sort"
	"time"
)

// drainLimit bounds Drain against callbacks that keep rescheduling themselves.
const drainLimit = 10000

// Scheduler queues animation frames and timeouts against virtual time. Nothing
// runs until the owner calls Flush, Advance or Drain.
type Scheduler struct {
	now    time.Duration
	seq    int
	frames []func()
	timers []*timeout
}

type timeout struct {
	at        time.Duration
	seq       int
	fn        func()
	cancelled bool
}

// NewScheduler returns an empty scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the elapsed virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// RequestAnimationFrame queues fn for the next Flush.
func (s *Scheduler) RequestAnimationFrame(fn func()) {
	s.frames = append(s.frames, fn)
}

// SetTimeout queues fn to run once d of virtual time has elapsed. The
// returned func cancels it.
func (s *Scheduler) SetTimeout(d time.Duration, fn func()) (cancel func()) {
	s.seq++
	t := &timeout{at: s.now + d, seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return func() { t.cancelled = true }
}

// Pending returns the number of queued frames and live timers.
func (s *Scheduler) Pending() int {
	n := len(s.frames)
	for _, t := range s.timers {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Flush runs the frames queued so far. Frames requested while flushing run
// on the following Flush.
func (s *Scheduler) Flush() {
	frames := s.frames
	s.frames = nil
	for _, fn := range frames {
		fn()
	}
}

// Advance moves virtual time forward by d, flushing frames and firing due
// timers in deadline order.
func (s *Scheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		s.Flush()
		t := s.nextTimer()
		if t == nil || t.at > target {
			break
		}
		s.now = t.at
		s.removeTimer(t)
		t.fn()
	}
	s.now = target
	s.Flush()
}

// Drain runs every queued frame and timer, advancing time as needed.
func (s *Scheduler) Drain() {
	for i := 0; i < drainLimit; i++ {
		s.Flush()
		t := s.nextTimer()
		if t == nil {
			if len(s.frames) == 0 {
				return
			}
			continue
		}
		if t.at > s.now {
			s.now = t.at
		}
		s.removeTimer(t)
		t.fn()
	}
}

func (s *Scheduler) nextTimer() *timeout {
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	s.timers = live
	if len(live) == 0 {
		return nil
	}
	sort.SliceStable(live, func(i, j int) bool {
		if live[i].at != live[j].at {
			return live[i].at < live[j].at
		}
		return live[i].seq < live[j].seq
	})
	return live[0]
}

func (s *Scheduler) removeTimer(t *timeout) {
	for i, x := range s.timers {
		if x == t {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}
