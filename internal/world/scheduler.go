package world

import (
	"cmp"
	"slices"
	"sync"
	"time"
)

type task struct {
	due time.Time
	seq uint64
	fn  func()
}

// Scheduler holds delayed work that runs on the world tick.
type Scheduler struct {
	mu      sync.Mutex
	now     func() time.Time
	pending []task
	seq     uint64
}

func NewScheduler(now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{now: now}
}

// After queues fn to run on the first tick at least d from now.
func (s *Scheduler) After(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = append(s.pending, task{due: s.now().Add(d), seq: s.seq, fn: fn})
	s.seq++
}

// RunDue runs every task that is due, oldest first, and returns how many ran.
// Tasks queued by a running task wait for the next call.
func (s *Scheduler) RunDue() int {
	s.mu.Lock()
	now := s.now()
	var due, later []task
	for _, t := range s.pending {
		if t.due.After(now) {
			later = append(later, t)
		} else {
			due = append(due, t)
		}
	}
	s.pending = later
	s.mu.Unlock()

	slices.SortFunc(due, func(a, b task) int {
		if c := a.due.Compare(b.due); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})

	for _, t := range due {
		t.fn()
	}
	return len(due)
}

func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
