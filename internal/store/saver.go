package store

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// saver coalesces bursts of mutation notifications into one save. Every
// Touch re-arms the timer, so the save lands one quiet delay after the
// last mutation. Close flushes whatever is still pending.
type saver struct {
	mu     sync.Mutex
	delay  time.Duration
	save   func() error
	timer  *time.Timer
	dirty  bool
	closed bool
}

func newSaver(delay time.Duration, save func() error) *saver {
	return &saver{delay: delay, save: save}
}

// Touch marks the data dirty and re-arms the delay.
func (s *saver) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.dirty = true
	if s.timer == nil {
		s.timer = time.AfterFunc(s.delay, s.fire)
		return
	}
	s.timer.Reset(s.delay)
}

func (s *saver) fire() {
	s.mu.Lock()
	if s.closed || !s.dirty {
		s.mu.Unlock()
		return
	}
	s.dirty = false
	s.mu.Unlock()

	if err := s.save(); err != nil {
		// The next mutation re-arms the timer and tries again.
		log.Error("autosave failed", "error", err)
	}
}

// Close stops the timer and flushes a pending save synchronously.
func (s *saver) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	flush := s.dirty
	s.dirty = false
	s.mu.Unlock()

	if flush {
		return s.save()
	}
	return nil
}
