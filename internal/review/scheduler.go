// Package review implements the spaced-repetition engine: due-ness
// scheduling, group selection, and the playback session that narrates a
// selected group item by item while advancing review progress.
package review

import (
	"time"

	"github.com/hyaochen/echolingo-lab/internal/vocab"
)

// waitDays maps a review level to the minimum days before the item is
// due again. Levels past the end reuse the last entry.
var waitDays = [...]int{0, 1, 3, 7, 14, 30}

// Scheduler computes due-ness and advances review progress. The clock
// is injectable so schedules can be tested deterministically.
type Scheduler struct {
	now func() time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the scheduler's time source.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// NewScheduler returns a scheduler reading the system clock unless an
// option replaces it.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsDue reports whether an item at the given level, last reviewed at the
// given time, is ready for review. A never-reviewed item is always due.
func (s *Scheduler) IsDue(level int, lastReviewedAt *time.Time) bool {
	if lastReviewedAt == nil {
		return true
	}
	wait := time.Duration(waitFor(level)) * 24 * time.Hour
	return !s.now().Before(lastReviewedAt.Add(wait))
}

// Advance records a completed review: the clock's now becomes the last
// review time and the level climbs one step, capped at the table
// ceiling. There is no decay path; levels never go down.
func (s *Scheduler) Advance(p *vocab.Progress) {
	now := s.now().UTC()
	p.LastReviewedAt = &now
	if p.Level < vocab.MaxLevel {
		p.Level++
	}
}

func waitFor(level int) int {
	if level < 0 {
		level = 0
	}
	if level >= len(waitDays) {
		level = len(waitDays) - 1
	}
	return waitDays[level]
}
