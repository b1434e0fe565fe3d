package review

import (
	"testing"
	"time"

	"github.com/hyaochen/echolingo-lab/internal/vocab"
)

var schedNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func fixedScheduler() *Scheduler {
	return NewScheduler(WithClock(func() time.Time { return schedNow }))
}

func reviewedAgo(d time.Duration) *time.Time {
	ts := schedNow.Add(-d)
	return &ts
}

// TestIsDue verifies the wait table: due outside the window, not due
// inside it, always due when never reviewed.
func TestIsDue(t *testing.T) {
	s := fixedScheduler()

	tests := []struct {
		name  string
		level int
		last  *time.Time
		want  bool
	}{
		{"never reviewed", 3, nil, true},
		{"level zero due immediately", 0, reviewedAgo(0), true},
		{"level one inside window", 1, reviewedAgo(23 * time.Hour), false},
		{"level one at boundary", 1, reviewedAgo(24 * time.Hour), true},
		{"level one past window", 1, reviewedAgo(25 * time.Hour), true},
		{"top level inside window", 5, reviewedAgo(29 * 24 * time.Hour), false},
		{"top level past window", 5, reviewedAgo(31 * 24 * time.Hour), true},
		{"beyond table reuses last entry", 9, reviewedAgo(29 * 24 * time.Hour), false},
		{"beyond table past window", 9, reviewedAgo(31 * 24 * time.Hour), true},
		{"negative level treated as zero", -2, reviewedAgo(time.Minute), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.IsDue(tt.level, tt.last); got != tt.want {
				t.Errorf("IsDue(%d, %v) = %v, want %v", tt.level, tt.last, got, tt.want)
			}
		})
	}
}

// TestAdvance verifies the level step, the ceiling clamp, and the
// review timestamp.
func TestAdvance(t *testing.T) {
	s := fixedScheduler()

	p := vocab.Progress{Level: 0}
	s.Advance(&p)
	if p.Level != 1 {
		t.Errorf("level = %d, want 1", p.Level)
	}
	if p.LastReviewedAt == nil || !p.LastReviewedAt.Equal(schedNow) {
		t.Errorf("lastReviewedAt = %v, want %v", p.LastReviewedAt, schedNow)
	}

	p = vocab.Progress{Level: vocab.MaxLevel, LastReviewedAt: reviewedAgo(48 * time.Hour)}
	s.Advance(&p)
	if p.Level != vocab.MaxLevel {
		t.Errorf("level at ceiling = %d, want %d", p.Level, vocab.MaxLevel)
	}
	if !p.LastReviewedAt.Equal(schedNow) {
		t.Errorf("lastReviewedAt = %v, want refreshed to %v", p.LastReviewedAt, schedNow)
	}
}

// TestReviewCycle verifies a fresh item is due, reviewing it moves it
// into the level-one wait window, and it stops being due.
func TestReviewCycle(t *testing.T) {
	s := fixedScheduler()
	p := vocab.Progress{}

	if !s.IsDue(p.Level, p.LastReviewedAt) {
		t.Fatal("fresh item not due")
	}

	s.Advance(&p)

	if p.Level != 1 {
		t.Fatalf("level after review = %d, want 1", p.Level)
	}
	if s.IsDue(p.Level, p.LastReviewedAt) {
		t.Error("item due immediately after review, want a one-day wait")
	}
}
