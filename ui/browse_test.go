package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/hyaochen/echolingo-lab/internal/review"
)

// TestPadCell tests truncation and padding to an exact display width.
func TestPadCell(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"pads short text", "fox", 6, "fox   "},
		{"keeps exact width", "lantern", 7, "lantern"},
		{"truncates with ellipsis", "impenetrable", 8, "impenet…"},
		{"pads wide runes by display width", "東京", 6, "東京  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := padCell(tt.in, tt.width); got != tt.want {
				t.Errorf("padCell(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

// TestLevelDots tests the schedule stage indicator.
func TestLevelDots(t *testing.T) {
	tests := []struct {
		name  string
		level int
		want  string
	}{
		{"fresh item", 0, "○○○○○"},
		{"mid schedule", 2, "●●○○○"},
		{"top of schedule", 5, "●●●●●"},
		{"clamps above the table", 9, "●●●●●"},
		{"clamps below zero", -1, "○○○○○"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := levelDots(tt.level); got != tt.want {
				t.Errorf("levelDots(%d) = %q, want %q", tt.level, got, tt.want)
			}
		})
	}
}

// TestFormatAgo tests the reviewed column formatting.
func TestFormatAgo(t *testing.T) {
	if got := formatAgo(nil); got != "never" {
		t.Errorf("formatAgo(nil) = %q, want %q", got, "never")
	}

	past := time.Now().Add(-2 * time.Hour)
	if got := formatAgo(&past); !strings.Contains(got, "ago") {
		t.Errorf("formatAgo(2h past) = %q, want something ending in ago", got)
	}
}

// TestMatchTags tests fuzzy tag filtering.
func TestMatchTags(t *testing.T) {
	tags := []string{"grammar", "travel", "verbs"}

	t.Run("empty query keeps the full set", func(t *testing.T) {
		got := matchTags("   ", tags)
		if len(got) != len(tags) {
			t.Errorf("matchTags(blank) returned %d tags, want %d", len(got), len(tags))
		}
	})

	t.Run("fuzzy match narrows the set", func(t *testing.T) {
		got := matchTags("gr", tags)
		if len(got) != 1 || got[0] != "grammar" {
			t.Errorf("matchTags(gr) = %v, want [grammar]", got)
		}
	})

	t.Run("no hits yields empty", func(t *testing.T) {
		if got := matchTags("zzz", tags); len(got) != 0 {
			t.Errorf("matchTags(zzz) = %v, want empty", got)
		}
	})
}

// TestNextGroupKey tests the group cycle order.
func TestNextGroupKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"all to due", review.GroupAll, review.GroupDue},
		{"due to needs-work", review.GroupDue, review.GroupNeedsWork},
		{"needs-work back to all", review.GroupNeedsWork, review.GroupAll},
		{"tag group back to all", "tag:travel", review.GroupAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextGroupKey(tt.key); got != tt.want {
				t.Errorf("nextGroupKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
