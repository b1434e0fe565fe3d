package review

import (
	"strings"
	"time"
)

// Group keys understood by SelectGroup. Anything else selects all items
// rather than failing.
const (
	GroupAll       = "all"
	GroupDue       = "due"
	GroupNeedsWork = "needs-work"

	// TagPrefix starts a tag-membership key, as in "tag:news".
	TagPrefix = "tag:"
)

// Item is the read surface both item kinds share. Vocabulary and
// sentence values satisfy it directly.
type Item interface {
	ItemID() string
	PrimaryText() string
	GlossText() string
	ItemTags() []string
	Flagged() bool
	ReviewLevel() int
	ReviewedAt() *time.Time
}

// SelectGroup returns the items matching groupKey, order preserved.
// "due" consults the scheduler, "needs-work" the item flag, "tag:<name>"
// tag membership with case folding. Unknown keys select everything.
func SelectGroup[T Item](items []T, groupKey string, sched *Scheduler) []T {
	if name, ok := strings.CutPrefix(groupKey, TagPrefix); ok {
		return filter(items, func(it T) bool { return hasTag(it, name) })
	}

	switch groupKey {
	case GroupDue:
		return filter(items, func(it T) bool { return sched.IsDue(it.ReviewLevel(), it.ReviewedAt()) })
	case GroupNeedsWork:
		return filter(items, func(it T) bool { return it.Flagged() })
	default:
		return filter(items, func(T) bool { return true })
	}
}

// Search narrows items to those where query is a case-insensitive
// substring of the primary text, the gloss, or any tag. An empty query
// matches everything. It composes with SelectGroup for browsing and is
// never part of queue construction.
func Search[T Item](items []T, query string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return filter(items, func(T) bool { return true })
	}
	return filter(items, func(it T) bool {
		if strings.Contains(strings.ToLower(it.PrimaryText()), q) {
			return true
		}
		if strings.Contains(strings.ToLower(it.GlossText()), q) {
			return true
		}
		for _, tag := range it.ItemTags() {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
		return false
	})
}

func filter[T Item](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func hasTag[T Item](it T, name string) bool {
	for _, tag := range it.ItemTags() {
		if strings.EqualFold(tag, name) {
			return true
		}
	}
	return false
}
