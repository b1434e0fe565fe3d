package review

import (
	"reflect"
	"testing"
	"time"

	"github.com/hyaochen/echolingo-lab/internal/vocab"
)

func groupFixture() []vocab.VocabularyItem {
	return []vocab.VocabularyItem{
		{ID: "1", Word: "apple", Meaning: "苹果", Tags: []string{"fruit", "news"}},
		{ID: "2", Word: "stone", Meaning: "石头", Tags: []string{"nature"}, NeedsWork: true,
			Progress: vocab.Progress{Level: 1, LastReviewedAt: reviewedAgo(23 * time.Hour)}},
		{ID: "3", Word: "river", Meaning: "河流", Tags: []string{"nature", "News"},
			Progress: vocab.Progress{Level: 1, LastReviewedAt: reviewedAgo(25 * time.Hour)}},
		{ID: "4", Word: "bread", Meaning: "面包", NeedsWork: true,
			Progress: vocab.Progress{Level: 5, LastReviewedAt: reviewedAgo(24 * time.Hour)}},
		{ID: "5", Word: "cloud", Meaning: "云"},
	}
}

func itemIDs[T Item](items []T) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ItemID()
	}
	return ids
}

// TestSelectGroup exercises every group key against one fixture list,
// checking membership and order preservation.
func TestSelectGroup(t *testing.T) {
	sched := fixedScheduler()

	tests := []struct {
		name     string
		groupKey string
		want     []string
	}{
		{"all", GroupAll, []string{"1", "2", "3", "4", "5"}},
		{"unknown key selects all", "favorites", []string{"1", "2", "3", "4", "5"}},
		{"empty key selects all", "", []string{"1", "2", "3", "4", "5"}},
		{"due", GroupDue, []string{"1", "3", "5"}},
		{"needs work", GroupNeedsWork, []string{"2", "4"}},
		{"tag membership", "tag:news", []string{"1", "3"}},
		{"tag folds case", "tag:NEWS", []string{"1", "3"}},
		{"tag with no members", "tag:kitchen", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := itemIDs(SelectGroup(groupFixture(), tt.groupKey, sched))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SelectGroup(%q) = %v, want %v", tt.groupKey, got, tt.want)
			}
		})
	}
}

// TestSelectGroupSentences verifies the same selection works over the
// sentence list, where needs-work can never match.
func TestSelectGroupSentences(t *testing.T) {
	sched := fixedScheduler()
	items := []vocab.SentenceItem{
		{ID: "s1", Sentence: "こんにちは", Meaning: "你好", Tags: []string{"greeting"}},
		{ID: "s2", Sentence: "ありがとう", Meaning: "谢谢"},
	}

	if got := itemIDs(SelectGroup(items, "tag:greeting", sched)); !reflect.DeepEqual(got, []string{"s1"}) {
		t.Errorf("SelectGroup(tag:greeting) = %v, want [s1]", got)
	}
	if got := SelectGroup(items, GroupNeedsWork, sched); len(got) != 0 {
		t.Errorf("SelectGroup(needs-work) over sentences = %v, want empty", itemIDs(got))
	}
}

// TestSearch verifies case-insensitive substring matching over word,
// gloss, and tags.
func TestSearch(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query selects all", "", []string{"1", "2", "3", "4", "5"}},
		{"blank query selects all", "   ", []string{"1", "2", "3", "4", "5"}},
		{"word substring", "app", []string{"1"}},
		{"word case folded", "APP", []string{"1"}},
		{"gloss substring", "石", []string{"2"}},
		{"tag substring", "natu", []string{"2", "3"}},
		{"no match", "zeppelin", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := itemIDs(Search(groupFixture(), tt.query))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}
