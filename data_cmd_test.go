package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hyaochen/echolingo-lab/internal/vocab"
)

// TestWriteWorkbook verifies the exported workbook carries one sheet per
// item kind, with header rows and the record's data underneath.
func TestWriteWorkbook(t *testing.T) {
	reviewed := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	rec := &vocab.Record{
		Vocabulary: []vocab.VocabularyItem{
			{
				ID:        vocab.NewID(),
				Word:      "ubiquitous",
				Meaning:   "found everywhere",
				Tags:      []string{"adjective", "formal"},
				NeedsWork: true,
				Progress:  vocab.Progress{Level: 3, LastReviewedAt: &reviewed},
			},
		},
		Sentences: []vocab.SentenceItem{
			{
				ID:           vocab.NewID(),
				Sentence:     "猫が好きです",
				Romanization: "neko ga suki desu",
				Meaning:      "I like cats",
				VocabularyGlosses: []vocab.VocabularyGloss{
					{Term: "猫", Gloss: "cat"},
					{Term: "好き", Gloss: "to like"},
				},
			},
		},
	}

	out := filepath.Join(t.TempDir(), "export.xlsx")
	if err := writeWorkbook(out, rec); err != nil {
		t.Fatalf("writeWorkbook = %v", err)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("OpenFile = %v", err)
	}
	defer f.Close() //nolint:errcheck

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Vocabulary" || sheets[1] != "Sentences" {
		t.Fatalf("GetSheetList = %v, want [Vocabulary Sentences]", sheets)
	}

	cells := []struct {
		sheet, axis, want string
	}{
		{"Vocabulary", "A1", "Word"},
		{"Vocabulary", "F1", "Needs work"},
		{"Vocabulary", "A2", "ubiquitous"},
		{"Vocabulary", "C2", "adjective, formal"},
		{"Vocabulary", "D2", "3"},
		{"Vocabulary", "E2", "2026-03-14"},
		{"Vocabulary", "F2", "yes"},
		{"Sentences", "A1", "Sentence"},
		{"Sentences", "A2", "猫が好きです"},
		{"Sentences", "B2", "neko ga suki desu"},
		{"Sentences", "E2", "猫=cat; 好き=to like"},
		{"Sentences", "G2", ""},
	}
	for _, tt := range cells {
		got, err := f.GetCellValue(tt.sheet, tt.axis)
		if err != nil {
			t.Fatalf("GetCellValue(%s!%s) = %v", tt.sheet, tt.axis, err)
		}
		if got != tt.want {
			t.Errorf("%s!%s = %q, want %q", tt.sheet, tt.axis, got, tt.want)
		}
	}
}

// TestFormatGlosses verifies the term=gloss join used on the sentences
// sheet.
func TestFormatGlosses(t *testing.T) {
	tests := []struct {
		name  string
		pairs []vocab.VocabularyGloss
		want  string
	}{
		{"none", nil, ""},
		{"one", []vocab.VocabularyGloss{{Term: "猫", Gloss: "cat"}}, "猫=cat"},
		{
			"two",
			[]vocab.VocabularyGloss{{Term: "猫", Gloss: "cat"}, {Term: "犬", Gloss: "dog"}},
			"猫=cat; 犬=dog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatGlosses(tt.pairs); got != tt.want {
				t.Errorf("formatGlosses = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestFormatReviewed verifies never-reviewed items export as blank.
func TestFormatReviewed(t *testing.T) {
	if got := formatReviewed(nil); got != "" {
		t.Errorf("formatReviewed(nil) = %q, want empty", got)
	}
	ts := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	if got := formatReviewed(&ts); got != "2026-01-02" {
		t.Errorf("formatReviewed = %q, want %q", got, "2026-01-02")
	}
}
