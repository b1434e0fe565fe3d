package news

import (
	"reflect"
	"testing"
)

// TestExtractWords verifies stopword, length, known-word, and dedupe
// filtering plus the candidate cap.
func TestExtractWords(t *testing.T) {
	article := Article{
		Title:   "Rescue teams search flooded villages",
		Summary: "Officials said more rain will come after the storm, rescue efforts continue",
	}

	tests := []struct {
		name  string
		a     Article
		known map[string]bool
		max   int
		want  []string
	}{
		{
			"filters stopwords short and known words",
			article,
			map[string]bool{"storm": true},
			0,
			[]string{"rescue", "teams", "search", "flooded", "villages", "officials", "rain", "efforts", "continue"},
		},
		{
			"cap stops early",
			article,
			nil,
			3,
			[]string{"rescue", "teams", "search"},
		},
		{
			"mixed script tokens dropped",
			Article{Title: "東京tower NATOホテル plan"},
			nil,
			0,
			[]string{"plan"},
		},
		{
			"empty article",
			Article{},
			nil,
			0,
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractWords(tt.a, tt.known, tt.max)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractWords = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestExtractSentences verifies CJK terminator splitting, the Japanese
// content requirement, dedupe, and the cap.
func TestExtractSentences(t *testing.T) {
	tests := []struct {
		name string
		a    Article
		max  int
		want []string
	}{
		{
			"splits on terminators and keeps them",
			Article{
				Title:   "台風が接近。避難を呼びかけ",
				Summary: "Heavy rain expected soon！はい。台風が接近。",
			},
			0,
			[]string{"台風が接近。", "避難を呼びかけ"},
		},
		{
			"question and exclamation marks terminate",
			Article{Title: "すごい！どうして雨が降るの？"},
			0,
			[]string{"すごい！", "どうして雨が降るの？"},
		},
		{
			"cap stops early",
			Article{Title: "一つ目の文です。二つ目の文です。"},
			1,
			[]string{"一つ目の文です。"},
		},
		{
			"no japanese text",
			Article{Title: "Just an English headline."},
			0,
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSentences(tt.a, tt.max)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractSentences = %v, want %v", got, tt.want)
			}
		})
	}
}
