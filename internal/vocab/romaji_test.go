package vocab

import "testing"

// TestRomanize verifies the kana-to-Hepburn reading across the rules the
// converter applies: digraphs, gemination, long vowels, katakana folding,
// and passthrough of everything it cannot read.
func TestRomanize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain hiragana", "こんにちは", "konnichiha"},
		{"trailing vowel", "ありがとう", "arigatou"},
		{"digraph", "きょう", "kyou"},
		{"digraph with dakuten", "じゃあね", "jaane"},
		{"sokuon doubles consonant", "がっこう", "gakkou"},
		{"sokuon before chi", "こっち", "kotchi"},
		{"sokuon mid word", "まって", "matte"},
		{"dangling sokuon dropped", "あっ", "a"},
		{"decomposed dakuten normalized", "が", "ga"},
		{"katakana folds", "ラーメン", "raamen"},
		{"long vowel mark", "スーパー", "suupaa"},
		{"leading long vowel mark ignored", "ーす", "su"},
		{"sentence punctuation", "おはようございます。", "ohayougozaimasu."},
		{"comma pause", "はい、そうです", "hai, soudesu"},
		{"quote brackets dropped", "「すごい」", "sugoi"},
		{"kanji passes through", "駅はどこですか。", "駅hadokodesuka."},
		{"latin passes through", "hello", "hello"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Romanize(tt.in); got != tt.want {
				t.Errorf("Romanize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestHasJapanese verifies script detection over kana and ideographs.
func TestHasJapanese(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"こんにちは", true},
		{"カタカナ", true},
		{"漢字", true},
		{"hello world", false},
		{"123!?", false},
		{"", false},
		{"mixed すこし latin", true},
	}

	for _, tt := range tests {
		if got := HasJapanese(tt.in); got != tt.want {
			t.Errorf("HasJapanese(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
