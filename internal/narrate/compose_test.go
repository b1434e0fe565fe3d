package narrate

import (
	"testing"

	"github.com/hyaochen/echolingo-lab/internal/vocab"
)

func testProfile() vocab.SpeechProfile {
	return vocab.SpeechProfile{
		Engine: vocab.EngineLocal,
		Voices: map[string]string{
			vocab.BucketEnglish:  "en-gb",
			vocab.BucketMandarin: "zh",
			vocab.BucketJapanese: "ja",
		},
		Rates: map[string]float64{
			vocab.BucketEnglish:  1.5,
			vocab.BucketMandarin: 0.8,
			vocab.BucketJapanese: 1.0,
		},
		Pitches: map[string]float64{
			vocab.BucketEnglish:  1.0,
			vocab.BucketMandarin: 1.2,
			vocab.BucketJapanese: 1.0,
		},
		LocalVolumes: map[string]float64{
			vocab.BucketEnglish:  0.9,
			vocab.BucketMandarin: 1.0,
			vocab.BucketJapanese: 0.7,
		},
		HostedVolumes: map[string]float64{
			vocab.BucketEnglish:  0.5,
			vocab.BucketMandarin: 1.0,
			vocab.BucketJapanese: 0.6,
		},
	}
}

// TestVocabularySegments verifies the three-part narration and that each
// segment carries the parameters of its language bucket.
func TestVocabularySegments(t *testing.T) {
	item := vocab.VocabularyItem{Word: "apple", Meaning: "苹果"}
	segs := VocabularySegments(item, testProfile())

	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3", len(segs))
	}

	word := segs[0]
	if word.Text != "apple" {
		t.Errorf("word text = %q, want %q", word.Text, "apple")
	}
	if word.Voice != "en-gb" || word.Lang != "en" {
		t.Errorf("word voice, lang = %q, %q, want en-gb, en", word.Voice, word.Lang)
	}
	if word.Rate != 1.5 || word.LocalVolume != 0.9 || word.HostedVolume != 0.5 {
		t.Errorf("word params = %+v, want the english bucket values", word)
	}

	spell := segs[1]
	if spell.Text != "A, P, P, L, E" {
		t.Errorf("spelling text = %q, want %q", spell.Text, "A, P, P, L, E")
	}
	if spell.Voice != "en-gb" {
		t.Errorf("spelling voice = %q, want the english voice", spell.Voice)
	}

	meaning := segs[2]
	if meaning.Text != "苹果" {
		t.Errorf("meaning text = %q, want %q", meaning.Text, "苹果")
	}
	if meaning.Voice != "zh" || meaning.Lang != "zh-CN" {
		t.Errorf("meaning voice, lang = %q, %q, want zh, zh-CN", meaning.Voice, meaning.Lang)
	}
	if meaning.Rate != 0.8 || meaning.Pitch != 1.2 {
		t.Errorf("meaning params = %+v, want the mandarin bucket values", meaning)
	}
}

// TestSentenceSegments verifies the two-part narration with Japanese
// then Mandarin parameters.
func TestSentenceSegments(t *testing.T) {
	item := vocab.SentenceItem{Sentence: "おはよう", Meaning: "早上好"}
	segs := SentenceSegments(item, testProfile())

	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}

	if segs[0].Text != "おはよう" || segs[0].Voice != "ja" || segs[0].Lang != "ja" {
		t.Errorf("sentence segment = %+v, want japanese bucket", segs[0])
	}
	if segs[0].LocalVolume != 0.7 {
		t.Errorf("sentence local volume = %v, want 0.7", segs[0].LocalVolume)
	}
	if segs[1].Text != "早上好" || segs[1].Voice != "zh" || segs[1].Lang != "zh-CN" {
		t.Errorf("meaning segment = %+v, want mandarin bucket", segs[1])
	}
}

// TestSpellOut verifies letter extraction and the raw-character
// fallback for words with no letters.
func TestSpellOut(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple word", "apple", "A, P, P, L, E"},
		{"hyphenated", "ice-cream", "I, C, E, C, R, E, A, M"},
		{"apostrophe dropped", "don't", "D, O, N, T"},
		{"digits dropped", "b2b", "B, B"},
		{"no letters falls back to characters", "123", "1, 2, 3"},
		{"spaces never spelled", "a b", "A, B"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SpellOut(tt.in); got != tt.want {
				t.Errorf("SpellOut(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
