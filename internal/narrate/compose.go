// Package narrate composes the spoken form of console items. Each item
// kind expands to a fixed sequence of speech segments with voice, rate,
// pitch, and volume resolved from the user's speech profile at compose
// time, so later profile edits never leak into a queued track.
package narrate

import (
	"strings"
	"time"
	"unicode"

	"github.com/hyaochen/echolingo-lab/internal/speech"
	"github.com/hyaochen/echolingo-lab/internal/vocab"
)

// SegmentGap is the silence between consecutive segments of a track.
const SegmentGap = 100 * time.Millisecond

// hostedLangs maps profile buckets to hosted engine language codes.
var hostedLangs = map[string]string{
	vocab.BucketEnglish:  "en",
	vocab.BucketMandarin: "zh-CN",
	vocab.BucketJapanese: "ja",
}

// VocabularySegments narrates a vocabulary item: the word, its spelling
// letter by letter, then the meaning in Mandarin.
func VocabularySegments(item vocab.VocabularyItem, p vocab.SpeechProfile) []speech.Segment {
	return []speech.Segment{
		segment(item.Word, vocab.BucketEnglish, p),
		segment(SpellOut(item.Word), vocab.BucketEnglish, p),
		segment(item.Meaning, vocab.BucketMandarin, p),
	}
}

// SentenceSegments narrates a sentence item: the Japanese sentence, then
// its meaning in Mandarin.
func SentenceSegments(item vocab.SentenceItem, p vocab.SpeechProfile) []speech.Segment {
	return []speech.Segment{
		segment(item.Sentence, vocab.BucketJapanese, p),
		segment(item.Meaning, vocab.BucketMandarin, p),
	}
}

// SpellOut renders a word letter by letter for dictation. Non-letters
// are dropped and the rest uppercased; a word with no letters at all is
// spelled from its raw characters instead.
func SpellOut(word string) string {
	var out []string
	for _, r := range word {
		if unicode.IsLetter(r) {
			out = append(out, string(unicode.ToUpper(r)))
		}
	}
	if len(out) == 0 {
		for _, r := range word {
			if !unicode.IsSpace(r) {
				out = append(out, string(r))
			}
		}
	}
	return strings.Join(out, ", ")
}

func segment(text, bucket string, p vocab.SpeechProfile) speech.Segment {
	return speech.Segment{
		Text:         text,
		Voice:        p.Voices[bucket],
		Lang:         hostedLangs[bucket],
		Rate:         p.Rates[bucket],
		Pitch:        p.Pitches[bucket],
		LocalVolume:  p.LocalVolumes[bucket],
		HostedVolume: p.HostedVolumes[bucket],
	}
}
