package news

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyaochen/echolingo-lab/internal/vocab"
)

const (
	minWordLen     = 4
	minSentenceLen = 4
	DefaultWordCap = 20
	DefaultSentCap = 10
)

// stopwords are common English words not worth studying. Shorter words
// never survive the length gate, so only longer ones are listed.
var stopwords = map[string]bool{
	"about": true, "above": true, "after": true, "again": true, "also": true,
	"back": true, "because": true, "been": true, "before": true, "being": true,
	"between": true, "both": true, "come": true, "could": true, "does": true,
	"down": true, "during": true, "each": true, "even": true, "every": true,
	"first": true, "from": true, "have": true, "having": true, "here": true,
	"into": true, "just": true, "like": true, "made": true, "make": true,
	"many": true, "more": true, "most": true, "much": true, "must": true,
	"never": true, "only": true, "other": true, "over": true, "said": true,
	"same": true, "says": true, "should": true, "since": true, "some": true,
	"still": true, "such": true, "take": true, "than": true, "that": true,
	"their": true, "them": true, "then": true, "there": true, "these": true,
	"they": true, "this": true, "those": true, "through": true, "time": true,
	"under": true, "until": true, "very": true, "want": true, "were": true,
	"what": true, "when": true, "where": true, "which": true, "while": true,
	"will": true, "with": true, "would": true, "year": true, "years": true,
	"your": true,
}

// ExtractWords proposes study candidates from an article: lowercased
// plain-letter tokens of a useful length, minus stopwords and words
// already known, first appearance first, capped at max.
func ExtractWords(a Article, known map[string]bool, max int) []string {
	if max <= 0 {
		max = DefaultWordCap
	}

	seen := make(map[string]bool)
	var out []string
	text := a.Title + " " + a.Summary
	for _, tok := range strings.FieldsFunc(text, func(r rune) bool { return !unicode.IsLetter(r) }) {
		w := strings.ToLower(tok)
		if !asciiWord(w) || len(w) < minWordLen {
			continue
		}
		if stopwords[w] || known[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
		if len(out) == max {
			break
		}
	}
	return out
}

// ExtractSentences proposes Japanese sentences from an article: split
// on the CJK terminators with the terminator kept, must actually
// contain Japanese text, deduplicated, capped at max.
func ExtractSentences(a Article, max int) []string {
	if max <= 0 {
		max = DefaultSentCap
	}

	seen := make(map[string]bool)
	var out []string
	for _, part := range append(splitSentences(a.Title), splitSentences(a.Summary)...) {
		if utf8.RuneCountInString(part) < minSentenceLen || !vocab.HasJapanese(part) || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
		if len(out) == max {
			break
		}
	}
	return out
}

// splitSentences cuts on 。！？, keeping the terminator with its
// sentence. Trailing text without a terminator is its own sentence.
func splitSentences(s string) []string {
	var out []string
	var b strings.Builder
	for _, r := range s {
		b.WriteRune(r)
		if r == '。' || r == '！' || r == '？' {
			if part := strings.TrimSpace(b.String()); part != "" {
				out = append(out, part)
			}
			b.Reset()
		}
	}
	if part := strings.TrimSpace(b.String()); part != "" {
		out = append(out, part)
	}
	return out
}

// asciiWord reports whether w is entirely plain lowercase letters, which
// is what separates an English study candidate from fragments of other
// scripts the tokenizer let through.
func asciiWord(w string) bool {
	if w == "" {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}
