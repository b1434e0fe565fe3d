package vocab

import "time"

// NormalizeVocabulary pushes one typed item through the same pipeline
// the sanitizer applies to raw input, so UI edits and disk loads obey
// identical rules. ok is false when the item fails the non-empty-word
// rule and must be rejected.
func NormalizeVocabulary(it VocabularyItem) (VocabularyItem, bool) {
	out := sanitizeVocabularyList([]any{vocabularyRaw(it)})
	if len(out) == 0 {
		return VocabularyItem{}, false
	}
	return out[0], true
}

// NormalizeSentence is NormalizeVocabulary for sentence items.
func NormalizeSentence(it SentenceItem) (SentenceItem, bool) {
	out := sanitizeSentenceList([]any{sentenceRaw(it)})
	if len(out) == 0 {
		return SentenceItem{}, false
	}
	return out[0], true
}

func vocabularyRaw(it VocabularyItem) map[string]any {
	return map[string]any{
		"id":             it.ID,
		"word":           it.Word,
		"meaning":        it.Meaning,
		"tags":           rawStrings(it.Tags),
		"needsWork":      it.NeedsWork,
		"level":          float64(it.Level),
		"lastReviewedAt": rawTime(it.LastReviewedAt),
	}
}

func sentenceRaw(it SentenceItem) map[string]any {
	pairs := make([]any, 0, len(it.VocabularyGlosses))
	for _, p := range it.VocabularyGlosses {
		pairs = append(pairs, map[string]any{"term": p.Term, "gloss": p.Gloss})
	}
	return map[string]any{
		"id":                it.ID,
		"sentence":          it.Sentence,
		"romanization":      it.Romanization,
		"meaning":           it.Meaning,
		"tags":              rawStrings(it.Tags),
		"vocabularyGlosses": pairs,
		"level":             float64(it.Level),
		"lastReviewedAt":    rawTime(it.LastReviewedAt),
	}
}

func rawStrings(ss []string) []any {
	out := make([]any, 0, len(ss))
	for _, s := range ss {
		out = append(out, s)
	}
	return out
}

func rawTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}
