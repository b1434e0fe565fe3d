package vocab

import (
	"strings"
	"time"
)

// Sanitize normalizes arbitrary JSON-decoded input into a valid Record.
// It is total: malformed or missing fields fall back to safe defaults and
// no input is ever rejected. Running the result through Sanitize again
// changes nothing. This is the single authority for data shape; the store
// applies it to everything read from disk or imported, and the UI applies
// it before displaying unconfirmed edits.
func Sanitize(raw any) *Record {
	obj, _ := raw.(map[string]any)

	rec := &Record{
		Vocabulary: sanitizeVocabularyList(obj["vocabulary"]),
		Sentences:  sanitizeSentenceList(obj["sentences"]),
		Speech:     sanitizeSpeech(obj["speech"]),
		Theme:      sanitizeTheme(obj["theme"]),
	}

	if ts := toTime(obj["updatedAt"]); ts != nil {
		rec.UpdatedAt = *ts
	} else {
		rec.UpdatedAt = time.Now().UTC()
	}

	// A user must never face an empty console. Anything that filtered
	// down to nothing is replaced with the new-account seed set.
	if len(rec.Vocabulary) == 0 {
		rec.Vocabulary = SeedVocabulary()
	}
	if len(rec.Sentences) == 0 {
		rec.Sentences = SeedSentences()
	}

	return rec
}

func sanitizeVocabularyList(raw any) []VocabularyItem {
	list, _ := raw.([]any)
	items := make([]VocabularyItem, 0, len(list))
	for _, el := range list {
		obj, ok := el.(map[string]any)
		if !ok {
			continue
		}
		word := strings.TrimSpace(toString(obj["word"]))
		if word == "" {
			continue
		}
		items = append(items, VocabularyItem{
			ID:        itemID(obj),
			Word:      word,
			Meaning:   gloss(obj["meaning"]),
			Tags:      sanitizeTags(obj["tags"]),
			NeedsWork: toBool(obj["needsWork"]),
			Progress:  sanitizeProgress(obj),
		})
	}
	return items
}

func sanitizeSentenceList(raw any) []SentenceItem {
	list, _ := raw.([]any)
	items := make([]SentenceItem, 0, len(list))
	for _, el := range list {
		obj, ok := el.(map[string]any)
		if !ok {
			continue
		}
		sentence := strings.TrimSpace(toString(obj["sentence"]))
		if sentence == "" {
			continue
		}
		roman := strings.TrimSpace(toString(obj["romanization"]))
		if roman == "" {
			roman = Romanize(sentence)
		}
		items = append(items, SentenceItem{
			ID:                itemID(obj),
			Sentence:          sentence,
			Romanization:      roman,
			Meaning:           gloss(obj["meaning"]),
			Tags:              sanitizeTags(obj["tags"]),
			VocabularyGlosses: sanitizeGlossPairs(obj["vocabularyGlosses"]),
			Progress:          sanitizeProgress(obj),
		})
	}
	return items
}

func itemID(obj map[string]any) string {
	if id := strings.TrimSpace(toString(obj["id"])); id != "" {
		return id
	}
	return NewID()
}

func gloss(raw any) string {
	if m := strings.TrimSpace(toString(raw)); m != "" {
		return m
	}
	return PlaceholderGloss
}

func sanitizeProgress(obj map[string]any) Progress {
	return Progress{
		Level:          clampInt(obj["level"], 0, MaxLevel),
		LastReviewedAt: toTime(obj["lastReviewedAt"]),
	}
}

// sanitizeTags lowercases, trims, deduplicates, and caps the tag set,
// preserving first-seen order.
func sanitizeTags(raw any) []string {
	list, _ := raw.([]any)
	var tags []string
	seen := make(map[string]bool)
	for _, el := range list {
		tag := strings.ToLower(strings.TrimSpace(toString(el)))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
		if len(tags) == MaxTags {
			break
		}
	}
	return tags
}

func sanitizeGlossPairs(raw any) []VocabularyGloss {
	list, _ := raw.([]any)
	var pairs []VocabularyGloss
	for _, el := range list {
		obj, ok := el.(map[string]any)
		if !ok {
			continue
		}
		term := strings.TrimSpace(toString(obj["term"]))
		gl := strings.TrimSpace(toString(obj["gloss"]))
		if term == "" || gl == "" {
			continue
		}
		pairs = append(pairs, VocabularyGloss{Term: term, Gloss: gl})
	}
	return pairs
}

func sanitizeSpeech(raw any) SpeechProfile {
	obj, _ := raw.(map[string]any)

	// Data written before the engines grew separate volume controls
	// carried one "volumes" map; it feeds both maps when either is absent.
	localRaw := obj["localVolumes"]
	hostedRaw := obj["hostedVolumes"]
	if legacy, ok := obj["volumes"]; ok {
		if localRaw == nil {
			localRaw = legacy
		}
		if hostedRaw == nil {
			hostedRaw = legacy
		}
	}

	return SpeechProfile{
		Engine:        sanitizeEngine(obj["engine"]),
		HostedVoiceID: strings.TrimSpace(toString(obj["hostedVoiceId"])),
		Voices:        sanitizeBucketStrings(obj["voices"], defaultVoices),
		Rates:         sanitizeBucketFloats(obj["rates"], RateMin, RateMax, 1.0),
		Pitches:       sanitizeBucketFloats(obj["pitches"], PitchMin, PitchMax, 1.0),
		LocalVolumes:  sanitizeBucketFloats(localRaw, 0, 1, 1.0),
		HostedVolumes: sanitizeBucketFloats(hostedRaw, 0, 1, 1.0),
	}
}

func sanitizeEngine(raw any) Engine {
	switch Engine(strings.ToLower(strings.TrimSpace(toString(raw)))) {
	case EngineHosted:
		return EngineHosted
	case EngineLocal:
		return EngineLocal
	default:
		return EngineLocal
	}
}

func sanitizeTheme(raw any) Theme {
	switch Theme(strings.ToLower(strings.TrimSpace(toString(raw)))) {
	case ThemeDark:
		return ThemeDark
	case ThemeLight:
		return ThemeLight
	default:
		return ThemeLight
	}
}

var defaultVoices = map[string]string{
	BucketEnglish:  "en-us",
	BucketMandarin: "zh",
	BucketJapanese: "ja",
}

// sanitizeBucketStrings returns a map carrying exactly the three language
// buckets; entries missing or blank in the input take the default.
func sanitizeBucketStrings(raw any, defaults map[string]string) map[string]string {
	obj, _ := raw.(map[string]any)
	out := make(map[string]string, len(Buckets))
	for _, bucket := range Buckets {
		v := strings.TrimSpace(toString(obj[bucket]))
		if v == "" {
			v = defaults[bucket]
		}
		out[bucket] = v
	}
	return out
}

// sanitizeBucketFloats returns a map carrying exactly the three language
// buckets. A bucket absent from the input takes the default; a bucket
// present but non-numeric takes the range minimum; everything is clamped.
func sanitizeBucketFloats(raw any, minVal, maxVal, def float64) map[string]float64 {
	obj, _ := raw.(map[string]any)
	out := make(map[string]float64, len(Buckets))
	for _, bucket := range Buckets {
		if v, present := obj[bucket]; present {
			out[bucket] = clampFloat(v, minVal, maxVal)
		} else {
			out[bucket] = def
		}
	}
	return out
}
