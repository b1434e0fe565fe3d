// Package vocab holds the learner-facing data model: English vocabulary
// items, Japanese sentence items, the speech profile, and the sanitizer
// that normalizes arbitrary persisted or imported JSON into a valid record.
package vocab

import (
	"time"

	"github.com/google/uuid"
)

const (
	// MaxTags is the per-item tag cap enforced by the sanitizer.
	MaxTags = 10

	// MaxLevel is the highest schedule stage. It is one less than the
	// length of the review interval table.
	MaxLevel = 5

	// PlaceholderGloss is substituted when an item has no usable meaning.
	PlaceholderGloss = "暂无释义"
)

// Engine selects the speech backend.
type Engine string

const (
	// EngineLocal narrates with the local synthesized voice.
	EngineLocal Engine = "built-in-voice"
	// EngineHosted narrates with fetched hosted audio, falling back to
	// the local voice on failure.
	EngineHosted Engine = "hosted-tts"
)

// Theme selects the UI color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Bucket names for the per-language maps in a SpeechProfile. Every map
// carries exactly these three keys after sanitization.
const (
	BucketEnglish  = "english"
	BucketMandarin = "mandarin"
	BucketJapanese = "japanese"
)

// Buckets lists the bucket names in display order.
var Buckets = []string{BucketEnglish, BucketMandarin, BucketJapanese}

// Progress is the spaced-repetition state shared by both item kinds.
type Progress struct {
	Level          int        `json:"level"`
	LastReviewedAt *time.Time `json:"lastReviewedAt"`
}

// ReviewLevel returns the current schedule stage.
func (p Progress) ReviewLevel() int { return p.Level }

// ReviewedAt returns the last successful review time, nil if never reviewed.
func (p Progress) ReviewedAt() *time.Time { return p.LastReviewedAt }

// VocabularyItem is one English word under study.
type VocabularyItem struct {
	ID        string   `json:"id"`
	Word      string   `json:"word"`
	Meaning   string   `json:"meaning"`
	Tags      []string `json:"tags"`
	NeedsWork bool     `json:"needsWork"`
	Progress
}

func (v VocabularyItem) ItemID() string      { return v.ID }
func (v VocabularyItem) PrimaryText() string { return v.Word }
func (v VocabularyItem) GlossText() string   { return v.Meaning }
func (v VocabularyItem) ItemTags() []string  { return v.Tags }
func (v VocabularyItem) Flagged() bool       { return v.NeedsWork }

// VocabularyGloss is one term/gloss pair attached to a sentence.
type VocabularyGloss struct {
	Term  string `json:"term"`
	Gloss string `json:"gloss"`
}

// SentenceItem is one Japanese sentence under study.
type SentenceItem struct {
	ID                string            `json:"id"`
	Sentence          string            `json:"sentence"`
	Romanization      string            `json:"romanization"`
	Meaning           string            `json:"meaning"`
	Tags              []string          `json:"tags"`
	VocabularyGlosses []VocabularyGloss `json:"vocabularyGlosses"`
	Progress
}

func (s SentenceItem) ItemID() string      { return s.ID }
func (s SentenceItem) PrimaryText() string { return s.Sentence }
func (s SentenceItem) GlossText() string   { return s.Meaning }
func (s SentenceItem) ItemTags() []string  { return s.Tags }

// Flagged is always false for sentences; only vocabulary carries the
// needs-work flag.
func (s SentenceItem) Flagged() bool { return false }

// SpeechProfile holds the narration settings for one user. The bucket
// maps are keyed by BucketEnglish, BucketMandarin, and BucketJapanese and
// always carry all three keys.
type SpeechProfile struct {
	Engine        Engine             `json:"engine"`
	HostedVoiceID string             `json:"hostedVoiceId"`
	Voices        map[string]string  `json:"voices"`
	Rates         map[string]float64 `json:"rates"`
	Pitches       map[string]float64 `json:"pitches"`
	LocalVolumes  map[string]float64 `json:"localVolumes"`
	HostedVolumes map[string]float64 `json:"hostedVolumes"`
}

// Bounds for the numeric profile fields.
const (
	RateMin  = 0.5
	RateMax  = 2.0
	PitchMin = 0.0
	PitchMax = 2.0
)

// Record is one user's complete data set.
type Record struct {
	Vocabulary []VocabularyItem `json:"vocabulary"`
	Sentences  []SentenceItem   `json:"sentences"`
	Speech     SpeechProfile    `json:"speech"`
	Theme      Theme            `json:"theme"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// NewID returns a fresh stable identifier for an item.
func NewID() string { return uuid.NewString() }

// Touch stamps the record as just modified.
func (r *Record) Touch(now time.Time) { r.UpdatedAt = now.UTC() }

// FindVocabulary returns a pointer into the live vocabulary list, nil if
// the id is unknown.
func (r *Record) FindVocabulary(id string) *VocabularyItem {
	for i := range r.Vocabulary {
		if r.Vocabulary[i].ID == id {
			return &r.Vocabulary[i]
		}
	}
	return nil
}

// FindSentence returns a pointer into the live sentence list, nil if the
// id is unknown.
func (r *Record) FindSentence(id string) *SentenceItem {
	for i := range r.Sentences {
		if r.Sentences[i].ID == id {
			return &r.Sentences[i]
		}
	}
	return nil
}

// AllTags returns the union of tags across both lists, first-seen order.
func (r *Record) AllTags() []string {
	seen := make(map[string]bool)
	var tags []string
	add := func(list []string) {
		for _, t := range list {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	for _, v := range r.Vocabulary {
		add(v.Tags)
	}
	for _, s := range r.Sentences {
		add(s.Tags)
	}
	return tags
}
