package review

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hyaochen/echolingo-lab/internal/narrate"
	"github.com/hyaochen/echolingo-lab/internal/speech"
	"github.com/hyaochen/echolingo-lab/internal/vocab"
)

// Track identifies one of the two review domains. Each has its own
// queue state; only one narrates at a time.
type Track int

const (
	TrackVocabulary Track = iota
	TrackSentences
)

// queueEntry is one frozen stop in a playback queue. Segments are
// composed when the queue is built, so edits to the live item or the
// speech profile never reach a queue already underway.
type queueEntry struct {
	id       string
	title    string
	segments []speech.Segment
}

// trackState is the playback queue of one track.
type trackState struct {
	queue   []queueEntry
	cursor  int
	running bool
	paused  bool

	// runID is a generation counter. Start, skip, and stop bump it;
	// a drive loop that observes a different value than it was born
	// with abandons silently.
	runID uint64

	// cancel aborts the in-flight segment of the current drive loop.
	cancel context.CancelFunc
}

// Status is a snapshot of one track's queue for display.
type Status struct {
	Running bool
	Paused  bool
	Cursor  int
	Length  int
	Current string
}

// SessionConfig assembles a Session's collaborators.
type SessionConfig struct {
	Scheduler *Scheduler
	Speaker   speech.Speaker

	// Record is the live user data. The session reads it when building
	// queues and advances item progress in place.
	Record *vocab.Record

	// OnMutate runs after every progress advance, under the session
	// lock. It must be quick and must not call back into the session;
	// debouncing belongs to the caller.
	OnMutate func()

	// Lock, when set, replaces the session's own mutex. Sharing the
	// lock of the store that owns the record serializes queue advances
	// with record edits and save marshals.
	Lock sync.Locker
}

// Session owns both playback tracks. All state lives here rather than
// in package variables, so independent sessions never interfere.
type Session struct {
	mu   sync.Locker
	cond *sync.Cond

	sched    *Scheduler
	speaker  speech.Speaker
	rec      *vocab.Record
	onMutate func()

	tracks [2]*trackState

	// gap is the pause between segments of one item.
	gap time.Duration
}

// NewSession returns an idle session for the given record.
func NewSession(cfg SessionConfig) *Session {
	s := &Session{
		mu:       cfg.Lock,
		sched:    cfg.Scheduler,
		speaker:  cfg.Speaker,
		rec:      cfg.Record,
		onMutate: cfg.OnMutate,
		tracks:   [2]*trackState{{}, {}},
		gap:      narrate.SegmentGap,
	}
	if s.mu == nil {
		s.mu = &sync.Mutex{}
	}
	s.cond = sync.NewCond(s.mu)
	return s
}

// Start builds a queue for the track from the current group selection
// and begins narrating it. A selection with no items returns
// ErrEmptySelection and leaves all queue state untouched. Starting one
// track stops the other; its audio is not force-cancelled because the
// new track takes over the output device with its first segment.
func (s *Session) Start(track Track, groupKey string) error {
	s.mu.Lock()

	entries := s.buildQueueLocked(track, groupKey)
	if len(entries) == 0 {
		s.mu.Unlock()
		return ErrEmptySelection
	}

	s.stopTrackLocked(s.tracks[1-track], false)

	t := s.tracks[track]
	s.stopTrackLocked(t, false)
	t.queue = entries
	t.cursor = 0
	t.running = true
	t.paused = false
	t.runID++
	runID := t.runID

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	s.mu.Unlock()

	go s.drive(t, track, runID, ctx, cancel)
	return nil
}

func (s *Session) buildQueueLocked(track Track, groupKey string) []queueEntry {
	var entries []queueEntry
	switch track {
	case TrackSentences:
		for _, it := range SelectGroup(s.rec.Sentences, groupKey, s.sched) {
			entries = append(entries, queueEntry{
				id:       it.ID,
				title:    it.Sentence,
				segments: narrate.SentenceSegments(it, s.rec.Speech),
			})
		}
	default:
		for _, it := range SelectGroup(s.rec.Vocabulary, groupKey, s.sched) {
			entries = append(entries, queueEntry{
				id:       it.ID,
				title:    it.Word,
				segments: narrate.VocabularySegments(it, s.rec.Speech),
			})
		}
	}
	return entries
}

// Pause suspends the track's narration in place. The sounding segment
// keeps its position and resumes from it.
func (s *Session) Pause(track Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tracks[track]
	if !t.running || t.paused {
		return
	}
	t.paused = true
	s.speaker.Pause()
}

// Resume continues a paused track.
func (s *Session) Resume(track Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tracks[track]
	if !t.running || !t.paused {
		return
	}
	t.paused = false
	s.speaker.Resume()
	s.cond.Broadcast()
}

// Skip moves the cursor by step, clamped to the queue bounds, cancelling
// whatever segment is sounding without advancing that item's progress.
// Skipping is only meaningful while the track runs; it keeps the paused
// state, so a paused track stays paused at its new position.
func (s *Session) Skip(track Track, step int) {
	s.mu.Lock()
	t := s.tracks[track]
	if !t.running {
		s.mu.Unlock()
		return
	}

	next := t.cursor + step
	if next < 0 {
		next = 0
	}
	if next > len(t.queue)-1 {
		next = len(t.queue) - 1
	}
	t.cursor = next
	t.runID++
	runID := t.runID

	if t.cancel != nil {
		t.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	s.cond.Broadcast()
	s.mu.Unlock()

	go s.drive(t, track, runID, ctx, cancel)
}

// Stop resets the track to idle. With stopPlayback the sounding segment
// is cancelled immediately; without it the audio is left to be taken
// over or to run out.
func (s *Session) Stop(track Track, stopPlayback bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTrackLocked(s.tracks[track], stopPlayback)
}

func (s *Session) stopTrackLocked(t *trackState, stopPlayback bool) {
	if stopPlayback && t.cancel != nil {
		t.cancel()
	}
	t.queue = nil
	t.cursor = 0
	t.running = false
	t.paused = false
	t.runID++
	s.cond.Broadcast()
}

// Status reports the track's queue for progress display.
func (s *Session) Status(track Track) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tracks[track]

	st := Status{
		Running: t.running,
		Paused:  t.paused,
		Cursor:  t.cursor,
		Length:  len(t.queue),
	}
	if t.running && t.cursor < len(t.queue) {
		st.Current = t.queue[t.cursor].title
	}
	return st
}

// Close stops both tracks and cancels their audio.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tracks {
		s.stopTrackLocked(t, true)
	}
}

// drive is the asynchronous loop narrating one track under one runID.
// It exits as soon as the runID goes stale, never touching state it no
// longer owns.
func (s *Session) drive(t *trackState, track Track, runID uint64, ctx context.Context, cancel context.CancelFunc) {
	defer cancel()

	for {
		if !s.waitReady(t, runID) {
			return
		}

		s.mu.Lock()
		if !t.running || t.runID != runID {
			s.mu.Unlock()
			return
		}
		if t.cursor >= len(t.queue) {
			// Natural completion.
			s.stopTrackLocked(t, false)
			s.mu.Unlock()
			return
		}
		entry := t.queue[t.cursor]
		s.mu.Unlock()

		if !s.narrateEntry(ctx, t, runID, entry) {
			return
		}

		s.mu.Lock()
		if !t.running || t.runID != runID {
			// A skip, stop, or restart happened during playback:
			// abandon without advancing the item.
			s.mu.Unlock()
			return
		}
		s.advanceLocked(track, entry.id)
		t.cursor++
		s.mu.Unlock()
	}
}

// waitReady blocks while the track is paused. It reports false once the
// loop's runID is stale or the track stopped.
func (s *Session) waitReady(t *trackState, runID uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for t.running && t.runID == runID && t.paused {
		s.cond.Wait()
	}
	return t.running && t.runID == runID
}

// narrateEntry speaks every segment of one queue entry in order,
// pausing between them. It reports false when cancelled or invalidated;
// a segment that merely fails is treated as complete so one bad
// narration never stalls the session.
func (s *Session) narrateEntry(ctx context.Context, t *trackState, runID uint64, entry queueEntry) bool {
	for i, seg := range entry.segments {
		if !s.waitReady(t, runID) {
			return false
		}
		if err := s.speaker.Speak(ctx, seg); err != nil {
			if ctx.Err() != nil {
				return false
			}
			log.Error("narration segment failed", "item", entry.title, "error", err)
		}
		if i < len(entry.segments)-1 {
			if !sleepCtx(ctx, s.gap) {
				return false
			}
		}
	}
	return true
}

// advanceLocked records a completed review on the live item. An item
// deleted while its narration played simply gets no credit.
func (s *Session) advanceLocked(track Track, id string) {
	var p *vocab.Progress
	switch track {
	case TrackSentences:
		if it := s.rec.FindSentence(id); it != nil {
			p = &it.Progress
		}
	default:
		if it := s.rec.FindVocabulary(id); it != nil {
			p = &it.Progress
		}
	}
	if p == nil {
		return
	}

	s.sched.Advance(p)
	s.rec.Touch(s.sched.now())
	if s.onMutate != nil {
		s.onMutate()
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
