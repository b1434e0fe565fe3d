package speech

import (
	"context"
	"sync"
	"time"
)

// MockEngine is an Engine for tests. It records every segment it is
// asked to synthesize and returns canned audio or a canned error.
type MockEngine struct {
	mu       sync.Mutex
	segments []Segment

	// Audio is returned from Synthesize when Err is nil. Leave nil to
	// get a small non-empty buffer.
	Audio []byte

	// Err, when set, fails every Synthesize call.
	Err error

	// ValidateErr, when set, fails Validate.
	ValidateErr error

	closed bool
}

// Synthesize records the segment and returns the canned result.
func (m *MockEngine) Synthesize(_ context.Context, seg Segment) ([]byte, error) {
	m.mu.Lock()
	m.segments = append(m.segments, seg)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Audio != nil {
		return m.Audio, nil
	}
	return []byte{0, 0, 0, 0}, nil
}

// Validate returns the canned validation error.
func (m *MockEngine) Validate() error { return m.ValidateErr }

// Close marks the engine closed.
func (m *MockEngine) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Segments returns a copy of everything synthesized so far.
func (m *MockEngine) Segments() []Segment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Segment(nil), m.segments...)
}

// Closed reports whether Close was called.
func (m *MockEngine) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

var _ Engine = (*MockEngine)(nil)

// MockSpeaker is a Speaker for tests. Each Speak call records its
// segment, then optionally sleeps or blocks on a gate so tests can hold
// a segment "in playback" while they drive the queue.
type MockSpeaker struct {
	mu      sync.Mutex
	spoken  []Segment
	pauses  int
	resumes int
	closed  bool

	// Started, when non-nil, receives each segment as it begins.
	Started chan Segment

	// Gate, when non-nil, blocks each Speak until the test sends on it
	// or the context is cancelled.
	Gate chan struct{}

	// Delay, when set, makes each Speak sleep context-aware.
	Delay time.Duration

	// Err is returned from Speak after any delay or gate.
	Err error
}

// Speak records the segment and simulates playback.
func (m *MockSpeaker) Speak(ctx context.Context, seg Segment) error {
	m.mu.Lock()
	m.spoken = append(m.spoken, seg)
	m.mu.Unlock()

	if m.Started != nil {
		select {
		case m.Started <- seg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return m.Err
}

// Pause counts pause requests.
func (m *MockSpeaker) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauses++
}

// Resume counts resume requests.
func (m *MockSpeaker) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumes++
}

// Close marks the speaker closed.
func (m *MockSpeaker) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Spoken returns a copy of every segment spoken so far.
func (m *MockSpeaker) Spoken() []Segment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Segment(nil), m.spoken...)
}

// SpokenTexts returns just the texts, in order.
func (m *MockSpeaker) SpokenTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	texts := make([]string, len(m.spoken))
	for i, seg := range m.spoken {
		texts[i] = seg.Text
	}
	return texts
}

// Pauses reports how many times Pause was called.
func (m *MockSpeaker) Pauses() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauses
}

// Resumes reports how many times Resume was called.
func (m *MockSpeaker) Resumes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resumes
}

var _ Speaker = (*MockSpeaker)(nil)
