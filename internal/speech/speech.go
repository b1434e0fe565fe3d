package speech

import (
	"context"
	"strings"
)

// Segment is one utterance with every synthesis parameter already
// resolved. Callers build segments from the per-language speech profile;
// engines read only the fields they understand.
type Segment struct {
	// Text to speak. Must be non-empty.
	Text string

	// Voice is the local engine voice identifier (for example "en-us").
	Voice string

	// Lang is the hosted engine language code (for example "zh-CN").
	Lang string

	// Rate is the speaking rate multiplier, 1.0 = normal.
	Rate float64

	// Pitch is the pitch multiplier, 1.0 = normal. Hosted voices carry
	// a fixed pitch and ignore it.
	Pitch float64

	// LocalVolume and HostedVolume are playback gains in [0, 1]. Each
	// engine applies its own, so a fallback switch also switches gain.
	LocalVolume  float64
	HostedVolume float64
}

// Engine defines the contract for speech synthesis backends.
// Implementations return PCM audio (16-bit little-endian, mono, 22050 Hz)
// with rate, pitch, and volume already applied.
type Engine interface {
	// Synthesize converts a segment to audio data.
	// The implementation must handle timeout protection internally.
	Synthesize(ctx context.Context, seg Segment) ([]byte, error)

	// Validate checks that the engine's external tooling is available.
	Validate() error

	// Close releases any resources held by the engine.
	Close() error
}

// Output defines the contract for the playback device.
type Output interface {
	// Play blocks until the audio finishes, the context is cancelled,
	// or the device fails.
	Play(ctx context.Context, pcm []byte) error

	// Pause suspends playback in place; Resume continues it.
	Pause()
	Resume()

	// Close releases the device.
	Close() error
}

// Speaker speaks segments one at a time.
type Speaker interface {
	// Speak synthesizes and plays one segment, blocking until the audio
	// finishes or ctx is cancelled.
	Speak(ctx context.Context, seg Segment) error

	// Pause suspends the segment currently playing; Resume continues it.
	Pause()
	Resume()

	// Close releases the engine and the playback device.
	Close() error
}

// SegmentSpeaker connects a synthesis engine to a playback device.
type SegmentSpeaker struct {
	engine Engine
	out    Output
}

// NewSpeaker returns a speaker that synthesizes with engine and plays
// through out.
func NewSpeaker(engine Engine, out Output) *SegmentSpeaker {
	return &SegmentSpeaker{engine: engine, out: out}
}

// Speak synthesizes seg and blocks until playback completes.
func (s *SegmentSpeaker) Speak(ctx context.Context, seg Segment) error {
	if strings.TrimSpace(seg.Text) == "" {
		return ErrEmptyText
	}
	pcm, err := s.engine.Synthesize(ctx, seg)
	if err != nil {
		return err
	}
	return s.out.Play(ctx, pcm)
}

// Pause suspends the segment currently playing.
func (s *SegmentSpeaker) Pause() { s.out.Pause() }

// Resume continues a paused segment.
func (s *SegmentSpeaker) Resume() { s.out.Resume() }

// Close releases the engine and the playback device.
func (s *SegmentSpeaker) Close() error {
	err := s.engine.Close()
	if cerr := s.out.Close(); err == nil {
		err = cerr
	}
	return err
}

var _ Speaker = (*SegmentSpeaker)(nil)
