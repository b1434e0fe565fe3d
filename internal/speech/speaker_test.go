package speech

import (
	"context"
	"errors"
	"testing"
)

// captureOutput is a playback device stub recording what reaches it.
type captureOutput struct {
	played  [][]byte
	pauses  int
	resumes int
	closed  bool
	err     error
}

func (c *captureOutput) Play(_ context.Context, pcm []byte) error {
	c.played = append(c.played, pcm)
	return c.err
}

func (c *captureOutput) Pause()       { c.pauses++ }
func (c *captureOutput) Resume()      { c.resumes++ }
func (c *captureOutput) Close() error { c.closed = true; return nil }

// TestSpeakerRoutesAudio verifies synthesized PCM reaches the playback
// device.
func TestSpeakerRoutesAudio(t *testing.T) {
	engine := &MockEngine{Audio: []byte("pcm")}
	out := &captureOutput{}
	sp := NewSpeaker(engine, out)

	if err := sp.Speak(context.Background(), Segment{Text: "hello"}); err != nil {
		t.Fatalf("Speak() error = %v", err)
	}

	if len(out.played) != 1 || string(out.played[0]) != "pcm" {
		t.Errorf("played = %v, want the engine's PCM", out.played)
	}
	if segs := engine.Segments(); len(segs) != 1 || segs[0].Text != "hello" {
		t.Errorf("engine segments = %v, want the spoken segment", segs)
	}
}

// TestSpeakerRejectsBlankText verifies nothing is synthesized for empty
// or whitespace text.
func TestSpeakerRejectsBlankText(t *testing.T) {
	engine := &MockEngine{}
	sp := NewSpeaker(engine, &captureOutput{})

	for _, text := range []string{"", "   ", "\n\t"} {
		if err := sp.Speak(context.Background(), Segment{Text: text}); !errors.Is(err, ErrEmptyText) {
			t.Errorf("Speak(%q) error = %v, want ErrEmptyText", text, err)
		}
	}
	if n := len(engine.Segments()); n != 0 {
		t.Errorf("engine synthesized %d segments, want 0", n)
	}
}

// TestSpeakerEngineFailure verifies an engine error stops the segment
// before playback.
func TestSpeakerEngineFailure(t *testing.T) {
	sentinel := errors.New("synthesis broke")
	out := &captureOutput{}
	sp := NewSpeaker(&MockEngine{Err: sentinel}, out)

	if err := sp.Speak(context.Background(), Segment{Text: "hello"}); !errors.Is(err, sentinel) {
		t.Errorf("Speak() error = %v, want %v", err, sentinel)
	}
	if len(out.played) != 0 {
		t.Error("playback started despite synthesis failure")
	}
}

// TestSpeakerPauseResumeClose verifies control calls reach the device
// and Close also releases the engine.
func TestSpeakerPauseResumeClose(t *testing.T) {
	engine := &MockEngine{}
	out := &captureOutput{}
	sp := NewSpeaker(engine, out)

	sp.Pause()
	sp.Resume()
	sp.Pause()

	if out.pauses != 2 || out.resumes != 1 {
		t.Errorf("pauses, resumes = %d, %d, want 2, 1", out.pauses, out.resumes)
	}

	if err := sp.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !out.closed {
		t.Error("device not closed")
	}
	if !engine.Closed() {
		t.Error("engine not closed")
	}
}
