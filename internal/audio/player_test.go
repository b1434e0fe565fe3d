package audio

import (
	"context"
	"testing"
)

// Tests here exercise the state handling that runs before the device is
// touched, so they pass on machines with no audio hardware.

// TestPlayRejectsEmptyAudio verifies empty PCM never reaches the device.
func TestPlayRejectsEmptyAudio(t *testing.T) {
	p := &Player{}
	if err := p.Play(context.Background(), nil); err == nil {
		t.Error("Play(nil) error = nil, want error")
	}
	if err := p.Play(context.Background(), []byte{}); err == nil {
		t.Error("Play(empty) error = nil, want error")
	}
}

// TestPlayAfterClose verifies a closed player refuses new audio.
func TestPlayAfterClose(t *testing.T) {
	p := &Player{}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := p.Play(context.Background(), []byte{0, 0}); err == nil {
		t.Error("Play() after Close error = nil, want error")
	}
}

// TestPauseResumeIdle verifies pause and resume are safe with nothing
// playing.
func TestPauseResumeIdle(t *testing.T) {
	p := &Player{}
	p.Pause()
	p.Resume()
	p.Pause()

	if p.paused {
		t.Error("idle player marked paused")
	}
}

// TestCloseIdempotent verifies Close can run twice.
func TestCloseIdempotent(t *testing.T) {
	p := &Player{}
	if err := p.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}
