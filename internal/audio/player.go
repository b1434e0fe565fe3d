package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Playback format shared with the speech engines: espeak-ng emits
// 22050 Hz mono natively and the hosted decode path resamples to match.
const (
	SampleRate = 22050
	channels   = 1
)

// Player plays PCM through the system audio device. One oto context is
// created per process and reused for every utterance. Play blocks until
// the audio finishes, which keeps the narration loop free of device
// callbacks.
type Player struct {
	context *oto.Context

	mu     sync.Mutex
	player *oto.Player
	stream *audioStream
	paused bool
	closed bool
}

// audioStream holds playing audio with its backing data kept alive.
// CRITICAL: releasing data while oto still reads it causes static.
type audioStream struct {
	data   []byte
	reader *bytes.Reader
}

func newAudioStream(pcm []byte) *audioStream {
	// Copy so the caller may reuse its buffer immediately.
	data := make([]byte, len(pcm))
	copy(data, pcm)
	return &audioStream{data: data, reader: bytes.NewReader(data)}
}

// NewPlayer opens the audio device.
func NewPlayer() (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}

	// The context is unusable until the device reports ready.
	<-readyChan

	return &Player{context: ctx}, nil
}

// Play blocks until pcm finishes playing or ctx is cancelled. While the
// player is paused the call keeps waiting; cancellation stops and
// releases the device either way.
func (p *Player) Play(ctx context.Context, pcm []byte) error {
	if len(pcm) == 0 {
		return errors.New("audio data is empty")
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return errors.New("player is closed")
	}
	p.stopLocked()

	stream := newAudioStream(pcm)
	player := p.context.NewPlayer(stream.reader)
	p.player = player
	p.stream = stream
	p.paused = false
	p.mu.Unlock()

	player.Play()

	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			p.mu.Lock()
			if p.player == player {
				p.stopLocked()
			}
			p.mu.Unlock()
			return ctx.Err()

		case <-tick.C:
		}

		p.mu.Lock()
		if p.player != player {
			// Another Play took the device.
			p.mu.Unlock()
			return nil
		}
		if !player.IsPlaying() && !p.paused {
			p.stopLocked()
			p.mu.Unlock()
			return nil
		}
		p.mu.Unlock()
	}
}

// Pause suspends playback in place. Pausing an idle player is a no-op.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player != nil && !p.paused {
		p.player.Pause()
		p.paused = true
	}
}

// Resume continues paused playback.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player != nil && p.paused {
		p.player.Play()
		p.paused = false
	}
}

// stopLocked stops playback and releases the stream. Callers hold p.mu.
func (p *Player) stopLocked() {
	if p.player != nil {
		p.player.Pause()
		p.player.Close()
		p.player = nil
	}
	if p.stream != nil {
		// Allow GC of the audio data.
		p.stream.data = nil
		p.stream.reader = nil
		p.stream = nil
	}
	p.paused = false
}

// Close stops playback and releases the device.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	// oto.Context has no Close in v3; it is collected once unreferenced.
	p.context = nil
	p.closed = true
	return nil
}
