package speech

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"time"
)

const (
	localBinary      = "espeak-ng"
	localTimeout     = 10 * time.Second
	localMaxTextSize = 5000

	// espeak-ng defaults: 175 words per minute, pitch 50 of 0..99,
	// amplitude 100 of 0..200. The segment multipliers scale from there.
	localBaseWPM       = 175
	localBasePitch     = 50
	localBaseAmplitude = 100
)

// LocalEngine synthesizes speech with the espeak-ng command line tool.
// It runs a fresh process per segment with pre-configured stdin and
// strips the WAV container espeak-ng writes around its PCM.
type LocalEngine struct{}

// NewLocalEngine returns the offline espeak-ng engine.
func NewLocalEngine() *LocalEngine {
	return &LocalEngine{}
}

// Synthesize converts one segment to PCM audio.
func (e *LocalEngine) Synthesize(ctx context.Context, seg Segment) ([]byte, error) {
	if seg.Text == "" {
		return nil, ErrEmptyText
	}
	if len(seg.Text) > localMaxTextSize {
		return nil, fmt.Errorf("%w: %d characters (max %d)", ErrTextTooLong, len(seg.Text), localMaxTextSize)
	}

	wav, err := runCmd(ctx, localTimeout, seg.Text, localBinary, localArgs(seg)...)
	if err != nil {
		return nil, err
	}

	pcm, err := pcmFromWAV(wav)
	if err != nil {
		return nil, err
	}
	if len(pcm) == 0 {
		return nil, ErrNoAudio
	}
	return pcm, nil
}

// localArgs builds the espeak-ng argument list for a segment. Text is
// delivered over stdin, audio comes back on stdout.
func localArgs(seg Segment) []string {
	voice := seg.Voice
	if voice == "" {
		voice = "en-us"
	}
	rate := seg.Rate
	if rate <= 0 {
		rate = 1.0
	}

	wpm := int(math.Round(localBaseWPM * rate))
	pitch := clamp(int(math.Round(localBasePitch*seg.Pitch)), 0, 99)
	amp := clamp(int(math.Round(localBaseAmplitude*seg.LocalVolume)), 0, 200)

	return []string{
		"-v", voice,
		"-s", strconv.Itoa(wpm),
		"-p", strconv.Itoa(pitch),
		"-a", strconv.Itoa(amp),
		"--stdin",
		"--stdout",
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// pcmFromWAV extracts the raw sample data from a RIFF WAVE stream.
// espeak-ng writes its header with a placeholder length when streaming
// to a pipe, so the data chunk size cannot be trusted; everything after
// the data header is taken as samples when the declared size runs past
// the buffer.
func pcmFromWAV(b []byte) ([]byte, error) {
	if len(b) < 12 || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: not a RIFF WAVE stream", ErrNoAudio)
	}

	off := 12
	for off+8 <= len(b) {
		id := string(b[off : off+4])
		size := int(binary.LittleEndian.Uint32(b[off+4 : off+8]))
		off += 8

		if id == "data" {
			end := off + size
			if size <= 0 || end > len(b) || end < off {
				end = len(b)
			}
			return b[off:end], nil
		}

		// Chunks are word aligned.
		off += size + size%2
	}

	return nil, fmt.Errorf("%w: no data chunk", ErrNoAudio)
}

// Validate checks that espeak-ng is installed and executable.
func (e *LocalEngine) Validate() error {
	path, err := exec.LookPath(localBinary)
	if err != nil {
		return fmt.Errorf("%w: %s not found in PATH", ErrEngineUnavailable, localBinary)
	}
	if err := exec.Command(path, "--version").Run(); err != nil {
		return fmt.Errorf("%w: cannot execute %s: %v", ErrEngineUnavailable, localBinary, err)
	}
	return nil
}

// Close releases resources held by the engine.
func (e *LocalEngine) Close() error {
	return nil
}

var _ Engine = (*LocalEngine)(nil)
