package speech

import (
	"context"
	"encoding/binary"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// TestLocalArgs verifies the espeak-ng argument mapping: rate to words
// per minute, pitch and amplitude onto their native scales, and the
// voice default.
func TestLocalArgs(t *testing.T) {
	tests := []struct {
		name string
		seg  Segment
		want []string
	}{
		{
			name: "normal parameters",
			seg:  Segment{Text: "hi", Voice: "en-us", Rate: 1.0, Pitch: 1.0, LocalVolume: 1.0},
			want: []string{"-v", "en-us", "-s", "175", "-p", "50", "-a", "100", "--stdin", "--stdout"},
		},
		{
			name: "half rate",
			seg:  Segment{Text: "hi", Voice: "ja", Rate: 0.5, Pitch: 1.0, LocalVolume: 1.0},
			want: []string{"-v", "ja", "-s", "88", "-p", "50", "-a", "100", "--stdin", "--stdout"},
		},
		{
			name: "double rate",
			seg:  Segment{Text: "hi", Voice: "zh", Rate: 2.0, Pitch: 1.0, LocalVolume: 1.0},
			want: []string{"-v", "zh", "-s", "350", "-p", "50", "-a", "100", "--stdin", "--stdout"},
		},
		{
			name: "pitch clamps below native ceiling",
			seg:  Segment{Text: "hi", Voice: "en-us", Rate: 1.0, Pitch: 2.0, LocalVolume: 1.0},
			want: []string{"-v", "en-us", "-s", "175", "-p", "99", "-a", "100", "--stdin", "--stdout"},
		},
		{
			name: "half volume",
			seg:  Segment{Text: "hi", Voice: "en-us", Rate: 1.0, Pitch: 1.0, LocalVolume: 0.5},
			want: []string{"-v", "en-us", "-s", "175", "-p", "50", "-a", "50", "--stdin", "--stdout"},
		},
		{
			name: "empty voice falls back",
			seg:  Segment{Text: "hi", Rate: 1.0, Pitch: 1.0, LocalVolume: 1.0},
			want: []string{"-v", "en-us", "-s", "175", "-p", "50", "-a", "100", "--stdin", "--stdout"},
		},
		{
			name: "zero rate treated as normal",
			seg:  Segment{Text: "hi", Voice: "en-us", Pitch: 1.0, LocalVolume: 1.0},
			want: []string{"-v", "en-us", "-s", "175", "-p", "50", "-a", "100", "--stdin", "--stdout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := localArgs(tt.seg); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("localArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

// buildWAV assembles a RIFF WAVE stream from chunks for parser tests.
func buildWAV(chunks ...[]byte) []byte {
	var body []byte
	for _, c := range chunks {
		body = append(body, c...)
	}
	out := []byte("RIFF")
	out = binary.LittleEndian.AppendUint32(out, uint32(4+len(body)))
	out = append(out, "WAVE"...)
	return append(out, body...)
}

func wavChunk(id string, size uint32, body []byte) []byte {
	out := []byte(id)
	out = binary.LittleEndian.AppendUint32(out, size)
	return append(out, body...)
}

// TestPCMFromWAV verifies data chunk extraction, including the
// placeholder sizes espeak-ng writes when streaming to a pipe.
func TestPCMFromWAV(t *testing.T) {
	fmtChunk := wavChunk("fmt ", 16, make([]byte, 16))
	samples := []byte{1, 2, 3, 4, 5, 6}

	tests := []struct {
		name    string
		in      []byte
		want    []byte
		wantErr bool
	}{
		{
			name: "well formed",
			in:   buildWAV(fmtChunk, wavChunk("data", 6, samples)),
			want: samples,
		},
		{
			name: "placeholder data size takes rest",
			in:   buildWAV(fmtChunk, wavChunk("data", 0xFFFFFFFF, samples)),
			want: samples,
		},
		{
			name: "zero data size takes rest",
			in:   buildWAV(fmtChunk, wavChunk("data", 0, samples)),
			want: samples,
		},
		{
			name: "chunk before data is skipped",
			in:   buildWAV(fmtChunk, wavChunk("LIST", 4, []byte("info")), wavChunk("data", 6, samples)),
			want: samples,
		},
		{
			name: "declared size trims trailing bytes",
			in:   buildWAV(fmtChunk, wavChunk("data", 4, samples)),
			want: samples[:4],
		},
		{
			name:    "not riff",
			in:      []byte("OggS whatever this is"),
			wantErr: true,
		},
		{
			name:    "missing data chunk",
			in:      buildWAV(fmtChunk),
			wantErr: true,
		},
		{
			name:    "truncated header",
			in:      []byte("RIFF"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pcmFromWAV(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("pcmFromWAV() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("pcmFromWAV() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("pcmFromWAV() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestLocalSynthesizeInputChecks verifies the text gates that run before
// any process is spawned.
func TestLocalSynthesizeInputChecks(t *testing.T) {
	e := NewLocalEngine()

	_, err := e.Synthesize(context.Background(), Segment{})
	if !errors.Is(err, ErrEmptyText) {
		t.Errorf("empty text error = %v, want ErrEmptyText", err)
	}

	long := Segment{Text: strings.Repeat("a", localMaxTextSize+1)}
	_, err = e.Synthesize(context.Background(), long)
	if !errors.Is(err, ErrTextTooLong) {
		t.Errorf("long text error = %v, want ErrTextTooLong", err)
	}
}
