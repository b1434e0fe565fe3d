package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	hostedEndpoint  = "https://translate.google.com/translate_tts"
	hostedUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	hostedFetchTimeout  = 15 * time.Second
	hostedDecodeTimeout = 15 * time.Second

	// The endpoint truncates long inputs, so refuse them up front.
	hostedMaxTextSize = 200

	hostedMaxMP3Size = 10 * 1024 * 1024

	// Kept in sync with the playback device format.
	hostedSampleRate = 22050
)

// HostedEngine synthesizes speech with the Google Translate endpoint.
// It fetches MP3 over HTTP, then converts to PCM using ffmpeg with rate
// and volume applied in the same pass. No API key is required.
type HostedEngine struct {
	endpoint string
	client   *http.Client
	tempDir  string

	// Rate limiting to avoid being blocked
	limiter *rate.Limiter
}

// HostedConfig holds configuration for the hosted engine.
type HostedConfig struct {
	// TempDir for intermediate files - defaults to system temp
	TempDir string

	// Rate limit requests per minute to avoid being blocked (defaults to 50)
	RequestsPerMinute int
}

// NewHostedEngine creates a new hosted engine.
func NewHostedEngine(config HostedConfig) (*HostedEngine, error) {
	if config.TempDir == "" {
		config.TempDir = os.TempDir()
	}
	if err := os.MkdirAll(config.TempDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	if config.RequestsPerMinute == 0 {
		config.RequestsPerMinute = 50
	}

	return &HostedEngine{
		endpoint: hostedEndpoint,
		client:   &http.Client{},
		tempDir:  config.TempDir,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RequestsPerMinute)), 1),
	}, nil
}

// Synthesize converts one segment to PCM audio.
// Process: text over HTTP to MP3, then ffmpeg to PCM.
func (e *HostedEngine) Synthesize(ctx context.Context, seg Segment) ([]byte, error) {
	if seg.Text == "" {
		return nil, ErrEmptyText
	}
	if len(seg.Text) > hostedMaxTextSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTextTooLong, len(seg.Text), hostedMaxTextSize)
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	mp3, err := e.fetchMP3(ctx, seg)
	if err != nil {
		return nil, fmt.Errorf("MP3 fetch failed: %w", err)
	}

	pcm, err := e.decodeMP3(ctx, mp3, seg)
	if err != nil {
		return nil, fmt.Errorf("MP3 to PCM conversion failed: %w", err)
	}
	return pcm, nil
}

// fetchMP3 downloads MP3 audio for the segment text.
func (e *HostedEngine) fetchMP3(ctx context.Context, seg Segment) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, hostedFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hostedURL(e.endpoint, seg), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// The endpoint rejects requests without a browser user agent.
	req.Header.Set("User-Agent", hostedUserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	mp3, err := io.ReadAll(io.LimitReader(resp.Body, hostedMaxMP3Size+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if len(mp3) == 0 {
		return nil, ErrNoAudio
	}
	if len(mp3) > hostedMaxMP3Size {
		return nil, fmt.Errorf("MP3 response too large: over %d bytes", hostedMaxMP3Size)
	}
	return mp3, nil
}

// hostedURL builds the synthesis request URL for a segment.
func hostedURL(endpoint string, seg Segment) string {
	lang := seg.Lang
	if lang == "" {
		lang = "en"
	}

	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", seg.Text)
	params.Set("tl", lang)
	params.Set("client", "tw-ob")
	params.Set("textlen", strconv.Itoa(len(seg.Text)))

	return endpoint + "?" + params.Encode()
}

// decodeMP3 converts MP3 data to PCM using ffmpeg.
func (e *HostedEngine) decodeMP3(ctx context.Context, mp3 []byte, seg Segment) ([]byte, error) {
	f, err := os.CreateTemp(e.tempDir, "hosted-*.mp3")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp MP3 file: %w", err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if _, err := f.Write(mp3); err != nil {
		return nil, fmt.Errorf("failed to write MP3 data: %w", err)
	}
	f.Close() // flush before ffmpeg reads it

	pcm, err := runCmd(ctx, hostedDecodeTimeout, "", "ffmpeg", ffmpegArgs(f.Name(), seg)...)
	if err != nil {
		return nil, err
	}
	if len(pcm) == 0 {
		return nil, ErrNoAudio
	}
	return pcm, nil
}

// ffmpegArgs builds the decode arguments: raw signed 16-bit little-endian
// samples on stdout, resampled to the playback rate, with the segment's
// tempo and gain applied as audio filters.
func ffmpegArgs(path string, seg Segment) []string {
	args := []string{
		"-i", path,
		"-f", "s16le",
		"-ar", strconv.Itoa(hostedSampleRate),
		"-ac", "1",
	}

	var filters []string
	if seg.Rate != 0 && seg.Rate != 1.0 {
		// The atempo filter supports 0.5 to 2.0.
		r := seg.Rate
		if r < 0.5 {
			r = 0.5
		} else if r > 2.0 {
			r = 2.0
		}
		filters = append(filters, fmt.Sprintf("atempo=%.2f", r))
	}
	if seg.HostedVolume != 1.0 {
		v := seg.HostedVolume
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		filters = append(filters, fmt.Sprintf("volume=%.2f", v))
	}
	if len(filters) > 0 {
		args = append(args, "-filter:a", strings.Join(filters, ","))
	}

	return append(args, "-")
}

// Validate checks that ffmpeg is installed and executable. Network
// reachability is only discovered on first use.
func (e *HostedEngine) Validate() error {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return fmt.Errorf("%w: ffmpeg not found in PATH", ErrEngineUnavailable)
	}
	if err := exec.Command(path, "-version").Run(); err != nil {
		return fmt.Errorf("%w: cannot execute ffmpeg: %v", ErrEngineUnavailable, err)
	}
	return nil
}

// Close releases resources held by the engine.
func (e *HostedEngine) Close() error {
	return nil
}

var _ Engine = (*HostedEngine)(nil)
