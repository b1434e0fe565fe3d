// Package translate glosses words through the free Google Translate web
// endpoint. No API key is involved, so requests are rate limited and
// failures are expected; callers fall back to a placeholder gloss.
package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultEndpoint = "https://translate.googleapis.com/translate_a/single"
	userAgent       = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"

	requestTimeout  = 10 * time.Second
	maxResponseSize = 1 << 20
	maxTextSize     = 2000

	// defaultPerMinute keeps the client well under the point where the
	// free endpoint starts refusing.
	defaultPerMinute = 30
)

// Translate errors
var (
	// ErrEmptyText indicates a request with nothing to translate.
	ErrEmptyText = errors.New("empty text")

	// ErrTextTooLong indicates input past the request size cap.
	ErrTextTooLong = errors.New("text too long")

	// ErrNoTranslation indicates a response carrying no usable result.
	ErrNoTranslation = errors.New("no translation in response")
)

// Client fetches translations.
type Client struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

// Config adjusts a Client.
type Config struct {
	// RequestsPerMinute caps the request rate; zero means the default.
	RequestsPerMinute int
}

// New returns a ready client.
func New(cfg Config) *Client {
	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = defaultPerMinute
	}
	return &Client{
		endpoint: defaultEndpoint,
		client:   &http.Client{},
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
	}
}

// Translate returns text rendered from one language into another. An
// empty from means source detection. The response is parsed leniently;
// anything unusable comes back as an error for the caller's fallback.
func (c *Client) Translate(ctx context.Context, text, from, to string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	if len(text) > maxTextSize {
		return "", fmt.Errorf("%w: %d bytes", ErrTextTooLong, len(text))
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, translateURL(c.endpoint, text, from, to), nil)
	if err != nil {
		return "", fmt.Errorf("build translate request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch translation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate endpoint returned %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("read translation: %w", err)
	}
	return parseResponse(data)
}

// translateURL builds the web-client query. client=gtx selects the free
// path, dt=t asks for the translation chunks only.
func translateURL(endpoint, text, from, to string) string {
	if from == "" {
		from = "auto"
	}
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("ie", "UTF-8")
	params.Set("oe", "UTF-8")
	params.Set("dt", "t")
	params.Set("sl", from)
	params.Set("tl", to)
	params.Set("q", text)
	return endpoint + "?" + params.Encode()
}

// parseResponse digs the translated chunks out of the endpoint's nested
// array payload: element 0 is a list of [translated, original, ...]
// chunks that concatenate into the full result.
func parseResponse(data []byte) (string, error) {
	var payload []any
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("decode translation: %w", err)
	}
	if len(payload) == 0 {
		return "", ErrNoTranslation
	}
	chunks, ok := payload[0].([]any)
	if !ok {
		return "", ErrNoTranslation
	}

	var b strings.Builder
	for _, chunk := range chunks {
		seg, ok := chunk.([]any)
		if !ok || len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			b.WriteString(s)
		}
	}
	if b.Len() == 0 {
		return "", ErrNoTranslation
	}
	return b.String(), nil
}
