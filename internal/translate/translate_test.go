package translate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/time/rate"
)

func testClient(srv *httptest.Server) *Client {
	return &Client{
		endpoint: srv.URL,
		client:   srv.Client(),
		limiter:  rate.NewLimiter(rate.Inf, 1),
	}
}

// TestTranslateURL verifies the web-client query parameters.
func TestTranslateURL(t *testing.T) {
	raw := translateURL("https://example.test/t", "hello world", "", "zh-CN")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q) = %v", raw, err)
	}
	q := u.Query()

	tests := []struct {
		param string
		want  string
	}{
		{"client", "gtx"},
		{"ie", "UTF-8"},
		{"oe", "UTF-8"},
		{"dt", "t"},
		{"sl", "auto"},
		{"tl", "zh-CN"},
		{"q", "hello world"},
	}
	for _, tt := range tests {
		if got := q.Get(tt.param); got != tt.want {
			t.Errorf("param %s = %q, want %q", tt.param, got, tt.want)
		}
	}

	with := translateURL("https://example.test/t", "hi", "en", "ja")
	if u, _ := url.Parse(with); u.Query().Get("sl") != "en" {
		t.Errorf("sl with explicit source = %q, want en", u.Query().Get("sl"))
	}
}

// TestParseResponse verifies lenient parsing of the nested array
// payload, including multi-chunk concatenation.
func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
	}{
		{
			name: "single chunk",
			body: `[[["你好","hello",null,null,10]],null,"en"]`,
			want: "你好",
		},
		{
			name: "chunks concatenate",
			body: `[[["你好，","Hello, "],["世界","world"]],null,"en"]`,
			want: "你好，世界",
		},
		{
			name: "chunk with junk entries",
			body: `[[[42],["月","moon"],"noise"],null,"en"]`,
			want: "月",
		},
		{
			name:    "empty payload",
			body:    `[]`,
			wantErr: ErrNoTranslation,
		},
		{
			name:    "unexpected shape",
			body:    `{"translated":"nope"}`,
			wantErr: nil, // a decode error, checked by message below
		},
		{
			name:    "no usable chunk",
			body:    `[[["",""]],null,"en"]`,
			wantErr: ErrNoTranslation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseResponse([]byte(tt.body))
			if tt.want != "" {
				if err != nil || got != tt.want {
					t.Fatalf("parseResponse = %q, %v; want %q", got, err, tt.want)
				}
				return
			}
			if err == nil {
				t.Fatalf("parseResponse = %q, want an error", got)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("parseResponse error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestTranslate verifies the request path against a canned endpoint.
func TestTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("client"); got != "gtx" {
			t.Errorf("client param = %q, want gtx", got)
		}
		if got := r.Header.Get("User-Agent"); !strings.HasPrefix(got, "Mozilla/") {
			t.Errorf("user agent = %q, want a browser string", got)
		}
		w.Write([]byte(`[[["灯笼","lantern"]],null,"en"]`))
	}))
	defer srv.Close()

	got, err := testClient(srv).Translate(context.Background(), "lantern", "en", "zh-CN")
	if err != nil {
		t.Fatalf("Translate = %v", err)
	}
	if got != "灯笼" {
		t.Errorf("Translate = %q, want 灯笼", got)
	}
}

// TestTranslateFailures verifies input gates and server errors.
func TestTranslateFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()
	c := testClient(srv)

	if _, err := c.Translate(context.Background(), "   ", "en", "zh-CN"); !errors.Is(err, ErrEmptyText) {
		t.Errorf("blank text = %v, want ErrEmptyText", err)
	}
	long := strings.Repeat("a", maxTextSize+1)
	if _, err := c.Translate(context.Background(), long, "en", "zh-CN"); !errors.Is(err, ErrTextTooLong) {
		t.Errorf("oversized text = %v, want ErrTextTooLong", err)
	}
	if _, err := c.Translate(context.Background(), "word", "en", "zh-CN"); err == nil {
		t.Error("refusing endpoint produced no error")
	}
}
