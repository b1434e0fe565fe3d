package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>Test Feed</title>
<item>
  <title>First &amp; Foremost</title>
  <description>&lt;p&gt;Hello &lt;b&gt;world&lt;/b&gt;   today&lt;/p&gt;</description>
  <link>https://example.test/1</link>
  <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
</item>
<item>
  <title>Second Story</title>
  <description>Plain text body</description>
  <link>https://example.test/2</link>
  <pubDate>Tue, 03 Jan 2006 15:04:05 GMT</pubDate>
</item>
</channel></rss>`

func feedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// TestFetchReducesArticles verifies markup stripping, entity decoding,
// source attribution, and newest-first ordering.
func TestFetchReducesArticles(t *testing.T) {
	srv := feedServer(t, testRSS)
	f := NewFetcher(Config{Feeds: []string{srv.URL}})

	articles, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch = %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("articles = %d, want 2", len(articles))
	}

	newest, older := articles[0], articles[1]
	if newest.Title != "Second Story" {
		t.Errorf("newest title = %q, want Second Story", newest.Title)
	}
	if older.Title != "First & Foremost" {
		t.Errorf("older title = %q, want the decoded ampersand", older.Title)
	}
	if older.Summary != "Hello world today" {
		t.Errorf("older summary = %q, want tags stripped and spaces collapsed", older.Summary)
	}
	if newest.Source != "Test Feed" || older.Source != "Test Feed" {
		t.Errorf("sources = %q, %q; want Test Feed", newest.Source, older.Source)
	}
	if older.Link != "https://example.test/1" {
		t.Errorf("link = %q, want the feed link", older.Link)
	}
	if !newest.Published.After(older.Published) {
		t.Errorf("ordering: %v not after %v", newest.Published, older.Published)
	}
}

// TestFetchLimit verifies the article cap applies after merging.
func TestFetchLimit(t *testing.T) {
	srv := feedServer(t, testRSS)
	f := NewFetcher(Config{Feeds: []string{srv.URL}, Limit: 1})

	articles, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch = %v", err)
	}
	if len(articles) != 1 || articles[0].Title != "Second Story" {
		t.Fatalf("articles = %+v, want just the newest", articles)
	}
}

// TestFetchPartialFailure verifies one broken feed costs only its own
// articles, while all feeds failing surfaces an error.
func TestFetchPartialFailure(t *testing.T) {
	good := feedServer(t, testRSS)
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	t.Cleanup(bad.Close)

	f := NewFetcher(Config{Feeds: []string{bad.URL, good.URL}})
	articles, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch with one good feed = %v", err)
	}
	if len(articles) != 2 {
		t.Errorf("articles = %d, want 2 from the surviving feed", len(articles))
	}

	all := NewFetcher(Config{Feeds: []string{bad.URL}})
	if _, err := all.Fetch(context.Background()); err == nil {
		t.Error("all feeds failing produced no error")
	}
}
