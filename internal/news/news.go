// Package news pulls configured feeds and reduces them to plain-text
// articles, then proposes vocabulary words and Japanese sentences worth
// importing from them.
package news

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"
)

const (
	fetchTimeout = 20 * time.Second
	userAgent    = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"

	// hostInterval spaces out repeat hits on one feed host.
	hostInterval = 2 * time.Second

	// DefaultLimit caps how many articles a fetch returns.
	DefaultLimit = 12
)

// DefaultFeeds are used when configuration names none: one Japanese
// source for sentences, one English source for vocabulary.
var DefaultFeeds = []string{
	"https://www3.nhk.or.jp/rss/news/cat0.xml",
	"https://feeds.bbci.co.uk/news/world/rss.xml",
}

// Article is one feed item reduced to displayable plain text.
type Article struct {
	Title     string
	Source    string
	Published time.Time
	Link      string
	Summary   string
}

// Config adjusts a Fetcher.
type Config struct {
	// Feeds lists feed URLs; empty means DefaultFeeds.
	Feeds []string

	// Limit caps returned articles; zero means DefaultLimit.
	Limit int
}

// Fetcher pulls and reduces the configured feeds.
type Fetcher struct {
	parser *gofeed.Parser
	policy *bluemonday.Policy
	feeds  []string
	limit  int
	hosts  hostLimiters
}

// NewFetcher returns a ready fetcher.
func NewFetcher(cfg Config) *Fetcher {
	feeds := cfg.Feeds
	if len(feeds) == 0 {
		feeds = DefaultFeeds
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	return &Fetcher{
		parser: parser,
		policy: bluemonday.StrictPolicy(),
		feeds:  feeds,
		limit:  limit,
	}
}

// Fetch pulls every configured feed, newest articles first, capped at
// the limit. One broken feed only costs its own articles; an error is
// returned when nothing at all could be fetched.
func (f *Fetcher) Fetch(ctx context.Context) ([]Article, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	var (
		articles []Article
		firstErr error
	)
	for _, feedURL := range f.feeds {
		if err := f.hosts.wait(ctx, feedURL); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
		feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			log.Warn("feed fetch failed", "url", feedURL, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("fetch %s: %w", feedURL, err)
			}
			continue
		}
		articles = append(articles, f.reduce(feed)...)
	}
	if len(articles) == 0 && firstErr != nil {
		return nil, firstErr
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Published.After(articles[j].Published)
	})
	if len(articles) > f.limit {
		articles = articles[:f.limit]
	}
	return articles, nil
}

func (f *Fetcher) reduce(feed *gofeed.Feed) []Article {
	source := strings.TrimSpace(feed.Title)
	out := make([]Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		title := f.plainText(item.Title)
		if title == "" {
			continue
		}
		body := item.Content
		if strings.TrimSpace(body) == "" {
			body = item.Description
		}
		var published time.Time
		switch {
		case item.PublishedParsed != nil:
			published = *item.PublishedParsed
		case item.UpdatedParsed != nil:
			published = *item.UpdatedParsed
		}
		out = append(out, Article{
			Title:     title,
			Source:    source,
			Published: published,
			Link:      strings.TrimSpace(item.Link),
			Summary:   f.plainText(body),
		})
	}
	return out
}

// plainText strips markup, decodes entities, and collapses whitespace.
// The sanitizer escapes its output, so the unescape comes after it.
func (f *Fetcher) plainText(s string) string {
	clean := html.UnescapeString(f.policy.Sanitize(s))
	return strings.Join(strings.Fields(clean), " ")
}

// hostLimiters holds one rate limiter per feed host, so hammering one
// slow host never throttles the others.
type hostLimiters struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
}

func (h *hostLimiters) wait(ctx context.Context, feedURL string) error {
	host := feedURL
	if u, err := url.Parse(feedURL); err == nil && u.Host != "" {
		host = u.Host
	}

	h.mu.Lock()
	if h.m == nil {
		h.m = make(map[string]*rate.Limiter)
	}
	lim, ok := h.m[host]
	if !ok {
		lim = rate.NewLimiter(rate.Every(hostInterval), 1)
		h.m[host] = lim
	}
	h.mu.Unlock()

	return lim.Wait(ctx)
}
