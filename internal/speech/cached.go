package speech

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/hyaochen/echolingo-lab/internal/cache"
)

// DefaultCacheCapacity bounds the PCM kept by a cached engine. A study
// queue is a few hundred short clips at most, so 32 MB covers several
// full passes.
const DefaultCacheCapacity = 32 << 20

// CachedEngine wraps an Engine and memoizes its synthesis results, so
// looping over the same queue stops paying the backend cost after the
// first pass. Worth it for the hosted engine, whose cost is a network
// round trip per segment.
type CachedEngine struct {
	inner Engine
	cache *cache.Cache
}

// NewCachedEngine wraps inner with an LRU of the given byte capacity.
// A capacity of zero selects DefaultCacheCapacity.
func NewCachedEngine(inner Engine, capacity int64) *CachedEngine {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &CachedEngine{inner: inner, cache: cache.New(capacity)}
}

// Synthesize returns cached PCM when the exact segment was synthesized
// before, otherwise delegates and caches the result. Errors are never
// cached; a transient failure retries on the next attempt.
func (e *CachedEngine) Synthesize(ctx context.Context, seg Segment) ([]byte, error) {
	key := segmentKey(seg)
	if pcm, ok := e.cache.Get(key); ok {
		return pcm, nil
	}
	pcm, err := e.inner.Synthesize(ctx, seg)
	if err != nil {
		return nil, err
	}
	// An oversized clip simply stays uncached.
	_ = e.cache.Put(key, pcm)
	return pcm, nil
}

// Validate delegates to the wrapped engine.
func (e *CachedEngine) Validate() error { return e.inner.Validate() }

// Close drops the cached audio and closes the wrapped engine.
func (e *CachedEngine) Close() error {
	e.cache.Clear()
	return e.inner.Close()
}

// Stats exposes the cache counters for logging.
func (e *CachedEngine) Stats() cache.Stats { return e.cache.Stats() }

// segmentKey digests every field that shapes the audio, so any profile
// change lands on a fresh entry.
func segmentKey(seg Segment) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%.3f\x00%.3f\x00%.3f\x00%.3f\x00%s",
		seg.Voice, seg.Lang, seg.Rate, seg.Pitch, seg.LocalVolume, seg.HostedVolume, seg.Text)
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16])
}

var _ Engine = (*CachedEngine)(nil)
