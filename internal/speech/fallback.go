package speech

import (
	"context"
	"errors"
)

// FallbackEngine tries a primary engine and falls back to a secondary
// one when the primary fails. The chain is one-directional: the hosted
// engine may fall back to the local one, never the reverse, so a network
// outage degrades narration instead of silencing it.
type FallbackEngine struct {
	primary   Engine
	secondary Engine
}

// NewFallbackEngine chains primary over secondary.
func NewFallbackEngine(primary, secondary Engine) *FallbackEngine {
	return &FallbackEngine{primary: primary, secondary: secondary}
}

// Synthesize tries the primary engine first. Cancellation is never
// retried: a segment the user skipped must not come back from the
// secondary engine.
func (e *FallbackEngine) Synthesize(ctx context.Context, seg Segment) ([]byte, error) {
	pcm, err := e.primary.Synthesize(ctx, seg)
	if err == nil {
		return pcm, nil
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	return e.secondary.Synthesize(ctx, seg)
}

// Validate passes when either engine in the chain is usable.
func (e *FallbackEngine) Validate() error {
	if err := e.primary.Validate(); err == nil {
		return nil
	}
	return e.secondary.Validate()
}

// Close releases both engines.
func (e *FallbackEngine) Close() error {
	err := e.primary.Close()
	if cerr := e.secondary.Close(); err == nil {
		err = cerr
	}
	return err
}

var _ Engine = (*FallbackEngine)(nil)
