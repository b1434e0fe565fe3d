package speech

import "errors"

// Common synthesis errors
var (
	// ErrEmptyText indicates a segment with no text to speak
	ErrEmptyText = errors.New("segment text is empty")

	// ErrTextTooLong indicates a segment exceeding the engine's text limit
	ErrTextTooLong = errors.New("segment text too long")

	// ErrNoAudio indicates synthesis completed but produced no audio
	ErrNoAudio = errors.New("engine produced no audio")

	// ErrEngineUnavailable indicates the engine's external tooling is missing
	ErrEngineUnavailable = errors.New("speech engine unavailable")
)
