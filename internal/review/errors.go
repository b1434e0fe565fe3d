package review

import "errors"

// Session errors
var (
	// ErrEmptySelection indicates a start request whose group matched
	// no items. The queue is left untouched.
	ErrEmptySelection = errors.New("no items match the selected group")
)
