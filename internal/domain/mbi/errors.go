package mbi

import "errors"

// Sentinel kinds for scoring errors.
var (
	ErrUnknownQuestion = errors.New("unknown question id")
)
