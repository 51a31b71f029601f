package model

import "errors"

var (
	// ErrEmptyVocabulary is returned when a word supply would be empty.
	ErrEmptyVocabulary = errors.New("empty vocabulary")

	// ErrDomain marks arguments outside a scoring or timing function's domain.
	ErrDomain = errors.New("value out of domain")

	// ErrInvalidState marks an operation invoked in a state that forbids it.
	ErrInvalidState = errors.New("invalid state")
)
