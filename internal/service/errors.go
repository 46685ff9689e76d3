package service

import "errors"

var (
	// ErrNotFound indicates the bill, item or participant doesn't exist, or
	// the presented token is wrong. The two cases are deliberately
	// indistinguishable.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the action is not allowed for this caller,
	// e.g. editing claims after submitting.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidState indicates the action is illegal in the bill's current
	// lifecycle state, e.g. confirming a bill twice.
	ErrInvalidState = errors.New("invalid bill state")
	// ErrValidation indicates malformed input, e.g. a non-image upload or a
	// negative price.
	ErrValidation = errors.New("invalid input")
	// ErrExtraction indicates the vision model's response couldn't be used.
	// Retryable by re-triggering extraction.
	ErrExtraction = errors.New("extraction failed")
)
