package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// document does not exist in the store.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. missing trip name, malformed identifier).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// GenerationFormatError is returned when the output of a generative model
// could not be parsed as the expected JSON document after every allowed attempt.
// Err holds the parse error of the last attempt.
//
// Callers on the background path log and drop it; the itinerary generation
// path surfaces it as HTTP 500 with the detail message.
type GenerationFormatError struct {
	Attempts int
	Err      error
}

func (e *GenerationFormatError) Error() string {
	return fmt.Sprintf("generation format error after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *GenerationFormatError) Unwrap() error { return e.Err }
