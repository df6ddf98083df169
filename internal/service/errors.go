package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for the business layer. Controllers map these to HTTP
// statuses with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
)

// MalformedResponseError is returned when the generation API answers with
// text that cannot be parsed into a question array. Raw carries the body for
// diagnostics.
type MalformedResponseError struct {
	Reason string
	Raw    string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed generation response: %s", e.Reason)
}

// GenerationFailureError wraps a persistence or build failure during daily
// quiz generation.
type GenerationFailureError struct {
	Err error
}

func (e *GenerationFailureError) Error() string {
	return fmt.Sprintf("daily quiz generation failed: %v", e.Err)
}

func (e *GenerationFailureError) Unwrap() error { return e.Err }
