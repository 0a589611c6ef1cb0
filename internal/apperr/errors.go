// Package apperr defines sentinel errors shared by the service and transport layers.
package apperr

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
	ErrValidation  = errors.New("validation failed")
	ErrInference   = errors.New("inference failed")
)
