// Package apperr holds the sentinel errors shared by the service and transport layers.
package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupported marks a read the selected path cannot serve.
	ErrUnsupported = errors.New("unsupported on this read path")
)
