// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package apperr defines the error kinds shared by the editing engine and
// the surfaces built on top of it.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to match them.
var (
	ErrValidation       = errors.New("validation failed")
	ErrRemote           = errors.New("remote operation failed")
	ErrUnknownSection   = errors.New("unknown section")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotFound         = errors.New("not found")
	ErrUnsupported      = errors.New("unsupported operation")
)

// Validation codes.
const (
	CodeRequired               = "required"
	CodeInvalidReferenceFormat = "invalid_reference_format"
	CodeInvalidIDLength        = "invalid_id_length"
	CodeInvalidValue           = "invalid_value"
	CodeTooLarge               = "too_large"
	CodeUnsupportedType        = "unsupported_type"
)

// ValidationError reports input rejected before any remote call is made.
type ValidationError struct {
	Field   string
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a ValidationError.
func Invalid(field, code, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Required builds a ValidationError for a missing field.
func Required(field string) *ValidationError {
	return &ValidationError{Field: field, Code: CodeRequired, Message: "is required"}
}

// RemoteError reports a failed call to the content backend. Status is the
// HTTP status when one was received, 0 for transport failures.
type RemoteError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, msg)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

// Is matches ErrRemote in addition to the wrapped cause.
func (e *RemoteError) Is(target error) bool { return target == ErrRemote }

func (e *RemoteError) Unwrap() error { return e.Err }

// Remote wraps err as a RemoteError for op.
func Remote(op string, err error) *RemoteError {
	return &RemoteError{Op: op, Err: err}
}

// AsValidation extracts a *ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// AsRemote extracts a *RemoteError from err.
func AsRemote(err error) (*RemoteError, bool) {
	var re *RemoteError
	ok := errors.As(err, &re)
	return re, ok
}
