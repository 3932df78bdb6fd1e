// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apperr defines the error taxonomy shared by the chat core.
//
// Callers match categories with errors.Is against the exported sentinels:
//
//	if errors.Is(err, apperr.ErrNotFound) {
//	    // fall back to the default model
//	}
package apperr

import (
	"fmt"
)

// =============================================================================
// ERROR KINDS
// =============================================================================

// Kind categorises an error.
type Kind int

const (
	// KindNotFound is an unresolvable model lookup key or missing chat.
	KindNotFound Kind = iota + 1
	// KindInvalidArgument is input rejected before any side effect.
	KindInvalidArgument
	// KindPersistence is a storage failure.
	KindPersistence
	// KindHandler is a subscriber failure during a broadcast.
	KindHandler
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalidArgument:
		return "invalid argument"
	case KindPersistence:
		return "persistence error"
	case KindHandler:
		return "handler error"
	default:
		return "unknown error"
	}
}

// =============================================================================
// ERROR TYPE
// =============================================================================

// Error carries a Kind, the operation that failed and an optional cause.
type Error struct {
	Kind Kind
	Op   string // Operation that failed (e.g. "catalog.Resolve")
	Msg  string // Human-readable detail
	Err  error  // Underlying error (if any)
}

// Sentinels for errors.Is.
var (
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	ErrPersistence     = &Error{Kind: KindPersistence}
	ErrHandler         = &Error{Kind: KindHandler}
)

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// NotFound returns a KindNotFound error.
func NotFound(op, format string, args ...any) error {
	return &Error{Kind: KindNotFound, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// InvalidArgument returns a KindInvalidArgument error.
func InvalidArgument(op, format string, args ...any) error {
	return &Error{Kind: KindInvalidArgument, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Persistence wraps a storage failure.
func Persistence(op string, err error) error {
	return &Error{Kind: KindPersistence, Op: op, Err: err}
}

// Handler wraps a subscriber failure.
func Handler(op string, index int, err error) error {
	return &Error{Kind: KindHandler, Op: op, Msg: fmt.Sprintf("subscriber %d", index), Err: err}
}
