// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package bitfield

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind categorizes an Error.
type Kind string

const (
	KindInvalidLayout      Kind = "invalid_layout"
	KindLengthMismatch     Kind = "length_mismatch"
	KindGroupWidthMismatch Kind = "group_width_mismatch"
	KindInvalidWidth       Kind = "invalid_width"
	KindInvalidRange       Kind = "invalid_range"
	KindLookupConflict     Kind = "lookup_conflict"
	KindInvalidLookupKey   Kind = "invalid_lookup_key"
	KindInvalidBit         Kind = "invalid_bit"
	KindUnknownBitPattern  Kind = "unknown_bit_pattern"
	KindInvalidHex         Kind = "invalid_hex"

	// Encode-time resolution failures.
	KindUnknownLabel       Kind = "unknown_label"
	KindAmbiguousLabel     Kind = "ambiguous_label"
	KindInvalidAddress     Kind = "invalid_address"
	KindUnknownFieldValue  Kind = "unknown_field_value"
	KindValueAlreadySet    Kind = "value_already_set"
	KindMissingFieldValue  Kind = "missing_field_value"
	KindUnknownFieldName   Kind = "unknown_field_name"
	KindAmbiguousFieldName Kind = "ambiguous_field_name"

	// Registry lookups.
	KindUnknownLayout Kind = "unknown_layout"
)

// Sentinels for use with errors.Is. Only Kind is compared.
var (
	ErrInvalidLayout      = sentinel(KindInvalidLayout)
	ErrLengthMismatch     = sentinel(KindLengthMismatch)
	ErrGroupWidthMismatch = sentinel(KindGroupWidthMismatch)
	ErrInvalidWidth       = sentinel(KindInvalidWidth)
	ErrInvalidRange       = sentinel(KindInvalidRange)
	ErrLookupConflict     = sentinel(KindLookupConflict)
	ErrInvalidLookupKey   = sentinel(KindInvalidLookupKey)
	ErrInvalidBit         = sentinel(KindInvalidBit)
	ErrUnknownBitPattern  = sentinel(KindUnknownBitPattern)
	ErrInvalidHex         = sentinel(KindInvalidHex)
	ErrUnknownLabel       = sentinel(KindUnknownLabel)
	ErrAmbiguousLabel     = sentinel(KindAmbiguousLabel)
	ErrInvalidAddress     = sentinel(KindInvalidAddress)
	ErrUnknownFieldValue  = sentinel(KindUnknownFieldValue)
	ErrValueAlreadySet    = sentinel(KindValueAlreadySet)
	ErrMissingFieldValue  = sentinel(KindMissingFieldValue)
	ErrUnknownFieldName   = sentinel(KindUnknownFieldName)
	ErrAmbiguousFieldName = sentinel(KindAmbiguousFieldName)
	ErrUnknownLayout      = sentinel(KindUnknownLayout)
)

// Error is the error type returned by every operation in this package.
type Error struct {
	Cause  error
	Kind   Kind
	Label  string
	Field  string
	Detail string
	// Index is the flat descriptor index the error refers to, or -1.
	Index int
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(string(e.Kind))

	if e.Index >= 0 {
		b.WriteString(" at index ")
		b.WriteString(strconv.Itoa(e.Index))
	}
	if e.Label != "" {
		b.WriteString(" label ")
		b.WriteString(strconv.Quote(e.Label))
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(strconv.Quote(e.Field))
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

func newError(kind Kind, format string, args ...any) *Error {
	e := &Error{Kind: kind, Index: -1}
	if len(args) > 0 {
		e.Detail = fmt.Sprintf(format, args...)
	} else {
		e.Detail = format
	}
	return e
}

func (e *Error) at(index int) *Error {
	e.Index = index
	return e
}

func (e *Error) withLabel(label string) *Error {
	e.Label = label
	return e
}

func (e *Error) withField(field string) *Error {
	e.Field = field
	return e
}

func (e *Error) because(err error) *Error {
	e.Cause = err
	return e
}

func sentinel(kind Kind) *Error {
	return &Error{Kind: kind, Index: -1}
}
