package types

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a domain error.
type Kind int

const (
	// KindInvalidArgumentType is a wrong argument kind, e.g. a non-string
	// start date or a non-integer day count. Raised before any parsing.
	KindInvalidArgumentType Kind = iota + 1

	// KindParseFailure is a date string that does not match its layout.
	KindParseFailure

	// KindMissingColumn is a required header absent from an input table.
	KindMissingColumn

	// KindIOFailure is a missing/unreadable input or an unwritable output.
	KindIOFailure
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindInvalidArgumentType:
		return "invalid argument type"
	case KindParseFailure:
		return "parse failure"
	case KindMissingColumn:
		return "missing column"
	case KindIOFailure:
		return "io failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinel errors, one per Kind. Use errors.Is to test the kind of any error
// returned by this module:
//
//	if errors.Is(err, types.ErrParseFailure) { ... }
var (
	ErrInvalidArgumentType = errors.New("invalid argument type")
	ErrParseFailure        = errors.New("parse failure")
	ErrMissingColumn       = errors.New("missing column")
	ErrIOFailure           = errors.New("io failure")
)

// Error is the tagged error returned by every operation of this module.
type Error struct {
	// Kind is the error variant.
	Kind Kind

	// Op is the operation that failed, e.g. "fees report" or "date range".
	Op string

	// Path is the file involved, if any.
	Path string

	// Row is the 1-indexed source row, if any.
	Row int

	// Column is the column (or argument) name, if any.
	Column string

	// Value is the offending value, if any.
	Value string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Path != "" {
		fmt.Fprintf(&b, " in %s", e.Path)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " at row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " (%s", e.Column)
		if e.Value != "" {
			fmt.Fprintf(&b, "=%q", e.Value)
		}
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidArgumentType:
		return e.Kind == KindInvalidArgumentType
	case ErrParseFailure:
		return e.Kind == KindParseFailure
	case ErrMissingColumn:
		return e.Kind == KindMissingColumn
	case ErrIOFailure:
		return e.Kind == KindIOFailure
	}
	return false
}

// KindOf returns the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
