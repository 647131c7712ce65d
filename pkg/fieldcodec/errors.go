// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package fieldcodec decodes and encodes the alternate text encodings used by the
relational store for list-valued and structured columns.

The store's schema evolved over several revisions, so the same logical field
can arrive in different shapes:

  - Array literal text ("{a,b}") or an already-decoded native sequence.
  - JSON text ('{"instagram": "..."}'), raw JSON bytes, or a native mapping.
  - Absent / NULL.

Every decoder in this package accepts all of those shapes and returns the
native Go representation. Already-native input passes through unchanged, which
makes formatting idempotent.
*/
package fieldcodec

import (
	"errors"
	"fmt"
)

// MalformedFieldError reports a persisted value that could not be decoded.
//
// It is per-field and per-record: callers formatting a collection skip the
// offending record and keep going.
type MalformedFieldError struct {
	// Field is the logical field (column) name.
	Field string
	// Raw is the original value as text, kept for diagnostics.
	Raw string
	// Cause is the underlying parser or type error.
	Cause error
}

// Error implements the error interface.
func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("fieldcodec: malformed %q field: %v", e.Field, e.Cause)
}

// Unwrap exposes the underlying parser error.
func (e *MalformedFieldError) Unwrap() error { return e.Cause }

// AsMalformed extracts a [*MalformedFieldError] from err's chain, or nil.
func AsMalformed(err error) *MalformedFieldError {
	var malformed *MalformedFieldError
	if errors.As(err, &malformed) {
		return malformed
	}
	return nil
}

func malformed(field string, raw any, cause error) *MalformedFieldError {
	return &MalformedFieldError{Field: field, Raw: rawText(raw), Cause: cause}
}

func rawText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// # Partial Results

// Skipped describes one record left out of a collection because it failed to decode.
type Skipped struct {
	ID    int    `json:"id"`
	Field string `json:"field,omitempty"`
	Error string `json:"error"`
}

// SkippedFrom builds a [Skipped] entry for record id.
func SkippedFrom(id int, err error) Skipped {
	entry := Skipped{ID: id, Error: err.Error()}
	if m := AsMalformed(err); m != nil {
		entry.Field = m.Field
	}
	return entry
}
