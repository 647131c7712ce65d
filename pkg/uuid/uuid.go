// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the time-ordered identifiers used for stored upload keys
and request correlation.

Version 7 values sort by creation time, so a directory listing of uploaded
files is naturally ordered oldest first.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// It falls back to a random v4 value if the v7 generator fails, so callers
// never need an error path for an identifier.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
