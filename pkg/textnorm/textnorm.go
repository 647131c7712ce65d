// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package textnorm normalises free-text names for case-insensitive exact matching.
//
// # Matching Rule
//
// Two names match when their normalised forms are byte-equal. Normalisation is
// trim, Unicode NFC composition and per-rune lower-casing. There is no fuzzy
// matching: "The Foos" and "Foos" never match.
//
// The SQL form in [SQL] must produce the same key as [Name] for every stored
// name, so lower-casing is context-free (a final Σ lowers to σ, never ς) and
// only the ASCII whitespace in [Space] is trimmed.
package textnorm

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Space is the set of characters trimmed from both ends of a name.
const Space = " \t\n\r"

// Name returns the normalised lookup key for a name.
func Name(s string) string {
	composed := norm.NFC.String(strings.Trim(s, Space))
	return strings.ToLower(composed)
}

// SQL returns the Postgres expression that computes [Name] for column.
func SQL(column string) string {
	return "lower(normalize(btrim(" + column + ", E' \\t\\n\\r'), NFC))"
}

// Names normalises every name and returns the distinct keys in first-seen order.
// Blank names are skipped.
func Names(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	keys := make([]string, 0, len(names))

	for _, name := range names {
		key := Name(name)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	return keys
}
