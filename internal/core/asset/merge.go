// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package asset manages the image lists attached to directory entries.

It owns two concerns:

  - Merging: combining the previously persisted asset list with the assets
    uploaded in the current request into one ordered, de-duplicated list.
  - Storage: validating uploads, assigning stable keys and writing them to the
    configured blob store (local filesystem or S3).
*/
package asset

import (
	"errors"
	"fmt"
)

// CapacityExceededError reports a merge whose result would exceed the per-entity cap.
//
// The merge never truncates. Callers either reject the write or drop Overflow
// incoming items after explicit confirmation.
type CapacityExceededError struct {
	Limit    int
	Overflow int
}

// Error implements the error interface.
func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("asset: list would exceed %d entries by %d", e.Limit, e.Overflow)
}

// AsCapacityExceeded extracts a [*CapacityExceededError] from err's chain, or nil.
func AsCapacityExceeded(err error) *CapacityExceededError {
	var capacity *CapacityExceededError
	if errors.As(err, &capacity) {
		return capacity
	}
	return nil
}

// Merge returns existing followed by incoming with exact-string duplicates
// removed. The first occurrence wins.
//
// A limit of zero or less disables the cap.
func Merge(existing, incoming []string, limit int) ([]string, error) {
	merged := make([]string, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))

	for _, list := range [][]string{existing, incoming} {
		for _, reference := range list {
			if _, ok := seen[reference]; ok {
				continue
			}
			seen[reference] = struct{}{}
			merged = append(merged, reference)
		}
	}

	if limit > 0 && len(merged) > limit {
		return nil, &CapacityExceededError{Limit: limit, Overflow: len(merged) - limit}
	}

	return merged, nil
}

// FitIncoming drops trailing incoming references until existing and incoming
// merge within limit. It is the explicit truncation path callers take after the
// user confirmed it; existing references are never dropped.
//
// The returned slice may still fail [Merge] when existing alone exceeds limit.
func FitIncoming(existing, incoming []string, limit int) []string {
	kept := incoming
	for {
		_, err := Merge(existing, kept, limit)
		capacity := AsCapacityExceeded(err)
		if capacity == nil || len(kept) == 0 {
			return kept
		}

		drop := min(capacity.Overflow, len(kept))
		kept = kept[:len(kept)-drop]
	}
}
