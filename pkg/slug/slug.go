// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII slugs from arbitrary Unicode strings.
//
// # Usage
//
// Uploaded file names are reduced to a slug before being used in a storage
// key, so "Café Poster (final).PNG" is stored as "cafe-poster-final".
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength bounds the slug length. Longer inputs are cut at a hyphen boundary when possible.
const MaxLength = 60

// From converts an arbitrary Unicode string into a lowercase ASCII slug.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD and drops combining marks (é becomes e).
// 2. Lowercases.
// 3. Turns every run of characters outside [a-z0-9] into one hyphen.
// 4. Trims hyphens and bounds the length by [MaxLength].
func From(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)
	result = strings.ToLower(result)

	var builder strings.Builder
	pendingHyphen := false
	for _, r := range result {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			pendingHyphen = false
			builder.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	slug := builder.String()
	if len(slug) > MaxLength {
		slug = slug[:MaxLength]
		if cut := strings.LastIndexByte(slug, '-'); cut > MaxLength/2 {
			slug = slug[:cut]
		}
		slug = strings.Trim(slug, "-")
	}

	return slug
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
