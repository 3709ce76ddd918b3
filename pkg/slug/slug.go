// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates URL slugs from arbitrary Unicode titles.
//
// # Usage
//
// Slugs are the human-readable identity of content within a locale and type
// (e.g. "grand-opening", "办公空间"). This package only derives a candidate;
// uniqueness is resolved by the content slug generator.
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// MaxTitleRunes bounds the input before any transformation runs.
	MaxTitleRunes = 200

	// Fallback is returned when nothing slug-worthy survives, e.g. an
	// all-punctuation or all-emoji title.
	Fallback = "untitled"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts a title into a slug candidate.
//
// # Transformation Pipeline
//
//  1. Truncates to [MaxTitleRunes] runes.
//  2. Lowercases.
//  3. Normalizes to NFD and removes combining marks (é → e).
//  4. Replaces every rune outside a-z, 0-9 and CJK Unified Ideographs
//     (U+4E00..U+9FFF) with a hyphen.
//  5. Collapses hyphen runs and trims them from both ends.
//
// The result is never empty: [Fallback] stands in for an empty outcome.
func Slugify(title string) string {
	title = truncate(title, MaxTitleRunes)

	lowered := strings.ToLower(title)
	stripped, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		stripped = lowered
	}

	var builder strings.Builder
	builder.Grow(len(stripped))

	pendingHyphen := false
	for _, r := range stripped {
		if !isSlugRune(r) {
			pendingHyphen = builder.Len() > 0
			continue
		}
		if pendingHyphen {
			builder.WriteByte('-')
			pendingHyphen = false
		}
		builder.WriteRune(r)
	}

	if builder.Len() == 0 {
		return Fallback
	}
	return builder.String()
}

// WithSuffix returns base for ordinal 1 and "base-n" for n >= 2.
func WithSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

func isSlugRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || (r >= 0x4E00 && r <= 0x9FFF)
}

func truncate(s string, limit int) string {
	count := 0
	for index := range s {
		if count == limit {
			return s[:index]
		}
		count++
	}
	return s
}

