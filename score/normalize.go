// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// Package score compares OCR output with reference text, providing
// the text normalisation, similarity ratio and per-character
// classification metrics used throughout ocreval.
package score

import (
	"strings"
	"unicode"
)

// Normalize lower-cases s and removes every whitespace character,
// leaving a dense character sequence suitable for comparison.
// Normalize is idempotent.
func Normalize(s string) string {
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
