// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package score

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// chars splits s into one element per rune.
func chars(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "")
}

// Similarity returns the matching-block ratio between the
// normalised forms of a and b, in the range [0,1]. Automatic junk
// detection is disabled, so every character counts.
//
// The two sequences are matched in a fixed order regardless of
// argument order, so Similarity(a, b) == Similarity(b, a).
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if nb < na {
		na, nb = nb, na
	}
	m := difflib.NewMatcherWithJunk(chars(na), chars(nb), false, nil)
	return m.Ratio()
}
