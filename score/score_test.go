// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package score

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"HELLO", "hello"},
		{"Hello\tWorld\n X", "helloworldx"},
		{"  spaced   out  ", "spacedout"},
		{"already", "already"},
		{"Ünïcode Text", "ünïcodetext"},
	}

	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got := Normalize(c.in)
			assert.Equal(t, c.want, got)
			assert.Equal(t, got, Normalize(got), "normalisation should be idempotent")
		})
	}
}

func TestSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical after normalising", "hello", "HELLO", 1.0},
		{"both empty", "", "", 1.0},
		{"whitespace only", " \n", "\t", 1.0},
		{"one empty", "", "ABC", 0.0},
		{"overlap", "abcd", "bcde", 0.75},
		{"reordered words", "Hello World", "world hello", 0.5},
		{"nothing in common", "abc", "xyz", 0.0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, Similarity(c.a, c.b), eps)
			assert.Equal(t, Similarity(c.a, c.b), Similarity(c.b, c.a), "similarity should be symmetric")
		})
	}
}

func TestSimilaritySelf(t *testing.T) {
	for _, s := range []string{"a", "The quick brown fox", "img1 line\nline two", "ééé"} {
		assert.Equal(t, 1.0, Similarity(s, s), s)
	}
}

func TestSimilarityNoAutoJunk(t *testing.T) {
	// with automatic junk detection the "a"s of the longer string
	// would be ignored, leaving only the "b" to match
	long := "b" + strings.Repeat("a", 250)
	assert.InDelta(t, 4.0/254.0, Similarity("aab", long), eps)
	assert.InDelta(t, 8.0/9.0, Similarity("abxcd", "abcd"), eps)
}

func TestMetrics(t *testing.T) {
	cases := []struct {
		name       string
		ocr, truth string
		want       Result
	}{
		{"perfect", "hello", "HELLO", Result{1, 1, 1, 1}},
		{"no ocr text", "", "ABC", Result{}},
		{"no truth text", "abc", "  ", Result{}},
		{"total mismatch", "ab", "cd", Result{Accuracy: 0, Precision: 0.5, Recall: 0.5, F1: 0}},
		{"partial", "aab", "abb", Result{Accuracy: 2.0 / 3.0, Precision: 0.75, Recall: 0.75, F1: 2.0 / 3.0}},
		{"truncated to shorter", "abc", "abcde", Result{1, 1, 1, 1}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Metrics(c.ocr, c.truth)
			assert.InDelta(t, c.want.Accuracy, got.Accuracy, eps, "accuracy")
			assert.InDelta(t, c.want.Precision, got.Precision, eps, "precision")
			assert.InDelta(t, c.want.Recall, got.Recall, eps, "recall")
			assert.InDelta(t, c.want.F1, got.F1, eps, "f1")
		})
	}
}

func TestMetricsIgnoresSuffix(t *testing.T) {
	base := Metrics("axc", "abcde")
	for _, truth := range []string{"abcxx", "abc", "abc\nzzzzzzzz", "ABC12"} {
		assert.Equal(t, base, Metrics("axc", truth), truth)
	}
}

func TestMetricsZeroDistinctFromMismatch(t *testing.T) {
	empty := Metrics("", "abc")
	mismatch := Metrics("xyz", "abc")
	assert.Equal(t, Result{}, empty)
	assert.Equal(t, 0.0, mismatch.Accuracy)
	assert.Greater(t, mismatch.Precision, 0.0)
	assert.Greater(t, mismatch.Recall, 0.0)
}

func FuzzSimilarity(f *testing.F) {
	for _, s := range []string{"", "hello", "Hello World", "abc\ndef"} {
		f.Add(s, "world")
	}
	f.Fuzz(func(t *testing.T, a, b string) {
		s := Similarity(a, b)
		if s < 0 || s > 1 {
			t.Fatalf("similarity out of range: %v", s)
		}
		if s != Similarity(b, a) {
			t.Fatalf("similarity not symmetric for %q, %q", a, b)
		}
	})
}
