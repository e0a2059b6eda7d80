// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"io"
	"strings"
)

func pct(f float64) string {
	return fmt.Sprintf("%.2f%%", f)
}

// FormatImage returns the report block for an image result,
// including the trailing separator line.
func FormatImage(r ImageResult) string {
	return prefixImage + " " + r.Image + "\n" +
		prefixOCR + " " + r.OCRText + "\n" +
		prefixTruth + " " + r.GroundTruth + "\n" +
		prefixSimilarity + " " + pct(r.Similarity*100) + "\n" +
		prefixAccuracy + " " + pct(r.Accuracy*100) + "\n" +
		prefixPrecision + " " + pct(r.Precision*100) + "\n" +
		prefixRecall + " " + pct(r.Recall*100) + "\n" +
		prefixF1 + " " + pct(r.F1*100) + "\n" +
		Separator + "\n"
}

// FormatOverall returns the closing lines of a report, which are
// either the overall results or the NoImages line if o is nil.
func FormatOverall(o *Overall) string {
	if o == nil {
		return NoImages + "\n"
	}
	return prefixOverallAcc + " " + pct(o.Accuracy) + "\n" +
		prefixOverallPrec + " " + pct(o.Precision) + "\n" +
		prefixOverallRec + " " + pct(o.Recall) + "\n" +
		prefixOverallF1 + " " + pct(o.F1) + "\n"
}

// MissingTruthNote is the note recorded for an image with no ground
// truth.
func MissingTruthNote(image string) string {
	return fmt.Sprintf("No ground truth found for %s. Skipping...", image)
}

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// ErrorNote is the note recorded for an image the OCR engine failed
// on. It is always a single line.
func ErrorNote(path string, err error) string {
	return newlines.Replace(fmt.Sprintf("Error processing %s: %v", path, err))
}

// Write writes a complete report to w. Notes are written before the
// image blocks, as their original position is not recorded.
func Write(w io.Writer, r *EngineReport) error {
	for _, n := range r.Notes {
		if _, err := fmt.Fprintln(w, n); err != nil {
			return err
		}
	}
	for _, i := range r.Images {
		if _, err := io.WriteString(w, FormatImage(i)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, FormatOverall(r.Overall))
	return err
}
