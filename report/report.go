// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// Package report writes and reads the plain text evaluation report
// produced for each OCR engine.
//
// A report is a series of blocks, one per evaluated image:
//
//	Image: img1.png
//	OCR Result: hello world
//	Ground Truth: Hello
//	World
//	Similarity: 100.00%
//	Accuracy: 100.00%
//	Precision: 100.00%
//	Recall: 100.00%
//	F1-Score: 100.00%
//	----------------------------------------
//
// interspersed with notes about skipped images, and followed by the
// overall results, or "No images processed." if nothing was
// evaluated.
package report

import "strings"

const (
	prefixImage       = "Image:"
	prefixOCR         = "OCR Result:"
	prefixTruth       = "Ground Truth:"
	prefixSimilarity  = "Similarity:"
	prefixAccuracy    = "Accuracy:"
	prefixPrecision   = "Precision:"
	prefixRecall      = "Recall:"
	prefixF1          = "F1-Score:"
	prefixOverallAcc  = "Overall Accuracy:"
	prefixOverallPrec = "Overall Precision:"
	prefixOverallRec  = "Overall Recall:"
	prefixOverallF1   = "Overall F1-Score:"

	// NoImages replaces the overall results when no image was evaluated
	NoImages = "No images processed."
)

// Separator ends each image block
var Separator = strings.Repeat("-", 40)

// ImageResult is the evaluation of one image. The metrics are
// fractions in the range [0,1].
type ImageResult struct {
	Image       string  `json:"image" yaml:"image"`
	OCRText     string  `json:"ocr_text" yaml:"ocr_text"`
	GroundTruth string  `json:"ground_truth" yaml:"ground_truth"`
	Similarity  float64 `json:"similarity" yaml:"similarity"`
	Accuracy    float64 `json:"accuracy" yaml:"accuracy"`
	Precision   float64 `json:"precision" yaml:"precision"`
	Recall      float64 `json:"recall" yaml:"recall"`
	F1          float64 `json:"f1" yaml:"f1"`
}

// Overall is the mean of each metric over all evaluated images.
// Unlike ImageResult these are percentages, in the range [0,100],
// as they appear in the report.
type Overall struct {
	Accuracy  float64 `json:"accuracy" yaml:"accuracy"`
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1        float64 `json:"f1" yaml:"f1"`
}

// EngineReport is everything recorded about one engine's run over a
// corpus. Overall is nil if no images were processed.
type EngineReport struct {
	Engine  string        `json:"engine" yaml:"engine"`
	Images  []ImageResult `json:"images" yaml:"images"`
	Overall *Overall      `json:"overall" yaml:"overall"`
	Notes   []string      `json:"notes,omitempty" yaml:"notes,omitempty"`
}
