// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// Package eval runs an OCR engine over a directory of images and
// scores each result against its ground truth, writing a report as
// it goes.
package eval

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"rescribe.xyz/ocreval/groundtruth"
	"rescribe.xyz/ocreval/report"
	"rescribe.xyz/ocreval/score"
)

// DefaultExtensions are the image file extensions evaluated when
// none are configured
var DefaultExtensions = []string{".png", ".jpg", ".jpeg"}

// TextExtractor is an OCR engine, which returns the text it finds in
// an image.
type TextExtractor interface {
	Name() string
	ExtractText(ctx context.Context, imagePath string) (string, error)
}

// OCRInvocationError records an engine failing on an image. It does
// not stop a run.
type OCRInvocationError struct {
	Path string
	Err  error
}

func (e *OCRInvocationError) Error() string {
	return fmt.Sprintf("ocr of %s failed: %v", e.Path, e.Err)
}

func (e *OCRInvocationError) Unwrap() error { return e.Err }

// MissingGroundTruthError records an image having no ground truth.
// It does not stop a run.
type MissingGroundTruthError struct {
	Image string
}

func (e *MissingGroundTruthError) Error() string {
	return "no ground truth for " + e.Image
}

// Runner holds everything needed for one evaluation run.
type Runner struct {
	Engine      TextExtractor
	GroundTruth groundtruth.Store
	// Images is the directory of images to evaluate
	Images string
	// Extensions limits which files in Images are evaluated; if
	// empty DefaultExtensions is used
	Extensions []string
	// Sink receives the report text as it is produced
	Sink   io.Writer
	Logger *slog.Logger
}

// totals accumulates metrics over the images evaluated so far
type totals struct {
	accuracy, precision, recall, f1 float64
	n                               int
}

func (t *totals) add(r score.Result) {
	t.accuracy += r.Accuracy
	t.precision += r.Precision
	t.recall += r.Recall
	t.f1 += r.F1
	t.n++
}

// overall returns the mean of each metric as a percentage, or nil
// if nothing has been added.
func (t *totals) overall() *report.Overall {
	if t.n == 0 {
		return nil
	}
	n := float64(t.n)
	return &report.Overall{
		Accuracy:  t.accuracy / n * 100,
		Precision: t.precision / n * 100,
		Recall:    t.recall / n * 100,
		F1:        t.f1 / n * 100,
	}
}

func hasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// ListImages returns the names of the files in dir with one of the
// given extensions, sorted by name.
func ListImages(dir string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing images in %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !hasExtension(e.Name(), exts) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Evaluate scores OCR text against ground truth text. Line breaks in
// the OCR text are replaced by spaces first.
func Evaluate(image, ocrText, truth string) report.ImageResult {
	ocrText = strings.ReplaceAll(ocrText, "\r\n", " ")
	ocrText = strings.ReplaceAll(ocrText, "\n", " ")
	m := score.Metrics(ocrText, truth)
	return report.ImageResult{
		Image:       image,
		OCRText:     ocrText,
		GroundTruth: truth,
		Similarity:  score.Similarity(ocrText, truth),
		Accuracy:    m.Accuracy,
		Precision:   m.Precision,
		Recall:      m.Recall,
		F1:          m.F1,
	}
}

func (r *Runner) emit(s string) error {
	if r.Sink == nil {
		return nil
	}
	_, err := io.WriteString(r.Sink, s)
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func (r *Runner) note(rep *report.EngineReport, s string) error {
	rep.Notes = append(rep.Notes, s)
	return r.emit(s + "\n")
}

// Run evaluates every image, returning the complete report. Images
// without ground truth, and images the engine fails on, are noted
// and skipped. An error is only returned if the images can't be
// listed, the report can't be written, or ctx is done; whatever was
// written to the sink before then is left there.
func (r *Runner) Run(ctx context.Context) (*report.EngineReport, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	rep := &report.EngineReport{Engine: r.Engine.Name(), Images: []report.ImageResult{}}

	names, err := ListImages(r.Images, r.Extensions)
	if err != nil {
		return nil, err
	}
	logger.Info("Starting evaluation", "engine", rep.Engine, "images", len(names), "ground_truth", len(r.GroundTruth))

	var sum totals
	for _, name := range names {
		select {
		case <-ctx.Done():
			return rep, ctx.Err()
		default:
		}

		path := filepath.Join(r.Images, name)
		truth, ok := r.GroundTruth[name]
		if !ok {
			logger.Warn("Skipping image", "err", &MissingGroundTruthError{Image: name})
			if err := r.note(rep, report.MissingTruthNote(name)); err != nil {
				return rep, err
			}
			continue
		}

		logger.Debug("Running OCR", "engine", rep.Engine, "image", path)
		text, err := r.Engine.ExtractText(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return rep, ctx.Err()
			}
			logger.Error("Skipping image", "err", &OCRInvocationError{Path: path, Err: err})
			if err := r.note(rep, report.ErrorNote(path, err)); err != nil {
				return rep, err
			}
			continue
		}

		res := Evaluate(name, text, truth)
		logger.Info("Evaluated image", "image", name,
			"similarity", res.Similarity, "accuracy", res.Accuracy, "f1", res.F1)
		if err := r.emit(report.FormatImage(res)); err != nil {
			return rep, err
		}
		rep.Images = append(rep.Images, res)
		sum.add(score.Result{Accuracy: res.Accuracy, Precision: res.Precision, Recall: res.Recall, F1: res.F1})
	}

	rep.Overall = sum.overall()
	if rep.Overall == nil {
		logger.Warn("No images processed", "engine", rep.Engine)
	} else {
		logger.Info("Finished evaluation", "engine", rep.Engine, "evaluated", sum.n,
			"accuracy", rep.Overall.Accuracy, "precision", rep.Overall.Precision,
			"recall", rep.Overall.Recall, "f1", rep.Overall.F1)
	}
	if err := r.emit(report.FormatOverall(rep.Overall)); err != nil {
		return rep, err
	}

	return rep, nil
}
