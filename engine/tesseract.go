// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"rescribe.xyz/utils/pkg/hocr"
)

const defaultTesseract = "tesseract"
const defaultLanguage = "eng"

// Tesseract runs the tesseract command on each image, asking it for
// hOCR output, and returns the text of the hOCR.
type Tesseract struct {
	name     string
	tesscmd  string
	language string
	args     []string
	logger   *slog.Logger
}

func newTesseract(name string, c Config, logger *slog.Logger) (Engine, error) {
	t := &Tesseract{
		name:     name,
		tesscmd:  c.Command,
		language: c.Language,
		args:     c.Args,
		logger:   logger,
	}
	if t.tesscmd == "" {
		t.tesscmd = defaultTesseract
	}
	if t.language == "" {
		t.language = defaultLanguage
	}
	return t, nil
}

func (t *Tesseract) Name() string { return t.name }

// ExtractText OCRs an image with tesseract.
func (t *Tesseract) ExtractText(ctx context.Context, imagePath string) (string, error) {
	dir, err := os.MkdirTemp("", "ocreval-tess")
	if err != nil {
		return "", fmt.Errorf("creating temporary directory: %w", err)
	}
	defer os.RemoveAll(dir)

	base := filepath.Join(dir, "out")
	args := []string{"-l", t.language, imagePath, base}
	args = append(args, t.args...)
	args = append(args, "-c", "tessedit_create_hocr=1", "-c", "hocr_font_info=0")
	stdout, stderr, err := run(ctx, t.logger, t.tesscmd, args...)
	if err != nil {
		return "", fmt.Errorf("error ocring %s with language %s: %v\nStdout: %s\nStderr: %s", imagePath, t.language, err, stdout, stderr)
	}

	hocrpath := base + ".hocr"
	text, err := hocr.GetText(hocrpath)
	if err != nil {
		return "", fmt.Errorf("error reading hocr for %s: %w", imagePath, err)
	}
	if conf, err := hocr.GetAvgConf(hocrpath); err == nil {
		t.logger.Debug("Tesseract confidence", "image", imagePath, "conf", conf)
	}

	return strings.TrimSpace(text), nil
}
