// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package preproc

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	rpreproc "rescribe.xyz/preproc"

	"rescribe.xyz/ocreval/labels"
)

// Settings for wiping the sides of images, which removes dark
// borders and neighbouring page content from photographed pages.
const (
	wipeHWSize   = 5
	wipeHThresh  = 0.03
	wipeHMinPerc = 30
	wipeVWSize   = 120
	wipeVThresh  = 0.005
	wipeVMinPerc = 30
)

// Processor preprocesses every labelled image in a directory,
// writing the results to another directory with the same filenames.
type Processor struct {
	Labels labels.Labels
	Input  string
	Output string
	// Filter names the registered filter to use, DefaultFilter if
	// empty
	Filter string
	// Binarise binarises each image after preprocessing
	Binarise bool
	// Wipe removes content from the sides of each image
	Wipe   bool
	Logger *slog.Logger
}

// Processed records the preprocessing of one image.
type Processed struct {
	Image string `json:"image" yaml:"image"`
	Label string `json:"label" yaml:"label"`
}

// Summary lists what happened to each labelled image.
type Summary struct {
	Processed []Processed `json:"processed" yaml:"processed"`
	Skipped   []string    `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Failed    []string    `json:"failed,omitempty" yaml:"failed,omitempty"`
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// encode writes img in the format suggested by the extension of
// name, falling back to PNG.
func encode(w io.Writer, name string, img image.Image) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case ".bmp":
		return bmp.Encode(w, img)
	}
	return png.Encode(w, img)
}

func encodeFile(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = encode(f, path, img)
	if err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

// ProcessImage preprocesses a single image with the variant chosen
// for its labels. It returns false if none of the labels are known.
func (p *Processor) ProcessImage(name string, ls []string) (string, bool, error) {
	v, ok := VariantFor(ls, p.Binarise)
	if !ok {
		return "", false, nil
	}

	f, err := lookup(p.Filter)
	if err != nil {
		return v.Label, true, err
	}

	img, err := decodeFile(filepath.Join(p.Input, name))
	if err != nil {
		return v.Label, true, err
	}

	out, err := v.Apply(f, img)
	if err != nil {
		return v.Label, true, fmt.Errorf("filtering %s: %w", name, err)
	}
	if p.Wipe {
		out = rpreproc.Wipe(Gray(out), wipeHWSize, wipeHThresh, wipeHMinPerc, wipeVWSize, wipeVThresh, wipeVMinPerc)
	}

	return v.Label, true, encodeFile(filepath.Join(p.Output, name), out)
}

// ProcessDir preprocesses every image named in the labels. Images
// with no known label are skipped, and images which fail are
// recorded and logged without stopping the run.
func (p *Processor) ProcessDir(ctx context.Context) (Summary, error) {
	var s Summary
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	_, err := lookup(p.Filter)
	if err != nil {
		return s, err
	}

	err = os.MkdirAll(p.Output, 0755)
	if err != nil {
		return s, fmt.Errorf("failed to create output directory %s: %w", p.Output, err)
	}

	for _, name := range p.Labels.Images() {
		select {
		case <-ctx.Done():
			return s, ctx.Err()
		default:
		}

		label, ok, err := p.ProcessImage(name, p.Labels[name])
		switch {
		case !ok:
			logger.Info("Skipping image, no relevant label found", "image", name)
			s.Skipped = append(s.Skipped, name)
		case err != nil:
			logger.Error("Processing failed", "image", name, "label", label, "err", err)
			s.Failed = append(s.Failed, name)
		default:
			logger.Info("Processed image", "image", name, "label", label, "output", filepath.Join(p.Output, name))
			s.Processed = append(s.Processed, Processed{Image: name, Label: label})
		}
	}

	return s, nil
}
