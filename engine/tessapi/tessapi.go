// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

//go:build tessapi

// Package tessapi provides an OCR engine which calls the tesseract
// library directly rather than running the tesseract command. It
// needs the tesseract and leptonica development libraries, so is
// only built with the tessapi build tag.
package tessapi

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"rescribe.xyz/ocreval/engine"
)

// Type is the engine type name to use in configuration.
const Type = "tessapi"

// Engine recognises text with an in-process tesseract.
type Engine struct {
	name      string
	languages []string
	vars      map[string]string
	logger    *slog.Logger
}

// New creates a tessapi engine. Language may name several
// languages joined with "+", as with the tesseract command. Args
// are taken as name=value tesseract variables.
func New(name string, c engine.Config, logger *slog.Logger) (engine.Engine, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &Engine{name: name, vars: map[string]string{}, logger: logger}
	if c.Language != "" {
		e.languages = strings.Split(c.Language, "+")
	}
	for _, a := range c.Args {
		k, v, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("bad tesseract variable %q for %s, should be name=value", a, name)
		}
		e.vars[k] = v
	}
	return e, nil
}

// Register adds the tessapi type to the engine registry.
func Register() {
	engine.Register(Type, New)
}

func (e *Engine) Name() string { return e.name }

// ExtractText OCRs an image. A new client is used for each image
// so that no state carries between them.
func (e *Engine) ExtractText(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c := gosseract.NewClient()
	defer c.Close()

	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	for k, v := range e.vars {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return "", fmt.Errorf("set variable %s: %w", k, err)
		}
	}
	if err := c.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("set image %s: %w", imagePath, err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text in %s: %w", imagePath, err)
	}
	e.logger.Debug("Recognised text with tessapi", "image", imagePath, "chars", len(text))
	return strings.TrimSpace(text), nil
}
