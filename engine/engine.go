// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// Package engine contains the OCR engines which can be evaluated.
// Each engine does one thing: given the path of an image, return
// the text it recognises in it.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
)

// Engine recognises the text in an image.
type Engine interface {
	Name() string
	ExtractText(ctx context.Context, imagePath string) (string, error)
}

// Config describes how to set up an engine. Which fields matter
// depends on Type.
type Config struct {
	// Type selects the implementation, e.g. "tesseract"
	Type string `mapstructure:"type"`
	// Command is the executable to run, for engines which use one
	Command string `mapstructure:"command"`
	// Args are extra arguments for Command
	Args []string `mapstructure:"args"`
	// Language is the tesseract training or language to use
	Language string `mapstructure:"language"`
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
	Prompt   string `mapstructure:"prompt"`
}

// Constructor creates an engine called name from a Config.
type Constructor func(name string, c Config, logger *slog.Logger) (Engine, error)

var constructors = map[string]Constructor{
	"tesseract": newTesseract,
	"command":   newCommand,
	"gemini":    newGemini,
}

// Register makes an engine type available to New. It is intended to
// be called from init functions, and is not safe for concurrent use.
func Register(typ string, c Constructor) {
	constructors[typ] = c
}

// Types returns the names of all registered engine types.
func Types() []string {
	var t []string
	for k := range constructors {
		t = append(t, k)
	}
	sort.Strings(t)
	return t
}

// New creates the engine described by c.
func New(name string, c Config, logger *slog.Logger) (Engine, error) {
	typ := c.Type
	if typ == "" {
		typ = name
	}
	con, ok := constructors[typ]
	if !ok {
		return nil, fmt.Errorf("unknown engine type %q for %s, known types are %s", typ, name, strings.Join(Types(), ", "))
	}
	if logger == nil {
		logger = discard()
	}
	return con(name, c, logger)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
