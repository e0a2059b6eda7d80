// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ImagePlaceholder in a command argument is replaced by the image
// path. If no argument contains it the path is added as the final
// argument.
const ImagePlaceholder = "{image}"

// Command runs an external program for each image, taking whatever
// it prints to standard output as the recognised text. This is how
// engines with no Go interface, such as EasyOCR or Keras-OCR driven
// by a small script, are evaluated.
type Command struct {
	name    string
	command string
	args    []string
	logger  *slog.Logger
}

func newCommand(name string, c Config, logger *slog.Logger) (Engine, error) {
	if c.Command == "" {
		return nil, errors.New("command engine " + name + " has no command set")
	}
	return &Command{name: name, command: c.Command, args: c.Args, logger: logger}, nil
}

func (c *Command) Name() string { return c.name }

func (c *Command) cmdArgs(imagePath string) []string {
	var args []string
	found := false
	for _, a := range c.args {
		if strings.Contains(a, ImagePlaceholder) {
			found = true
			a = strings.ReplaceAll(a, ImagePlaceholder, imagePath)
		}
		args = append(args, a)
	}
	if !found {
		args = append(args, imagePath)
	}
	return args
}

// ExtractText runs the command on an image.
func (c *Command) ExtractText(ctx context.Context, imagePath string) (string, error) {
	stdout, stderr, err := run(ctx, c.logger, c.command, c.cmdArgs(imagePath)...)
	if err != nil {
		return "", fmt.Errorf("%s failed: %v, stderr: %s", c.command, err, strings.TrimSpace(stderr))
	}
	return strings.TrimRight(stdout, "\r\n"), nil
}
