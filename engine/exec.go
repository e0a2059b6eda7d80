// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package engine

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
)

// run runs an OCR program without showing a console window,
// returning what it wrote to stdout and stderr.
func run(ctx context.Context, logger *slog.Logger, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	hideWindow(cmd)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	logger.Debug("Running OCR program", "cmd", cmd.String())
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
