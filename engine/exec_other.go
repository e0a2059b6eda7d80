// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

//go:build !windows

package engine

import "os/exec"

func hideWindow(cmd *exec.Cmd) {}
