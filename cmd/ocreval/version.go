// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"rescribe.xyz/ocreval/engine"
	"rescribe.xyz/ocreval/preproc"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ocreval %s\n", version)
		if info, ok := debug.ReadBuildInfo(); ok {
			fmt.Fprintf(out, "  Go:      %s\n", info.GoVersion)
		}
		fmt.Fprintf(out, "  Engines: %v\n", engine.Types())
		fmt.Fprintf(out, "  Filters: %v\n", preproc.Filters())
	},
}
