// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"rescribe.xyz/ocreval/internal/output"
	"rescribe.xyz/ocreval/report"
)

var parseEngine string

// engineFromPath guesses an engine name from a report file name,
// e.g. tesseract_results.txt is tesseract.
func engineFromPath(path string) string {
	n := filepath.Base(path)
	n = strings.TrimSuffix(n, filepath.Ext(n))
	return strings.TrimSuffix(n, "_results")
}

var parseCmd = &cobra.Command{
	Use:   "parse report...",
	Short: "Parse evaluation reports",
	Long: `Parses one or more evaluation reports, checking that they are well
formed, and prints them in a structured format. With --output text the
reports are printed back in the report format, sorted by image number.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		re, err := cfg.NumberPattern()
		if err != nil {
			return err
		}

		var reps []*report.EngineReport
		for _, path := range args {
			name := parseEngine
			if name == "" {
				name = engineFromPath(path)
			}
			rep, err := report.ParseFile(path, report.WithEngine(name), report.WithNumberPattern(re))
			if err != nil {
				return err
			}
			reps = append(reps, rep)
		}

		if format != output.Text {
			return output.To(cmd.OutOrStdout(), format, reps)
		}
		for _, rep := range reps {
			err = report.Write(cmd.OutOrStdout(), rep)
			if err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseEngine, "engine", "", "engine name (default: from the report file name)")
}
