// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"rescribe.xyz/ocreval/engine"
	"rescribe.xyz/ocreval/eval"
	"rescribe.xyz/ocreval/groundtruth"
	"rescribe.xyz/ocreval/internal/output"
	"rescribe.xyz/ocreval/report"
)

var (
	evalEngines []string
	evalUpload  bool
)

type evalResult struct {
	Engine  string          `json:"engine" yaml:"engine"`
	Report  string          `json:"report" yaml:"report"`
	Images  int             `json:"images" yaml:"images"`
	Notes   int             `json:"notes" yaml:"notes"`
	Overall *report.Overall `json:"overall" yaml:"overall"`
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run OCR engines over the images and score them against the ground truth",
	Long: `Runs each configured OCR engine, or just those named with --engine,
over every image in the images directory, writing a report for each
engine to the results directory.

Images with no ground truth, and images the engine fails on, are
noted in the report and left out of the overall results.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []groundtruth.Option
		if cfg.Marker != "" {
			opts = append(opts, groundtruth.WithMarker(cfg.Marker))
		}
		if cfg.Strict {
			opts = append(opts, groundtruth.Strict())
		}
		gt, err := groundtruth.LoadFile(cfg.GroundTruth, opts...)
		if err != nil {
			return err
		}
		logger.Info("Loaded ground truth", "file", cfg.GroundTruth, "entries", len(gt))

		names := evalEngines
		if len(names) == 0 {
			names = cfg.EngineNames()
		}

		err = os.MkdirAll(cfg.ResultsDir, 0755)
		if err != nil {
			return fmt.Errorf("Failed to create results directory %s: %w", cfg.ResultsDir, err)
		}

		var results []evalResult
		var written []string
		for _, name := range names {
			ec, ok := cfg.Engines[name]
			if !ok {
				ec.Type = name
			}
			e, err := engine.New(name, ec.Config, logger)
			if err != nil {
				return err
			}
			e = engine.Retry(e, cfg.Attempts, cfg.RetryDelay, logger)

			path := cfg.ReportPath(name)
			rep, err := evaluate(cmd, e, gt, path)
			if err != nil {
				return fmt.Errorf("evaluating %s: %w", name, err)
			}
			written = append(written, path)
			results = append(results, evalResult{
				Engine:  name,
				Report:  path,
				Images:  len(rep.Images),
				Notes:   len(rep.Notes),
				Overall: rep.Overall,
			})
		}

		if evalUpload {
			_, err = upload(written)
			if err != nil {
				return err
			}
		}

		return output.To(cmd.OutOrStdout(), format, results)
	},
}

// evaluate runs one engine, writing its report to path.
func evaluate(cmd *cobra.Command, e engine.Engine, gt groundtruth.Store, path string) (*report.EngineReport, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	r := eval.Runner{
		Engine:      e,
		GroundTruth: gt,
		Images:      cfg.Images,
		Extensions:  cfg.Extensions,
		Sink:        f,
		Logger:      logger.With("engine", e.Name()),
	}
	logger.Info("Evaluating", "engine", e.Name(), "images", cfg.Images, "report", path)
	rep, err := r.Run(cmd.Context())
	cerr := f.Close()
	if err != nil {
		return nil, err
	}
	if cerr != nil {
		return nil, fmt.Errorf("closing %s: %w", filepath.Base(path), cerr)
	}
	return rep, nil
}

func init() {
	evaluateCmd.Flags().StringSliceVarP(&evalEngines, "engine", "e", nil, "engines to evaluate (default: all configured engines)")
	evaluateCmd.Flags().BoolVar(&evalUpload, "upload", false, "upload reports to the configured storage")
}
