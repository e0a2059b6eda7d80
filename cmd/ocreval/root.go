// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"rescribe.xyz/ocreval"
	"rescribe.xyz/ocreval/internal/config"
	"rescribe.xyz/ocreval/internal/output"
)

var (
	cfgFile      string
	verbose      bool
	outputFormat string

	cfg    *config.Config
	logger *slog.Logger
	format output.Format
)

var rootCmd = &cobra.Command{
	Use:   "ocreval",
	Short: "Evaluate and compare OCR engines against ground truth",
	Long: `ocreval measures how well OCR engines read a set of images, by
comparing the text each engine finds with a ground truth transcription
of every image, and compares the results of different engines.

The usual workflow is:
  ocreval preprocess     # clean up images according to their labels
  ocreval evaluate       # run each engine, writing a report per engine
  ocreval compare        # chart and summarise the reports side by side`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		var err error
		format, err = output.Parse(outputFormat)
		if err != nil {
			return err
		}

		cfg, err = config.Load(cfgFile)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./ocreval.yaml or ~/.ocreval/ocreval.yaml)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "log debugging information",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	rootCmd.AddCommand(evaluateCmd, parseCmd, compareCmd, preprocessCmd, versionCmd)
}

// newStorer sets up the configured storage backend.
func newStorer() (ocreval.Storer, error) {
	var conn ocreval.Storer
	switch cfg.Storage.Type {
	case "local", "":
		conn = &ocreval.LocalConn{Dir: cfg.Storage.Dir, Logger: logger}
	case "aws":
		conn = &ocreval.AwsConn{Region: cfg.Storage.Region, Logger: logger}
	default:
		return nil, fmt.Errorf("unknown storage type %q, should be local or aws", cfg.Storage.Type)
	}
	err := conn.Init()
	if err != nil {
		return nil, fmt.Errorf("Error setting up storage: %w", err)
	}
	return conn, nil
}

// bucket returns the configured storage bucket, or the default.
func bucket(conn ocreval.Storer) string {
	if cfg.Storage.Bucket != "" {
		return cfg.Storage.Bucket
	}
	return conn.ReportsStorageId()
}

// upload publishes files to the configured storage.
func upload(paths []string) ([]string, error) {
	conn, err := newStorer()
	if err != nil {
		return nil, err
	}
	b := bucket(conn)
	err = conn.CreateBucket(b)
	if err != nil {
		return nil, err
	}
	keys, err := ocreval.UploadFiles(conn, b, cfg.Storage.Prefix, paths)
	if err != nil {
		return keys, err
	}
	for _, k := range keys {
		logger.Info("Uploaded", "bucket", b, "key", k)
	}
	return keys, nil
}
