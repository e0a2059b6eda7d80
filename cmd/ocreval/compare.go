// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"rescribe.xyz/ocreval"
	"rescribe.xyz/ocreval/compare"
	"rescribe.xyz/ocreval/internal/output"
	"rescribe.xyz/ocreval/report"
)

var (
	cmpMetrics []string
	cmpCharts  bool
	cmpPDF     bool
	cmpHTML    bool
	cmpOutDir  string
	cmpUpload  bool
)

type compareResult struct {
	Overall     []compare.OverallRow `json:"overall" yaml:"overall"`
	Comparisons []compare.Comparison `json:"comparisons" yaml:"comparisons"`
	Files       []string             `json:"files" yaml:"files"`
}

// isPrefix reports whether u names a whole s3 prefix of reports
// rather than a single report.
func isPrefix(u string) bool {
	_, key, ok := ocreval.ParseS3URL(u)
	return ok && (key == "" || strings.HasSuffix(key, "/"))
}

// reportSources returns engine names mapped to report locations,
// from name=path arguments if there are any, otherwise from the
// configuration. Bare s3://bucket/prefix/ arguments are returned
// separately, to be expanded once they are listed.
func reportSources(args []string) (map[string]string, []string, error) {
	if len(args) == 0 {
		if len(cfg.Compare.Reports) > 0 {
			return cfg.Compare.Reports, nil, nil
		}
		sources := make(map[string]string)
		for _, n := range cfg.EngineNames() {
			sources[n] = cfg.ReportPath(n)
		}
		return sources, nil, nil
	}

	sources := make(map[string]string)
	var prefixes []string
	for _, a := range args {
		name, path, ok := strings.Cut(a, "=")
		if !ok {
			if isPrefix(a) {
				prefixes = append(prefixes, a)
				continue
			}
			name, path = engineFromPath(a), a
		}
		if _, dup := sources[name]; dup {
			return nil, nil, fmt.Errorf("engine %s given more than once", name)
		}
		sources[name] = path
	}
	return sources, prefixes, nil
}

// loadReports fetches and parses each report, including every
// report found under each prefix.
func loadReports(sources map[string]string, prefixes []string) (map[string]*report.EngineReport, error) {
	re, err := cfg.NumberPattern()
	if err != nil {
		return nil, err
	}

	var conn ocreval.Storer
	remote := len(prefixes) > 0
	for _, s := range sources {
		if _, _, ok := ocreval.ParseS3URL(s); ok {
			remote = true
		}
	}
	if remote {
		conn, err = newStorer()
		if err != nil {
			return nil, err
		}
	}

	tmp, err := os.MkdirTemp("", "ocreval-reports")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmp)

	paths := make(map[string]string)
	for n, s := range sources {
		paths[n] = s
	}
	for i, u := range prefixes {
		b, prefix, _ := ocreval.ParseS3URL(u)
		found, err := ocreval.DownloadPrefix(conn, b, prefix, filepath.Join(tmp, strconv.Itoa(i)))
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			n := engineFromPath(p)
			if _, dup := paths[n]; dup {
				return nil, fmt.Errorf("engine %s given more than once, found again in %s", n, u)
			}
			paths[n] = p
		}
	}

	var names []string
	for n := range paths {
		names = append(names, n)
	}
	sort.Strings(names)

	reports := make(map[string]*report.EngineReport)
	for _, n := range names {
		path, err := ocreval.Fetch(conn, paths[n], tmp)
		if err != nil {
			return nil, err
		}
		rep, err := report.ParseFile(path, report.WithEngine(n), report.WithNumberPattern(re))
		if err != nil {
			return nil, err
		}
		logger.Debug("Parsed report", "engine", n, "path", paths[n], "images", len(rep.Images))
		reports[n] = rep
	}
	return reports, nil
}

var compareCmd = &cobra.Command{
	Use:   "compare [engine=report...]",
	Short: "Compare the reports of several engines",
	Long: `Compares evaluation reports from several engines side by side.

Reports are given as engine=path arguments, where path may be an
s3://bucket/key URL. An s3://bucket/prefix/ argument compares every
report stored under that prefix, naming each engine after its file
and taking the newest copy if a report appears more than once. With no arguments the reports listed in the
compare section of the configuration are used, or failing that the
report of each configured engine in the results directory.

Images are compared by position once each report is sorted by image
number. If the reports have different numbers of images they are all
truncated to the shortest, and a warning is given.

A markdown summary is always written to the output directory; charts,
a PDF and an HTML summary can also be written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sources, prefixes, err := reportSources(args)
		if err != nil {
			return err
		}
		if len(sources) == 0 && len(prefixes) == 0 {
			return fmt.Errorf("no reports to compare")
		}

		reports, err := loadReports(sources, prefixes)
		if err != nil {
			return err
		}
		if len(reports) == 0 {
			return fmt.Errorf("no reports to compare")
		}

		metrics := compare.Metrics
		if len(cmpMetrics) > 0 {
			metrics = nil
			for _, s := range cmpMetrics {
				m, err := compare.ParseMetric(s)
				if err != nil {
					return err
				}
				metrics = append(metrics, m)
			}
		}

		var res compareResult
		for _, m := range metrics {
			res.Comparisons = append(res.Comparisons, compare.Compare(reports, m))
		}
		if len(res.Comparisons) > 0 {
			for _, w := range res.Comparisons[0].Warnings {
				logger.Warn(w)
			}
		}
		res.Overall = compare.Overall(reports)

		dir := cmpOutDir
		if dir == "" {
			dir = cfg.Compare.OutDir
		}
		res.Files, err = ocreval.WriteSummary(dir, res.Comparisons, res.Overall, ocreval.SummaryOptions{
			Charts: cmpCharts,
			PDF:    cmpPDF,
			HTML:   cmpHTML,
		})
		if err != nil {
			return err
		}

		if cmpUpload {
			_, err = upload(res.Files)
			if err != nil {
				return err
			}
		}

		return output.To(cmd.OutOrStdout(), format, res)
	},
}

func init() {
	compareCmd.Flags().StringSliceVarP(&cmpMetrics, "metric", "m", nil, "metrics to compare (default: all)")
	compareCmd.Flags().BoolVar(&cmpCharts, "charts", false, "write a PNG chart for each metric and the overall results")
	compareCmd.Flags().BoolVar(&cmpPDF, "pdf", false, "write a PDF summary")
	compareCmd.Flags().BoolVar(&cmpHTML, "html", false, "write an HTML summary")
	compareCmd.Flags().StringVar(&cmpOutDir, "out-dir", "", "directory for summaries (default: compare.out_dir)")
	compareCmd.Flags().BoolVar(&cmpUpload, "upload", false, "upload summaries to the configured storage")
}
