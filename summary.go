// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package ocreval

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rescribe.xyz/ocreval/compare"
)

// SummaryOptions chooses which summary files WriteSummary creates.
// A markdown summary is always written.
type SummaryOptions struct {
	Charts bool
	PDF    bool
	HTML   bool
}

func chartName(m compare.Metric) string {
	return strings.ToLower(m.String()) + ".png"
}

func writeFile(dir, name string, b []byte, written *[]string) error {
	p := filepath.Join(dir, name)
	err := os.WriteFile(p, b, 0644)
	if err != nil {
		return fmt.Errorf("Failed to write %s: %w", p, err)
	}
	*written = append(*written, p)
	return nil
}

// WriteSummary writes summaries of a comparison to dir, returning
// the paths of the files written.
func WriteSummary(dir string, comps []compare.Comparison, rows []compare.OverallRow, opts SummaryOptions) ([]string, error) {
	var written []string
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return written, fmt.Errorf("Failed to create %s: %w", dir, err)
	}

	var md bytes.Buffer
	err = compare.Markdown(&md, rows, comps)
	if err != nil {
		return written, err
	}
	err = writeFile(dir, "summary.md", md.Bytes(), &written)
	if err != nil {
		return written, err
	}

	if opts.HTML {
		var html bytes.Buffer
		err = compare.HTML(&html, rows, comps)
		if err != nil {
			return written, err
		}
		err = writeFile(dir, "summary.html", html.Bytes(), &written)
		if err != nil {
			return written, err
		}
	}

	if !opts.Charts && !opts.PDF {
		return written, nil
	}

	var overall bytes.Buffer
	haveOverall := GraphOverall(rows, &overall) == nil
	charts := make(map[compare.Metric][]byte)
	for _, c := range comps {
		var b bytes.Buffer
		if GraphMetric(c, &b) != nil {
			continue
		}
		charts[c.Metric] = b.Bytes()
	}

	if opts.Charts {
		if haveOverall {
			err = writeFile(dir, "overall.png", overall.Bytes(), &written)
			if err != nil {
				return written, err
			}
		}
		for _, c := range comps {
			b, ok := charts[c.Metric]
			if !ok {
				continue
			}
			err = writeFile(dir, chartName(c.Metric), b, &written)
			if err != nil {
				return written, err
			}
		}
	}

	if opts.PDF {
		var p Fpdf
		err = p.Setup()
		if err != nil {
			return written, fmt.Errorf("Failed to set up PDF: %w", err)
		}
		err = p.AddTitle("OCR engine comparison")
		if err == nil {
			err = p.AddOverall(rows)
		}
		if err == nil && len(comps) > 0 {
			err = p.AddNotes(comps[0].Warnings)
		}
		if err == nil && haveOverall {
			err = p.AddChart(overall.Bytes())
		}
		for _, c := range comps {
			if err != nil {
				break
			}
			if b, ok := charts[c.Metric]; ok {
				err = p.AddChart(b)
			}
		}
		if err != nil {
			return written, fmt.Errorf("Failed to build PDF: %w", err)
		}
		path := filepath.Join(dir, "summary.pdf")
		err = p.Save(path)
		if err != nil {
			return written, fmt.Errorf("Failed to save %s: %w", path, err)
		}
		written = append(written, path)
	}

	return written, nil
}
