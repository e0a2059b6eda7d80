// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// Package compare lines up the results of several OCR engines so
// they can be compared side by side.
//
// Alignment is positional: the nth image of one engine's report is
// compared with the nth image of every other. Reports of different
// lengths are truncated to the shortest, with a warning, rather
// than being joined by image name.
package compare

import (
	"fmt"
	"sort"
	"strings"

	"rescribe.xyz/ocreval/report"
)

// Metric is one of the per-image measurements in a report.
type Metric int

const (
	Accuracy Metric = iota
	Precision
	Recall
	F1
	Similarity
)

// Metrics lists every metric, in report order.
var Metrics = []Metric{Accuracy, Precision, Recall, F1, Similarity}

var metricNames = map[Metric]string{
	Accuracy:   "Accuracy",
	Precision:  "Precision",
	Recall:     "Recall",
	F1:         "F1-Score",
	Similarity: "Similarity",
}

func (m Metric) String() string {
	if n, ok := metricNames[m]; ok {
		return n
	}
	return fmt.Sprintf("Metric(%d)", int(m))
}

// MarshalText encodes a metric by name.
func (m Metric) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a metric name.
func (m *Metric) UnmarshalText(b []byte) error {
	v, err := ParseMetric(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMetric finds the metric with a name, ignoring case. "f1" is
// accepted for F1-Score.
func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	if strings.EqualFold(s, "f1") {
		return F1, nil
	}
	return 0, fmt.Errorf("unknown metric %q", s)
}

// Value returns the metric of an image result.
func (m Metric) Value(r report.ImageResult) float64 {
	switch m {
	case Accuracy:
		return r.Accuracy
	case Precision:
		return r.Precision
	case Recall:
		return r.Recall
	case F1:
		return r.F1
	case Similarity:
		return r.Similarity
	}
	return 0
}

// MismatchWarning is the warning given when an engine's series is
// truncated.
func MismatchWarning(engine string) string {
	return fmt.Sprintf("Mismatch in lengths for %s. Truncating to the shortest list.", engine)
}

// Comparison is one metric across several engines. Every series has
// Length entries.
type Comparison struct {
	Metric   Metric               `json:"metric" yaml:"metric"`
	Engines  []string             `json:"engines" yaml:"engines"`
	Length   int                  `json:"length" yaml:"length"`
	Series   map[string][]float64 `json:"series" yaml:"series"`
	Images   map[string][]string  `json:"images" yaml:"images"`
	Warnings []string             `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// MissingReportWarning is the warning given when an engine has no
// report to compare.
func MissingReportWarning(engine string) string {
	return fmt.Sprintf("No report for %s. Skipping.", engine)
}

// engineNames returns the engines with a report, ordered by name,
// and the ones without.
func engineNames(reports map[string]*report.EngineReport) ([]string, []string) {
	var names, missing []string
	for n, r := range reports {
		if r == nil {
			missing = append(missing, n)
			continue
		}
		names = append(names, n)
	}
	sort.Strings(names)
	sort.Strings(missing)
	return names, missing
}

// Compare aligns one metric across the reports, keyed by engine
// name. Engines are ordered by name, and engines with a nil report
// are left out with a warning.
func Compare(reports map[string]*report.EngineReport, m Metric) Comparison {
	names, missing := engineNames(reports)
	c := Comparison{
		Metric:  m,
		Engines: names,
		Series:  make(map[string][]float64),
		Images:  make(map[string][]string),
	}
	for _, n := range missing {
		c.Warnings = append(c.Warnings, MissingReportWarning(n))
	}

	c.Length = -1
	for _, n := range c.Engines {
		if l := len(reports[n].Images); c.Length < 0 || l < c.Length {
			c.Length = l
		}
	}
	if c.Length < 0 {
		c.Length = 0
	}

	for _, n := range c.Engines {
		imgs := reports[n].Images
		if len(imgs) > c.Length {
			c.Warnings = append(c.Warnings, MismatchWarning(n))
			imgs = imgs[:c.Length]
		}
		series := make([]float64, len(imgs))
		ids := make([]string, len(imgs))
		for i, r := range imgs {
			series[i] = m.Value(r)
			ids[i] = r.Image
		}
		c.Series[n] = series
		c.Images[n] = ids
	}

	return c
}

// CompareAll compares every metric, in the order of Metrics.
func CompareAll(reports map[string]*report.EngineReport) []Comparison {
	var all []Comparison
	for _, m := range Metrics {
		all = append(all, Compare(reports, m))
	}
	return all
}

// OverallRow is the overall result of one engine. Overall is nil
// if the engine processed no images.
type OverallRow struct {
	Engine  string          `json:"engine" yaml:"engine"`
	Overall *report.Overall `json:"overall" yaml:"overall"`
}

// Overall lists the overall results of each engine with a report,
// ordered by name.
func Overall(reports map[string]*report.EngineReport) []OverallRow {
	var rows []OverallRow
	names, _ := engineNames(reports)
	for _, n := range names {
		rows = append(rows, OverallRow{Engine: n, Overall: reports[n].Overall})
	}
	return rows
}
