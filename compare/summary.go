// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package compare

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

func row(cells ...string) string {
	return "| " + strings.Join(cells, " | ") + " |\n"
}

func rule(n int) string {
	cells := make([]string, n)
	for i := range cells {
		cells[i] = "---"
	}
	return row(cells...)
}

func pct(f float64) string {
	return fmt.Sprintf("%.2f%%", f)
}

// Markdown writes a summary of the overall results and each
// comparison as markdown tables.
func Markdown(w io.Writer, overall []OverallRow, comps []Comparison) error {
	var b strings.Builder

	b.WriteString("# OCR engine comparison\n\n## Overall\n\n")
	b.WriteString(row("Engine", "Accuracy", "Precision", "Recall", "F1-Score"))
	b.WriteString(rule(5))
	for _, r := range overall {
		if r.Overall == nil {
			b.WriteString(row(r.Engine, "-", "-", "-", "-"))
			continue
		}
		o := r.Overall
		b.WriteString(row(r.Engine, pct(o.Accuracy), pct(o.Precision), pct(o.Recall), pct(o.F1)))
	}

	for _, c := range comps {
		fmt.Fprintf(&b, "\n## %s\n\n", c.Metric)
		for _, warn := range c.Warnings {
			fmt.Fprintf(&b, "> %s\n\n", warn)
		}
		b.WriteString(row(append([]string{"Image"}, c.Engines...)...))
		b.WriteString(rule(len(c.Engines) + 1))
		for i := 0; i < c.Length; i++ {
			cells := []string{fmt.Sprint(i + 1)}
			for _, e := range c.Engines {
				cells = append(cells, pct(c.Series[e][i]*100))
			}
			b.WriteString(row(cells...))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// HTML writes the markdown summary as an HTML fragment.
func HTML(w io.Writer, overall []OverallRow, comps []Comparison) error {
	var md bytes.Buffer
	err := Markdown(&md, overall, comps)
	if err != nil {
		return err
	}
	conv := goldmark.New(goldmark.WithExtensions(extension.Table))
	err = conv.Convert(md.Bytes(), w)
	if err != nil {
		return fmt.Errorf("converting summary to html: %w", err)
	}
	return nil
}
