// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package ocreval

import (
	"bytes"
	"fmt"

	"github.com/nickjwhite/gofpdf"
	"rescribe.xyz/ocreval/compare"
)

const (
	pdfMargin   = 15.0
	pdfWidth    = 210.0 - 2*pdfMargin
	chartHeight = pdfWidth * graphHeight / graphWidth
	rowHeight   = 7.0
)

// Fpdf builds a PDF summary of a comparison.
type Fpdf struct {
	fpdf   *gofpdf.Fpdf
	tr     func(string) string
	images int
}

// Setup creates a new PDF with appropriate settings and fonts
func (p *Fpdf) Setup() error {
	p.fpdf = gofpdf.New("P", "mm", "A4", "")
	p.fpdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	p.fpdf.SetAutoPageBreak(true, pdfMargin)
	p.fpdf.SetFont("Helvetica", "", 10)
	p.tr = p.fpdf.UnicodeTranslatorFromDescriptor("")
	p.fpdf.AddPage()
	return p.fpdf.Error()
}

// AddTitle adds a heading
func (p *Fpdf) AddTitle(title string) error {
	p.fpdf.SetFont("Helvetica", "B", 16)
	p.fpdf.CellFormat(pdfWidth, 10, p.tr(title), "", 1, "L", false, 0, "")
	p.fpdf.Ln(2)
	p.fpdf.SetFont("Helvetica", "", 10)
	return p.fpdf.Error()
}

// AddOverall adds a table of the overall results of each engine
func (p *Fpdf) AddOverall(rows []compare.OverallRow) error {
	cols := []string{"Engine", "Accuracy", "Precision", "Recall", "F1-Score"}
	w := pdfWidth / float64(len(cols))

	p.fpdf.SetFont("Helvetica", "B", 10)
	for _, c := range cols {
		p.fpdf.CellFormat(w, rowHeight, c, "1", 0, "C", false, 0, "")
	}
	p.fpdf.Ln(-1)

	p.fpdf.SetFont("Helvetica", "", 10)
	for _, r := range rows {
		cells := []string{p.tr(r.Engine), "-", "-", "-", "-"}
		if o := r.Overall; o != nil {
			for i, v := range []float64{o.Accuracy, o.Precision, o.Recall, o.F1} {
				cells[i+1] = fmt.Sprintf("%.2f%%", v)
			}
		}
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			p.fpdf.CellFormat(w, rowHeight, c, "1", 0, align, false, 0, "")
		}
		p.fpdf.Ln(-1)
	}
	p.fpdf.Ln(4)
	return p.fpdf.Error()
}

// AddNotes adds lines of text, such as warnings
func (p *Fpdf) AddNotes(notes []string) error {
	for _, n := range notes {
		p.fpdf.MultiCell(pdfWidth, 5, p.tr(n), "", "L", false)
	}
	if len(notes) > 0 {
		p.fpdf.Ln(2)
	}
	return p.fpdf.Error()
}

// AddChart adds a PNG chart at the full width of the page
func (p *Fpdf) AddChart(png []byte) error {
	p.images++
	name := fmt.Sprintf("chart%d", p.images)
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	p.fpdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))

	_, pageh := p.fpdf.GetPageSize()
	_, _, _, bottom := p.fpdf.GetMargins()
	if p.fpdf.GetY()+chartHeight > pageh-bottom {
		p.fpdf.AddPage()
	}
	p.fpdf.ImageOptions(name, pdfMargin, p.fpdf.GetY(), pdfWidth, chartHeight, true, opts, 0, "")
	p.fpdf.Ln(4)
	return p.fpdf.Error()
}

// Save saves the PDF to the file at path
func (p *Fpdf) Save(path string) error {
	return p.fpdf.OutputFileAndClose(path)
}
