// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// DefaultNumberPattern finds the number used to order images
var DefaultNumberPattern = regexp.MustCompile(`(\d+)`)

// similarityLine ends a ground truth block. Truth lines which merely
// start with the similarity prefix are part of the transcription.
var similarityLine = regexp.MustCompile(`^Similarity: -?\d+(\.\d+)?%$`)

// ReportFormatError is returned when a report can't be parsed, or
// an image in it has no number to sort by.
type ReportFormatError struct {
	Line int
	Msg  string
}

func (e *ReportFormatError) Error() string {
	if e.Line == 0 {
		return "report format error: " + e.Msg
	}
	return fmt.Sprintf("report format error at line %d: %s", e.Line, e.Msg)
}

type parseOptions struct {
	engine  string
	pattern *regexp.Regexp
}

// ParseOption configures Parse.
type ParseOption func(*parseOptions)

// WithEngine sets the engine name recorded in the parsed report.
func WithEngine(name string) ParseOption {
	return func(o *parseOptions) { o.engine = name }
}

// WithNumberPattern sets the pattern used to find the number in each
// image identifier which the results are sorted by. If the pattern
// has a subgroup the first one is used, otherwise the whole match.
func WithNumberPattern(re *regexp.Regexp) ParseOption {
	return func(o *parseOptions) {
		if re != nil {
			o.pattern = re
		}
	}
}

type field struct {
	prefix string
	get    func(*ImageResult) *float64
}

// per image metrics, in the order they are written
var fields = []field{
	{prefixSimilarity, func(r *ImageResult) *float64 { return &r.Similarity }},
	{prefixAccuracy, func(r *ImageResult) *float64 { return &r.Accuracy }},
	{prefixPrecision, func(r *ImageResult) *float64 { return &r.Precision }},
	{prefixRecall, func(r *ImageResult) *float64 { return &r.Recall }},
	{prefixF1, func(r *ImageResult) *float64 { return &r.F1 }},
}

type overallField struct {
	prefix string
	get    func(*Overall) *float64
}

var overallFields = []overallField{
	{prefixOverallAcc, func(o *Overall) *float64 { return &o.Accuracy }},
	{prefixOverallPrec, func(o *Overall) *float64 { return &o.Precision }},
	{prefixOverallRec, func(o *Overall) *float64 { return &o.Recall }},
	{prefixOverallF1, func(o *Overall) *float64 { return &o.F1 }},
}

type pstate int

const (
	outside pstate = iota
	inRecord
	inOCR
	inTruth
)

type record struct {
	ImageResult
	line int
	have map[string]bool
}

type reportParser struct {
	state       pstate
	cur         *record
	records     []record
	overall     Overall
	haveOverall map[string]bool
	noImages    bool
	notes       []string
}

func percent(n int, prefix, l string) (float64, error) {
	s := strings.TrimSpace(strings.TrimPrefix(l, prefix))
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ReportFormatError{Line: n, Msg: fmt.Sprintf("bad value for %q: %q", prefix, s)}
	}
	return f, nil
}

// text returns the text after a prefix and its following space
func text(prefix, l string) string {
	return strings.TrimPrefix(strings.TrimPrefix(l, prefix), " ")
}

func (p *reportParser) close() error {
	if p.cur == nil {
		return nil
	}
	for _, f := range fields {
		if !p.cur.have[f.prefix] {
			return &ReportFormatError{Line: p.cur.line, Msg: fmt.Sprintf("image %s has no %q line", p.cur.Image, f.prefix)}
		}
	}
	p.records = append(p.records, *p.cur)
	p.cur = nil
	return nil
}

func (p *reportParser) metric(n int, f field, l string) error {
	if p.cur == nil {
		return &ReportFormatError{Line: n, Msg: fmt.Sprintf("%q outside of an image block", f.prefix)}
	}
	v, err := percent(n, f.prefix, l)
	if err != nil {
		return err
	}
	*f.get(&p.cur.ImageResult) = v / 100
	p.cur.have[f.prefix] = true
	return nil
}

func (p *reportParser) line(n int, l string) error {
	switch p.state {
	case inOCR:
		if strings.HasPrefix(l, prefixTruth) {
			p.cur.GroundTruth = text(prefixTruth, l)
			p.state = inTruth
			return nil
		}
		p.cur.OCRText += "\n" + l
		return nil
	case inTruth:
		if similarityLine.MatchString(l) {
			p.state = inRecord
			return p.metric(n, fields[0], l)
		}
		p.cur.GroundTruth += "\n" + l
		return nil
	}

	for _, f := range overallFields {
		if strings.HasPrefix(l, f.prefix) {
			if err := p.close(); err != nil {
				return err
			}
			v, err := percent(n, f.prefix, l)
			if err != nil {
				return err
			}
			*f.get(&p.overall) = v
			p.haveOverall[f.prefix] = true
			p.state = outside
			return nil
		}
	}
	for _, f := range fields {
		if strings.HasPrefix(l, f.prefix) {
			return p.metric(n, f, l)
		}
	}

	switch {
	case strings.HasPrefix(l, prefixImage):
		if err := p.close(); err != nil {
			return err
		}
		p.cur = &record{line: n, have: make(map[string]bool)}
		p.cur.Image = strings.TrimSpace(strings.TrimPrefix(l, prefixImage))
		p.state = inRecord
	case strings.HasPrefix(l, prefixOCR):
		if p.cur == nil {
			return &ReportFormatError{Line: n, Msg: "OCR result outside of an image block"}
		}
		p.cur.OCRText = text(prefixOCR, l)
		p.state = inOCR
	case strings.HasPrefix(l, prefixTruth):
		if p.cur == nil {
			return &ReportFormatError{Line: n, Msg: "ground truth outside of an image block"}
		}
		p.cur.GroundTruth = text(prefixTruth, l)
		p.state = inTruth
	case l == Separator:
		if err := p.close(); err != nil {
			return err
		}
		p.state = outside
	case strings.TrimSpace(l) == NoImages:
		if err := p.close(); err != nil {
			return err
		}
		p.noImages = true
		p.state = outside
	case strings.TrimSpace(l) == "":
	case p.state == outside:
		p.notes = append(p.notes, strings.TrimSpace(l))
	default:
		return &ReportFormatError{Line: n, Msg: fmt.Sprintf("unexpected line in block for image %s: %q", p.cur.Image, l)}
	}
	return nil
}

func imageNumber(re *regexp.Regexp, image string) (int, bool) {
	m := re.FindStringSubmatch(image)
	if m == nil {
		return 0, false
	}
	s := m[0]
	if len(m) > 1 {
		s = m[1]
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return i, true
}

// Parse reads a report produced by the evaluation runner.
//
// Per image metrics are returned as fractions in [0,1], while the
// overall metrics stay as percentages in [0,100]. Image results
// are sorted by the number in each image identifier, rather than the
// order they appear in the report, so that reports from different
// engines line up.
func Parse(r io.Reader, opts ...ParseOption) (*EngineReport, error) {
	o := parseOptions{pattern: DefaultNumberPattern}
	for _, opt := range opts {
		opt(&o)
	}

	p := reportParser{haveOverall: make(map[string]bool)}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	n := 0
	for s.Scan() {
		n++
		err := p.line(n, strings.TrimSuffix(s.Text(), "\r"))
		if err != nil {
			return nil, err
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	if p.state == inOCR || p.state == inTruth {
		return nil, &ReportFormatError{Line: n, Msg: fmt.Sprintf("report ends inside the block for image %s", p.cur.Image)}
	}
	if err := p.close(); err != nil {
		return nil, err
	}

	rep := &EngineReport{Engine: o.engine, Notes: p.notes, Images: make([]ImageResult, 0, len(p.records))}

	if len(p.haveOverall) > 0 {
		if p.noImages {
			return nil, &ReportFormatError{Msg: "report has both overall results and " + strconv.Quote(NoImages)}
		}
		for _, f := range overallFields {
			if !p.haveOverall[f.prefix] {
				return nil, &ReportFormatError{Msg: fmt.Sprintf("no %q line in overall results", f.prefix)}
			}
		}
		ov := p.overall
		rep.Overall = &ov
	}

	nums := make(map[int]int, len(p.records))
	for i, rec := range p.records {
		num, ok := imageNumber(o.pattern, rec.Image)
		if !ok {
			return nil, &ReportFormatError{Line: rec.line, Msg: fmt.Sprintf("no image number found in %q", rec.Image)}
		}
		nums[i] = num
	}
	idx := make([]int, len(p.records))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return nums[idx[a]] < nums[idx[b]] })
	for _, i := range idx {
		rep.Images = append(rep.Images, p.records[i].ImageResult)
	}

	return rep, nil
}

// ParseFile parses the report at path.
func ParseFile(path string, opts ...ParseOption) (*EngineReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening report %s: %w", path, err)
	}
	defer f.Close()
	rep, err := Parse(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return rep, nil
}
