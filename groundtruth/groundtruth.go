// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// Package groundtruth parses reference transcriptions of images.
//
// The format is line oriented. A line starting with the marker
// character (by default '#') begins a new entry, keyed by the rest
// of the line, and every following line up to the next marker line
// is part of that entry's transcription:
//
//	# img1.png
//	First line of text
//	Second line of text
//	# img2.png
//	...
package groundtruth

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultMarker starts a new entry
const DefaultMarker = "#"

// Store maps an image identifier to its reference transcription.
type Store map[string]string

// MalformedGroundTruthError is returned in strict mode when a line of
// text is found before any entry has been started.
type MalformedGroundTruthError struct {
	Line int
	Text string
}

func (e *MalformedGroundTruthError) Error() string {
	return fmt.Sprintf("ground truth line %d is not part of any entry: %q", e.Line, e.Text)
}

type options struct {
	marker string
	strict bool
}

// Option configures Load.
type Option func(*options)

// WithMarker sets the string which marks the start of an entry.
func WithMarker(m string) Option {
	return func(o *options) {
		if m != "" {
			o.marker = m
		}
	}
}

// Strict makes text before the first marker line an error, rather
// than it being silently dropped.
func Strict() Option {
	return func(o *options) { o.strict = true }
}

type state int

const (
	noCurrentEntry state = iota
	accumulatingEntry
)

type parser struct {
	opts    options
	state   state
	key     string
	text    strings.Builder
	entries Store
}

func (p *parser) finish() {
	if p.state == accumulatingEntry {
		p.entries[p.key] = strings.TrimSpace(p.text.String())
	}
}

func (p *parser) line(n int, l string) error {
	l = strings.TrimSpace(l)
	if strings.HasPrefix(l, p.opts.marker) {
		p.finish()
		p.key = strings.TrimSpace(strings.TrimPrefix(l, p.opts.marker))
		p.text.Reset()
		p.state = accumulatingEntry
		return nil
	}

	switch p.state {
	case noCurrentEntry:
		if p.opts.strict && l != "" {
			return &MalformedGroundTruthError{Line: n, Text: l}
		}
	case accumulatingEntry:
		p.text.WriteString(l)
		p.text.WriteString("\n")
	}
	return nil
}

// Load reads ground truth entries from r.
//
// Each line is trimmed of surrounding whitespace before it is
// considered. Entries are trimmed once complete, and if a key is
// repeated the later entry replaces the earlier one. Lines before
// the first marker are ignored unless the Strict option is given.
func Load(r io.Reader, opts ...Option) (Store, error) {
	p := parser{
		opts:    options{marker: DefaultMarker},
		entries: make(Store),
	}
	for _, o := range opts {
		o(&p.opts)
	}

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	n := 0
	for s.Scan() {
		n++
		err := p.line(n, s.Text())
		if err != nil {
			return nil, err
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading ground truth: %w", err)
	}
	p.finish()

	return p.entries, nil
}

// LoadFile reads ground truth entries from the file at path.
func LoadFile(path string, opts ...Option) (Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ground truth %s: %w", path, err)
	}
	defer f.Close()
	return Load(f, opts...)
}
