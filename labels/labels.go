// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// Package labels reads the file which records what kind of image
// each image in a corpus is, for example handwritten, or white text
// on a black background. The labels decide how an image is
// preprocessed before OCR.
//
// The file is a JSON object mapping image filenames to lists of
// labels:
//
//	{
//	  "img1.png": ["Handwriting"],
//	  "img2.png": ["White Background", "Blur-High-Contrast"]
//	}
package labels

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// The known labels.
const (
	BlurHighContrast     = "Blur-High-Contrast"
	Handwriting          = "Handwriting"
	WhiteBackground      = "White Background"
	SameBackStylewriting = "Same Back Stylewriting"
	WhiteOnBlack         = "White on Black"
)

// Priority lists the labels from most to least important. When an
// image has several labels the first one found here is used.
var Priority = []string{
	SameBackStylewriting,
	Handwriting,
	WhiteOnBlack,
	BlurHighContrast,
	WhiteBackground,
}

// Labels maps image filenames to their labels.
type Labels map[string][]string

func schemaDoc() string {
	quoted := make([]string, len(Priority))
	for i, l := range Priority {
		quoted[i] = `"` + l + `"`
	}
	return `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"additionalProperties": {
		"type": "array",
		"items": {"enum": [` + strings.Join(quoted, ", ") + `]}
	}
}`
}

var schema = jsonschema.MustCompileString("labels.schema.json", schemaDoc())

// Load reads and validates a labels file.
func Load(r io.Reader) (Labels, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading labels: %w", err)
	}

	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decoding labels: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid labels: %w", err)
	}

	var l Labels
	if err := json.NewDecoder(bytes.NewReader(b)).Decode(&l); err != nil {
		return nil, fmt.Errorf("decoding labels: %w", err)
	}
	return l, nil
}

// LoadFile reads and validates the labels file at path.
func LoadFile(path string) (Labels, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open labels file %s: %w", path, err)
	}
	defer f.Close()
	l, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Select returns the highest priority label in ls, or false if none
// of them are known.
func Select(ls []string) (string, bool) {
	for _, p := range Priority {
		for _, l := range ls {
			if l == p {
				return p, true
			}
		}
	}
	return "", false
}

// Images returns the filenames in l, sorted.
func (l Labels) Images() []string {
	var imgs []string
	for k := range l {
		imgs = append(imgs, k)
	}
	sort.Strings(imgs)
	return imgs
}
