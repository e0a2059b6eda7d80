// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// Package output writes command results in a structured format.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Format is an output format for command results.
type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
	// Text is the plain report format, only meaningful for commands
	// which deal with reports.
	Text Format = "text"
)

// Parse checks that s names a known format.
func Parse(s string) (Format, error) {
	switch f := Format(s); f {
	case YAML, JSON, Text:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format: %s", s)
}

// To writes data to w in the given format. Text is written as YAML.
func To(w io.Writer, format Format, data any) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case YAML, Text:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
