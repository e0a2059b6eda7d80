// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package preproc

import (
	"fmt"
	"image"
	"sort"

	"golang.org/x/image/draw"
)

// DefaultFilter is the filter used when a Processor names none.
const DefaultFilter = "opencv"

// Filter applies the preprocessing for a label to an image.
type Filter func(label string, img image.Image) (image.Image, error)

var filters = map[string]Filter{}

// Register makes a filter available by name. It is called from the
// init functions of packages which provide filters, so that builds
// without them still work.
func Register(name string, f Filter) {
	filters[name] = f
}

// Filters lists the registered filter names.
func Filters() []string {
	var names []string
	for n := range filters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func lookup(name string) (Filter, error) {
	if name == "" {
		name = DefaultFilter
	}
	f, ok := filters[name]
	if !ok {
		if name == DefaultFilter {
			return nil, fmt.Errorf("filter %q not available, build with -tags gocv", name)
		}
		return nil, fmt.Errorf("unknown filter %q (available: %v)", name, Filters())
	}
	return f, nil
}

// Gray converts any image to grayscale, with its origin at 0, 0.
func Gray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}
