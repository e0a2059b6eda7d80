// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package preproc

import (
	"image"

	rpreproc "rescribe.xyz/preproc"

	"rescribe.xyz/ocreval/labels"
)

// Sauvola parameters used when binarising.
const (
	SauvolaK      = 0.5
	SauvolaWindow = 41
)

// Variant is the preprocessing chosen for one image.
type Variant struct {
	Label string
	// Binarise binarises the filtered image with Sauvola
	Binarise bool
}

// VariantFor chooses the preprocessing for an image with the given
// labels, using the highest priority label. If binarise is set the
// result is also binarised, unless the label's filter already
// produces a binary image. It returns false if none of the labels
// are known.
func VariantFor(ls []string, binarise bool) (Variant, bool) {
	l, ok := labels.Select(ls)
	if !ok {
		return Variant{}, false
	}
	return Variant{Label: l, Binarise: binarise && l != labels.WhiteBackground}, true
}

// Apply runs filter f over img for the variant's label, then
// binarises the result if needed.
func (v Variant) Apply(f Filter, img image.Image) (image.Image, error) {
	out, err := f(v.Label, img)
	if err != nil {
		return nil, err
	}
	if v.Binarise {
		out = rpreproc.IntegralSauvola(Gray(out), SauvolaK, SauvolaWindow)
	}
	return out, nil
}
