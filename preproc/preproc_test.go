// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package preproc

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rescribe.xyz/ocreval/labels"
)

func uniform(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// page draws a dark block of "text" on a light background.
func page(w, h int) *image.Gray {
	img := uniform(w, h, 220)
	for y := h / 3; y < 2*h/3; y++ {
		for x := w / 4; x < 3*w/4; x++ {
			img.SetGray(x, y, color.Gray{30})
		}
	}
	return img
}

func TestGray(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(10, 10, 12, 11))
	rgba.Set(10, 10, color.RGBA{255, 255, 255, 255})
	rgba.Set(11, 10, color.RGBA{0, 0, 0, 255})
	g := Gray(rgba)
	assert.Equal(t, image.Rect(0, 0, 2, 1), g.Bounds())
	assert.Equal(t, []uint8{255, 0}, g.Pix)
}

func TestVariantFor(t *testing.T) {
	cases := []struct {
		labels   []string
		binarise bool
		want     Variant
		ok       bool
	}{
		{[]string{labels.Handwriting}, false, Variant{labels.Handwriting, false}, true},
		{[]string{labels.Handwriting}, true, Variant{labels.Handwriting, true}, true},
		{[]string{labels.WhiteBackground, labels.WhiteOnBlack}, false, Variant{labels.WhiteOnBlack, false}, true},
		{[]string{labels.WhiteBackground}, true, Variant{labels.WhiteBackground, false}, true},
		{[]string{labels.SameBackStylewriting, labels.Handwriting}, true, Variant{labels.SameBackStylewriting, true}, true},
		{[]string{"Sepia"}, true, Variant{}, false},
		{nil, false, Variant{}, false},
	}
	for _, c := range cases {
		v, ok := VariantFor(c.labels, c.binarise)
		assert.Equal(t, c.ok, ok, "%v", c.labels)
		assert.Equal(t, c.want, v, "%v", c.labels)
	}
}

// identity registers a filter which returns its input unchanged,
// recording the labels it was called with.
func identity(t *testing.T) *[]string {
	var called []string
	Register("identity", func(label string, img image.Image) (image.Image, error) {
		called = append(called, label)
		return img, nil
	})
	t.Cleanup(func() { delete(filters, "identity") })
	return &called
}

func TestApply(t *testing.T) {
	called := identity(t)
	f, err := lookup("identity")
	require.NoError(t, err)

	in := page(60, 60)
	out, err := Variant{Label: labels.Handwriting}.Apply(f, in)
	require.NoError(t, err)
	assert.Equal(t, in.Pix, Gray(out).Pix)

	out, err = Variant{Label: labels.Handwriting, Binarise: true}.Apply(f, in)
	require.NoError(t, err)
	g := Gray(out)
	assert.Equal(t, uint8(255), g.GrayAt(2, 2).Y)
	assert.Equal(t, uint8(0), g.GrayAt(16, 30).Y)
	for _, p := range g.Pix {
		assert.True(t, p == 0 || p == 255)
	}
	assert.Equal(t, []string{labels.Handwriting, labels.Handwriting}, *called)

	broken := func(string, image.Image) (image.Image, error) { return nil, errors.New("broken") }
	_, err = Variant{Label: labels.Handwriting, Binarise: true}.Apply(broken, in)
	assert.EqualError(t, err, "broken")
}

func TestLookup(t *testing.T) {
	identity(t)
	_, err := lookup("identity")
	assert.NoError(t, err)
	assert.Contains(t, Filters(), "identity")

	_, err = lookup("missing")
	assert.ErrorContains(t, err, "unknown filter")
	if _, ok := filters[DefaultFilter]; !ok {
		_, err = lookup("")
		assert.ErrorContains(t, err, "-tags gocv")
	}
}

func writePNG(t *testing.T, path string, img image.Image) {
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestProcessDir(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "processed")
	writePNG(t, filepath.Join(in, "img1.png"), page(40, 40))
	writePNG(t, filepath.Join(in, "img2.png"), page(40, 40))

	p := &Processor{
		Labels: labels.Labels{
			"img1.png": {labels.WhiteBackground},
			"img2.png": {labels.WhiteOnBlack, labels.Handwriting},
			"img3.png": {},
			"img4.png": {labels.Handwriting},
		},
		Input:  in,
		Output: out,
		Filter: "identity",
	}
	called := identity(t)
	s, err := p.ProcessDir(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{labels.WhiteBackground, labels.Handwriting}, *called)
	assert.Equal(t, []Processed{
		{"img1.png", labels.WhiteBackground},
		{"img2.png", labels.Handwriting},
	}, s.Processed)
	assert.Equal(t, []string{"img3.png"}, s.Skipped)
	assert.Equal(t, []string{"img4.png"}, s.Failed)

	f, err := os.Open(filepath.Join(out, "img1.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 40), img.Bounds())
	assert.Equal(t, uint8(30), Gray(img).GrayAt(20, 20).Y)
}

func TestProcessImageBinariseWipe(t *testing.T) {
	identity(t)
	in := t.TempDir()
	writePNG(t, filepath.Join(in, "img1.png"), page(80, 80))
	p := &Processor{Input: in, Output: t.TempDir(), Filter: "identity", Binarise: true, Wipe: true}

	label, ok, err := p.ProcessImage("img1.png", []string{labels.BlurHighContrast})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, labels.BlurHighContrast, label)

	img, err := decodeFile(filepath.Join(p.Output, "img1.png"))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 80, 80), img.Bounds())
	for _, px := range Gray(img).Pix {
		assert.True(t, px == 0 || px == 255)
	}
}

func TestProcessDirNoFilter(t *testing.T) {
	p := &Processor{Labels: labels.Labels{"a.png": {labels.Handwriting}}, Input: t.TempDir(), Output: t.TempDir(), Filter: "missing"}
	_, err := p.ProcessDir(context.Background())
	assert.ErrorContains(t, err, "unknown filter")
}

func TestProcessDirCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	identity(t)
	p := &Processor{Labels: labels.Labels{"a.png": {labels.Handwriting}}, Input: t.TempDir(), Output: t.TempDir(), Filter: "identity"}
	_, err := p.ProcessDir(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncodeByExtension(t *testing.T) {
	dir := t.TempDir()
	img := page(16, 16)
	for _, name := range []string{"a.png", "b.jpg", "c.tiff", "d.bmp"} {
		path := filepath.Join(dir, name)
		require.NoError(t, encodeFile(path, img), name)
		got, err := decodeFile(path)
		require.NoError(t, err, name)
		assert.Equal(t, img.Bounds(), got.Bounds(), name)
	}
}
