// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

//go:build gocv

package cv

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"rescribe.xyz/ocreval/labels"
	"rescribe.xyz/ocreval/preproc"
)

func uniform(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func TestSharpen(t *testing.T) {
	src, err := gocv.NewMatFromBytes(3, 3, gocv.MatTypeCV8U, []byte{
		100, 100, 100,
		100, 120, 100,
		100, 100, 100,
	})
	require.NoError(t, err)
	defer src.Close()
	dst := gocv.NewMat()
	defer dst.Close()

	sharpen(src, &dst)
	assert.Equal(t, uint8(200), dst.GetUCharAt(1, 1))
	assert.Equal(t, uint8(60), dst.GetUCharAt(0, 1))
	assert.Equal(t, uint8(100), dst.GetUCharAt(0, 0))
}

func TestFilter(t *testing.T) {
	ramp := image.NewGray(image.Rect(0, 0, 4, 1))
	copy(ramp.Pix, []uint8{0, 100, 150, 200})

	cases := []struct {
		label string
		img   image.Image
		want  []uint8
	}{
		{labels.WhiteBackground, ramp, []uint8{0, 0, 0, 255}},
		{labels.WhiteOnBlack, uniform(5, 5, 120), []uint8{135}},
		{labels.BlurHighContrast, uniform(5, 5, 200), []uint8{50}},
		{labels.SameBackStylewriting, uniform(16, 16, 90), nil},
		{labels.Handwriting, uniform(16, 16, 90), nil},
	}

	for _, c := range cases {
		t.Run(c.label, func(t *testing.T) {
			out, err := Filter(c.label, c.img)
			require.NoError(t, err)
			assert.Equal(t, c.img.Bounds(), out.Bounds())
			g := preproc.Gray(out)
			switch len(c.want) {
			case 0:
			case 1:
				for _, p := range g.Pix {
					assert.Equal(t, c.want[0], p)
				}
			default:
				assert.Equal(t, c.want, g.Pix)
			}
		})
	}
}

func TestFilterKeepsColour(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{200, 40, 40, 255})
		}
	}
	out, err := Filter(labels.Handwriting, img)
	require.NoError(t, err)
	r, g, _, _ := out.At(4, 4).RGBA()
	assert.Greater(t, r, g, "ink colour should survive")
}

func TestFilterUnknownLabel(t *testing.T) {
	_, err := Filter("Sepia", uniform(2, 2, 0))
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	Register()
	assert.Contains(t, preproc.Filters(), Name)
}
