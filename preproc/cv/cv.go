// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

//go:build gocv

// Package cv implements the label filters of package preproc with
// OpenCV. It needs cgo and the OpenCV libraries, so is only built
// with the gocv build tag.
package cv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"rescribe.xyz/ocreval/labels"
	"rescribe.xyz/ocreval/preproc"
)

// Name is the name the filter is registered with.
const Name = preproc.DefaultFilter

// Contrast limited adaptive histogram equalisation settings
const (
	tileGrid          = 8
	sameBackClip      = 5.0
	handwritingClip   = 2.0
	handwritingMedian = 5
)

// Brightness and contrast settings for Blur-High-Contrast images
const (
	blurAlpha = 0.7
	blurBeta  = -90
)

// Threshold for White Background images
const whiteBackgroundThresh = 150

// Register makes the filter available to preproc.Processor.
func Register() {
	preproc.Register(Name, Filter)
}

var sharpenWeights = []float32{
	0, -1, 0,
	-1, 5, -1,
	0, -1, 0,
}

func sharpen(src gocv.Mat, dst *gocv.Mat) {
	k := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV32F)
	defer k.Close()
	for i, w := range sharpenWeights {
		k.SetFloatAt(i/3, i%3, w)
	}
	gocv.Filter2D(src, dst, -1, k, image.Pt(-1, -1), 0, gocv.BorderDefault)
}

func equalise(src gocv.Mat, dst *gocv.Mat, clip float64) {
	clahe := gocv.NewCLAHEWithParams(clip, image.Pt(tileGrid, tileGrid))
	defer clahe.Close()
	clahe.Apply(src, dst)
}

func gray(src gocv.Mat) gocv.Mat {
	g := gocv.NewMat()
	gocv.CvtColor(src, &g, gocv.ColorBGRToGray)
	return g
}

// SameBackStylewriting equalises the grayscale image strongly.
func SameBackStylewriting(src gocv.Mat, dst *gocv.Mat) {
	g := gray(src)
	defer g.Close()
	equalise(g, dst, sameBackClip)
}

// Handwriting removes speckle with a median blur, then equalises
// the lightness channel, keeping the colour of the ink.
func Handwriting(src gocv.Mat, dst *gocv.Mat) {
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.MedianBlur(src, &blurred, handwritingMedian)

	lab := gocv.NewMat()
	defer lab.Close()
	gocv.CvtColor(blurred, &lab, gocv.ColorBGRToLab)

	chans := gocv.Split(lab)
	defer func() {
		for _, c := range chans {
			c.Close()
		}
	}()
	l := gocv.NewMat()
	equalise(chans[0], &l, handwritingClip)
	chans[0].Close()
	chans[0] = l

	gocv.Merge(chans, &lab)
	gocv.CvtColor(lab, dst, gocv.ColorLabToBGR)
}

// WhiteOnBlack sharpens the grayscale image and inverts it, giving
// dark text on a light background.
func WhiteOnBlack(src gocv.Mat, dst *gocv.Mat) {
	g := gray(src)
	defer g.Close()
	scaled := gocv.NewMat()
	defer scaled.Close()
	gocv.ConvertScaleAbs(g, &scaled, 1, 0)
	sharp := gocv.NewMat()
	defer sharp.Close()
	sharpen(scaled, &sharp)
	gocv.BitwiseNot(sharp, dst)
}

// BlurHighContrast darkens and flattens the colour image, then
// sharpens it.
func BlurHighContrast(src gocv.Mat, dst *gocv.Mat) {
	adjusted := gocv.NewMat()
	defer adjusted.Close()
	gocv.ConvertScaleAbs(src, &adjusted, blurAlpha, blurBeta)
	sharpen(adjusted, dst)
}

// WhiteBackground thresholds the grayscale image.
func WhiteBackground(src gocv.Mat, dst *gocv.Mat) {
	g := gray(src)
	defer g.Close()
	gocv.Threshold(g, dst, whiteBackgroundThresh, 255, gocv.ThresholdBinary)
}

var byLabel = map[string]func(gocv.Mat, *gocv.Mat){
	labels.SameBackStylewriting: SameBackStylewriting,
	labels.Handwriting:          Handwriting,
	labels.WhiteOnBlack:         WhiteOnBlack,
	labels.BlurHighContrast:     BlurHighContrast,
	labels.WhiteBackground:      WhiteBackground,
}

// Filter applies the filter for label to img. Grayscale results
// are returned as *image.Gray, colour ones as *image.RGBA.
func Filter(label string, img image.Image) (image.Image, error) {
	f, ok := byLabel[label]
	if !ok {
		return nil, fmt.Errorf("no filter for label %q", label)
	}

	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("converting image: %w", err)
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	f(src, &dst)
	if dst.Empty() {
		return nil, fmt.Errorf("%s filter produced no image", label)
	}
	return dst.ToImage()
}
