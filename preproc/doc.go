// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

/*
Package preproc cleans up images before OCR. A Processor applies a
filter to each image in a directory according to how the image is
labelled, optionally binarising it and wiping its sides.

The filters themselves are registered by name. The OpenCV ones in
package rescribe.xyz/ocreval/preproc/cv apply the following to each
label:

	Label                    Preprocessing
	Same Back Stylewriting   grayscale, adaptive equalisation, clip 5
	Handwriting              median blur (5), adaptive equalisation of lightness, clip 2
	White on Black           grayscale, sharpen, invert
	Blur-High-Contrast       contrast 0.7 brightness -90, sharpen
	White Background         grayscale, threshold at 150
*/
package preproc
