// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

//go:build gocv

package main

import "rescribe.xyz/ocreval/preproc/cv"

func init() {
	cv.Register()
}
