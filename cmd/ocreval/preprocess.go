// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"

	"rescribe.xyz/ocreval/internal/output"
	"rescribe.xyz/ocreval/labels"
	"rescribe.xyz/ocreval/preproc"
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Clean up images before OCR according to their labels",
	Long: `Preprocesses each image listed in the labels file, choosing the
filters to use from the image's labels. When an image has several
labels the most significant is used, in this order:

  Same Back Stylewriting, Handwriting, White on Black,
  Blur-High-Contrast, White Background

The filters are implemented with OpenCV, so the program must be
built with -tags gocv for this command to work.

Images with none of these labels are skipped. The results are written
to the output directory with the same file names, ready to be
evaluated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pc := cfg.Preprocess
		flags := cmd.Flags()
		if flags.Changed("binarise") {
			pc.Binarise, _ = flags.GetBool("binarise")
		}
		if flags.Changed("wipe") {
			pc.Wipe, _ = flags.GetBool("wipe")
		}
		for _, f := range []struct {
			name string
			dest *string
		}{
			{"labels", &pc.Labels},
			{"input", &pc.Input},
			{"output-dir", &pc.Output},
			{"filter", &pc.Filter},
		} {
			if flags.Changed(f.name) {
				*f.dest, _ = flags.GetString(f.name)
			}
		}

		l, err := labels.LoadFile(pc.Labels)
		if err != nil {
			return err
		}

		p := preproc.Processor{
			Labels:   l,
			Input:    pc.Input,
			Output:   pc.Output,
			Filter:   pc.Filter,
			Binarise: pc.Binarise,
			Wipe:     pc.Wipe,
			Logger:   logger,
		}
		s, err := p.ProcessDir(cmd.Context())
		if err != nil {
			return err
		}
		return output.To(cmd.OutOrStdout(), format, s)
	},
}

func init() {
	preprocessCmd.Flags().String("labels", "", "labels file (default: preprocess.labels)")
	preprocessCmd.Flags().String("input", "", "directory of images to preprocess (default: preprocess.input)")
	preprocessCmd.Flags().String("output-dir", "", "directory to write preprocessed images to (default: preprocess.output)")
	preprocessCmd.Flags().String("filter", "", "image filter to use (default: preprocess.filter)")
	preprocessCmd.Flags().Bool("binarise", false, "binarise images after preprocessing")
	preprocessCmd.Flags().Bool("wipe", false, "wipe content from the sides of images")
}
