// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

/*
The ocreval package contains tools and functions for measuring how
well OCR engines read a set of images, by comparing what each engine
recognises with a hand made transcription of every image, and for
comparing the results of different engines with each other.

Introduction

An evaluation starts with a directory of images and a ground truth
file, which holds the correct text for each image:
  # img1.png
  The text of the
  first image
  # img2.png
  ...

The ocreval command runs an OCR engine over each image, scoring what
it finds against the ground truth, and writes a plain text report
for the engine:
  ocreval evaluate --engine tesseract

Each image is given a similarity score, based on the longest runs of
characters the two texts share, and accuracy, precision, recall and
F1 scores, which treat each character position as a classification.
Case and whitespace are ignored by all of them. The report ends with
the mean of each score over all the images.

Engines

Several kinds of engine can be evaluated, set up in the engines
section of the configuration file. "tesseract" runs the tesseract
command, "command" runs any other program which prints the text it
finds, and "gemini" asks a Gemini vision model to transcribe the
image. If ocreval is built with the tessapi build tag a "tessapi"
engine, which uses the tesseract library directly, is also
available.

Preprocessing

Images which are hard to read can be cleaned up before OCR, using a
labels file which describes each image (handwritten, white text on a
black background, and so on). The preprocess command chooses a set
of filters for each image based on its labels. The filters use
OpenCV, so the program must be built with -tags gocv to use them:
  ocreval preprocess

Comparing engines

Reports from several engines can be compared with the compare
command, which lines up the results for each image and produces
charts, a markdown or HTML summary, and a PDF containing them all:
  ocreval compare --charts --pdf tesseract=tesseract_results.txt easyocr=easyocr_results.txt

Reports can be kept in an S3 bucket rather than locally, in which
case they can be given to the compare command as s3://bucket/key
URLs, or as an s3://bucket/prefix/ URL to compare every report
stored under that prefix. To use S3, set storage.type to "aws" in the configuration
file and set up your ~/.aws/credentials appropriately.
*/
package ocreval
