// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package eval

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rescribe.xyz/ocreval/groundtruth"
	"rescribe.xyz/ocreval/report"
)

// fakeEngine returns canned text for each image name
type fakeEngine struct {
	texts map[string]string
	fails map[string]error
	calls []string
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) ExtractText(ctx context.Context, path string) (string, error) {
	name := filepath.Base(path)
	f.calls = append(f.calls, name)
	if err, ok := f.fails[name]; ok {
		return "", err
	}
	return f.texts[name], nil
}

func mkImages(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("not really an image"), 0644))
	}
	return dir
}

func TestListImages(t *testing.T) {
	dir := mkImages(t, "img2.PNG", "img1.jpg", "notes.txt", "img3.jpeg", "img4.tif")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0755))

	names, err := ListImages(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"img1.jpg", "img2.PNG", "img3.jpeg"}, names)

	names, err = ListImages(dir, []string{".TIF"})
	require.NoError(t, err)
	assert.Equal(t, []string{"img4.tif"}, names)

	_, err = ListImages(filepath.Join(dir, "missing"), nil)
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	dir := mkImages(t, "img1.png", "img2.png", "img3.png", "img4.png", "readme.txt")
	gt, err := groundtruth.Load(strings.NewReader("# img1.png\nHELLO\n# img2.png\nABC\n# img4.png\nab\ncd\n"))
	require.NoError(t, err)

	engine := &fakeEngine{
		texts: map[string]string{"img1.png": "hello", "img2.png": "", "img4.png": "ab\ncd"},
		fails: map[string]error{"img4.png": errors.New("engine exploded")},
	}
	var sink bytes.Buffer
	var logs bytes.Buffer
	r := Runner{
		Engine:      engine,
		GroundTruth: gt,
		Images:      dir,
		Sink:        &sink,
		Logger:      slog.New(slog.NewTextHandler(&logs, nil)),
	}

	rep, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"img1.png", "img2.png", "img4.png"}, engine.calls, "images without ground truth should not be OCRed")
	require.Len(t, rep.Images, 2)

	hello := rep.Images[0]
	assert.Equal(t, "img1.png", hello.Image)
	assert.Equal(t, 1.0, hello.Similarity)
	assert.Equal(t, 1.0, hello.Accuracy)
	assert.Equal(t, 1.0, hello.Precision)
	assert.Equal(t, 1.0, hello.Recall)
	assert.Equal(t, 1.0, hello.F1)

	empty := rep.Images[1]
	assert.Equal(t, 0.0, empty.Similarity)
	assert.Equal(t, 0.0, empty.Accuracy+empty.Precision+empty.Recall+empty.F1)

	require.NotNil(t, rep.Overall)
	assert.Equal(t, report.Overall{Accuracy: 50, Precision: 50, Recall: 50, F1: 50}, *rep.Overall)

	out := sink.String()
	assert.Contains(t, out, "No ground truth found for img3.png. Skipping...\n")
	assert.Contains(t, out, "Error processing "+filepath.Join(dir, "img4.png")+": engine exploded\n")
	assert.NotContains(t, out, "Image: img3.png")
	assert.NotContains(t, out, "Image: img4.png")
	assert.True(t, strings.HasSuffix(out, "Overall Accuracy: 50.00%\nOverall Precision: 50.00%\nOverall Recall: 50.00%\nOverall F1-Score: 50.00%\n"))
	assert.Len(t, rep.Notes, 2)
	assert.Contains(t, logs.String(), "engine exploded")
}

func TestRunNoImagesProcessed(t *testing.T) {
	dir := mkImages(t, "img1.png")
	var sink bytes.Buffer
	r := Runner{
		Engine:      &fakeEngine{},
		GroundTruth: groundtruth.Store{},
		Images:      dir,
		Sink:        &sink,
	}

	rep, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rep.Overall)
	assert.Empty(t, rep.Images)
	assert.Equal(t, "No ground truth found for img1.png. Skipping...\nNo images processed.\n", sink.String())
}

func TestRunCancelled(t *testing.T) {
	dir := mkImages(t, "img1.png", "img2.png")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := &fakeEngine{}
	r := Runner{Engine: engine, GroundTruth: groundtruth.Store{"img1.png": "a"}, Images: dir}
	_, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, engine.calls)
}

func TestRunRoundTrip(t *testing.T) {
	dir := mkImages(t, "img1.png", "img2.png", "img10.png", "img3.png")
	gt, err := groundtruth.Load(strings.NewReader(
		"# img1.png\nThe quick brown fox\n# img2.png\njumps over\nthe lazy dog\n# img10.png\nPack my box\n# img3.png\n12345\n"))
	require.NoError(t, err)
	engine := &fakeEngine{texts: map[string]string{
		"img1.png":  "The quick brwn fox",
		"img2.png":  "jumps ovr\nthe lazy d0g",
		"img10.png": "Pack my box with",
		"img3.png":  "",
	}}

	var sink bytes.Buffer
	r := Runner{Engine: engine, GroundTruth: gt, Images: dir, Sink: &sink}
	rep, err := r.Run(context.Background())
	require.NoError(t, err)

	parsed, err := report.Parse(&sink)
	require.NoError(t, err)
	require.Len(t, parsed.Images, len(rep.Images))

	// the runner works in listing order, the parser sorts by number
	byName := make(map[string]report.ImageResult)
	for _, i := range rep.Images {
		byName[i.Image] = i
	}
	want := []string{"img1.png", "img2.png", "img3.png", "img10.png"}
	for i, name := range want {
		got := parsed.Images[i]
		orig := byName[name]
		assert.Equal(t, name, got.Image)
		assert.Equal(t, orig.OCRText, got.OCRText)
		assert.Equal(t, orig.GroundTruth, got.GroundTruth)
		assert.InDelta(t, orig.Similarity, got.Similarity, 0.00005)
		assert.InDelta(t, orig.Accuracy, got.Accuracy, 0.00005)
		assert.InDelta(t, orig.Precision, got.Precision, 0.00005)
		assert.InDelta(t, orig.Recall, got.Recall, 0.00005)
		assert.InDelta(t, orig.F1, got.F1, 0.00005)
	}
	require.NotNil(t, parsed.Overall)
	assert.InDelta(t, rep.Overall.Accuracy, parsed.Overall.Accuracy, 0.005)
	assert.InDelta(t, rep.Overall.Precision, parsed.Overall.Precision, 0.005)
	assert.InDelta(t, rep.Overall.Recall, parsed.Overall.Recall, 0.005)
	assert.InDelta(t, rep.Overall.F1, parsed.Overall.F1, 0.005)
}
