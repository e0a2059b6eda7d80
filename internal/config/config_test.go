// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "ground_truth", cfg.GroundTruth)
	assert.Equal(t, "#", cfg.Marker)
	assert.Equal(t, "processed_images", cfg.Images)
	assert.Equal(t, []string{".png", ".jpg", ".jpeg"}, cfg.Extensions)
	assert.Equal(t, uint(1), cfg.Attempts)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "opencv", cfg.Preprocess.Filter)
	assert.Equal(t, []string{"tesseract"}, cfg.EngineNames())
	assert.Equal(t, filepath.Join("results", "tesseract_results.txt"), cfg.ReportPath("tesseract"))

	re, err := cfg.NumberPattern()
	require.NoError(t, err)
	assert.Equal(t, []string{"12", "12"}, re.FindStringSubmatch("img12.png"))
}

const testConfig = `
ground_truth: gt.txt
strict: true
images: imgs
attempts: 3
retry_delay: 500ms
engines:
  tess:
    type: tesseract
    language: fra
    report: tess.txt
  easyocr:
    type: command
    command: python3
    args: ["easyocr_run.py", "{image}"]
  gemini:
    api_key: ${TEST_GEMINI_KEY}
    model: gemini-1.5-pro
storage:
  type: aws
  bucket: reports
compare:
  reports:
    tess: results/tess.txt
  number_pattern: 'img(\d+)'
`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ocreval.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0644))
	t.Setenv("TEST_GEMINI_KEY", "secret")
	t.Setenv("OCREVAL_IMAGES", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gt.txt", cfg.GroundTruth)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "from-env", cfg.Images)
	assert.Equal(t, uint(3), cfg.Attempts)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, []string{"easyocr", "gemini", "tess"}, cfg.EngineNames())

	tess := cfg.Engines["tess"]
	assert.Equal(t, "tesseract", tess.Type)
	assert.Equal(t, "fra", tess.Language)
	assert.Equal(t, filepath.Join("results", "tess.txt"), cfg.ReportPath("tess"))

	assert.Equal(t, []string{"easyocr_run.py", "{image}"}, cfg.Engines["easyocr"].Args)
	assert.Equal(t, "secret", cfg.Engines["gemini"].APIKey)
	assert.Equal(t, "gemini-1.5-pro", cfg.Engines["gemini"].Model)

	assert.Equal(t, "aws", cfg.Storage.Type)
	assert.Equal(t, "reports", cfg.Storage.Bucket)
	assert.Equal(t, map[string]string{"tess": "results/tess.txt"}, cfg.Compare.Reports)
	assert.Equal(t, "comparison", cfg.Compare.OutDir)
}

func TestLoadBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ocreval.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engines: [unclosed"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("OCREVAL_TEST_VAR", "value")
	cases := []struct{ in, want string }{
		{"", ""},
		{"plain", "plain"},
		{"${OCREVAL_TEST_VAR}", "value"},
		{"pre-${OCREVAL_TEST_VAR}-post", "pre-value-post"},
		{"${OCREVAL_UNSET_VAR}", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ResolveEnvVars(c.in))
	}
}
