// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash"
const geminiKeyEnv = "GEMINI_API_KEY"

const defaultPrompt = "Transcribe all of the text in this image exactly as written. " +
	"Output only the text, with no commentary, formatting or code fences."

// Gemini sends each image to a Gemini vision model and asks it for
// a plain transcription.
type Gemini struct {
	name   string
	model  string
	apiKey string
	prompt string
	logger *slog.Logger
}

func newGemini(name string, c Config, logger *slog.Logger) (Engine, error) {
	g := &Gemini{
		name:   name,
		model:  c.Model,
		apiKey: c.APIKey,
		prompt: c.Prompt,
		logger: logger,
	}
	if g.model == "" {
		g.model = defaultGeminiModel
	}
	if g.apiKey == "" {
		g.apiKey = os.Getenv(geminiKeyEnv)
	}
	if g.apiKey == "" {
		return nil, fmt.Errorf("no api key set for %s, set api_key or %s", name, geminiKeyEnv)
	}
	if g.prompt == "" {
		g.prompt = defaultPrompt
	}
	return g, nil
}

func (g *Gemini) Name() string { return g.name }

// ExtractText asks the model to transcribe an image.
func (g *Gemini) ExtractText(ctx context.Context, imagePath string) (string, error) {
	img, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", imagePath, err)
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(g.model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature: ptrFloat32(0),
	}

	parts := []genai.Part{
		genai.Text(g.prompt),
		&genai.Blob{MIMEType: http.DetectContentType(img), Data: img},
	}

	g.logger.Debug("Sending image to gemini", "image", imagePath, "model", g.model)
	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", g.model, err)
	}
	txt := firstText(resp)
	if txt == "" {
		return "", errors.New("gemini: empty response")
	}
	return stripFences(strings.TrimSpace(txt)), nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

// stripFences removes a markdown code fence wrapped around the
// whole of s, which models sometimes add despite being asked not to.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], " \t") {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}

func ptrFloat32(v float32) *float32 { return &v }
