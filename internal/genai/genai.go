// Package genai wraps the external text-generation service used for
// workout plan synthesis.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"pulsefit/fitness-tracker/internal/config"
)

// ErrEmptyResponse is returned when the model produces no candidates.
var ErrEmptyResponse = errors.New("genai: model returned no content")

// Generator produces text completions for a prompt.
type Generator interface {
	// Generate returns the model's plain-text completion.
	Generate(ctx context.Context, prompt string) (string, error)

	// GenerateJSON asks the model for an application/json completion and
	// returns the raw JSON text.
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

type generationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type contentPart struct {
	Text string `json:"text"`
}

type content struct {
	Parts []contentPart `json:"parts"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// httpGenerator calls a Gemini-compatible generateContent endpoint.
type httpGenerator struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
	logger   zerolog.Logger
}

// NewHTTPGenerator builds a Generator from config.
func NewHTTPGenerator(cfg config.GenAIConfig, logger zerolog.Logger) Generator {
	return &httpGenerator{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: 60 * time.Second},
		logger:   logger,
	}
}

func (g *httpGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.call(ctx, prompt, nil)
}

func (g *httpGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return g.call(ctx, prompt, &generationConfig{
		Temperature:      0.4,
		MaxOutputTokens:  8192,
		ResponseMimeType: "application/json",
	})
}

func (g *httpGenerator) call(ctx context.Context, prompt string, genCfg *generationConfig) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []contentPart{{Text: prompt}}}},
		GenerationConfig: genCfg,
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.endpoint, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		g.logger.Error().Int("status", resp.StatusCode).Msg("generation request failed")
		return "", fmt.Errorf("genai: unexpected status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
