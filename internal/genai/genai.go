// Package genai writes product descriptions with a hosted text model.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"lexron-admin/internal/config"

	"go.uber.org/zap"
)

// Texts returned instead of a description
const (
	MissingKeyText = "Description generation is unavailable without an API key."
	FailedText     = "Error generating description."
	EmptyText      = "Description could not be generated."
)

// DefaultStyle is the hint the products screen passes along
const DefaultStyle = "IT Store Product, Tech Specs focused."

// Generator produces a description for a product. It never fails: problems
// are reported through the returned text.
type Generator interface {
	Generate(ctx context.Context, productName, styleHint string) string
}

// Client calls the generateContent endpoint of the Gemini REST API
type Client struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a Client from cfg
func New(cfg config.GenAIConfig, logger *zap.Logger) *Client {
	return NewWithHTTP(cfg, http.DefaultClient, logger)
}

func NewWithHTTP(cfg config.GenAIConfig, httpClient *http.Client, logger *zap.Logger) *Client {
	return &Client{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      cfg.Model,
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func prompt(productName, styleHint string) string {
	return fmt.Sprintf(`Generate a compelling, professional e-commerce product description for an IT store.
Product Name: %s
Specifications: %s
Style: Tech-focused, persuasive, highlights performance.`, productName, styleHint)
}

func (c *Client) Generate(ctx context.Context, productName, styleHint string) string {
	if c.apiKey == "" {
		c.logger.Warn("Generative API key missing")
		return MissingKeyText
	}

	text, err := c.generate(ctx, prompt(productName, styleHint))
	if err != nil {
		c.logger.Error("Description generation failed",
			zap.String("product", productName),
			zap.Error(err),
		)
		return FailedText
	}
	if strings.TrimSpace(text) == "" {
		return EmptyText
	}
	return text
}

func (c *Client) generate(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: text}}}}})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model returned status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(out.Candidates) == 0 {
		return "", nil
	}

	var b strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}
