package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/slidecast-team/slidecast/internal/domain/entities"
	"github.com/slidecast-team/slidecast/pkg/config"
)

// OutlineGenerator turns raw lecture notes into ordered content blocks.
type OutlineGenerator interface {
	GenerateOutline(ctx context.Context, outlineText string) ([]entities.ContentBlock, error)
}

const outlinePrompt = `You are given raw lecture notes. Split them into an ordered sequence of slide-sized content blocks. Return ONLY a JSON array, no prose, where each element is {"title": string, "points": [string], "formulas": [string], "deep_dive": string|null}. Preserve the authored order of the notes.

Notes:

%s`

// OutlineClient is a chat-completions client for outline structuring
type OutlineClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewOutlineClient creates an outline client using values from the provided config.
func NewOutlineClient(cfg *config.OutlineConfig, logger *zap.Logger) *OutlineClient {
	return &OutlineClient{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model       string      `json:"model,omitempty"`
	Messages    interface{} `json:"messages,omitempty"`
	Temperature float64     `json:"temperature,omitempty"`
	MaxTokens   int         `json:"max_tokens,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateOutline sends the notes to the LLM and parses the returned block
// array. Transient HTTP failures are retried with exponential backoff.
func (c *OutlineClient) GenerateOutline(ctx context.Context, outlineText string) ([]entities.ContentBlock, error) {
	var content string

	callFn := func() error {
		var err error
		content, err = c.complete(ctx, fmt.Sprintf(outlinePrompt, outlineText))
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(callFn, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}

	var blocks []entities.ContentBlock
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &blocks); err != nil {
		return nil, fmt.Errorf("failed to parse outline response: %w", err)
	}

	if c.logger != nil {
		c.logger.Info("✅ Outline generated",
			zap.Int("block_count", len(blocks)),
		)
	}
	return blocks, nil
}

func (c *OutlineClient) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := ChatRequest{
		Model:       c.model,
		Messages:    []map[string]string{{"role": "user", "content": prompt}},
		Temperature: 0.3,
		MaxTokens:   8000,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := c.baseURL + "/openai/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("outline provider returned status %d", resp.StatusCode)
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("empty response from outline provider")
	}
	return cr.Choices[0].Message.Content, nil
}

// stripCodeFence removes a surrounding markdown code fence if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
