package embeddings

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
)

type ollamaProvider struct {
	model  string
	client *resty.Client
	dim    atomic.Int64
}

// NewOllama constructs a provider backed by a local Ollama server
// (POST {baseURL}/api/embeddings). Ollama has no batch endpoint, so texts are
// embedded one request at a time.
func NewOllama(cfg *Config) Provider {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	model := cfg.Model
	if model == "" {
		model = "all-minilm"
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("Content-Type", "application/json")
	return &ollamaProvider{model: model, client: client}
}

func (p *ollamaProvider) ModelID() string {
	return "ollama:" + p.model
}

func (p *ollamaProvider) Dim() int {
	return int(p.dim.Load())
}

func (p *ollamaProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"model":  p.model,
			"prompt": text,
		}).
		Post("/api/embeddings")
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	var parsed struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("ollama response missing embedding")
	}
	p.dim.Store(int64(len(parsed.Embedding)))
	return parsed.Embedding, nil
}
