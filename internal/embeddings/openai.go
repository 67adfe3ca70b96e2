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

type openAIProvider struct {
	model  string
	client *resty.Client
	dim    atomic.Int64
}

// NewOpenAI constructs an OpenAI-compatible embeddings provider.
//
// It uses the REST endpoint:
//
//	POST {baseURL}/embeddings
//
// with JSON body:
//
//	{"model": "...", "input": ["...", "..."]}
func NewOpenAI(cfg *Config) Provider {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.APIKey)
	return &openAIProvider{model: cfg.Model, client: client}
}

func (p *openAIProvider) ModelID() string {
	return "openai:" + p.model
}

func (p *openAIProvider) Dim() int {
	return int(p.dim.Load())
}

func (p *openAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (p *openAIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	for _, t := range texts {
		if strings.TrimSpace(t) == "" {
			return nil, fmt.Errorf("cannot embed empty text")
		}
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"model": p.model,
			"input": texts,
		}).
		Post("/embeddings")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		body := resp.String()
		if len(body) > 1<<10 {
			body = body[:1<<10]
		}
		return nil, fmt.Errorf("embeddings request failed: HTTP %d: %s", resp.StatusCode(), strings.TrimSpace(body))
	}

	var parsed struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("cannot parse embeddings response: %w", err)
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings response has %d vectors for %d inputs", len(parsed.Data), len(texts))
	}

	out := make([][]float32, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(out) || len(d.Embedding) == 0 {
			return nil, fmt.Errorf("embeddings response missing embedding")
		}
		v := make([]float32, len(d.Embedding))
		for i, x := range d.Embedding {
			v[i] = float32(x)
		}
		out[d.Index] = v
	}
	for _, v := range out {
		if v == nil {
			return nil, fmt.Errorf("embeddings response missing embedding")
		}
	}
	p.dim.Store(int64(len(out[0])))
	return out, nil
}
