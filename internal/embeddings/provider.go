package embeddings

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kamusis/shellsage/internal/config"
)

// ErrNotConfigured is returned when no usable embeddings provider is configured.
var ErrNotConfigured = errors.New("embeddings provider is not configured")

// Provider embeds text into a fixed-length float vector.
//
// Implementations must be deterministic for the same input text and model.
type Provider interface {
	ModelID() string
	Dim() int
	Embed(ctx context.Context, text string) ([]float32, error)
}

// BatchProvider is implemented by providers that can embed several texts in
// one call.
type BatchProvider interface {
	Provider
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbedBatch embeds texts with p, using the native batch call when p has one.
func EmbedBatch(ctx context.Context, p Provider, texts []string) ([][]float32, error) {
	if bp, ok := p.(BatchProvider); ok {
		out, err := bp.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, err
		}
		if len(out) != len(texts) {
			return nil, fmt.Errorf("embeddings batch returned %d vectors for %d texts", len(out), len(texts))
		}
		return out, nil
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := p.Embed(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("failed to embed text %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Config contains the resolved embeddings configuration.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Dim      int
}

// LoadConfig resolves embeddings config from environment variables first, then ~/.shellsage/.env.
func LoadConfig() (*Config, error) {
	provider, err := config.GetConfigValue("SHELLSAGE_EMBEDDINGS_PROVIDER")
	if err != nil {
		return nil, err
	}
	model, err := config.GetConfigValue("SHELLSAGE_EMBEDDINGS_MODEL")
	if err != nil {
		return nil, err
	}
	apiKey, err := config.GetConfigValue("SHELLSAGE_EMBEDDINGS_API_KEY")
	if err != nil {
		return nil, err
	}
	baseURL, err := config.GetConfigValue("SHELLSAGE_EMBEDDINGS_BASE_URL")
	if err != nil {
		return nil, err
	}
	dimRaw, err := config.GetConfigValue("SHELLSAGE_EMBEDDINGS_DIM")
	if err != nil {
		return nil, err
	}
	dim := 0
	if dimRaw != "" {
		dim, err = strconv.Atoi(dimRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid SHELLSAGE_EMBEDDINGS_DIM %q: %w", dimRaw, err)
		}
	}

	return &Config{
		Provider: provider,
		Model:    model,
		APIKey:   apiKey,
		BaseURL:  baseURL,
		Dim:      dim,
	}, nil
}

// NewFromConfig returns an embeddings provider.
func NewFromConfig(cfg *Config) (Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrNotConfigured)
	}
	if cfg.Provider == "" {
		return nil, fmt.Errorf("%w (set SHELLSAGE_EMBEDDINGS_PROVIDER)", ErrNotConfigured)
	}
	switch cfg.Provider {
	case "openai":
		if cfg.Model == "" {
			return nil, fmt.Errorf("%w: embeddings model is not set (set SHELLSAGE_EMBEDDINGS_MODEL)", ErrNotConfigured)
		}
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: embeddings API key is not set (set SHELLSAGE_EMBEDDINGS_API_KEY)", ErrNotConfigured)
		}
		return NewOpenAI(cfg), nil
	case "ollama":
		return NewOllama(cfg), nil
	case "hash":
		return NewHash(cfg.Dim), nil
	default:
		return nil, fmt.Errorf("%w: unsupported embeddings provider: %s", ErrNotConfigured, cfg.Provider)
	}
}
