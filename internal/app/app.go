// Package app assembles the long-lived components shared by the CLI commands
// and the HTTP server.
package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kamusis/shellsage/internal/config"
	"github.com/kamusis/shellsage/internal/embeddings"
	"github.com/kamusis/shellsage/internal/fixes"
	"github.com/kamusis/shellsage/internal/index"
	"github.com/kamusis/shellsage/internal/rank"
	"github.com/kamusis/shellsage/internal/safety"
	"github.com/kamusis/shellsage/internal/shellctx"
	"github.com/kamusis/shellsage/internal/suggest"
)

// Services owns one instance of every pipeline component.
type Services struct {
	Config   *config.Config
	Provider embeddings.Provider
	Index    *index.Index
	Safety   *safety.Checker
	Fixer    *fixes.Fixer
	Engine   *suggest.Engine
	Log      *zap.Logger
}

// New builds Services from cfg using prov for embeddings. The index is loaded
// from disk when present; a missing index is not an error.
func New(cfg *config.Config, prov embeddings.Provider, log *zap.Logger) *Services {
	if log == nil {
		log = zap.NewNop()
	}
	idx := index.New(prov, index.Options{
		Dir:       cfg.Index.Dir,
		TopK:      cfg.Suggest.TopK,
		BatchSize: cfg.Index.BatchSize,
		Workers:   cfg.Index.Workers,
		Logger:    log,
	})
	idx.Load()

	sc := safety.New()
	ext := shellctx.NewExtractor(shellctx.Options{
		FileTypesLimit:    cfg.Suggest.FileTypesLimit,
		MaxRecentCommands: cfg.Suggest.MaxRecentCommands,
		Logger:            log,
	})
	engine := suggest.New(ext, idx, rank.New(rank.DefaultWeights()), sc, suggest.Options{
		TopK:                cfg.Suggest.TopK,
		MaxSuggestions:      cfg.Suggest.MaxSuggestions,
		SimilarityThreshold: cfg.Suggest.SimilarityThreshold,
		SafetyCheck:         cfg.Suggest.SafetyCheck,
		Logger:              log,
	})

	return &Services{
		Config:   cfg,
		Provider: prov,
		Index:    idx,
		Safety:   sc,
		Fixer:    fixes.New(cfg.Fixes.PatternsPath, log),
		Engine:   engine,
		Log:      log,
	}
}

// Open loads the configuration and embeddings provider and builds Services.
// Provider misconfiguration is fatal.
func Open(log *zap.Logger) (*Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	ecfg, err := embeddings.LoadConfig()
	if err != nil {
		return nil, err
	}
	prov, err := embeddings.NewFromConfig(ecfg)
	if err != nil {
		return nil, fmt.Errorf("%w\n  Run 'shellsage init' and set SHELLSAGE_EMBEDDINGS_PROVIDER in ~/.shellsage/.env", err)
	}
	return New(cfg, prov, log), nil
}
