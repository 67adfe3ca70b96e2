// Package suggest runs the suggestion pipeline: context extraction,
// retrieval, reranking, safety annotation and deduplication.
package suggest

import (
	"context"

	"go.uber.org/zap"

	"github.com/kamusis/shellsage/internal/index"
	"github.com/kamusis/shellsage/internal/rank"
	"github.com/kamusis/shellsage/internal/safety"
	"github.com/kamusis/shellsage/internal/shellctx"
)

// NoResultsMessage is reported when retrieval finds nothing.
const NoResultsMessage = "No similar commands found"

// Searcher is the part of the index the engine needs.
type Searcher interface {
	Search(ctx context.Context, query string, k int, c *shellctx.Context) ([]index.Candidate, error)
	Stats() index.Stats
}

// Request is one suggestion query.
type Request struct {
	Query          string   `json:"query"`
	Cwd            string   `json:"cwd,omitempty"`
	LastCommand    string   `json:"last_command,omitempty"`
	LastExitCode   *int     `json:"last_exit_code,omitempty"`
	RecentCommands []string `json:"recent_commands,omitempty"`
	MaxSuggestions int      `json:"max_suggestions,omitempty"`
}

// Suggestion is a ranked command with its optional safety assessment.
type Suggestion struct {
	rank.Scored
	Safety *safety.Assessment `json:"safety,omitempty"`
}

// Response is the outcome of Suggest. On failure Success is false, Error is
// set and Suggestions is empty.
type Response struct {
	Success         bool             `json:"success"`
	Suggestions     []Suggestion     `json:"suggestions"`
	Context         shellctx.Context `json:"context"`
	TotalCandidates int              `json:"total_candidates"`
	Message         string           `json:"message,omitempty"`
	Error           *Failure         `json:"error,omitempty"`
}

// Options tunes the pipeline.
type Options struct {
	// TopK is the number of candidates retrieved before ranking.
	TopK int
	// MaxSuggestions is used when a request does not set its own.
	MaxSuggestions int
	// SimilarityThreshold drops candidates scoring below it. Zero disables.
	SimilarityThreshold float64
	SafetyCheck         bool
	Logger              *zap.Logger
}

// Engine is safe for concurrent use.
type Engine struct {
	extractor *shellctx.Extractor
	index     Searcher
	ranker    *rank.Ranker
	safety    *safety.Checker
	opts      Options
	log       *zap.Logger
}

// New wires an Engine from its collaborators.
func New(ext *shellctx.Extractor, idx Searcher, r *rank.Ranker, sc *safety.Checker, opts Options) *Engine {
	if opts.TopK <= 0 {
		opts.TopK = 10
	}
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = 5
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		extractor: ext,
		index:     idx,
		ranker:    r,
		safety:    sc,
		opts:      opts,
		log:       log.Named("suggest"),
	}
}

// Suggest runs the pipeline for req. Retrieval failures are reported in the
// Response rather than returned.
func (e *Engine) Suggest(ctx context.Context, req Request) Response {
	sctx := e.extractor.Extract(ctx, shellctx.Input{
		Cwd:            req.Cwd,
		LastCommand:    req.LastCommand,
		LastExitCode:   req.LastExitCode,
		RecentCommands: req.RecentCommands,
	})

	cands, err := e.index.Search(ctx, req.Query, e.opts.TopK, &sctx)
	if err != nil {
		f := NewFailure(err)
		e.log.Warn("search failed", zap.String("kind", string(f.Kind)), zap.Error(err))
		return Response{
			Success:     false,
			Suggestions: []Suggestion{},
			Context:     sctx,
			Error:       f,
		}
	}
	total := len(cands)

	if t := e.opts.SimilarityThreshold; t > 0 {
		kept := cands[:0:0]
		for _, c := range cands {
			if c.Score >= t {
				kept = append(kept, c)
			}
		}
		cands = kept
	}

	if len(cands) == 0 {
		return Response{
			Success:         true,
			Suggestions:     []Suggestion{},
			Context:         sctx,
			TotalCandidates: total,
			Message:         NoResultsMessage,
		}
	}

	limit := req.MaxSuggestions
	if limit <= 0 {
		limit = e.opts.MaxSuggestions
	}
	ranked := e.ranker.Rank(cands, &sctx, limit)

	seen := make(map[string]struct{}, len(ranked))
	out := make([]Suggestion, 0, len(ranked))
	for _, s := range ranked {
		if _, dup := seen[s.Command]; dup {
			continue
		}
		seen[s.Command] = struct{}{}
		sg := Suggestion{Scored: s}
		sg.Rank = len(out)
		if e.opts.SafetyCheck {
			a := e.safety.Check(s.Command)
			sg.Safety = &a
		}
		out = append(out, sg)
	}

	e.log.Debug("suggestions ready",
		zap.String("query", req.Query),
		zap.Int("candidates", total),
		zap.Int("returned", len(out)))

	return Response{
		Success:         true,
		Suggestions:     out,
		Context:         sctx,
		TotalCandidates: total,
	}
}

// StatsConfig echoes the engine settings in Stats.
type StatsConfig struct {
	MaxSuggestions      int     `json:"max_suggestions"`
	SafetyCheckEnabled  bool    `json:"safety_check_enabled"`
	TopK                int     `json:"top_k"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
}

// Stats reports index state and engine settings.
type Stats struct {
	Index  index.Stats `json:"index"`
	Config StatsConfig `json:"config"`
}

// Stats returns the current engine statistics.
func (e *Engine) Stats() Stats {
	return Stats{
		Index: e.index.Stats(),
		Config: StatsConfig{
			MaxSuggestions:      e.opts.MaxSuggestions,
			SafetyCheckEnabled:  e.opts.SafetyCheck,
			TopK:                e.opts.TopK,
			SimilarityThreshold: e.opts.SimilarityThreshold,
		},
	}
}
