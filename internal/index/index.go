// Package index implements the persisted command vector index: an ordered list
// of command texts with a parallel list of unit-normalized embeddings, searched
// exhaustively by squared L2 distance.
package index

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/kamusis/shellsage/internal/embeddings"
	"github.com/kamusis/shellsage/internal/shellctx"
)

// Options controls index construction.
type Options struct {
	// Dir is where Save and Load read and write index artifacts.
	Dir string
	// TopK is used by Search when k <= 0.
	TopK int
	// BatchSize is the number of commands embedded per provider call.
	BatchSize int
	// Workers bounds concurrent embedding batches.
	Workers int
	Logger  *zap.Logger
}

// Index is safe for concurrent use. Build and Add are serialized; Search reads
// an immutable snapshot that writers replace atomically.
type Index struct {
	prov embeddings.Provider
	opts Options
	log  *zap.Logger

	writeMu sync.Mutex
	snap    atomic.Pointer[snapshot]
}

// New returns an empty, unloaded index.
func New(prov embeddings.Provider, opts Options) *Index {
	if opts.TopK <= 0 {
		opts.TopK = 10
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 32
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Index{prov: prov, opts: opts, log: log.Named("index")}
}

// Build embeds commands and replaces any existing index.
func (x *Index) Build(ctx context.Context, commands []string) error {
	if len(commands) == 0 {
		return ErrEmptyInput
	}
	x.writeMu.Lock()
	defer x.writeMu.Unlock()
	return x.buildLocked(ctx, commands)
}

func (x *Index) buildLocked(ctx context.Context, commands []string) error {
	x.log.Info("building index", zap.Int("commands", len(commands)))
	vectors, dim, err := embedAll(ctx, x.prov, commands, x.opts.BatchSize, x.opts.Workers)
	if err != nil {
		return err
	}
	s := &snapshot{
		meta: Metadata{
			Count:     len(commands),
			Dimension: dim,
			Kind:      KindFlatL2,
			ModelID:   x.prov.ModelID(),
		},
		commands: slices.Clone(commands),
		vectors:  vectors,
	}
	x.snap.Store(s)
	x.log.Info("index built", zap.Int("count", s.meta.Count), zap.Int("dimension", dim))
	return nil
}

// Add embeds commands and appends them after the existing entries. With no
// index it behaves like Build. Adding nothing is a no-op.
func (x *Index) Add(ctx context.Context, commands []string) error {
	if len(commands) == 0 {
		return nil
	}
	x.writeMu.Lock()
	defer x.writeMu.Unlock()

	cur := x.snap.Load()
	if cur == nil {
		return x.buildLocked(ctx, commands)
	}

	vectors, dim, err := embedAll(ctx, x.prov, commands, x.opts.BatchSize, x.opts.Workers)
	if err != nil {
		return err
	}
	if cur.meta.Count > 0 && dim != cur.meta.Dimension {
		return fmt.Errorf("cannot add %d-dim vectors to %d-dim index: %w", dim, cur.meta.Dimension, ErrVectorLengthMismatch)
	}

	next := &snapshot{
		meta:     cur.meta,
		commands: make([]string, 0, len(cur.commands)+len(commands)),
		vectors:  make([]float32, 0, len(cur.vectors)+len(vectors)),
	}
	next.commands = append(append(next.commands, cur.commands...), commands...)
	next.vectors = append(append(next.vectors, cur.vectors...), vectors...)
	next.meta.Count = len(next.commands)
	next.meta.Dimension = dim
	x.snap.Store(next)
	x.log.Info("commands added", zap.Int("added", len(commands)), zap.Int("count", next.meta.Count))
	return nil
}

// Search returns the k commands nearest to query, ordered by ascending
// distance. c, when non-nil, decorates the query text before embedding.
func (x *Index) Search(ctx context.Context, query string, k int, c *shellctx.Context) ([]Candidate, error) {
	s := x.snap.Load()
	if s == nil {
		return nil, ErrNoIndex
	}
	n := len(s.commands)
	if n == 0 {
		return []Candidate{}, nil
	}
	if k <= 0 {
		k = x.opts.TopK
	}
	k = min(k, n)

	qv, err := x.prov.Embed(ctx, QueryText(query, c))
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", ErrEmbedding, err)
	}
	if len(qv) != s.meta.Dimension {
		return nil, fmt.Errorf("query embedding dim mismatch: got %d want %d: %w", len(qv), s.meta.Dimension, ErrVectorLengthMismatch)
	}
	qv = NormalizeL2(qv)

	type hit struct {
		i  int
		d2 float64
	}
	hits := make([]hit, n)
	for i := 0; i < n; i++ {
		d2, err := SquaredL2(qv, s.vector(i))
		if err != nil {
			return nil, err
		}
		hits[i] = hit{i: i, d2: d2}
	}
	slices.SortStableFunc(hits, func(a, b hit) int {
		switch {
		case a.d2 < b.d2:
			return -1
		case a.d2 > b.d2:
			return 1
		}
		return 0
	})

	out := make([]Candidate, k)
	for rank := 0; rank < k; rank++ {
		h := hits[rank]
		out[rank] = Candidate{
			Command: s.commands[h.i],
			Score:   SimilarityFromDistance(h.d2),
			Rank:    rank,
		}
	}
	return out, nil
}

// Stats reports the current index state.
func (x *Index) Stats() Stats {
	s := x.snap.Load()
	if s == nil {
		return Stats{Loaded: false}
	}
	return Stats{
		Loaded:    true,
		Count:     len(s.commands),
		Dimension: s.meta.Dimension,
		Kind:      s.meta.Kind,
		ModelID:   s.meta.ModelID,
	}
}

// Commands returns a copy of the indexed commands in index order.
func (x *Index) Commands() []string {
	s := x.snap.Load()
	if s == nil {
		return nil
	}
	return slices.Clone(s.commands)
}
