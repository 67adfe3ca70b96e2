package index

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kamusis/shellsage/internal/embeddings"
)

// embedAll embeds texts in fixed-size batches, running up to workers batches
// concurrently. The returned flat slice preserves input order and every vector
// is L2-normalized.
func embedAll(ctx context.Context, prov embeddings.Provider, texts []string, batchSize, workers int) ([]float32, int, error) {
	if batchSize <= 0 {
		batchSize = 32
	}
	if workers <= 0 {
		workers = 1
	}

	nBatches := (len(texts) + batchSize - 1) / batchSize
	results := make([][][]float32, nBatches)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for b := 0; b < nBatches; b++ {
		start := b * batchSize
		end := min(start+batchSize, len(texts))
		g.Go(func() error {
			vecs, err := embeddings.EmbedBatch(gctx, prov, texts[start:end])
			if err != nil {
				return fmt.Errorf("%w: embed batch %d: %w", ErrEmbedding, b, err)
			}
			results[b] = vecs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	dim := 0
	var flat []float32
	for _, batch := range results {
		for _, v := range batch {
			if dim == 0 {
				dim = len(v)
				flat = make([]float32, 0, len(texts)*dim)
			}
			if len(v) != dim || dim == 0 {
				return nil, 0, fmt.Errorf("embedding dim changed mid-run: got %d want %d: %w", len(v), dim, ErrVectorLengthMismatch)
			}
			flat = append(flat, NormalizeL2(v)...)
		}
	}
	return flat, dim, nil
}
