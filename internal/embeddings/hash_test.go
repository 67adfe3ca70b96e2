package embeddings

import (
	"context"
	"math"
	"testing"
)

func TestHashProvider_DeterministicUnitVectors(t *testing.T) {
	p := NewHash(64)
	a, err := p.Embed(context.Background(), "git status")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	b, err := p.Embed(context.Background(), "git status")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(a) != 64 {
		t.Fatalf("dim = %d, want 64", len(a))
	}
	var norm float64
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("vectors differ at %d", i)
		}
		norm += float64(a[i]) * float64(a[i])
	}
	if math.Abs(norm-1) > 1e-5 {
		t.Fatalf("norm = %f, want 1", norm)
	}
}

func TestHashProvider_SimilarTextsCloser(t *testing.T) {
	p := NewHash(0)
	ctx := context.Background()
	q, _ := p.Embed(ctx, "git commit -m fix")
	near, _ := p.Embed(ctx, "git commit -m 'initial commit'")
	far, _ := p.Embed(ctx, "docker compose up")

	if dot(q, near) <= dot(q, far) {
		t.Fatalf("expected git commit to be closer to git commit than docker")
	}
}

func TestHashProvider_EmptyTextIsZeroVector(t *testing.T) {
	v, err := NewHash(8).Embed(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	for _, x := range v {
		if x != 0 {
			t.Fatalf("expected zero vector, got %v", v)
		}
	}
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}
