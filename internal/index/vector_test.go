package index

import (
	"errors"
	"math"
	"testing"
)

func TestSquaredL2(t *testing.T) {
	d, err := SquaredL2([]float32{1, 0}, []float32{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(d-2) > 1e-9 {
		t.Fatalf("d2 = %v, want 2", d)
	}
	if _, err := SquaredL2([]float32{1}, []float32{1, 2}); !errors.Is(err, ErrVectorLengthMismatch) {
		t.Fatalf("expected ErrVectorLengthMismatch, got %v", err)
	}
}

func TestSimilarityFromDistance(t *testing.T) {
	pairs := [][2][]float32{
		{{1, 0, 0}, {1, 0, 0}},
		{{1, 0, 0}, {0, 1, 0}},
		{{1, 0, 0}, {-1, 0, 0}},
		{{0.6, 0.8, 0}, {0.8, 0.6, 0}},
		{{3, 4, 12}, {-1, 2, 2}},
	}
	for _, p := range pairs {
		a, b := NormalizeL2(p[0]), NormalizeL2(p[1])
		d2, err := SquaredL2(a, b)
		if err != nil {
			t.Fatal(err)
		}
		sim := SimilarityFromDistance(d2)
		if sim < -1-1e-6 || sim > 1+1e-6 {
			t.Fatalf("similarity %v out of range for %v", sim, p)
		}
		if cos := dot(a, b); math.Abs(sim-cos) > 1e-6 {
			t.Fatalf("sim %v != cosine %v for %v", sim, cos, p)
		}
	}

	v := NormalizeL2([]float32{0.3, -0.2, 0.9})
	d2, _ := SquaredL2(v, v)
	if SimilarityFromDistance(d2) != 1 {
		t.Fatalf("identical vectors must have similarity 1")
	}
}

func TestNormalizeL2(t *testing.T) {
	v := NormalizeL2([]float32{3, 4})
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Fatalf("unexpected %v", v)
	}
	z := NormalizeL2([]float32{0, 0})
	if z[0] != 0 || z[1] != 0 {
		t.Fatalf("zero vector must stay zero, got %v", z)
	}
}

// dot is the cosine similarity of two unit vectors.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
