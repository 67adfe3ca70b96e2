package embeddings

import (
	"context"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// DefaultHashDim is the vector size of the hash provider when none is configured.
const DefaultHashDim = 256

// HashProvider is an offline provider that maps text to a signed feature-hashed
// bag of word tokens and character trigrams. It needs no model files, which
// makes it the default for fresh installs and for tests.
type HashProvider struct {
	dim int
}

// NewHash returns a hash provider producing dim-sized vectors.
func NewHash(dim int) *HashProvider {
	if dim <= 0 {
		dim = DefaultHashDim
	}
	return &HashProvider{dim: dim}
}

func (p *HashProvider) ModelID() string { return "hash:" + strconv.Itoa(p.dim) }

func (p *HashProvider) Dim() int { return p.dim }

func (p *HashProvider) Embed(_ context.Context, text string) ([]float32, error) {
	v := make([]float64, p.dim)
	for _, tok := range tokenize(text) {
		p.add(v, "w:"+tok, 1.0)
		padded := "^" + tok + "$"
		for i := 0; i+3 <= len(padded); i++ {
			p.add(v, "t:"+padded[i:i+3], 0.5)
		}
	}

	var norm float64
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	out := make([]float32, p.dim)
	if norm == 0 {
		return out, nil
	}
	for i, x := range v {
		out[i] = float32(x / norm)
	}
	return out, nil
}

func (p *HashProvider) add(v []float64, feature string, weight float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	slot := int(sum % uint64(p.dim))
	if sum>>63 == 1 {
		weight = -weight
	}
	v[slot] += weight
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '-' && r != '_' && r != '/'
	})
}
