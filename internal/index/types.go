package index

// KindFlatL2 is the only index kind: an exhaustive scan by squared L2 distance.
const KindFlatL2 = "flat_l2"

const (
	vectorFile   = "vectors.f32"
	metadataFile = "metadata.json"
	lockFile     = ".lock"
)

// Metadata describes a persisted index.
type Metadata struct {
	Count     int    `json:"count"`
	Dimension int    `json:"dimension"`
	Kind      string `json:"kind"`
	ModelID   string `json:"model_id,omitempty"`
}

// sidecar is the JSON document written next to the vector blob.
type sidecar struct {
	Commands []string `json:"commands"`
	Metadata Metadata `json:"metadata"`
}

// Candidate is one search hit.
type Candidate struct {
	Command string  `json:"command"`
	Score   float64 `json:"score"`
	Rank    int     `json:"rank"`
}

// Stats reports the state of the in-memory index.
type Stats struct {
	Loaded    bool   `json:"loaded"`
	Count     int    `json:"count"`
	Dimension int    `json:"dimension"`
	Kind      string `json:"kind,omitempty"`
	ModelID   string `json:"model_id,omitempty"`
}

// snapshot is an immutable view of the index. Vectors are flattened with a
// stride of meta.Dimension and vectors[i*dim:(i+1)*dim] belongs to commands[i].
type snapshot struct {
	meta     Metadata
	commands []string
	vectors  []float32
}

func (s *snapshot) vector(i int) []float32 {
	dim := s.meta.Dimension
	return s.vectors[i*dim : (i+1)*dim]
}
