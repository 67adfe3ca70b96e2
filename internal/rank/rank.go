// Package rank blends semantic similarity with context signals into a final
// score and orders candidates by it.
package rank

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kamusis/shellsage/internal/index"
	"github.com/kamusis/shellsage/internal/shellctx"
)

// Weights is the scoring weight table. Semantic weighs the raw similarity;
// the remaining weights share the (1 - Semantic) context portion.
type Weights struct {
	Semantic float64
	Git      float64
	DirType  float64
	FileType float64
	Recency  float64
}

// DefaultWeights returns the standard weight table.
func DefaultWeights() Weights {
	return Weights{
		Semantic: 0.5,
		Git:      0.15,
		DirType:  0.15,
		FileType: 0.10,
		Recency:  0.10,
	}
}

// Scored is a candidate with its context and final scores.
type Scored struct {
	Command       string  `json:"command"`
	SemanticScore float64 `json:"semantic_score"`
	ContextScore  float64 `json:"context_score"`
	FinalScore    float64 `json:"final_score"`
	Rank          int     `json:"rank"`
}

// Ranker is stateless and safe for concurrent use.
type Ranker struct {
	w Weights
}

// New returns a Ranker using w.
func New(w Weights) *Ranker {
	return &Ranker{w: w}
}

// Rank scores every candidate, stable-sorts by descending final score and
// keeps at most limit results. Candidates with equal final scores keep their
// retrieval order.
func (r *Ranker) Rank(cands []index.Candidate, c *shellctx.Context, limit int) []Scored {
	if len(cands) == 0 || limit <= 0 {
		return []Scored{}
	}
	out := make([]Scored, len(cands))
	for i, cand := range cands {
		cs := r.ContextScore(cand.Command, c)
		out[i] = Scored{
			Command:       cand.Command,
			SemanticScore: cand.Score,
			ContextScore:  cs,
			FinalScore:    r.w.Semantic*cand.Score + (1-r.w.Semantic)*cs,
		}
	}
	slices.SortStableFunc(out, func(a, b Scored) int {
		switch {
		case a.FinalScore > b.FinalScore:
			return -1
		case a.FinalScore < b.FinalScore:
			return 1
		}
		return 0
	})
	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i
	}
	return out
}

// ContextScore returns the context component of command's score in [0, 1].
func (r *Ranker) ContextScore(command string, c *shellctx.Context) float64 {
	if c == nil {
		return 0
	}
	share := 1 - r.w.Semantic
	if share <= 0 {
		return 0
	}
	score := 0.0
	if c.Git.IsGitRepo && isGitCommand(command) {
		score += r.w.Git / share
	}
	if c.DirectoryType != "" && c.DirectoryType != shellctx.GeneralType && matchesDirType(command, c.DirectoryType) {
		score += r.w.DirType / share
	}
	if len(c.FileTypes) > 0 && matchesFileTypes(command, c.FileTypes) {
		score += r.w.FileType / share
	}
	if recentlyUsed(command, c.RecentCommands) {
		score += r.w.Recency / share
	}
	return min(score, 1.0)
}

// Explain renders the score breakdown of s.
func Explain(s Scored) string {
	return fmt.Sprintf("Semantic similarity: %.2f | Context score: %.2f | Final score: %.2f",
		s.SemanticScore, s.ContextScore, s.FinalScore)
}

func recentlyUsed(command string, recent []string) bool {
	cmd := strings.TrimSpace(command)
	for _, r := range recent {
		if strings.TrimSpace(r) == cmd {
			return true
		}
	}
	return false
}
