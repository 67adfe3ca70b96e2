package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamusis/shellsage/internal/index"
	"github.com/kamusis/shellsage/internal/shellctx"
)

func cands(pairs ...any) []index.Candidate {
	var out []index.Candidate
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, index.Candidate{
			Command: pairs[i].(string),
			Score:   pairs[i+1].(float64),
			Rank:    i / 2,
		})
	}
	return out
}

func generalCtx() *shellctx.Context {
	return &shellctx.Context{DirectoryType: shellctx.GeneralType}
}

func TestRank_TiesKeepRetrievalOrder(t *testing.T) {
	r := New(DefaultWeights())
	got := r.Rank(cands("first", 0.7, "second", 0.7, "third", 0.7, "fourth", 0.7), generalCtx(), 10)

	require.Len(t, got, 4)
	for i, want := range []string{"first", "second", "third", "fourth"} {
		assert.Equal(t, want, got[i].Command)
		assert.Equal(t, i, got[i].Rank)
	}
}

func TestRank_TruncatesAndOrders(t *testing.T) {
	r := New(DefaultWeights())
	got := r.Rank(cands("a", 0.2, "b", 0.9, "c", 0.5, "d", 0.7), generalCtx(), 3)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"b", "d", "c"}, []string{got[0].Command, got[1].Command, got[2].Command})
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].FinalScore, got[i].FinalScore)
	}
}

func TestRank_Empty(t *testing.T) {
	r := New(DefaultWeights())
	assert.Empty(t, r.Rank(nil, generalCtx(), 5))
	assert.Empty(t, r.Rank(cands("ls", 0.9), generalCtx(), 0))
}

func TestRank_GitContextLiftsGitCommands(t *testing.T) {
	r := New(DefaultWeights())
	c := generalCtx()
	c.Git.IsGitRepo = true

	got := r.Rank(cands("ls -la", 0.8, "git status", 0.7), c, 5)
	require.Len(t, got, 2)
	assert.Equal(t, "git status", got[0].Command)
	assert.InDelta(t, 0.3, got[0].ContextScore, 1e-9)
	assert.InDelta(t, 0.5*0.7+0.5*0.3, got[0].FinalScore, 1e-9)
	assert.InDelta(t, 0.0, got[1].ContextScore, 1e-9)
}

func TestContextScore(t *testing.T) {
	r := New(DefaultWeights())
	tests := []struct {
		name    string
		command string
		ctx     *shellctx.Context
		want    float64
	}{
		{"nil context", "git push", nil, 0},
		{"git outside repo", "git push", generalCtx(), 0},
		{"dir type python", "pytest -x", &shellctx.Context{DirectoryType: "python"}, 0.3},
		{"second of multiple types", "cargo build", &shellctx.Context{DirectoryType: "node,rust"}, 0.3},
		{"general ignores type table", "pip install x", generalCtx(), 0},
		{"file type by name", "cat notes.md", &shellctx.Context{
			DirectoryType: shellctx.GeneralType,
			FileTypes:     shellctx.FileTypes{{Ext: ".md", Count: 2}},
		}, 0.2},
		{"no_extension bucket skipped", "cat no_extension", &shellctx.Context{
			DirectoryType: shellctx.GeneralType,
			FileTypes:     shellctx.FileTypes{{Ext: "no_extension", Count: 1}},
		}, 0},
		{"all signals clamp to one", "git add main.py && python main.py", &shellctx.Context{
			Git:            shellctx.GitInfo{IsGitRepo: true},
			DirectoryType:  "python",
			FileTypes:      shellctx.FileTypes{{Ext: ".py", Count: 4}},
			RecentCommands: []string{"git add main.py && python main.py"},
		}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, r.ContextScore(tt.command, tt.ctx), 1e-9)
		})
	}
}

// Recency carries weight in the table and is applied when the candidate was
// run recently.
func TestRecencyBoost(t *testing.T) {
	r := New(DefaultWeights())
	c := generalCtx()
	c.RecentCommands = []string{"make build", "  docker ps  "}

	assert.InDelta(t, 0.2, r.ContextScore("docker ps", c), 1e-9)
	assert.InDelta(t, 0.2, r.ContextScore("make build", c), 1e-9)
	assert.InDelta(t, 0.0, r.ContextScore("make test", c), 1e-9)

	got := r.Rank(cands("make test", 0.6, "make build", 0.6), c, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "make build", got[0].Command)
}

func TestRecencyDisabledByWeight(t *testing.T) {
	w := DefaultWeights()
	w.Recency = 0
	r := New(w)
	c := generalCtx()
	c.RecentCommands = []string{"docker ps"}
	assert.InDelta(t, 0.0, r.ContextScore("docker ps", c), 1e-9)
}

func TestExplain(t *testing.T) {
	s := Scored{Command: "ls", SemanticScore: 0.8312, ContextScore: 0.3, FinalScore: 0.5656}
	assert.Equal(t, "Semantic similarity: 0.83 | Context score: 0.30 | Final score: 0.57", Explain(s))
}
