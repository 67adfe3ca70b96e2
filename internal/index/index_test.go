package index

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/kamusis/shellsage/internal/embeddings"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var sampleCommands = []string{
	"git status",
	"git commit -m 'wip'",
	"docker ps -a",
	"npm install",
	"kubectl get pods -n default",
	"ls -la",
	"cargo build --release",
	"python -m venv .venv",
}

// failingProvider embeds normally until it sees the poisoned text.
type failingProvider struct {
	*embeddings.HashProvider
	poison string
}

func (p failingProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == p.poison {
		return nil, errors.New("provider unavailable")
	}
	return p.HashProvider.Embed(ctx, text)
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	return New(embeddings.NewHash(64), Options{Dir: t.TempDir(), BatchSize: 3, Workers: 2})
}

func TestBuild_EmptyInput(t *testing.T) {
	x := newTestIndex(t)
	require.ErrorIs(t, x.Build(context.Background(), nil), ErrEmptyInput)
	assert.False(t, x.Stats().Loaded, "empty build must not create an index")

	require.NoError(t, x.Build(context.Background(), []string{"ls"}))
	require.ErrorIs(t, x.Build(context.Background(), []string{}), ErrEmptyInput)
	assert.Equal(t, []string{"ls"}, x.Commands(), "empty build must not mutate the index")
}

func TestBuild_ReplacesIndex(t *testing.T) {
	x := newTestIndex(t)
	ctx := context.Background()
	require.NoError(t, x.Build(ctx, sampleCommands))
	require.NoError(t, x.Build(ctx, []string{"make", "make test"}))

	st := x.Stats()
	assert.Equal(t, 2, st.Count)
	assert.Equal(t, 64, st.Dimension)
	assert.Equal(t, KindFlatL2, st.Kind)
	assert.Equal(t, "hash:64", st.ModelID)
	assert.Equal(t, []string{"make", "make test"}, x.Commands())
}

func TestBuild_ProviderFailureLeavesIndex(t *testing.T) {
	prov := failingProvider{HashProvider: embeddings.NewHash(16), poison: "boom"}
	x := New(prov, Options{BatchSize: 2})
	ctx := context.Background()
	require.NoError(t, x.Build(ctx, []string{"ls"}))

	err := x.Build(ctx, []string{"pwd", "whoami", "boom"})
	require.ErrorIs(t, err, ErrEmbedding)
	assert.Equal(t, []string{"ls"}, x.Commands())
}

func TestSearch_NoIndex(t *testing.T) {
	x := newTestIndex(t)
	_, err := x.Search(context.Background(), "git status", 5, nil)
	require.ErrorIs(t, err, ErrNoIndex)
}

func TestSearch_ExactMatchRanksFirst(t *testing.T) {
	x := newTestIndex(t)
	require.NoError(t, x.Build(context.Background(), sampleCommands))

	for _, cmd := range sampleCommands {
		got, err := x.Search(context.Background(), cmd, 3, nil)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, cmd, got[0].Command)
		assert.GreaterOrEqual(t, got[0].Score, 0.99)
		for i, c := range got {
			assert.Equal(t, i, c.Rank)
			if i > 0 {
				assert.LessOrEqual(t, c.Score, got[i-1].Score)
			}
		}
	}
}

func TestSearch_ClampsK(t *testing.T) {
	x := New(embeddings.NewHash(32), Options{TopK: 2})
	require.NoError(t, x.Build(context.Background(), []string{"a", "b", "c"}))

	got, err := x.Search(context.Background(), "a", 50, nil)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = x.Search(context.Background(), "a", 0, nil)
	require.NoError(t, err)
	assert.Len(t, got, 2, "k <= 0 falls back to TopK")
}

func TestSearch_EmptyLoadedIndex(t *testing.T) {
	dir := t.TempDir()
	writeIndexFiles(t, dir, sidecar{Commands: []string{}, Metadata: Metadata{Kind: KindFlatL2}}, nil)
	x := New(embeddings.NewHash(32), Options{Dir: dir})
	require.True(t, x.Load())

	got, err := x.Search(context.Background(), "anything", 5, nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAdd_AppendsInOrder(t *testing.T) {
	x := newTestIndex(t)
	ctx := context.Background()
	require.NoError(t, x.Build(ctx, sampleCommands[:5]))
	require.NoError(t, x.Add(ctx, sampleCommands[5:]))

	assert.Equal(t, sampleCommands, x.Commands())
	assert.Equal(t, len(sampleCommands), x.Stats().Count)

	got, err := x.Search(ctx, "cargo build --release", 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "cargo build --release", got[0].Command)
}

func TestAdd_WithoutIndexBuilds(t *testing.T) {
	x := newTestIndex(t)
	require.NoError(t, x.Add(context.Background(), []string{"ls", "pwd"}))
	assert.True(t, x.Stats().Loaded)
	assert.Equal(t, []string{"ls", "pwd"}, x.Commands())
}

func TestAdd_Nothing(t *testing.T) {
	x := newTestIndex(t)
	require.NoError(t, x.Add(context.Background(), nil))
	assert.False(t, x.Stats().Loaded)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	x := New(embeddings.NewHash(48), Options{Dir: dir})
	require.NoError(t, x.Build(ctx, sampleCommands))
	require.NoError(t, x.Save())

	y := New(embeddings.NewHash(48), Options{Dir: dir})
	require.True(t, y.Load())
	assert.Equal(t, x.Commands(), y.Commands())
	assert.Equal(t, x.Stats(), y.Stats())

	want, err := x.Search(ctx, "docker ps", 4, nil)
	require.NoError(t, err)
	got, err := y.Search(ctx, "docker ps", 4, nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSave_NoIndex(t *testing.T) {
	x := newTestIndex(t)
	require.ErrorIs(t, x.Save(), ErrNoIndex)
}

func TestSave_NoDir(t *testing.T) {
	x := New(embeddings.NewHash(8), Options{})
	require.NoError(t, x.Build(context.Background(), []string{"ls"}))
	require.ErrorIs(t, x.Save(), ErrPersistence)
}

func TestConcurrentSearchAndAdd(t *testing.T) {
	x := newTestIndex(t)
	ctx := context.Background()
	require.NoError(t, x.Build(ctx, sampleCommands))

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				got, err := x.Search(ctx, "git status", 5, nil)
				if !assert.NoError(t, err) {
					return
				}
				assert.Len(t, got, 5)
			}
		}()
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, x.Add(ctx, []string{fmt.Sprintf("echo %d", i)}))
	}
	wg.Wait()

	assert.Equal(t, len(sampleCommands)+10, x.Stats().Count)
	cmds := x.Commands()
	assert.Equal(t, sampleCommands, cmds[:len(sampleCommands)])
	assert.Equal(t, "echo 9", cmds[len(cmds)-1])
}
