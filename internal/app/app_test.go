package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamusis/shellsage/internal/config"
	"github.com/kamusis/shellsage/internal/embeddings"
	"github.com/kamusis/shellsage/internal/suggest"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cfg, err := config.DefaultConfig()
	require.NoError(t, err)
	dir := t.TempDir()
	cfg.Index.Dir = filepath.Join(dir, "index")
	cfg.Fixes.PatternsPath = filepath.Join(dir, "patterns.json")
	return cfg
}

func TestNew_IndependentInstances(t *testing.T) {
	cfg := testConfig(t)
	a := New(cfg, embeddings.NewHash(32), nil)
	b := New(cfg, embeddings.NewHash(32), nil)

	require.NoError(t, a.Index.Build(context.Background(), []string{"ls"}))
	assert.True(t, a.Index.Stats().Loaded)
	assert.False(t, b.Index.Stats().Loaded)
	assert.Len(t, a.Fixer.Patterns(), 10)
}

func TestNew_LoadsSavedIndex(t *testing.T) {
	cfg := testConfig(t)
	a := New(cfg, embeddings.NewHash(32), nil)
	require.NoError(t, a.Index.Build(context.Background(), []string{"git status", "git log"}))
	require.NoError(t, a.Index.Save())

	b := New(cfg, embeddings.NewHash(32), nil)
	assert.Equal(t, 2, b.Index.Stats().Count)

	resp := b.Engine.Suggest(context.Background(), suggest.Request{Query: "git log", Cwd: t.TempDir()})
	require.True(t, resp.Success)
	assert.Equal(t, "git log", resp.Suggestions[0].Command)
}

func TestOpen_UnknownProvider(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfg, err := config.DefaultConfig()
	require.NoError(t, err)
	require.NoError(t, config.Save(cfg))
	t.Setenv("SHELLSAGE_EMBEDDINGS_PROVIDER", "nope")

	_, err = Open(nil)
	require.ErrorIs(t, err, embeddings.ErrNotConfigured)
}
