package index

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Load replaces the in-memory index with the one persisted in the index
// directory. It never fails loudly: missing, unreadable, or inconsistent
// artifacts leave the index untouched and report false.
func (x *Index) Load() bool {
	if x.opts.Dir == "" {
		return false
	}
	s, err := read(x.opts.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			x.log.Info("index files not found", zap.String("dir", x.opts.Dir))
		} else {
			x.log.Warn("cannot load index", zap.String("dir", x.opts.Dir), zap.Error(err))
		}
		return false
	}
	if want := x.prov.ModelID(); s.meta.ModelID != "" && want != "" && s.meta.ModelID != want {
		x.log.Warn("embeddings model mismatch, ignoring index",
			zap.String("index", s.meta.ModelID), zap.String("provider", want))
		return false
	}

	x.writeMu.Lock()
	x.snap.Store(s)
	x.writeMu.Unlock()
	x.log.Info("index loaded", zap.Int("count", s.meta.Count), zap.Int("dimension", s.meta.Dimension))
	return true
}

func read(dir string) (*snapshot, error) {
	metaPath := filepath.Join(dir, metadataFile)
	vecPath := filepath.Join(dir, vectorFile)
	if _, err := os.Stat(metaPath); err != nil {
		return nil, err
	}
	if _, err := os.Stat(vecPath); err != nil {
		return nil, err
	}

	unlock, err := acquireDirLock(dir, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	b, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read metadata %s: %w", metaPath, err)
	}
	var sc sidecar
	if err := json.Unmarshal(b, &sc); err != nil {
		return nil, fmt.Errorf("invalid metadata JSON %s: %w", metaPath, err)
	}
	if sc.Metadata.Count != len(sc.Commands) {
		return nil, fmt.Errorf("metadata count %d does not match %d commands", sc.Metadata.Count, len(sc.Commands))
	}
	if len(sc.Commands) > 0 && sc.Metadata.Dimension <= 0 {
		return nil, fmt.Errorf("invalid dimension in metadata: %d", sc.Metadata.Dimension)
	}
	if sc.Metadata.Kind == "" {
		sc.Metadata.Kind = KindFlatL2
	}

	vectors, err := loadVectors(vecPath, len(sc.Commands), sc.Metadata.Dimension)
	if err != nil {
		return nil, err
	}
	if sc.Commands == nil {
		sc.Commands = []string{}
	}
	return &snapshot{meta: sc.Metadata, commands: sc.Commands, vectors: vectors}, nil
}

func loadVectors(path string, n, dim int) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open vector file %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("cannot stat vector file %s: %w", path, err)
	}
	if st.Size()%4 != 0 {
		return nil, fmt.Errorf("vector file size is not multiple of 4 bytes: %d", st.Size())
	}

	expected := int64(n * dim * 4)
	if expected != st.Size() {
		return nil, fmt.Errorf("vector file size mismatch: got %d want %d (commands=%d dim=%d)", st.Size(), expected, n, dim)
	}

	out := make([]float32, n*dim)
	if expected == 0 {
		return out, nil
	}
	if err := binary.Read(io.LimitReader(f, expected), binary.LittleEndian, out); err != nil {
		return nil, fmt.Errorf("cannot read vectors from %s: %w", path, err)
	}
	return out, nil
}
