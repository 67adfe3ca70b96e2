package index

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Save writes the vector blob and the JSON sidecar to the index directory.
// Both files are written to temporary names first and renamed into place.
func (x *Index) Save() error {
	s := x.snap.Load()
	if s == nil {
		return ErrNoIndex
	}
	if x.opts.Dir == "" {
		return fmt.Errorf("%w: index dir is not configured", ErrPersistence)
	}
	if err := write(x.opts.Dir, s); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	x.log.Info("index saved", zap.String("dir", x.opts.Dir), zap.Int("count", s.meta.Count))
	return nil
}

func write(dir string, s *snapshot) error {
	if len(s.vectors) != len(s.commands)*s.meta.Dimension {
		return fmt.Errorf("vector length mismatch: got %d want %d", len(s.vectors), len(s.commands)*s.meta.Dimension)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create index dir %s: %w", dir, err)
	}

	unlock, err := acquireDirLock(dir, true)
	if err != nil {
		return err
	}
	defer unlock()

	commands := s.commands
	if commands == nil {
		commands = []string{}
	}
	meta := s.meta
	meta.Count = len(commands)
	mb, err := json.MarshalIndent(sidecar{Commands: commands, Metadata: meta}, "", "  ")
	if err != nil {
		return err
	}

	vecTmp := filepath.Join(dir, vectorFile+".tmp")
	metaTmp := filepath.Join(dir, metadataFile+".tmp")
	defer func() {
		_ = os.Remove(vecTmp)
		_ = os.Remove(metaTmp)
	}()

	if err := writeVectors(vecTmp, s.vectors); err != nil {
		return err
	}
	if err := os.WriteFile(metaTmp, mb, 0o644); err != nil {
		return fmt.Errorf("cannot write metadata: %w", err)
	}

	if err := os.Rename(vecTmp, filepath.Join(dir, vectorFile)); err != nil {
		return fmt.Errorf("cannot install vectors: %w", err)
	}
	if err := os.Rename(metaTmp, filepath.Join(dir, metadataFile)); err != nil {
		return fmt.Errorf("cannot install metadata: %w", err)
	}
	return nil
}

func writeVectors(path string, vectors []float32) error {
	vf, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create vectors file: %w", err)
	}
	if len(vectors) == 0 {
		return vf.Close()
	}
	bw := bufio.NewWriter(vf)
	if err := binary.Write(bw, binary.LittleEndian, vectors); err != nil {
		_ = vf.Close()
		return fmt.Errorf("cannot write vectors: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = vf.Close()
		return fmt.Errorf("cannot write vectors: %w", err)
	}
	return vf.Close()
}
