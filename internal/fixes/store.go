package fixes

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"
)

// store is the on-disk layout of the pattern file.
type store struct {
	Patterns []Pattern `json:"patterns"`
}

type compiled struct {
	Pattern
	re *regexp.Regexp
}

// readStore parses the pattern file at path.
func readStore(path string) ([]Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s store
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid pattern store %s: %w", path, err)
	}
	return s.Patterns, nil
}

// writeStore writes patterns to path through a temp file and rename.
func writeStore(path string, patterns []Pattern) error {
	data, err := json.MarshalIndent(store{Patterns: patterns}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Dir(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("cannot rename %s: %w", tmp, err)
	}
	return nil
}

// compile drops entries whose regex does not compile. Matching is always
// case-insensitive.
func compile(patterns []Pattern, log *zap.Logger) []compiled {
	out := make([]compiled, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`(?i)` + p.Pattern)
		if err != nil {
			log.Warn("skipping invalid error pattern",
				zap.String("pattern", p.Pattern), zap.String("category", p.Category), zap.Error(err))
			continue
		}
		out = append(out, compiled{Pattern: p, re: re})
	}
	return out
}

// loadOrCreate reads the store at path, writing the defaults first when the
// file does not exist.
func loadOrCreate(path string, log *zap.Logger) ([]Pattern, error) {
	patterns, err := readStore(path)
	if err == nil {
		return patterns, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	log.Warn("error pattern store not found, creating defaults", zap.String("path", path))
	patterns = Defaults()
	if err := writeStore(path, patterns); err != nil {
		log.Error("cannot persist default error patterns", zap.Error(err))
	}
	return patterns, nil
}
