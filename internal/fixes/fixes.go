// Package fixes matches error output against a table of known failure
// patterns and proposes remediation commands.
package fixes

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Pattern is one entry of the pattern store.
type Pattern struct {
	Pattern     string   `json:"pattern"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Fixes       []string `json:"fixes"`
}

// Match is a Pattern that matched a specific error message.
type Match struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Fixes       []string `json:"fixes"`
	Confidence  float64  `json:"confidence"`
}

const (
	baseConfidence     = 0.7
	specificBonus      = 0.1
	specificPatternLen = 30
	commandBonus       = 0.15
	quickFixThreshold  = 0.6
)

// commandKeywords are checked in order; only the first keyword present in
// both the pattern and the last command earns the bonus.
var commandKeywords = []string{"git", "npm", "docker", "pip"}

// Fixer is safe for concurrent use. The pattern list is replaced wholesale by
// Reload.
type Fixer struct {
	path string
	log  *zap.Logger

	mu       sync.RWMutex
	patterns []compiled
}

// New loads the pattern store at path, creating it with Defaults when
// missing. A store that cannot be read or parsed leaves the fixer empty.
func New(path string, log *zap.Logger) *Fixer {
	if log == nil {
		log = zap.NewNop()
	}
	f := &Fixer{path: filepath.Clean(path), log: log.Named("fixes")}
	patterns, err := loadOrCreate(f.path, f.log)
	if err != nil {
		f.log.Error("cannot load error patterns", zap.String("path", f.path), zap.Error(err))
		return f
	}
	f.patterns = compile(patterns, f.log)
	f.log.Info("loaded error patterns", zap.Int("count", len(f.patterns)))
	return f
}

// Reload re-reads the store. On failure the current patterns are kept.
func (f *Fixer) Reload() error {
	patterns, err := readStore(f.path)
	if err != nil {
		return fmt.Errorf("reload error patterns: %w", err)
	}
	c := compile(patterns, f.log)
	f.mu.Lock()
	f.patterns = c
	f.mu.Unlock()
	f.log.Info("reloaded error patterns", zap.Int("count", len(c)))
	return nil
}

// Patterns returns the active patterns in store order.
func (f *Fixer) Patterns() []Pattern {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Pattern, len(f.patterns))
	for i, c := range f.patterns {
		out[i] = c.Pattern
	}
	return out
}

// FindFixes returns every pattern matching message, highest confidence
// first. Equal confidences keep store order.
func (f *Fixer) FindFixes(message, lastCommand string) []Match {
	f.mu.RLock()
	patterns := f.patterns
	f.mu.RUnlock()

	matches := []Match{}
	for _, p := range patterns {
		if !p.re.MatchString(message) {
			continue
		}
		matches = append(matches, Match{
			Category:    p.Category,
			Description: p.Description,
			Fixes:       slices.Clone(p.Fixes),
			Confidence:  confidence(p.Pattern.Pattern, lastCommand),
		})
	}
	slices.SortStableFunc(matches, func(a, b Match) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		}
		return 0
	})
	return matches
}

// QuickFix returns the first fix of the best match when it is confident
// enough.
func (f *Fixer) QuickFix(message, lastCommand string) (string, bool) {
	return quickFix(f.FindFixes(message, lastCommand))
}

// QuickFixFrom picks the quick fix out of matches already returned by
// FindFixes.
func QuickFixFrom(matches []Match) (string, bool) {
	return quickFix(matches)
}

func quickFix(matches []Match) (string, bool) {
	if len(matches) == 0 || matches[0].Confidence <= quickFixThreshold || len(matches[0].Fixes) == 0 {
		return "", false
	}
	return matches[0].Fixes[0], true
}

func confidence(pattern, lastCommand string) float64 {
	c := baseConfidence
	if len(pattern) > specificPatternLen {
		c += specificBonus
	}
	if lastCommand != "" {
		for _, kw := range commandKeywords {
			if strings.Contains(pattern, kw) && strings.Contains(lastCommand, kw) {
				c += commandBonus
				break
			}
		}
	}
	return min(c, 1.0)
}
