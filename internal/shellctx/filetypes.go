package shellctx

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
)

const noExtension = "no_extension"

// fileTypes counts regular files in dir by lowercase extension. The scan is
// not recursive. An unreadable directory yields an empty histogram.
func (e *Extractor) fileTypes(dir string) FileTypes {
	if !readable(dir) {
		return FileTypes{}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		e.log.Debug("cannot read directory", zap.String("dir", dir), zap.Error(err))
		return FileTypes{}
	}

	counts := map[string]int{}
	for _, ent := range entries {
		if !isRegular(dir, ent) {
			continue
		}
		ext := strings.ToLower(fileExt(ent.Name()))
		if ext == "" {
			ext = noExtension
		}
		counts[ext]++
	}

	out := make(FileTypes, 0, len(counts))
	for ext, n := range counts {
		out = append(out, FileTypeCount{Ext: ext, Count: n})
	}
	sortFileTypes(out)
	if len(out) > e.fileTypesLimit {
		out = out[:e.fileTypesLimit]
	}
	return out
}

// sortFileTypes orders by descending count, then extension.
func sortFileTypes(f FileTypes) {
	slices.SortFunc(f, func(a, b FileTypeCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Ext, b.Ext)
	})
}

// fileExt returns the final suffix of name, treating dotfiles like ".bashrc"
// as having no extension.
func fileExt(name string) string {
	trimmed := strings.TrimLeft(name, ".")
	if trimmed == "" {
		return ""
	}
	return filepath.Ext(trimmed)
}

// isRegular follows symlinks so linked files are counted like regular ones.
func isRegular(dir string, ent os.DirEntry) bool {
	if ent.Type().IsRegular() {
		return true
	}
	if ent.Type()&os.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(filepath.Join(dir, ent.Name()))
	return err == nil && fi.Mode().IsRegular()
}
