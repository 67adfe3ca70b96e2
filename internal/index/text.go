package index

import (
	"strings"

	"github.com/kamusis/shellsage/internal/shellctx"
)

// QueryText returns the text embedded for a search query. When c is non-nil the
// query is decorated with a compact context summary, e.g.
//
//	git status [Context: type:go git dir:shellsage]
func QueryText(query string, c *shellctx.Context) string {
	if c == nil {
		return query
	}
	var parts []string
	if c.DirectoryType != "" {
		parts = append(parts, "type:"+c.DirectoryType)
	}
	if c.Git.IsGitRepo {
		parts = append(parts, "git")
	}
	if c.CwdBasename != "" {
		parts = append(parts, "dir:"+c.CwdBasename)
	}
	if len(parts) == 0 {
		return query
	}
	return query + " [Context: " + strings.Join(parts, " ") + "]"
}
