package index

import (
	"testing"

	"github.com/kamusis/shellsage/internal/shellctx"
)

func TestQueryText(t *testing.T) {
	tests := []struct {
		name string
		ctx  *shellctx.Context
		want string
	}{
		{"no context", nil, "list files"},
		{"empty context", &shellctx.Context{}, "list files"},
		{
			"full context",
			&shellctx.Context{DirectoryType: "go", CwdBasename: "shellsage", Git: shellctx.GitInfo{IsGitRepo: true}},
			"list files [Context: type:go git dir:shellsage]",
		},
		{
			"no git",
			&shellctx.Context{DirectoryType: "general", CwdBasename: "tmp"},
			"list files [Context: type:general dir:tmp]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QueryText("list files", tt.ctx); got != tt.want {
				t.Errorf("QueryText = %q, want %q", got, tt.want)
			}
		})
	}
}
