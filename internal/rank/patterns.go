package rank

import (
	"regexp"
	"strings"

	"github.com/kamusis/shellsage/internal/shellctx"
)

var gitPatterns = compileAll(
	`^git\s`,
	`\bgit\s`,
	`git commit`,
	`git push`,
	`git pull`,
	`git checkout`,
	`git branch`,
	`git status`,
	`git add`,
	`git diff`,
	`git log`,
	`git merge`,
	`git rebase`,
)

// typePatterns holds the command keywords that fit each directory type.
var typePatterns = map[string][]*regexp.Regexp{
	"python":    compileAll(`\bpython\b`, `\bpip\b`, `\bpytest\b`, `\.py\b`, `\bvenv\b`, `\bconda\b`, `\bpoetry\b`),
	"node":      compileAll(`\bnpm\b`, `\bnode\b`, `\byarn\b`, `\bpnpm\b`, `package\.json`, `\.js\b`, `\.ts\b`),
	"rust":      compileAll(`\bcargo\b`, `\brustc\b`, `\.rs\b`),
	"go":        compileAll(`\bgo\s`, `\.go\b`, `go mod`, `go build`, `go test`),
	"java":      compileAll(`\bmvn\b`, `\bgradle\b`, `\.java\b`, `\.jar\b`, `\bjavac\b`),
	"docker":    compileAll(`\bdocker\b`, `docker-compose`, `dockerfile`, `\.dockerfile\b`),
	"terraform": compileAll(`\bterraform\b`, `\btf\b`, `\.tf\b`, `\.tfvars\b`),
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + e)
	}
	return out
}

func anyMatch(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func isGitCommand(command string) bool {
	return anyMatch(gitPatterns, command)
}

// matchesDirType checks command against every type in the comma-joined
// dirType.
func matchesDirType(command, dirType string) bool {
	for _, t := range strings.Split(dirType, ",") {
		if anyMatch(typePatterns[strings.TrimSpace(t)], command) {
			return true
		}
	}
	return false
}

// matchesFileTypes reports whether command mentions an extension present in
// the directory, with or without its leading dot.
func matchesFileTypes(command string, ft shellctx.FileTypes) bool {
	lower := strings.ToLower(command)
	for _, f := range ft {
		if f.Ext == "no_extension" {
			continue
		}
		name := strings.TrimLeft(f.Ext, ".")
		if name == "" {
			continue
		}
		if strings.Contains(lower, name) || strings.Contains(lower, f.Ext) {
			return true
		}
	}
	return false
}
