// Package safety classifies shell commands by their potential to destroy data
// or damage the system.
package safety

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// Level is the outcome of a safety check.
type Level string

const (
	Safe      Level = "safe"
	Warning   Level = "warning"
	Dangerous Level = "dangerous"
)

const (
	dangerousText = "⚠️  DANGEROUS: This command could cause data loss or system damage!"
	warningText   = "⚠️  WARNING: This command could be destructive. Use with caution."
)

// Assessment is the result of Check. Warning is nil for safe commands and
// Reasons is never nil.
type Assessment struct {
	Level   Level    `json:"level"`
	Warning *string  `json:"warning"`
	Reasons []string `json:"reasons"`
}

// destructivePatterns are literal command fragments. Each must start at a word
// boundary so "rm -r" does not fire inside "terraform -refresh".
var destructivePatterns = []string{
	"rm -rf", "rm -fr", "rm -r", "rm -f",
	"dd if=", "dd of=",
	"mkfs.", "mkfs ",
	"fdisk",
	"parted",
	"> /dev/",
	"format",
	"shred",
	"wipefs",
}

var sudoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`sudo\s+rm\s+-[rf]+`),
	regexp.MustCompile(`sudo\s+dd`),
	regexp.MustCompile(`sudo\s+mkfs`),
	regexp.MustCompile(`sudo\s+chmod\s+-r\s+777`),
	regexp.MustCompile(`sudo\s+chown\s+-r`),
}

var criticalPaths = []string{
	"/", "/bin", "/boot", "/dev", "/etc", "/lib", "/proc",
	"/root", "/sbin", "/sys", "/usr", "/var",
}

// criticalIndicators upgrade a flagged command to Dangerous: deleting the
// root, overwriting a whole disk, or creating a filesystem.
var criticalIndicators = []*regexp.Regexp{
	regexp.MustCompile(`\brm\s+(-{1,2}[\w-]+\s+)*/\*?(\s|$)`),
	regexp.MustCompile(`\bdd\b.*\bof=/dev/(sd|hd|vd|xvd|nvme|mmcblk|disk)`),
	regexp.MustCompile(`>\s*/dev/(sd|hd|vd|xvd|nvme|mmcblk|disk)`),
	regexp.MustCompile(`\bmkfs(\.|\s)`),
}

var (
	destructiveVerb = regexp.MustCompile(`\brm\b|\bdd\b|\bmkfs|>`)
	forcedVerb      = regexp.MustCompile(`\brm\b|\bdd\b|\bmkfs`)
	sudoWord        = regexp.MustCompile(`\bsudo\b`)
	forceFlag       = regexp.MustCompile(`(^|\s)(-[a-z]*f[a-z]*|--force)(\s|$)`)
)

type fragment struct {
	text string
	re   *regexp.Regexp
}

type criticalPath struct {
	path string
	re   *regexp.Regexp
}

// Checker is immutable after New and safe for concurrent use.
type Checker struct {
	fragments []fragment
	paths     []criticalPath
}

// New compiles the pattern tables.
func New() *Checker {
	c := &Checker{}
	for _, p := range destructivePatterns {
		expr := regexp.QuoteMeta(p)
		if isWordByte(p[0]) {
			expr = `(^|[^\w])` + expr
		}
		c.fragments = append(c.fragments, fragment{text: p, re: regexp.MustCompile(expr)})
	}
	for _, p := range criticalPaths {
		// The root only counts when named on its own; other paths also
		// cover anything beneath them.
		tail := `(/|\*|\s|$)`
		if p == "/" {
			tail = `(\*|\s|$)`
		}
		c.paths = append(c.paths, criticalPath{
			path: p,
			re:   regexp.MustCompile(`(^|[\s=])` + regexp.QuoteMeta(p) + tail),
		})
	}
	return c
}

// Check classifies command. Matching is case-insensitive on the trimmed
// command; internal whitespace is kept as typed.
func (c *Checker) Check(command string) Assessment {
	cmd := cases.Fold().String(strings.TrimSpace(command))
	reasons := []string{}

	for _, f := range c.fragments {
		if f.re.MatchString(cmd) {
			reasons = append(reasons, "Contains destructive pattern: "+f.text)
		}
	}

	for _, re := range sudoPatterns {
		if re.MatchString(cmd) {
			reasons = append(reasons, "Dangerous sudo command detected")
		}
	}

	if destructiveVerb.MatchString(cmd) {
		for _, p := range c.paths {
			if p.re.MatchString(cmd) {
				reasons = append(reasons, "Destructive operation on critical path: "+p.path)
			}
		}
	}

	if strings.Contains(cmd, "--no-preserve-root") {
		reasons = append(reasons, "Bypasses root protection (--no-preserve-root)")
	}

	if sudoWord.MatchString(cmd) && forceFlag.MatchString(cmd) && forcedVerb.MatchString(cmd) {
		reasons = append(reasons, "Forced system operation")
	}

	if len(reasons) == 0 {
		return Assessment{Level: Safe, Reasons: reasons}
	}
	for _, re := range criticalIndicators {
		if re.MatchString(cmd) {
			return Assessment{Level: Dangerous, Warning: ptr(dangerousText), Reasons: reasons}
		}
	}
	return Assessment{Level: Warning, Warning: ptr(warningText), Reasons: reasons}
}

// IsSafe reports whether command raised no concerns.
func (c *Checker) IsSafe(command string) bool {
	return c.Check(command).Level == Safe
}

// WarningMessage returns the warning for command, or "" when it is safe.
func (c *Checker) WarningMessage(command string) string {
	if w := c.Check(command).Warning; w != nil {
		return *w
	}
	return ""
}

func isWordByte(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

func ptr(s string) *string { return &s }
