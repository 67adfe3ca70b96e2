// Package shellctx derives the situational signals used to rerank command
// suggestions: working directory, git state, file types, project type and
// environment hints.
package shellctx

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// GeneralType is the directory type reported when no marker matches.
const GeneralType = "general"

// GitInfo describes the git state of a directory. Pointer fields are nil when
// the corresponding query failed or timed out.
type GitInfo struct {
	IsGitRepo             bool    `json:"is_git_repo"`
	Branch                *string `json:"branch,omitempty"`
	HasUncommittedChanges *bool   `json:"has_uncommitted_changes,omitempty"`
	RemoteURL             *string `json:"remote_url,omitempty"`
}

// FileTypeCount is one bucket of the file-type histogram.
type FileTypeCount struct {
	Ext   string
	Count int
}

// FileTypes is a histogram ordered by descending count. It marshals as a JSON
// object whose key order matches the slice order.
type FileTypes []FileTypeCount

// MarshalJSON implements json.Marshaler.
func (f FileTypes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ft := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(ft.Ext)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(ft.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler. Order is not preserved beyond
// sorting by count.
func (f *FileTypes) UnmarshalJSON(b []byte) error {
	var m map[string]int
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	out := make(FileTypes, 0, len(m))
	for ext, n := range m {
		out = append(out, FileTypeCount{Ext: ext, Count: n})
	}
	sortFileTypes(out)
	*f = out
	return nil
}

// Has reports whether ext is present in the histogram.
func (f FileTypes) Has(ext string) bool {
	for _, ft := range f {
		if ft.Ext == ext {
			return true
		}
	}
	return false
}

// EnvHints are read from the process environment.
type EnvHints struct {
	PythonVenv    bool   `json:"python_venv,omitempty"`
	CondaEnv      string `json:"conda_env,omitempty"`
	DockerEnabled bool   `json:"docker_enabled,omitempty"`
}

// Context is the snapshot passed to retrieval and ranking.
type Context struct {
	Cwd            string    `json:"cwd"`
	CwdBasename    string    `json:"cwd_basename"`
	LastCommand    string    `json:"last_command,omitempty"`
	LastExitCode   *int      `json:"last_exit_code,omitempty"`
	RecentCommands []string  `json:"recent_commands"`
	Git            GitInfo   `json:"git_info"`
	FileTypes      FileTypes `json:"file_types"`
	DirectoryType  string    `json:"directory_type"`
	EnvHints       EnvHints  `json:"env_hints"`
}

// Input holds the caller-supplied fields of a Context.
type Input struct {
	Cwd            string
	LastCommand    string
	LastExitCode   *int
	RecentCommands []string
}

// GitRunner runs git with args in dir and returns its stdout.
type GitRunner func(ctx context.Context, dir string, args ...string) ([]byte, error)

// Options configures an Extractor. Zero values select defaults.
type Options struct {
	FileTypesLimit    int
	MaxRecentCommands int
	GitTimeout        time.Duration
	Git               GitRunner
	LookupEnv         func(string) (string, bool)
	Logger            *zap.Logger
}

// Extractor builds Contexts. It holds no per-request state and is safe for
// concurrent use.
type Extractor struct {
	fileTypesLimit int
	maxRecent      int
	gitTimeout     time.Duration
	git            GitRunner
	lookupEnv      func(string) (string, bool)
	log            *zap.Logger
}

// NewExtractor returns an Extractor with opts applied over the defaults.
func NewExtractor(opts Options) *Extractor {
	e := &Extractor{
		fileTypesLimit: 20,
		maxRecent:      10,
		gitTimeout:     2 * time.Second,
		git:            execGit,
		lookupEnv:      os.LookupEnv,
		log:            zap.NewNop(),
	}
	if opts.FileTypesLimit > 0 {
		e.fileTypesLimit = opts.FileTypesLimit
	}
	if opts.MaxRecentCommands > 0 {
		e.maxRecent = opts.MaxRecentCommands
	}
	if opts.GitTimeout > 0 {
		e.gitTimeout = opts.GitTimeout
	}
	if opts.Git != nil {
		e.git = opts.Git
	}
	if opts.LookupEnv != nil {
		e.lookupEnv = opts.LookupEnv
	}
	if opts.Logger != nil {
		e.log = opts.Logger.Named("shellctx")
	}
	return e
}

// Extract combines in with the signals derived from in.Cwd. It never fails:
// each signal that cannot be derived is left empty.
func (e *Extractor) Extract(ctx context.Context, in Input) Context {
	cwd := in.Cwd
	if cwd == "" {
		if wd, err := os.Getwd(); err == nil {
			cwd = wd
		}
	}

	recent := in.RecentCommands
	if len(recent) > e.maxRecent {
		recent = recent[len(recent)-e.maxRecent:]
	}
	if recent == nil {
		recent = []string{}
	}

	return Context{
		Cwd:            cwd,
		CwdBasename:    filepath.Base(cwd),
		LastCommand:    in.LastCommand,
		LastExitCode:   in.LastExitCode,
		RecentCommands: append([]string(nil), recent...),
		Git:            e.gitInfo(ctx, cwd),
		FileTypes:      e.fileTypes(cwd),
		DirectoryType:  DirectoryType(cwd),
		EnvHints:       e.envHints(),
	}
}
