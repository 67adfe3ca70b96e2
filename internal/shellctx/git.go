package shellctx

import (
	"context"
	"os/exec"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// execGit is the default GitRunner.
func execGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	c := exec.CommandContext(ctx, "git", args...)
	c.Dir = dir
	return c.Output()
}

// gitInfo runs the four git queries concurrently, each under its own timeout.
// A failed query only clears its own field; a failed work-tree query means
// the directory is not a repository.
func (e *Extractor) gitInfo(ctx context.Context, dir string) GitInfo {
	var (
		inside  bool
		branch  *string
		changes *bool
		remote  *string
	)

	// Queries never return an error to the group so one failure cannot
	// cancel the others.
	var g errgroup.Group
	g.Go(func() error {
		out, ok := e.query(ctx, dir, "rev-parse", "--is-inside-work-tree")
		inside = ok && strings.TrimSpace(out) == "true"
		return nil
	})
	g.Go(func() error {
		if out, ok := e.query(ctx, dir, "branch", "--show-current"); ok {
			s := strings.TrimSpace(out)
			branch = &s
		}
		return nil
	})
	g.Go(func() error {
		if out, ok := e.query(ctx, dir, "status", "--porcelain"); ok {
			dirty := strings.TrimSpace(out) != ""
			changes = &dirty
		}
		return nil
	})
	g.Go(func() error {
		if out, ok := e.query(ctx, dir, "config", "--get", "remote.origin.url"); ok {
			s := strings.TrimSpace(out)
			remote = &s
		}
		return nil
	})
	_ = g.Wait()

	if !inside {
		return GitInfo{IsGitRepo: false}
	}
	return GitInfo{
		IsGitRepo:             true,
		Branch:                branch,
		HasUncommittedChanges: changes,
		RemoteURL:             remote,
	}
}

func (e *Extractor) query(ctx context.Context, dir string, args ...string) (string, bool) {
	qctx, cancel := context.WithTimeout(ctx, e.gitTimeout)
	defer cancel()
	out, err := e.git(qctx, dir, args...)
	if err != nil {
		e.log.Debug("git query failed", zap.Strings("args", args), zap.Error(err))
		return "", false
	}
	return string(out), true
}
