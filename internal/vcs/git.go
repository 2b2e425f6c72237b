// Package vcs is the thin layer between b and the git repository holding the
// bugs directory. Everything shells out to the git binary; outside a work tree
// the read operations fail with [ErrNotRepo] and [Git.Track] does nothing.
package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Error variables for git lookups.
var (
	ErrNotRepo     = errors.New("not inside a git work tree")
	ErrUnknownRev  = errors.New("unknown revision")
	ErrNotAtRev    = errors.New("path does not exist at revision")
	ErrGitNotFound = errors.New("git executable not found")
)

// Git runs git in Dir.
type Git struct {
	Dir string
	// Env is appended to the process environment of every git call.
	Env []string
}

// New returns a Git rooted at dir.
func New(dir string) *Git {
	return &Git{Dir: dir}
}

func (g *Git) run(ctx context.Context, args ...string) ([]byte, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, ErrGitNotFound
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.Dir

	if len(g.Env) > 0 {
		cmd.Env = append(os.Environ(), g.Env...)
	}

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("git %s: %w", args[0], err)
		}

		return nil, fmt.Errorf("git %s: %w: %s", args[0], err, msg)
	}

	return out, nil
}

// Root returns the top level of the work tree containing Dir.
func (g *Git) Root(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		if errors.Is(err, ErrGitNotFound) {
			return "", err
		}

		return "", fmt.Errorf("%w: %s", ErrNotRepo, g.Dir)
	}

	return filepath.Clean(strings.TrimSpace(string(out))), nil
}

// UserName returns git's user.name, or "" when unset.
func (g *Git) UserName(ctx context.Context) string {
	out, err := g.run(ctx, "config", "user.name")
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(out))
}

// Track stages path (a file or directory) so new bug files are not forgotten
// at commit time. It does nothing when path does not exist or Dir is not in a
// work tree. Nothing is committed.
func (g *Git) Track(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil //nolint:nilerr // nothing to track
	}

	if _, err := g.Root(ctx); err != nil {
		return nil //nolint:nilerr // not a repository, nothing to track
	}

	_, err := g.run(ctx, "add", "--", path)

	return err
}

// ResolveRev turns a revision expression into a full commit hash.
func (g *Git) ResolveRev(ctx context.Context, rev string) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--verify", "--quiet", rev+"^{commit}")
	if err != nil {
		if errors.Is(err, ErrGitNotFound) {
			return "", err
		}

		return "", fmt.Errorf("%w: %s", ErrUnknownRev, rev)
	}

	return strings.TrimSpace(string(out)), nil
}

// Show returns the content of path as of rev. path is relative to the work
// tree root.
func (g *Git) Show(ctx context.Context, rev, path string) ([]byte, error) {
	out, err := g.run(ctx, "show", rev+":"+filepath.ToSlash(path))
	if err != nil {
		if errors.Is(err, ErrGitNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %s at %s", ErrNotAtRev, path, rev)
	}

	return out, nil
}

// ChangedFiles lists the paths (slash separated, relative to the work tree
// root) touched by the commit rev. The root commit lists everything it adds.
func (g *Git) ChangedFiles(ctx context.Context, rev string) ([]string, error) {
	full, err := g.ResolveRev(ctx, rev)
	if err != nil {
		return nil, err
	}

	out, err := g.run(ctx, "diff-tree", "--no-commit-id", "--name-only", "-r", "--root", "-z", full)
	if err != nil {
		return nil, err
	}

	var files []string

	for _, f := range strings.Split(string(out), "\x00") {
		if f != "" {
			files = append(files, f)
		}
	}

	return files, nil
}
