// Package gitutil records catalogue changes in the surrounding git
// repository.
package gitutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNotRepository reports that the working directory is not inside a git
// work tree.
var ErrNotRepository = errors.New("not a git repository")

// Runner abstracts command execution for testability.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner runs commands with os/exec, optionally in Dir.
type ExecRunner struct {
	Dir string
}

// Run executes the named program with args and returns stdout, stderr, and error.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	var out, errB bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errB
	err := cmd.Run()
	return out.String(), errB.String(), err
}

// Committer stages and commits paths, optionally pushing afterwards.
type Committer struct {
	Runner Runner
	Push   bool
}

// New returns a Committer running git in the current directory.
func New(push bool) *Committer {
	return &Committer{Runner: ExecRunner{}, Push: push}
}

// Commit stages paths and commits them with message. It reports whether a
// commit was created; "nothing to commit" is not an error. With Push set a
// new commit is pushed, setting the upstream when none is configured.
func (c *Committer) Commit(ctx context.Context, paths []string, message string) (bool, error) {
	if len(paths) == 0 {
		return false, nil
	}
	if err := c.add(ctx, paths); err != nil {
		return false, err
	}
	committed, err := c.commit(ctx, message)
	if err != nil || !committed || !c.Push {
		return committed, err
	}
	return true, c.push(ctx)
}

// add stages additions, modifications, and deletions for the provided paths.
func (c *Committer) add(ctx context.Context, paths []string) error {
	args := append([]string{"add", "-A", "--"}, paths...)
	if _, stderr, err := c.Runner.Run(ctx, "git", args...); err != nil {
		if strings.Contains(stderr, "not a git repository") {
			return ErrNotRepository
		}
		return fmt.Errorf("git add: %w: %s", err, strings.TrimSpace(stderr))
	}
	return nil
}

func (c *Committer) commit(ctx context.Context, message string) (bool, error) {
	stdout, stderr, err := c.Runner.Run(ctx, "git", "commit", "-m", message)
	if err == nil {
		return true, nil
	}
	// git reports a no-op on either stream depending on version
	combined := stderr + stdout
	for _, s := range []string{"nothing to commit", "no changes added to commit", "working tree clean"} {
		if strings.Contains(combined, s) {
			return false, nil
		}
	}
	return false, fmt.Errorf("git commit: %w: %s", err, strings.TrimSpace(combined))
}

func (c *Committer) push(ctx context.Context) error {
	_, stderr, err := c.Runner.Run(ctx, "git", "push")
	if err == nil {
		return nil
	}
	if !strings.Contains(stderr, "has no upstream branch") && !strings.Contains(stderr, "no configured push destination") {
		return fmt.Errorf("git push: %w: %s", err, strings.TrimSpace(stderr))
	}
	branch := "HEAD"
	if br, _, bErr := c.Runner.Run(ctx, "git", "rev-parse", "--abbrev-ref", "HEAD"); bErr == nil && strings.TrimSpace(br) != "" {
		branch = strings.TrimSpace(br)
	}
	if _, stderr2, err2 := c.Runner.Run(ctx, "git", "push", "-u", "origin", branch); err2 != nil {
		return fmt.Errorf("git push -u origin %s: %w: %s", branch, err2, strings.TrimSpace(stderr2))
	}
	return nil
}
