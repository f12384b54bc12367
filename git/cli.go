package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/cli/safeexec"
)

// CLI shells out to the git binary found on PATH.
type CLI struct {
	bin string
}

// NewCLI locates git once and returns a client backed by it.
func NewCLI() (*CLI, error) {
	bin, err := safeexec.LookPath("git")
	if err != nil {
		return nil, fmt.Errorf("git is not available: %w", err)
	}
	return &CLI{bin: bin}, nil
}

// run executes git with args in dir, returning stdout. Stderr is folded
// into the returned error so callers see git's own diagnostics. The
// locale is pinned because error classification matches English stderr.
func (c *CLI) run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, c.bin, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "LC_ALL=C")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return "", fmt.Errorf("git %s: %w", args[0], err)
		}
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, detail)
	}
	return stdout.String(), nil
}

func (c *CLI) Clone(ctx context.Context, url, path string) error {
	_, err := c.run(ctx, "", "clone", url, path)
	return err
}

func (c *CLI) ListLocalTags(ctx context.Context, path string) ([]string, error) {
	out, err := c.run(ctx, path, "tag", "--list")
	if err != nil {
		return nil, err
	}

	var tags []string
	for _, line := range strings.Split(out, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

func (c *CLI) DeleteLocalTag(ctx context.Context, path, tag string) error {
	_, err := c.run(ctx, path, "tag", "--delete", tag)
	if err != nil && strings.Contains(err.Error(), "not found") {
		return nil
	}
	return err
}

func (c *CLI) FetchRemoteTags(ctx context.Context, path string) error {
	_, err := c.run(ctx, path, "fetch", "--tags")
	return err
}

func (c *CLI) CreateTag(ctx context.Context, path, tag string) error {
	_, err := c.run(ctx, path, "tag", tag)
	if err != nil && strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("%w: %s", ErrTagExists, tag)
	}
	return err
}

func (c *CLI) PushTag(ctx context.Context, path, remote, tag string) error {
	_, err := c.run(ctx, path, "push", remote, tag)
	return err
}
