package git

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v73/github"

	"github.com/linyows/tagver/client"
)

// GitHub inspects a remote's tags through the GitHub API, so a project can
// be examined without a working copy. It never replaces the
// fetch-before-bump step.
type GitHub struct {
	cl *github.Client
}

// NewGitHub returns a lister using an authenticated API client.
func NewGitHub() (*GitHub, error) {
	cl, err := client.NewGitHub()
	if err != nil {
		return nil, err
	}
	return &GitHub{cl: cl}, nil
}

// NewGitHubWithClient wires in a prebuilt API client, used by tests.
func NewGitHubWithClient(cl *github.Client) *GitHub {
	return &GitHub{cl: cl}
}

// ListRemoteTags returns every tag name of owner/repo, following
// pagination in API order.
func (g *GitHub) ListRemoteTags(ctx context.Context, owner, repo string) ([]string, error) {
	opt := &github.ListOptions{PerPage: 100}

	var tags []string
	for {
		ts, resp, err := g.cl.Repositories.ListTags(ctx, owner, repo, opt)
		if err != nil {
			return nil, fmt.Errorf("list tags for %s/%s: %w", owner, repo, err)
		}
		for _, t := range ts {
			tags = append(tags, t.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}
	return tags, nil
}

// SplitRemote extracts owner and repo from a github.com remote URL. Both
// https and scp-like ssh forms are recognized.
func SplitRemote(remote string) (owner, repo string, ok bool) {
	var path string
	switch {
	case strings.HasPrefix(remote, "git@github.com:"):
		path = strings.TrimPrefix(remote, "git@github.com:")
	default:
		u, err := url.Parse(remote)
		if err != nil || u.Hostname() != "github.com" {
			return "", "", false
		}
		path = strings.TrimPrefix(u.Path, "/")
	}

	path = strings.TrimSuffix(path, ".git")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
