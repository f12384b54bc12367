package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"
)

// NewGitHub returns an authenticated GitHub API client. GH_TOKEN wins over
// GITHUB_TOKEN so runs inside GitHub Actions can override the injected
// workflow token.
func NewGitHub() (*github.Client, error) {
	token := os.Getenv("GH_TOKEN")
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("no GitHub token found in GH_TOKEN or GITHUB_TOKEN environment variables")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	cl := github.NewClient(tc)

	apiURL := os.Getenv("GITHUB_API_URL")
	if apiURL == "" {
		apiURL = os.Getenv("GITHUB_ENDPOINT")
	}
	if apiURL != "" {
		baseURL, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid API URL: %w", err)
		}
		// go-github requires a trailing slash on the base URL.
		if baseURL.Path == "" || baseURL.Path[len(baseURL.Path)-1] != '/' {
			baseURL.Path += "/"
		}
		cl.BaseURL = baseURL
	}

	return cl, nil
}

// NewMockGitHub builds a client around a stub HTTP transport for tests.
func NewMockGitHub(httpClient *http.Client) *github.Client {
	return github.NewClient(httpClient)
}
