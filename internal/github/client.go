// Package github wraps the GitHub API operations the analyzer needs:
// listing open pull requests, fetching diffs, and posting result comments.
package github

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"
)

// Client defines the GitHub operations used by the analysis pipeline.
//
//go:generate mockgen -destination=../../mocks/mock_github_client.go -package=mocks . Client
type Client interface {
	// VerifyAccess checks that the credentials are valid and the repository
	// is reachable. Called once at startup; failure is fatal.
	VerifyAccess(ctx context.Context, owner, repo string) error
	ListOpenPullRequests(ctx context.Context, owner, repo string) ([]*github.PullRequest, error)
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error)
	GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error)
	CreateComment(ctx context.Context, owner, repo string, number int, body string) error
}

type gitHubClient struct {
	client *github.Client
	logger *slog.Logger
}

// NewGitHubClient wraps the official go-github client to provide a focused,
// testable interface for application-specific GitHub operations.
func NewGitHubClient(client *github.Client, logger *slog.Logger) Client {
	return &gitHubClient{client: client, logger: logger}
}

// NewPATClient creates a GitHub client authenticated with a Personal Access
// Token. An optional baseURL points the client at a GitHub Enterprise
// instance; empty means github.com.
func NewPATClient(ctx context.Context, token, baseURL string, logger *slog.Logger) (Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base URL %s: %w", baseURL, err)
		}
	}
	return &gitHubClient{client: client, logger: logger}, nil
}

// VerifyAccess resolves the authenticated user and the target repository.
func (g *gitHubClient) VerifyAccess(ctx context.Context, owner, repo string) error {
	user, _, err := g.client.Users.Get(ctx, "")
	if err != nil {
		return fmt.Errorf("GitHub authentication failed: %w", err)
	}
	repository, _, err := g.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return fmt.Errorf("cannot access repository %s/%s: %w", owner, repo, err)
	}

	g.logger.Info("authenticated with GitHub",
		"user", user.GetLogin(), "repository", repository.GetFullName())
	return nil
}

// ListOpenPullRequests returns all open pull requests, newest first. It
// pages through the API, which returns at most 100 pull requests per page.
func (g *gitHubClient) ListOpenPullRequests(ctx context.Context, owner, repo string) ([]*github.PullRequest, error) {
	opts := &github.PullRequestListOptions{
		State:       "open",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var allPRs []*github.PullRequest
	for {
		prs, resp, err := g.client.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			g.logger.Error("failed to list open pull requests", "owner", owner, "repo", repo, "error", err)
			return nil, fmt.Errorf("failed to list open pull requests: %w", err)
		}
		allPRs = append(allPRs, prs...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	g.logger.Info("fetched open pull requests", "count", len(allPRs))
	return allPRs, nil
}

// GetPullRequest retrieves a single pull request by its number.
func (g *gitHubClient) GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error) {
	pr, _, err := g.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		g.logger.Error("failed to get pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
		return nil, fmt.Errorf("failed to get pull request #%d: %w", number, err)
	}
	return pr, nil
}

// GetPullRequestDiff retrieves the diff of a pull request as a string.
func (g *gitHubClient) GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error) {
	diff, _, err := g.client.PullRequests.GetRaw(ctx, owner, repo, number, github.RawOptions{
		Type: github.Diff,
	})
	if err != nil {
		g.logger.Error("failed to get pull request diff", "owner", owner, "repo", repo, "pr", number, "error", err)
		return "", fmt.Errorf("failed to fetch diff for PR #%d: %w", number, err)
	}

	g.logger.Debug("fetched pull request diff", "pr", number, "bytes", len(diff))
	return diff, nil
}

// CreateComment creates a new comment on a pull request.
func (g *gitHubClient) CreateComment(ctx context.Context, owner, repo string, number int, body string) error {
	comment := &github.IssueComment{Body: &body}
	_, _, err := g.client.Issues.CreateComment(ctx, owner, repo, number, comment)
	if err != nil {
		g.logger.Error("failed to create comment", "owner", owner, "repo", repo, "pr", number, "error", err)
	}
	return err
}
