package core

import (
	"fmt"

	"github.com/google/go-github/v73/github"
)

// GitHubEvent is the internal view of a pull request webhook event, reduced
// to the fields an analysis job needs. It acts as an anti-corruption layer
// between raw webhook payloads and the job pipeline.
type GitHubEvent struct {
	RepoOwner    string
	RepoName     string
	RepoFullName string

	PRNumber int
	PRTitle  string
	PRURL    string
	PRAuthor string
	HeadSHA  string
	Action   string

	InstallationID int64
}

// analyzableActions are the pull_request actions that trigger an analysis.
var analyzableActions = map[string]bool{
	"opened":      true,
	"synchronize": true,
	"reopened":    true,
}

// EventFromPullRequest validates a raw pull_request webhook event and
// converts it into a GitHubEvent. Events for actions other than opened,
// synchronize, and reopened are rejected so the caller can ignore them.
func EventFromPullRequest(event *github.PullRequestEvent) (*GitHubEvent, error) {
	action := event.GetAction()
	if !analyzableActions[action] {
		return nil, fmt.Errorf("pull request action %q does not trigger analysis", action)
	}

	repo := event.GetRepo()
	if repo == nil || repo.GetOwner() == nil || repo.GetOwner().GetLogin() == "" || repo.GetName() == "" {
		return nil, fmt.Errorf("repository or owner information is missing from the event")
	}

	pr := event.GetPullRequest()
	if pr == nil || pr.GetNumber() <= 0 {
		return nil, fmt.Errorf("invalid pull request number: %d", pr.GetNumber())
	}

	return &GitHubEvent{
		RepoOwner:      repo.GetOwner().GetLogin(),
		RepoName:       repo.GetName(),
		RepoFullName:   repo.GetFullName(),
		PRNumber:       pr.GetNumber(),
		PRTitle:        pr.GetTitle(),
		PRURL:          pr.GetHTMLURL(),
		PRAuthor:       pr.GetUser().GetLogin(),
		HeadSHA:        pr.GetHead().GetSHA(),
		Action:         action,
		InstallationID: event.GetInstallation().GetID(),
	}, nil
}

// PullRequestFromEvent converts the event into the pipeline's PullRequest
// view.
func (e *GitHubEvent) PullRequestFromEvent() PullRequest {
	return PullRequest{
		Number: e.PRNumber,
		Title:  e.PRTitle,
		URL:    e.PRURL,
		Author: e.PRAuthor,
	}
}

// PullRequestFromGitHub converts an API pull request into the pipeline's
// view.
func PullRequestFromGitHub(pr *github.PullRequest) PullRequest {
	return PullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		URL:       pr.GetHTMLURL(),
		Author:    pr.GetUser().GetLogin(),
		CreatedAt: pr.GetCreatedAt().Time,
	}
}
