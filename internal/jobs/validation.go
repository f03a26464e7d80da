package jobs

import (
	"fmt"

	"github.com/codeargus/argus/internal/core"
)

// validateEvent ensures the event carries every field an analysis job needs.
// Webhook payloads are validated once when converted into a GitHubEvent, but
// jobs are queued and run later, so the fields are checked again here.
func validateEvent(event *core.GitHubEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.RepoOwner == "" {
		return fmt.Errorf("repository owner cannot be empty")
	}
	if event.RepoName == "" {
		return fmt.Errorf("repository name cannot be empty")
	}
	if event.RepoFullName == "" {
		return fmt.Errorf("repository full name cannot be empty")
	}
	if event.PRNumber <= 0 {
		return fmt.Errorf("pull request number must be positive, got: %d", event.PRNumber)
	}
	return nil
}
