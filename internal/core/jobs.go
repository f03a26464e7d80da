package core

import "context"

// JobDispatcher accepts analysis jobs for asynchronous processing. It
// decouples the webhook handler from the worker pool executing the jobs.
type JobDispatcher interface {
	// Dispatch queues the event for processing. It returns an error when the
	// job cannot be queued, for example when the queue is full, giving the
	// caller a backpressure signal.
	Dispatch(ctx context.Context, event *GitHubEvent) error

	// Stop closes the queue and blocks until in-flight jobs finish.
	Stop()
}

// Job is a single executable unit of work triggered by a GitHubEvent.
type Job interface {
	Run(ctx context.Context, event *GitHubEvent) error
}
