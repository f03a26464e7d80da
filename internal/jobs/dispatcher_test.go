package jobs

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeargus/argus/internal/core"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// captureJob records every event it runs.
type captureJob struct {
	mu     sync.Mutex
	events []*core.GitHubEvent
}

func (j *captureJob) Run(_ context.Context, event *core.GitHubEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, event)
	return nil
}

func (j *captureJob) count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.events)
}

// blockingJob signals when a run starts and blocks until released.
type blockingJob struct {
	started chan int
	release chan struct{}
}

func (j *blockingJob) Run(_ context.Context, event *core.GitHubEvent) error {
	j.started <- event.PRNumber
	<-j.release
	return nil
}

func testEvent(prNumber int) *core.GitHubEvent {
	return &core.GitHubEvent{
		RepoOwner:    "owner",
		RepoName:     "repo",
		RepoFullName: "owner/repo",
		PRNumber:     prNumber,
	}
}

func TestDispatcherProcessesQueuedEvents(t *testing.T) {
	job := &captureJob{}
	d := NewDispatcher(job, 8, 2, newTestLogger())

	for i := 1; i <= 5; i++ {
		require.NoError(t, d.Dispatch(context.Background(), testEvent(i)))
	}

	// Stop closes the queue and waits for the workers to drain it.
	d.Stop()
	assert.Equal(t, 5, job.count())
}

func TestDispatchFailsWhenQueueIsFull(t *testing.T) {
	job := &blockingJob{
		started: make(chan int, 1),
		release: make(chan struct{}),
	}
	d := NewDispatcher(job, 1, 1, newTestLogger())

	// The single worker picks up the first event and blocks inside Run.
	require.NoError(t, d.Dispatch(context.Background(), testEvent(1)))
	assert.Equal(t, 1, <-job.started)

	// The second event occupies the only queue slot; the third must be
	// rejected instead of blocking the caller.
	require.NoError(t, d.Dispatch(context.Background(), testEvent(2)))
	err := d.Dispatch(context.Background(), testEvent(3))
	assert.ErrorContains(t, err, "job queue is full")

	close(job.release)
	d.Stop()
}

func TestStopWaitsForInFlightJobs(t *testing.T) {
	job := &blockingJob{
		started: make(chan int, 1),
		release: make(chan struct{}),
	}
	d := NewDispatcher(job, 1, 1, newTestLogger())

	require.NoError(t, d.Dispatch(context.Background(), testEvent(7)))
	assert.Equal(t, 7, <-job.started)

	stopped := make(chan struct{})
	go func() {
		d.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a job was still running")
	default:
	}

	close(job.release)
	<-stopped
}
