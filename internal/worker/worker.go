// Package worker runs the single-consumer FIFO job pipeline: posting
// commit statuses and running pull-request validations.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/crawford/tailor/internal/policy"
	"github.com/crawford/tailor/internal/pr"
	"github.com/crawford/tailor/internal/provider"
	"github.com/crawford/tailor/internal/statuslink"
	"github.com/crawford/tailor/internal/validate"
)

const statusContext = "tailor"

// providerClient is the subset of provider.Client the worker and its
// per-run permission cache need; narrowing to an interface keeps the
// worker unit-testable without a live provider.
type providerClient interface {
	CreateStatus(ctx context.Context, owner, repo, sha string, status *github.RepoStatus) error
	GetPermissionLevel(ctx context.Context, owner, repo, username string) (string, error)
}

var _ providerClient = (*provider.Client)(nil)

// assembler is the subset of pr.Assembler the worker needs.
type assembler interface {
	Fetch(ctx context.Context, owner, repo string, number int) (*pr.PullRequestView, policy.Policy, error)
}

var _ assembler = (*pr.Assembler)(nil)

// Worker drains a single FIFO queue of jobs, one at a time, forever until
// the queue is closed.
type Worker struct {
	client        providerClient
	assembler     assembler
	serverAddress string
	log           *slog.Logger

	queue *queue
}

// New builds a Worker. serverAddress is the public base URL used to build
// status-page links (e.g. "https://tailor.example.com").
func New(client providerClient, pullAssembler assembler, serverAddress string, log *slog.Logger) *Worker {
	if log == nil {
		log = slog.Default()
	}
	return &Worker{
		client:        client,
		assembler:     pullAssembler,
		serverAddress: strings.TrimRight(serverAddress, "/"),
		log:           log,
		queue:         newQueue(),
	}
}

// QueueStatus enqueues a status post. It errors only if the queue has
// been closed (e.g. during shutdown).
func (w *Worker) QueueStatus(job StatusJob) error {
	return w.queue.push(NewStatusJob(job))
}

// QueuePullRequest enqueues a pull-request validation run.
func (w *Worker) QueuePullRequest(job PullRequestJob) error {
	return w.queue.push(NewPullRequestJob(job))
}

// Close stops the queue; Run returns once it has drained whatever was
// already enqueued.
func (w *Worker) Close() {
	w.queue.close()
}

// Run consumes jobs until the queue is closed. It is meant to run in its
// own goroutine for the lifetime of the server.
func (w *Worker) Run(ctx context.Context) {
	for {
		job, ok := w.queue.pop()
		if !ok {
			return
		}
		switch job.Kind() {
		case JobStatus:
			status, _ := job.AsStatus()
			w.handleStatus(ctx, status)
		case JobPullRequest:
			pullRequest, _ := job.AsPullRequest()
			w.handlePullRequest(ctx, pullRequest)
		}
	}
}

func (w *Worker) handleStatus(ctx context.Context, job StatusJob) {
	repoStatus := &github.RepoStatus{
		State:       github.Ptr(job.State),
		Description: github.Ptr(job.Description),
		Context:     github.Ptr(statusContext),
	}
	if job.TargetURL != "" {
		repoStatus.TargetURL = github.Ptr(job.TargetURL)
	}
	if err := w.client.CreateStatus(ctx, job.Owner, job.Repo, job.SHA, repoStatus); err != nil {
		w.log.Error("post status failed", "owner", job.Owner, "repo", job.Repo, "sha", job.SHA, "error", err)
	}
}

func (w *Worker) handlePullRequest(ctx context.Context, job PullRequestJob) {
	log := w.log.With("owner", job.Owner, "repo", job.Repo, "number", job.Number)

	view, pol, err := w.assembler.Fetch(ctx, job.Owner, job.Repo, job.Number)
	if err != nil {
		log.Error("assemble pull request failed", "error", err)
		return
	}

	cache := validate.NewPermissionCache(w.client)
	driver := validate.NewDriver(cache)
	failures, err := driver.Validate(ctx, job.Owner, job.Repo, view, pol)

	var status StatusJob
	switch {
	case err != nil:
		log.Error("validate pull request failed", "error", err)
		status = StatusJob{
			Owner:       job.Owner,
			Repo:        job.Repo,
			SHA:         view.HeadSHA,
			State:       "error",
			Description: "Failed to evaluate rules",
			TargetURL:   w.statusLink(err.Error()),
		}
	case len(failures) == 0:
		status = StatusJob{
			Owner:       job.Owner,
			Repo:        job.Repo,
			SHA:         view.HeadSHA,
			State:       "success",
			Description: "All checks passed",
		}
	default:
		status = StatusJob{
			Owner:       job.Owner,
			Repo:        job.Repo,
			SHA:         view.HeadSHA,
			State:       "failure",
			Description: "One or more checks failed",
			TargetURL:   w.statusLink(strings.Join(failures, "\n")),
		}
	}

	if err := w.QueueStatus(status); err != nil {
		log.Error("enqueue follow-up status failed", "error", err)
	}
}

func (w *Worker) statusLink(text string) string {
	return fmt.Sprintf("%s/status?snap=%s", w.serverAddress, statuslink.Encode(text))
}
