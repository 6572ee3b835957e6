package server

import (
	"encoding/json"
	"net/http"

	"github.com/crawford/tailor/internal/worker"
)

// handleWebhook decodes an inbound pull-request event and enqueues a
// validation run. Ping events (Hook set) and the "closed" action are
// acknowledged without enqueueing anything; any other event without a
// pull_request payload is likewise ignored.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var event WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		s.log.Warn("webhook: malformed payload", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if event.Hook != nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	if event.Action == "closed" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if event.PullRequest == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	job := worker.PullRequestJob{
		Owner:  event.Repository.Owner.Login,
		Repo:   event.Repository.Name,
		Number: event.PullRequest.Number,
	}
	if err := s.producer.QueuePullRequest(job); err != nil {
		s.log.Error("webhook: enqueue pull request failed", "owner", job.Owner, "repo", job.Repo, "number", job.Number, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
