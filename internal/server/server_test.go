package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/crawford/tailor/internal/statuslink"
	"github.com/crawford/tailor/internal/worker"
)

type fakeProducer struct {
	jobs []worker.PullRequestJob
	err  error
}

func (f *fakeProducer) QueuePullRequest(job worker.PullRequestJob) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func newTestServer(t *testing.T, producer jobProducer) *Server {
	t.Helper()
	s, err := New(producer, "", nil)
	if err != nil {
		t.Fatalf("New(server) error: %v", err)
	}
	return s
}

func TestHandleWebhookEnqueuesPullRequest(t *testing.T) {
	producer := &fakeProducer{}
	s := newTestServer(t, producer)

	body := `{
		"action": "opened",
		"repository": {"owner": {"login": "acme"}, "name": "widgets"},
		"pull_request": {"number": 7, "head": {"sha": "abc"}}
	}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if len(producer.jobs) != 1 {
		t.Fatalf("len(producer.jobs) = %d, want 1", len(producer.jobs))
	}
	job := producer.jobs[0]
	if job.Owner != "acme" || job.Repo != "widgets" || job.Number != 7 {
		t.Errorf("job = %+v, unexpected", job)
	}
}

func TestHandleWebhookIgnoresPing(t *testing.T) {
	producer := &fakeProducer{}
	s := newTestServer(t, producer)

	body := `{"hook": {}, "repository": {"owner": {"login": "acme"}, "name": "widgets"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if len(producer.jobs) != 0 {
		t.Fatalf("len(producer.jobs) = %d, want 0", len(producer.jobs))
	}
}

func TestHandleWebhookIgnoresClosedAction(t *testing.T) {
	producer := &fakeProducer{}
	s := newTestServer(t, producer)

	body := `{
		"action": "closed",
		"repository": {"owner": {"login": "acme"}, "name": "widgets"},
		"pull_request": {"number": 7}
	}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if len(producer.jobs) != 0 {
		t.Fatalf("len(producer.jobs) = %d, want 0", len(producer.jobs))
	}
}

func TestHandleWebhookProducerErrorIs500(t *testing.T) {
	producer := &fakeProducer{err: bytesErr("queue closed")}
	s := newTestServer(t, producer)

	body := `{
		"action": "opened",
		"repository": {"owner": {"login": "acme"}, "name": "widgets"},
		"pull_request": {"number": 1}
	}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

type bytesErr string

func (e bytesErr) Error() string { return string(e) }

func TestHandleStatusDecodesAndRenders(t *testing.T) {
	producer := &fakeProducer{}
	s := newTestServer(t, producer)

	token := statuslink.Encode("Failed has-body (body must not be empty)")
	req := httptest.NewRequest(http.MethodGet, "/status?snap="+token, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("Failed has-body")) {
		t.Errorf("body = %q, want it to contain the failure text", rec.Body.String())
	}
}

func TestHandleStatusMalformedTokenStillRenders200(t *testing.T) {
	producer := &fakeProducer{}
	s := newTestServer(t, producer)

	req := httptest.NewRequest(http.MethodGet, "/status?snap=not-valid-base64!!!", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("decode failed")) {
		t.Errorf("body = %q, want a decode-failed message", rec.Body.String())
	}
}
