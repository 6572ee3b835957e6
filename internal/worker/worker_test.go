package worker

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-github/v66/github"

	"github.com/crawford/tailor/internal/policy"
	"github.com/crawford/tailor/internal/pr"
)

func TestQueueFIFOOrder(t *testing.T) {
	q := newQueue()
	for i := 0; i < 3; i++ {
		if err := q.push(NewStatusJob(StatusJob{SHA: string(rune('a' + i))})); err != nil {
			t.Fatalf("push error: %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		job, ok := q.pop()
		if !ok {
			t.Fatalf("pop() ok = false, want true")
		}
		status, _ := job.AsStatus()
		if want := string(rune('a' + i)); status.SHA != want {
			t.Errorf("pop()[%d].SHA = %q, want %q", i, status.SHA, want)
		}
	}
}

func TestQueueBlocksThenWakesOnPush(t *testing.T) {
	q := newQueue()
	result := make(chan Job, 1)
	go func() {
		job, ok := q.pop()
		if ok {
			result <- job
		}
		close(result)
	}()

	time.Sleep(10 * time.Millisecond)
	if err := q.push(NewStatusJob(StatusJob{SHA: "late"})); err != nil {
		t.Fatalf("push error: %v", err)
	}

	select {
	case job := <-result:
		status, _ := job.AsStatus()
		if status.SHA != "late" {
			t.Errorf("woken pop SHA = %q, want %q", status.SHA, "late")
		}
	case <-time.After(time.Second):
		t.Fatal("pop() never woke after push")
	}
}

func TestQueueCloseWakesBlockedPop(t *testing.T) {
	q := newQueue()
	done := make(chan bool, 1)
	go func() {
		_, ok := q.pop()
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	q.close()

	select {
	case ok := <-done:
		if ok {
			t.Error("pop() ok = true after close with no items, want false")
		}
	case <-time.After(time.Second):
		t.Fatal("pop() never woke after close")
	}
}

func TestQueuePushAfterCloseErrors(t *testing.T) {
	q := newQueue()
	q.close()
	if err := q.push(NewStatusJob(StatusJob{})); err == nil {
		t.Fatal("push() after close = nil error, want error")
	}
}

type fakeProvider struct {
	statuses []StatusJob
	perm     string
}

func (f *fakeProvider) CreateStatus(ctx context.Context, owner, repo, sha string, status *github.RepoStatus) error {
	f.statuses = append(f.statuses, StatusJob{
		Owner: owner, Repo: repo, SHA: sha,
		State:       status.GetState(),
		Description: status.GetDescription(),
		TargetURL:   status.GetTargetURL(),
	})
	return nil
}

func (f *fakeProvider) GetPermissionLevel(ctx context.Context, owner, repo, username string) (string, error) {
	return f.perm, nil
}

type fakeAssembler struct {
	view *pr.PullRequestView
	pol  policy.Policy
	err  error
}

func (f *fakeAssembler) Fetch(ctx context.Context, owner, repo string, number int) (*pr.PullRequestView, policy.Policy, error) {
	return f.view, f.pol, f.err
}

func TestHandlePullRequestSuccess(t *testing.T) {
	prov := &fakeProvider{}
	asm := &fakeAssembler{
		view: &pr.PullRequestView{HeadSHA: "sha1", Body: "a body"},
		pol: policy.Policy{Rules: []policy.Rule{
			{Name: "has-body", Description: "body required", Expression: ".body test \"(?s).+\""},
		}},
	}
	w := New(prov, asm, "https://tailor.example.com", nil)
	w.handlePullRequest(context.Background(), PullRequestJob{Owner: "acme", Repo: "widgets", Number: 1})

	job, ok := w.queue.pop()
	if !ok {
		t.Fatal("expected a follow-up status job to be queued")
	}
	status, _ := job.AsStatus()
	if status.State != "success" {
		t.Errorf("status.State = %q, want %q", status.State, "success")
	}
	if status.SHA != "sha1" {
		t.Errorf("status.SHA = %q, want %q", status.SHA, "sha1")
	}
}

func TestHandlePullRequestFailure(t *testing.T) {
	prov := &fakeProvider{}
	asm := &fakeAssembler{
		view: &pr.PullRequestView{HeadSHA: "sha2", Body: ""},
		pol: policy.Policy{Rules: []policy.Rule{
			{Name: "has-body", Description: "body required", Expression: ".body test \"(?s).+\""},
		}},
	}
	w := New(prov, asm, "https://tailor.example.com", nil)
	w.handlePullRequest(context.Background(), PullRequestJob{Owner: "acme", Repo: "widgets", Number: 2})

	job, _ := w.queue.pop()
	status, _ := job.AsStatus()
	if status.State != "failure" {
		t.Errorf("status.State = %q, want %q", status.State, "failure")
	}
	if !strings.Contains(status.TargetURL, "https://tailor.example.com/status?snap=") {
		t.Errorf("status.TargetURL = %q, want a status-page link", status.TargetURL)
	}
}

func TestHandleStatusPostsToProvider(t *testing.T) {
	prov := &fakeProvider{}
	w := New(prov, &fakeAssembler{}, "https://tailor.example.com", nil)
	w.handleStatus(context.Background(), StatusJob{Owner: "acme", Repo: "widgets", SHA: "sha3", State: "success", Description: "all rules passed"})

	if len(prov.statuses) != 1 {
		t.Fatalf("len(prov.statuses) = %d, want 1", len(prov.statuses))
	}
	if prov.statuses[0].State != "success" {
		t.Errorf("posted state = %q, want %q", prov.statuses[0].State, "success")
	}
}

func TestRunDrainsUntilClosed(t *testing.T) {
	prov := &fakeProvider{}
	w := New(prov, &fakeAssembler{}, "https://tailor.example.com", nil)

	if err := w.QueueStatus(StatusJob{Owner: "acme", Repo: "widgets", SHA: "sha4", State: "success"}); err != nil {
		t.Fatalf("QueueStatus error: %v", err)
	}

	runDone := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(runDone)
	}()

	time.Sleep(10 * time.Millisecond)
	w.Close()

	select {
	case <-runDone:
	case <-time.After(time.Second):
		t.Fatal("Run() never returned after Close()")
	}
	if len(prov.statuses) != 1 {
		t.Fatalf("len(prov.statuses) = %d, want 1", len(prov.statuses))
	}
}
