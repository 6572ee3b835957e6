package provider

import (
	"context"

	"github.com/google/go-github/v66/github"
)

// GetPullRequest fetches a single pull request.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error) {
	pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err := classify(err, resp); err != nil {
		return nil, err
	}
	return pr, nil
}

// ListCommits fetches every commit on a pull request, raw (un-parsed).
func (c *Client) ListCommits(ctx context.Context, owner, repo string, number int) ([]*github.RepositoryCommit, error) {
	var all []*github.RepositoryCommit
	opts := &github.ListOptions{PerPage: 100}
	for {
		commits, resp, err := c.gh.PullRequests.ListCommits(ctx, owner, repo, number, opts)
		if err := classify(err, resp); err != nil {
			return nil, err
		}
		all = append(all, commits...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// ListIssueComments fetches every issue comment on a pull request.
func (c *Client) ListIssueComments(ctx context.Context, owner, repo string, number int) ([]*github.IssueComment, error) {
	var all []*github.IssueComment
	opts := &github.IssueListCommentsOptions{ListOptions: github.ListOptions{PerPage: 100}}
	for {
		comments, resp, err := c.gh.Issues.ListComments(ctx, owner, repo, number, opts)
		if err := classify(err, resp); err != nil {
			return nil, err
		}
		all = append(all, comments...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// GetContents fetches the file at path@ref. It returns (nil, nil) when the
// provider reports the file as absent (404) — callers treat that as an
// empty policy, not a failure.
func (c *Client) GetContents(ctx context.Context, owner, repo, path, ref string) (*github.RepositoryContent, error) {
	opts := &github.RepositoryContentGetOptions{Ref: ref}
	content, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, opts)
	if resp != nil && resp.StatusCode == 404 {
		return nil, nil
	}
	if classifyErr := classify(err, resp); classifyErr != nil {
		return nil, classifyErr
	}
	return content, nil
}

// GetPermissionLevel reports a user's collaborator permission on repo:
// "admin", "write", "read", or "none".
func (c *Client) GetPermissionLevel(ctx context.Context, owner, repo, username string) (string, error) {
	perm, resp, err := c.gh.Repositories.GetPermissionLevel(ctx, owner, repo, username)
	if err := classify(err, resp); err != nil {
		return "", err
	}
	return perm.GetPermission(), nil
}

// CreateStatus posts a commit status on sha.
func (c *Client) CreateStatus(ctx context.Context, owner, repo, sha string, status *github.RepoStatus) error {
	_, resp, err := c.gh.Repositories.CreateStatus(ctx, owner, repo, sha, status)
	return classify(err, resp)
}
