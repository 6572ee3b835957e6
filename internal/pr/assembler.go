package pr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
	"golang.org/x/sync/errgroup"

	"github.com/crawford/tailor/internal/policy"
	"github.com/crawford/tailor/internal/provider"
)

const policyPath = ".github/tailor.yaml"

// Assembler fetches a pull request, its commits, its comments and its
// repository policy, and assembles them into a PullRequestView plus the
// decoded Policy to validate against.
type Assembler struct {
	Client *provider.Client
}

// NewAssembler constructs an Assembler over an already-authenticated
// provider client.
func NewAssembler(client *provider.Client) *Assembler {
	return &Assembler{Client: client}
}

// Fetch resolves owner/repo#number into a PullRequestView and its Policy.
//
// Step 1 resolves the pull request itself (and so head.sha/base.sha).
// Steps 2-4 (commits, comments, policy) then run concurrently; step 5
// (the returned view) waits on all three.
func (a *Assembler) Fetch(ctx context.Context, owner, repo string, number int) (*PullRequestView, policy.Policy, error) {
	ghPR, err := a.Client.GetPullRequest(ctx, owner, repo, number)
	if err != nil {
		return nil, policy.Policy{}, fmt.Errorf("fetch pull request: %w", err)
	}
	headSHA := ghPR.GetHead().GetSHA()
	baseSHA := ghPR.GetBase().GetSHA()

	var (
		commits  []CommitView
		comments []Comment
		pol      policy.Policy
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := a.Client.ListCommits(gctx, owner, repo, number)
		if err != nil {
			return fmt.Errorf("fetch commits: %w", err)
		}
		views, err := parseCommits(raw)
		if err != nil {
			return err
		}
		commits = views
		return nil
	})
	g.Go(func() error {
		raw, err := a.Client.ListIssueComments(gctx, owner, repo, number)
		if err != nil {
			return fmt.Errorf("fetch comments: %w", err)
		}
		comments = toComments(raw)
		return nil
	})
	g.Go(func() error {
		p, err := fetchPolicy(gctx, a.Client, owner, repo, headSHA)
		if err != nil {
			return fmt.Errorf("fetch policy: %w", err)
		}
		pol = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, policy.Policy{}, err
	}

	view := &PullRequestView{
		User:     User{Login: ghPR.GetUser().GetLogin()},
		Title:    ghPR.GetTitle(),
		Body:     ghPR.GetBody(),
		Commits:  commits,
		Comments: comments,
		Base:     ghPR.GetBase().GetRef(),
		Head:     ghPR.GetHead().GetRef(),
		HeadSHA:  headSHA,
		BaseSHA:  baseSHA,
		Number:   number,
	}
	return view, pol, nil
}

func fetchPolicy(ctx context.Context, client *provider.Client, owner, repo, ref string) (policy.Policy, error) {
	content, err := client.GetContents(ctx, owner, repo, policyPath, ref)
	if err != nil {
		return policy.Policy{}, err
	}
	if content == nil {
		return policy.Policy{}, nil
	}
	decoded, err := content.GetContent()
	if err != nil {
		return policy.Policy{}, fmt.Errorf("decode policy content: %w", err)
	}
	return policy.Decode([]byte(decoded))
}

func toComments(raw []*github.IssueComment) []Comment {
	comments := make([]Comment, 0, len(raw))
	for _, c := range raw {
		createdAt := ""
		if t := c.GetCreatedAt(); !t.IsZero() {
			createdAt = t.Format(time.RFC3339)
		}
		comments = append(comments, Comment{
			User:      User{Login: c.GetUser().GetLogin()},
			Body:      c.GetBody(),
			CreatedAt: createdAt,
		})
	}
	return comments
}

func parseCommits(raw []*github.RepositoryCommit) ([]CommitView, error) {
	views := make([]CommitView, 0, len(raw))
	for _, rc := range raw {
		sha := rc.GetSHA()
		commit := rc.GetCommit()
		title, description, err := parseCommitMessage(commit.GetMessage())
		if err != nil {
			return nil, &MalformedCommit{SHA: sha}
		}
		views = append(views, CommitView{
			SHA:         sha,
			Title:       title,
			Description: description,
			Author:      commitAuthor(commit.GetAuthor(), rc.GetAuthor()),
			Committer:   commitAuthor(commit.GetCommitter(), rc.GetCommitter()),
		})
	}
	return views, nil
}

func commitAuthor(gitID *github.CommitAuthor, ghUser *github.User) CommitAuthor {
	author := CommitAuthor{
		Name:  gitID.GetName(),
		Email: gitID.GetEmail(),
	}
	if t := gitID.GetDate(); !t.IsZero() {
		author.Date = t.Format(time.RFC3339)
	}
	if ghUser != nil {
		author.Login = ghUser.GetLogin()
	}
	return author
}

// parseCommitMessage splits a raw commit message into title and
// description: the first line is the title; the second line, if present,
// must be empty — otherwise the commit is malformed; every following line
// (joined by "\n") is the description.
func parseCommitMessage(msg string) (title, description string, err error) {
	lines := strings.Split(msg, "\n")
	title = lines[0]
	if len(lines) == 1 {
		return title, "", nil
	}
	if lines[1] != "" {
		return "", "", fmt.Errorf("second line must be empty")
	}
	if len(lines) == 2 {
		return title, "", nil
	}
	return title, strings.Join(lines[2:], "\n"), nil
}
