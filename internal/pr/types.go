// Package pr assembles a pull request, its commits, its comments and its
// repository policy into a single evaluation context for the expression
// evaluator.
package pr

// User is a provider account reference.
type User struct {
	Login string
}

// Comment is one issue comment on a pull request.
type Comment struct {
	User      User
	Body      string
	CreatedAt string
}

// CommitAuthor is the author or committer identity on a commit.
type CommitAuthor struct {
	Name  string
	Email string
	Date  string
	Login string
}

// CommitView is one commit on a pull request, with its message already
// split into title and description per spec: the first line is the
// title, the second line (if present) must be empty, and every remaining
// line (joined by "\n") is the description.
type CommitView struct {
	SHA         string
	Author      CommitAuthor
	Committer   CommitAuthor
	Title       string
	Description string
}

// PullRequestView is the assembled pull request, ready for reflection
// projection into the evaluator's Dictionary context. HeadSHA, BaseSHA and
// Number are retained for internal use (fetching, status posting) but
// never exposed to rule expressions.
type PullRequestView struct {
	User     User
	Title    string
	Body     string
	Commits  []CommitView
	Comments []Comment
	Base     string
	Head     string

	HeadSHA string `tailor:"hidden"`
	BaseSHA string `tailor:"hidden"`
	Number  int    `tailor:"hidden"`
}
