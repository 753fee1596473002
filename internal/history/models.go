package history

import (
	"path/filepath"
	"time"

	"github.com/elektronenhirn/oper/internal/git"
)

// Repo identifies one repository of the workspace. Instances are built once
// by the manifest layer and shared read-only by every commit found in them.
type Repo struct {
	AbsPath     string
	RelPath     string
	Description string
}

// NewRepo builds a repository handle. The description defaults to the last
// path element, which is what the table view shows.
func NewRepo(absPath, relPath string) *Repo {
	return &Repo{
		AbsPath:     absPath,
		RelPath:     relPath,
		Description: filepath.Base(absPath),
	}
}

// Commit is one commit of one repository, flattened for display and export.
type Commit struct {
	Repo        *Repo
	Hash        string
	Author      string
	AuthorEmail string
	Committer   string
	When        time.Time
	Summary     string
	Message     string
}

func newCommit(repo *Repo, gc *git.Commit) Commit {
	return Commit{
		Repo:        repo,
		Hash:        gc.Hash,
		Author:      gc.Author.Name,
		AuthorEmail: gc.Author.Email,
		Committer:   gc.Committer.Name,
		When:        gc.Committer.When,
		Summary:     gc.Summary(),
		Message:     gc.Message,
	}
}

// TimeString renders the commit time in the fixed display format, keeping
// the UTC offset the commit was recorded with.
func (c *Commit) TimeString() string {
	return c.When.Format("2006-01-02 15:04 -0700")
}

// ShortHash returns the abbreviated commit id used in the table view.
func (c *Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// Snapshot is the immutable result of one scan: every kept commit across the
// workspace, newest first, plus the repositories that produced them in their
// original input order. Missing counts commits that were reachable but could
// not be loaded.
type Snapshot struct {
	Repos   []*Repo
	Commits []Commit
	Missing int
}
