package git

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// fixtureRepo builds throwaway repositories for walk and patch tests.
type fixtureRepo struct {
	tb   testing.TB
	dir  string
	repo *gogit.Repository
	wt   *gogit.Worktree
}

func newFixtureRepo(tb testing.TB) *fixtureRepo {
	tb.Helper()
	dir := tb.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		tb.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		tb.Fatalf("Worktree: %v", err)
	}
	return &fixtureRepo{tb: tb, dir: dir, repo: repo, wt: wt}
}

func (f *fixtureRepo) write(rel, content string) {
	f.tb.Helper()
	full := filepath.Join(f.dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		f.tb.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		f.tb.Fatalf("WriteFile: %v", err)
	}
	if _, err := f.wt.Add(rel); err != nil {
		f.tb.Fatalf("Add: %v", err)
	}
}

func (f *fixtureRepo) commit(msg string, when time.Time) plumbing.Hash {
	f.tb.Helper()
	return f.commitWithParents(msg, when, nil)
}

// commitWithParents commits the staged tree with an explicit parent list,
// which is how the fixtures fabricate merge commits.
func (f *fixtureRepo) commitWithParents(msg string, when time.Time, parents []plumbing.Hash) plumbing.Hash {
	f.tb.Helper()
	sig := &object.Signature{Name: "Test", Email: "test@example.com", When: when}
	hash, err := f.wt.Commit(msg, &gogit.CommitOptions{
		Author:    sig,
		Committer: sig,
		Parents:   parents,
	})
	if err != nil {
		f.tb.Fatalf("Commit(%q): %v", msg, err)
	}
	return hash
}

func (f *fixtureRepo) checkout(branch string, create bool) {
	f.tb.Helper()
	if err := f.wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: create,
	}); err != nil {
		f.tb.Fatalf("Checkout(%s): %v", branch, err)
	}
}

func (f *fixtureRepo) currentBranch() string {
	f.tb.Helper()
	head, err := f.repo.Head()
	if err != nil {
		f.tb.Fatalf("Head: %v", err)
	}
	return head.Name().Short()
}

// removeObject deletes the loose object file backing hash, making it
// unresolvable on the next open.
func (f *fixtureRepo) removeObject(hash plumbing.Hash) {
	f.tb.Helper()
	s := hash.String()
	path := filepath.Join(f.dir, ".git", "objects", s[:2], s[2:])
	if err := os.Remove(path); err != nil {
		f.tb.Fatalf("Remove(%s): %v", path, err)
	}
}

func drainWalk(t *testing.T, w CommitWalk) []*Commit {
	t.Helper()
	var commits []*Commit
	for {
		c, err := w.Next()
		if err == io.EOF {
			return commits
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		commits = append(commits, c)
	}
}
