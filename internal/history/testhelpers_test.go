package history

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// repoFixture is a real repository inside a workspace root, for scan tests.
type repoFixture struct {
	t    *testing.T
	dir  string
	repo *gogit.Repository
	wt   *gogit.Worktree
	seq  int
}

func initRepoAt(t *testing.T, dir string) *repoFixture {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	return &repoFixture{t: t, dir: dir, repo: repo, wt: wt}
}

func (f *repoFixture) addCommit(msg string, when time.Time) plumbing.Hash {
	f.t.Helper()
	return f.addCommitBy("Test", "test@example.com", msg, when)
}

func (f *repoFixture) addCommitBy(author, email, msg string, when time.Time) plumbing.Hash {
	f.t.Helper()
	return f.addCommitFull(author, email, msg, when, nil)
}

func (f *repoFixture) addCommitFull(author, email, msg string, when time.Time, parents []plumbing.Hash) plumbing.Hash {
	f.t.Helper()
	f.seq++
	rel := "file.txt"
	if err := os.WriteFile(filepath.Join(f.dir, rel), []byte(fmt.Sprintf("%s %d\n", f.dir, f.seq)), 0o644); err != nil {
		f.t.Fatalf("WriteFile: %v", err)
	}
	if _, err := f.wt.Add(rel); err != nil {
		f.t.Fatalf("Add: %v", err)
	}
	sig := &object.Signature{Name: author, Email: email, When: when}
	hash, err := f.wt.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig, Parents: parents})
	if err != nil {
		f.t.Fatalf("Commit(%q): %v", msg, err)
	}
	return hash
}

func (f *repoFixture) checkout(branch string, create bool) {
	f.t.Helper()
	if err := f.wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: create,
	}); err != nil {
		f.t.Fatalf("Checkout(%s): %v", branch, err)
	}
}

func (f *repoFixture) currentBranch() string {
	f.t.Helper()
	head, err := f.repo.Head()
	if err != nil {
		f.t.Fatalf("Head: %v", err)
	}
	return head.Name().Short()
}

// removeObject deletes the loose object backing hash.
func (f *repoFixture) removeObject(hash plumbing.Hash) {
	f.t.Helper()
	s := hash.String()
	path := filepath.Join(f.dir, ".git", "objects", s[:2], s[2:])
	if err := os.Remove(path); err != nil {
		f.t.Fatalf("Remove(%s): %v", path, err)
	}
}

// recordingSink captures every sink call for assertions.
type recordingSink struct {
	mu     sync.Mutex
	totals []int
	ticks  int
	labels []string
	logs   []string
}

func (s *recordingSink) Begin(total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totals = append(s.totals, total)
}

func (s *recordingSink) Label(slot int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels = append(s.labels, text)
}

func (s *recordingSink) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticks++
}

func (s *recordingSink) Log(path, msg string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, path+": "+msg)
}

// Compile-time interface conformance check.
var _ ProgressSink = (*recordingSink)(nil)
