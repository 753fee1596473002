package history

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/elektronenhirn/oper/internal/git"
)

func TestScan_MergesAcrossRepositoriesNewestFirst(t *testing.T) {
	root := t.TempDir()
	now := time.Now()

	a := initRepoAt(t, filepath.Join(root, "repoA"))
	a.addCommit("a old", now.Add(-30*24*time.Hour)) // outside the window
	aNew := a.addCommit("a new", now.Add(-1*time.Hour))

	b := initRepoAt(t, filepath.Join(root, "repoB"))
	bOld := b.addCommit("b old", now.Add(-3*time.Hour))
	bNew := b.addCommit("b new", now.Add(-2*time.Hour))

	repos := []*Repo{
		NewRepo(a.dir, "repoA"),
		NewRepo(b.dir, "repoB"),
	}

	snap, err := Scan(repos, ClassifierConfig{MaxAgeDays: 10}, ScanOptions{}, nil)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	want := []plumbing.Hash{aNew, bNew, bOld}
	if len(snap.Commits) != len(want) {
		t.Fatalf("commits = %d, expected %d", len(snap.Commits), len(want))
	}
	for i, c := range snap.Commits {
		if c.Hash != want[i].String() {
			t.Errorf("commit[%d] = %s (%s), expected %s", i, c.Hash, c.Summary, want[i])
		}
	}
	if snap.Commits[0].Author != "Test" || snap.Commits[0].AuthorEmail != "test@example.com" {
		t.Errorf("author identity not carried: %s <%s>", snap.Commits[0].Author, snap.Commits[0].AuthorEmail)
	}
	for i := 1; i < len(snap.Commits); i++ {
		if snap.Commits[i].When.After(snap.Commits[i-1].When) {
			t.Errorf("commits not in descending time order at %d", i)
		}
	}
	if snap.Missing != 0 {
		t.Errorf("Missing = %d, expected 0", snap.Missing)
	}
	if len(snap.Repos) != 2 || snap.Repos[0] != repos[0] || snap.Repos[1] != repos[1] {
		t.Error("snapshot repositories not in input order")
	}
}

func TestScan_SkipsUnreadableRepository(t *testing.T) {
	root := t.TempDir()
	now := time.Now()

	a := initRepoAt(t, filepath.Join(root, "repoA"))
	a.addCommit("a new", now.Add(-1*time.Hour))

	c := initRepoAt(t, filepath.Join(root, "repoC"))
	c.addCommit("c new", now.Add(-2*time.Hour))

	repos := []*Repo{
		NewRepo(a.dir, "repoA"),
		NewRepo(filepath.Join(root, "repoB"), "repoB"), // plain directory, not a repository
		NewRepo(c.dir, "repoC"),
	}

	sink := &recordingSink{}
	snap, err := Scan(repos, ClassifierConfig{MaxAgeDays: 10}, ScanOptions{}, sink)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(snap.Commits) != 2 {
		t.Fatalf("commits = %d, expected 2", len(snap.Commits))
	}
	if snap.Commits[0].Summary != "a new" || snap.Commits[1].Summary != "c new" {
		t.Errorf("unexpected commits: %q, %q", snap.Commits[0].Summary, snap.Commits[1].Summary)
	}

	if sink.ticks != 3 {
		t.Errorf("ticks = %d, expected 3 (failed repositories still tick)", sink.ticks)
	}
	found := false
	for _, line := range sink.logs {
		if strings.HasPrefix(line, "repoB: ") {
			found = true
		}
	}
	if !found {
		t.Errorf("no failure logged for repoB, logs = %v", sink.logs)
	}
}

func TestScan_CountsUnresolvableCommits(t *testing.T) {
	root := t.TempDir()
	now := time.Now()

	a := initRepoAt(t, filepath.Join(root, "repoA"))
	oldest := a.addCommit("a oldest", now.Add(-3*time.Hour))
	a.addCommit("a mid", now.Add(-2*time.Hour))
	a.addCommit("a new", now.Add(-1*time.Hour))
	a.removeObject(oldest)

	b := initRepoAt(t, filepath.Join(root, "repoB"))
	b.addCommit("b new", now.Add(-30*time.Minute))

	repos := []*Repo{
		NewRepo(a.dir, "repoA"),
		NewRepo(b.dir, "repoB"),
	}

	snap, err := Scan(repos, ClassifierConfig{MaxAgeDays: 10}, ScanOptions{}, nil)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if snap.Missing != 1 {
		t.Errorf("Missing = %d, expected 1", snap.Missing)
	}
	if len(snap.Commits) != 3 {
		t.Errorf("commits = %d, expected 3 (resolvable commits still aggregated)", len(snap.Commits))
	}
}

func TestScan_AuthorFilterSpansRepositories(t *testing.T) {
	root := t.TempDir()
	now := time.Now()

	a := initRepoAt(t, filepath.Join(root, "repoA"))
	a.addCommitBy("Alice", "alice@example.com", "a by alice", now.Add(-2*time.Hour))
	a.addCommitBy("Bob", "bob@example.com", "a by bob", now.Add(-1*time.Hour))

	b := initRepoAt(t, filepath.Join(root, "repoB"))
	b.addCommitBy("Bob", "alice@example.com", "b via alice address", now.Add(-30*time.Minute))

	repos := []*Repo{
		NewRepo(a.dir, "repoA"),
		NewRepo(b.dir, "repoB"),
	}

	snap, err := Scan(repos, ClassifierConfig{MaxAgeDays: 10, Author: "ALICE"}, ScanOptions{}, nil)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(snap.Commits) != 2 {
		t.Fatalf("commits = %d, expected 2", len(snap.Commits))
	}
	for _, c := range snap.Commits {
		if c.Summary == "a by bob" {
			t.Errorf("commit %q kept despite author filter", c.Summary)
		}
	}
	if snap.Commits[0].Summary != "b via alice address" {
		t.Errorf("email match missing: %+v", snap.Commits[0])
	}
}

func TestScan_InvalidJobs(t *testing.T) {
	snap, err := Scan(nil, ClassifierConfig{MaxAgeDays: 10}, ScanOptions{Jobs: -1}, nil)
	if !errors.Is(err, ErrInvalidJobs) {
		t.Fatalf("err = %v, expected ErrInvalidJobs", err)
	}
	if snap != nil {
		t.Fatal("snapshot returned alongside error")
	}
}

func TestScan_EmptyRepositoryList(t *testing.T) {
	sink := &recordingSink{}
	snap, err := Scan(nil, ClassifierConfig{MaxAgeDays: 10}, ScanOptions{}, sink)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(snap.Commits) != 0 || snap.Missing != 0 {
		t.Fatalf("expected empty snapshot, got %d commits, %d missing", len(snap.Commits), snap.Missing)
	}
	if len(sink.totals) != 1 || sink.totals[0] != 0 {
		t.Errorf("Begin totals = %v, expected [0]", sink.totals)
	}
}

func TestScan_TieBreakFollowsInputOrder(t *testing.T) {
	root := t.TempDir()
	when := time.Now().Add(-1 * time.Hour).Truncate(time.Second)

	a := initRepoAt(t, filepath.Join(root, "repoA"))
	a.addCommit("same instant", when)
	b := initRepoAt(t, filepath.Join(root, "repoB"))
	b.addCommit("same instant", when)

	repoA := NewRepo(a.dir, "repoA")
	repoB := NewRepo(b.dir, "repoB")

	snap, err := Scan([]*Repo{repoA, repoB}, ClassifierConfig{MaxAgeDays: 10}, ScanOptions{}, nil)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(snap.Commits) != 2 {
		t.Fatalf("commits = %d, expected 2", len(snap.Commits))
	}
	if snap.Commits[0].Repo != repoA || snap.Commits[1].Repo != repoB {
		t.Error("equal timestamps not ordered by repository input order")
	}

	// Swapping the input order swaps the result order.
	snap, err = Scan([]*Repo{repoB, repoA}, ClassifierConfig{MaxAgeDays: 10}, ScanOptions{}, nil)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if snap.Commits[0].Repo != repoB || snap.Commits[1].Repo != repoA {
		t.Error("tie-break did not follow the new input order")
	}
}

func TestScan_WorkerCountDoesNotChangeResult(t *testing.T) {
	root := t.TempDir()
	now := time.Now()

	var repos []*Repo
	for _, name := range []string{"one", "two", "three", "four", "five"} {
		f := initRepoAt(t, filepath.Join(root, name))
		f.addCommit(name+" old", now.Add(-5*time.Hour))
		f.addCommit(name+" new", now.Add(-1*time.Hour))
		repos = append(repos, NewRepo(f.dir, name))
	}

	serial, err := Scan(repos, ClassifierConfig{MaxAgeDays: 10}, ScanOptions{Jobs: 1}, nil)
	if err != nil {
		t.Fatalf("Scan(jobs=1): %v", err)
	}
	parallel, err := Scan(repos, ClassifierConfig{MaxAgeDays: 10}, ScanOptions{Jobs: 4}, nil)
	if err != nil {
		t.Fatalf("Scan(jobs=4): %v", err)
	}

	if len(serial.Commits) != len(parallel.Commits) {
		t.Fatalf("serial = %d commits, parallel = %d", len(serial.Commits), len(parallel.Commits))
	}
	for i := range serial.Commits {
		if serial.Commits[i].Hash != parallel.Commits[i].Hash {
			t.Fatalf("order diverges at %d: %s vs %s", i, serial.Commits[i].Hash, parallel.Commits[i].Hash)
		}
	}
}

func TestScan_FirstParentStrategy(t *testing.T) {
	root := t.TempDir()
	now := time.Now()

	f := initRepoAt(t, filepath.Join(root, "repoA"))
	f.addCommit("base", now.Add(-4*time.Hour))
	mainline := f.currentBranch()

	f.checkout("feature", true)
	side := f.addCommit("side work", now.Add(-3*time.Hour))

	f.checkout(mainline, false)
	mainWork := f.addCommit("main work", now.Add(-2*time.Hour))
	f.addCommitFull("Test", "test@example.com", "merge feature", now.Add(-1*time.Hour), []plumbing.Hash{mainWork, side})

	repos := []*Repo{NewRepo(f.dir, "repoA")}

	all, err := Scan(repos, ClassifierConfig{MaxAgeDays: 10}, ScanOptions{Strategy: git.AllParents}, nil)
	if err != nil {
		t.Fatalf("Scan(all-parents): %v", err)
	}
	first, err := Scan(repos, ClassifierConfig{MaxAgeDays: 10}, ScanOptions{Strategy: git.FirstParent}, nil)
	if err != nil {
		t.Fatalf("Scan(first-parent): %v", err)
	}

	if len(all.Commits) != 4 {
		t.Errorf("all-parents commits = %d, expected 4", len(all.Commits))
	}
	if len(first.Commits) != 3 {
		t.Errorf("first-parent commits = %d, expected 3", len(first.Commits))
	}
	for _, c := range first.Commits {
		if c.Summary == "side work" {
			t.Error("first-parent scan surfaced a side branch commit")
		}
	}
}

func TestScan_LabelsWorkerSlots(t *testing.T) {
	root := t.TempDir()
	now := time.Now()

	f := initRepoAt(t, filepath.Join(root, "repoA"))
	f.addCommit("a new", now.Add(-1*time.Hour))

	sink := &recordingSink{}
	if _, err := Scan([]*Repo{NewRepo(f.dir, "repoA")}, ClassifierConfig{MaxAgeDays: 10}, ScanOptions{Jobs: 1}, sink); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	var sawScanning, sawIdle bool
	for _, l := range sink.labels {
		switch l {
		case "Scanning repoA":
			sawScanning = true
		case "Idle":
			sawIdle = true
		}
	}
	if !sawScanning || !sawIdle {
		t.Errorf("labels = %v, expected both %q and %q", sink.labels, "Scanning repoA", "Idle")
	}
}
