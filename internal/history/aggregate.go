package history

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/elektronenhirn/oper/internal/git"
)

// ErrInvalidJobs rejects a scan configured with a negative worker count.
var ErrInvalidJobs = errors.New("job count must not be negative")

// maxAutoJobs caps the worker pool when the caller leaves the count to us.
// Scans are I/O bound on object storage; more workers than this just thrash.
const maxAutoJobs = 8

// ScanOptions tunes a scan.
type ScanOptions struct {
	// Strategy selects the commit walk. The zero value walks all parents.
	Strategy git.Strategy
	// Jobs bounds the worker pool. Zero means one worker per CPU, capped
	// at maxAutoJobs. Negative counts fail the scan.
	Jobs int
}

// ResolveJobs maps the user-facing jobs setting to the concrete worker count
// a scan will use. Callers sizing progress output per worker slot get the
// same answer the scan does.
func ResolveJobs(jobs int) (int, error) {
	if jobs < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidJobs, jobs)
	}
	if jobs == 0 {
		jobs = runtime.NumCPU()
		if jobs > maxAutoJobs {
			jobs = maxAutoJobs
		}
	}
	return jobs, nil
}

// Scan walks every repository concurrently and merges the kept commits into
// one snapshot, newest first. Repository failures are reported to the sink
// and skipped; only a malformed options set fails the scan as a whole.
//
// Equal commit times sort by repository input order, then by commit id, so
// the same inputs always produce the same snapshot.
func Scan(repos []*Repo, cfg ClassifierConfig, opts ScanOptions, sink ProgressSink) (*Snapshot, error) {
	jobs, err := ResolveJobs(opts.Jobs)
	if err != nil {
		return nil, err
	}
	if sink == nil {
		sink = nopSink{}
	}

	cl := NewClassifier(cfg, time.Now())
	sink.Begin(len(repos))

	// Workers write disjoint indexes of perRepo, so the only shared
	// mutable state is the missing tally.
	var (
		wg      sync.WaitGroup
		missing atomic.Int64
	)
	perRepo := make([][]Commit, len(repos))
	work := make(chan int)

	wg.Add(jobs)
	for slot := 0; slot < jobs; slot++ {
		go func(slot int) {
			defer wg.Done()
			for idx := range work {
				commits, miss := scanRepo(repos[idx], cl, opts.Strategy, sink, slot)
				perRepo[idx] = commits
				missing.Add(int64(miss))
			}
		}(slot)
	}
	for idx := range repos {
		work <- idx
	}
	close(work)
	wg.Wait()

	total := 0
	for _, rc := range perRepo {
		total += len(rc)
	}
	commits := make([]Commit, 0, total)
	for _, rc := range perRepo {
		commits = append(commits, rc...)
	}
	sortCommits(commits, repos)

	return &Snapshot{
		Repos:   repos,
		Commits: commits,
		Missing: int(missing.Load()),
	}, nil
}

// sortCommits orders commits newest first. Ties fall back to repository
// input order and then to the commit id, which makes the snapshot order a
// pure function of its contents.
func sortCommits(commits []Commit, repos []*Repo) {
	order := make(map[*Repo]int, len(repos))
	for i, r := range repos {
		order[r] = i
	}
	sort.Slice(commits, func(i, j int) bool {
		a, b := &commits[i], &commits[j]
		if !a.When.Equal(b.When) {
			return a.When.After(b.When)
		}
		if order[a.Repo] != order[b.Repo] {
			return order[a.Repo] < order[b.Repo]
		}
		return a.Hash < b.Hash
	})
}
