package git

// CommitWalk iterates the commits of a repository, newest first. Next returns
// io.EOF once the walk is exhausted. Implementations tolerate unresolvable
// commits: a hash that cannot be loaded is counted and skipped rather than
// ending the walk, and Missing reports how many were skipped so far.
type CommitWalk interface {
	Next() (*Commit, error)
	Missing() int
}

// Compile-time interface conformance checks.
var (
	_ CommitWalk = (*timeOrderedWalk)(nil)
	_ CommitWalk = (*firstParentWalk)(nil)
)
