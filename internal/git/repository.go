package git

import (
	"container/heap"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repository is an opened local git repository.
type Repository struct {
	inner *gogit.Repository
}

// Open opens the repository at path. The path must point at the worktree root
// (the directory containing .git).
func Open(path string) (*Repository, error) {
	inner, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, err
	}
	return &Repository{inner: inner}, nil
}

// Walk starts a commit walk seeded at HEAD. Failing to resolve HEAD or the
// commit it points at fails the walk as a whole; later resolution failures
// are tolerated per CommitWalk's contract.
func (r *Repository) Walk(strategy Strategy) (CommitWalk, error) {
	ref, err := r.inner.Head()
	if err != nil {
		return nil, err
	}
	head, err := r.inner.CommitObject(ref.Hash())
	if err != nil {
		return nil, err
	}
	if strategy == FirstParent {
		return &firstParentWalk{next: head}, nil
	}
	w := &timeOrderedWalk{
		repo: r.inner,
		seen: map[plumbing.Hash]bool{head.Hash: true},
	}
	heap.Push(&w.frontier, head)
	return w, nil
}
