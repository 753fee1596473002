package git

import (
	"container/heap"
	"io"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// timeOrderedWalk yields every commit reachable from the seed in descending
// committer-time order. A hash is delivered at most once no matter how many
// merge paths lead to it: hashes are marked seen when first enqueued, so an
// unresolvable parent is also counted exactly once.
type timeOrderedWalk struct {
	repo     *gogit.Repository
	frontier commitHeap
	seen     map[plumbing.Hash]bool
	missing  int
}

func (w *timeOrderedWalk) Next() (*Commit, error) {
	if w.frontier.Len() == 0 {
		return nil, io.EOF
	}
	c := heap.Pop(&w.frontier).(*object.Commit)
	for _, h := range c.ParentHashes {
		if w.seen[h] {
			continue
		}
		w.seen[h] = true
		parent, err := w.repo.CommitObject(h)
		if err != nil {
			w.missing++
			continue
		}
		heap.Push(&w.frontier, parent)
	}
	return convert(c), nil
}

// Missing reports how many parent hashes failed to resolve so far.
func (w *timeOrderedWalk) Missing() int { return w.missing }

// firstParentWalk follows the chain of first parents from the seed. An
// unresolvable first parent ends the chain after being counted.
type firstParentWalk struct {
	next    *object.Commit
	missing int
}

func (w *firstParentWalk) Next() (*Commit, error) {
	if w.next == nil {
		return nil, io.EOF
	}
	c := w.next
	w.next = nil
	if c.NumParents() > 0 {
		parent, err := c.Parent(0)
		if err != nil {
			w.missing++
		} else {
			w.next = parent
		}
	}
	return convert(c), nil
}

// Missing reports how many parent hashes failed to resolve so far.
func (w *firstParentWalk) Missing() int { return w.missing }

// commitHeap orders commits newest-first by committer time.
type commitHeap []*object.Commit

func (h commitHeap) Len() int           { return len(h) }
func (h commitHeap) Less(i, j int) bool { return h[i].Committer.When.After(h[j].Committer.When) }
func (h commitHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *commitHeap) Push(x any) {
	*h = append(*h, x.(*object.Commit))
}

func (h *commitHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return c
}

func convert(c *object.Commit) *Commit {
	return &Commit{
		Hash: c.Hash.String(),
		Author: Signature{
			Name:  c.Author.Name,
			Email: c.Author.Email,
			When:  c.Author.When,
		},
		Committer: Signature{
			Name:  c.Committer.Name,
			Email: c.Committer.Email,
			When:  c.Committer.When,
		},
		Message: c.Message,
	}
}
