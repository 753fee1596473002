package git

import (
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ReadPatch renders the unified diff of one commit against its first parent.
// Root commits are diffed against the empty tree, so every file shows up as
// added.
func ReadPatch(repoPath, hash string) (string, error) {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return "", err
	}
	c, err := repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return "", fmt.Errorf("resolve commit %s: %w", hash, err)
	}

	if c.NumParents() == 0 {
		tree, err := c.Tree()
		if err != nil {
			return "", err
		}
		changes, err := object.DiffTree(nil, tree)
		if err != nil {
			return "", err
		}
		patch, err := changes.Patch()
		if err != nil {
			return "", err
		}
		return patch.String(), nil
	}

	parent, err := c.Parent(0)
	if err != nil {
		return "", fmt.Errorf("resolve parent of %s: %w", hash, err)
	}
	patch, err := parent.Patch(c)
	if err != nil {
		return "", err
	}
	return patch.String(), nil
}
