package git

import (
	"strings"
	"time"
)

// Commit is the slice of a git commit that history aggregation consumes.
type Commit struct {
	Hash      string
	Author    Signature
	Committer Signature
	Message   string
}

// Summary returns the first line of the commit message.
func (c *Commit) Summary() string {
	if idx := strings.IndexByte(c.Message, '\n'); idx != -1 {
		return c.Message[:idx]
	}
	return c.Message
}

// Signature identifies who authored or committed a change, and when.
// When carries the UTC offset recorded in the commit, not the local zone.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// Strategy selects how a repository's history is traversed.
type Strategy int

const (
	// AllParents visits every commit reachable from HEAD.
	AllParents Strategy = iota
	// FirstParent follows only the first parent of merges, matching
	// `git log --first-parent`.
	FirstParent
)

// String returns a string representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case AllParents:
		return "all-parents"
	case FirstParent:
		return "first-parent"
	default:
		return "unknown"
	}
}
