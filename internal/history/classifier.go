package history

import (
	"strings"
	"time"

	"github.com/elektronenhirn/oper/internal/git"
)

// ClassifierConfig bounds which commits a scan keeps. Empty filter strings
// mean the filter is not applied.
type ClassifierConfig struct {
	// MaxAgeDays is the inclusive age window: a commit exactly this many
	// whole days old is still kept.
	MaxAgeDays int
	// Author keeps only commits whose author name or email contains this
	// substring, case-insensitively.
	Author string
	// Message keeps only commits whose message contains this substring,
	// case-insensitively.
	Message string
}

// Classifier decides commit inclusion and walk cutoff for one scan. Filter
// substrings are folded once at construction; one classifier is shared by
// every worker of a scan.
type Classifier struct {
	now     time.Time
	maxDays int
	author  string
	message string
}

// NewClassifier builds a classifier that measures commit age against now.
func NewClassifier(cfg ClassifierConfig, now time.Time) *Classifier {
	return &Classifier{
		now:     now.UTC(),
		maxDays: cfg.MaxAgeDays,
		author:  strings.ToLower(cfg.Author),
		message: strings.ToLower(cfg.Message),
	}
}

// Classify reports whether the commit belongs in the result (include) and
// whether the walk that produced it may stop (abort). Only the age window
// drives abort: on a newest-first walk everything after the first too-old
// commit is older still, while an author or message miss says nothing about
// the commits behind it.
func (cl *Classifier) Classify(c *git.Commit) (include, abort bool) {
	if cl.ageDays(c.Committer.When) > cl.maxDays {
		return false, true
	}
	if cl.author != "" &&
		!strings.Contains(strings.ToLower(c.Author.Name), cl.author) &&
		!strings.Contains(strings.ToLower(c.Author.Email), cl.author) {
		return false, false
	}
	if cl.message != "" && !strings.Contains(strings.ToLower(c.Message), cl.message) {
		return false, false
	}
	return true, false
}

// ageDays is the whole number of days between the scan's reference time and
// the commit time, truncated. Future-dated commits clamp to zero so that a
// machine with a skewed clock cannot cut a walk short.
func (cl *Classifier) ageDays(when time.Time) int {
	days := int(cl.now.Sub(when.UTC()).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
