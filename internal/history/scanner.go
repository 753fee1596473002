package history

import (
	"io"

	"github.com/elektronenhirn/oper/internal/git"
)

// scanRepo walks one repository and collects the commits the classifier
// keeps, newest first. A repository that cannot be opened or walked is
// reported to the sink and yields nothing; the scan as a whole goes on.
// The second return value counts commits that were reachable but could not
// be loaded.
func scanRepo(repo *Repo, cl *Classifier, strategy git.Strategy, sink ProgressSink, slot int) ([]Commit, int) {
	sink.Label(slot, "Scanning "+repo.RelPath)
	defer func() {
		sink.Label(slot, "Idle")
		sink.Tick()
	}()

	r, err := git.Open(repo.AbsPath)
	if err != nil {
		sink.Log(repo.RelPath, "failed to open repository", err)
		return nil, 0
	}
	walk, err := r.Walk(strategy)
	if err != nil {
		sink.Log(repo.RelPath, "failed to read history", err)
		return nil, 0
	}

	var commits []Commit
	for {
		gc, err := walk.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			sink.Log(repo.RelPath, "history walk failed", err)
			break
		}
		include, abort := cl.Classify(gc)
		if include {
			commits = append(commits, newCommit(repo, gc))
		}
		if abort {
			break
		}
	}
	return commits, walk.Missing()
}
