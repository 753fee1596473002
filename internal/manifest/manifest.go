package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/elektronenhirn/oper/internal/history"
)

// ErrNoWorkspace means no .repo workspace was found at the starting directory
// or any of its ancestors.
var ErrNoWorkspace = errors.New("not inside a repo workspace (no .repo directory found)")

// ErrNoProjectList means the workspace exists but carries no project list.
var ErrNoProjectList = errors.New("workspace has no project.list")

// FindWorkspaceRoot walks from dir upward to the filesystem root and returns
// the first directory containing a .repo directory.
func FindWorkspaceRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for cur := abs; ; {
		info, err := os.Stat(filepath.Join(cur, ".repo"))
		if err == nil && info.IsDir() {
			return cur, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", fmt.Errorf("%w: searched upward from %s", ErrNoWorkspace, abs)
		}
		cur = parent
	}
}

// Load reads <root>/.repo/project.list and returns one handle per listed
// project, in file order. Blank lines and #-comments are tolerated.
func Load(root string) ([]*history.Repo, error) {
	path := filepath.Join(root, ".repo", "project.list")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoProjectList, path)
		}
		return nil, fmt.Errorf("read project list: %w", err)
	}
	defer f.Close()

	var repos []*history.Repo
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		repos = append(repos, history.NewRepo(filepath.Join(root, line), line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read project list: %w", err)
	}
	return repos, nil
}

// Discover matches glob patterns against the tree under root and keeps every
// matched directory that looks like a git repository (contains .git). The
// result is sorted by relative path, so discovery order is stable regardless
// of pattern order.
func Discover(root string, patterns []string) ([]*history.Repo, error) {
	seen := make(map[string]bool)
	var rels []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(os.DirFS(root), pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, rel := range matches {
			if seen[rel] {
				continue
			}
			seen[rel] = true
			if _, err := os.Stat(filepath.Join(root, rel, ".git")); err != nil {
				continue
			}
			rels = append(rels, rel)
		}
	}
	sort.Strings(rels)

	repos := make([]*history.Repo, 0, len(rels))
	for _, rel := range rels {
		repos = append(repos, history.NewRepo(filepath.Join(root, rel), rel))
	}
	return repos, nil
}
