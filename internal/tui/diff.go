package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/elektronenhirn/oper/internal/history"
)

// diffLine is one row of the diff pane, colored by its role.
type diffLine struct {
	text  string
	style lipgloss.Style
}

// diffPane shows the selected commit's metadata, message and patch in a
// scrollable viewport.
type diffPane struct {
	viewport viewport.Model
	lines    []diffLine
}

func newDiffPane() diffPane {
	return diffPane{viewport: viewport.New(0, 0)}
}

func (d *diffPane) SetSize(width, height int) {
	d.viewport.Width = width
	d.viewport.Height = height
	d.refresh()
}

// SetCommit replaces the pane content. A non-nil patchErr is rendered in
// place of the patch so a broken repository doesn't take down the view.
func (d *diffPane) SetCommit(c *history.Commit, patch string, patchErr error) {
	d.lines = buildDiffLines(c, patch, patchErr)
	d.refresh()
	d.viewport.GotoTop()
}

func (d *diffPane) ScrollUp()   { d.viewport.LineUp(1) }
func (d *diffPane) ScrollDown() { d.viewport.LineDown(1) }

func (d *diffPane) View() string {
	return d.viewport.View()
}

// refresh re-renders the content for the current viewport width. Lines are
// truncated because the viewport does not wrap.
func (d *diffPane) refresh() {
	if d.viewport.Width <= 0 {
		return
	}
	rendered := make([]string, len(d.lines))
	for i, line := range d.lines {
		text := strings.ReplaceAll(line.text, "\t", "    ")
		rendered[i] = line.style.Render(runewidth.Truncate(text, d.viewport.Width, "…"))
	}
	d.viewport.SetContent(strings.Join(rendered, "\n"))
}

func buildDiffLines(c *history.Commit, patch string, patchErr error) []diffLine {
	lines := []diffLine{
		{"Repo:       " + c.Repo.RelPath, diffRepoStyle},
		{"Id:         " + c.Hash, diffIDStyle},
		{"Author:     " + c.Author, diffAuthorStyle},
		{"Commit:     " + c.Committer, diffCommitterStyle},
		{"CommitDate: " + c.TimeString(), diffIDStyle},
		{"", diffMessageStyle},
	}
	for _, line := range strings.Split(strings.TrimRight(c.Message, "\n"), "\n") {
		lines = append(lines, diffLine{line, diffMessageStyle})
	}
	lines = append(lines, diffLine{"---", diffMessageStyle})

	if patchErr != nil {
		lines = append(lines, diffLine{"Failed to read diff: " + patchErr.Error(), diffErrorStyle})
		return lines
	}

	for i, line := range strings.Split(strings.TrimRight(patch, "\n"), "\n") {
		if i > 0 && strings.HasPrefix(line, "diff --git") {
			lines = append(lines, diffLine{"", diffMessageStyle})
		}
		lines = append(lines, diffLine{line, diffStyleFor(line)})
	}
	return lines
}

// diffStyleFor colors a patch line by its unified-diff role. File headers
// must be matched before the add/del cases, "+++ " would count as an
// addition otherwise.
func diffStyleFor(line string) lipgloss.Style {
	switch {
	case strings.HasPrefix(line, "@@"):
		return diffHunkStyle
	case isFileHeader(line):
		return diffFileStyle
	case strings.HasPrefix(line, "+"):
		return diffAddStyle
	case strings.HasPrefix(line, "-"):
		return diffDelStyle
	default:
		return diffContextStyle
	}
}

var fileHeaderPrefixes = []string{
	"diff --git",
	"index ",
	"--- ",
	"+++ ",
	"new file mode",
	"deleted file mode",
	"old mode",
	"new mode",
	"rename from",
	"rename to",
	"similarity index",
	"Binary files",
}

func isFileHeader(line string) bool {
	for _, prefix := range fileHeaderPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
