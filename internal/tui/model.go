package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/elektronenhirn/oper/config"
	"github.com/elektronenhirn/oper/internal/git"
	"github.com/elektronenhirn/oper/internal/history"
)

const (
	colWidthDate       = 22
	colWidthRepo       = 15
	colWidthCommitter  = 17
	colWidthSummaryMin = 10
)

// patchMsg carries a lazily loaded diff for the commit at index.
type patchMsg struct {
	index int
	patch string
	err   error
}

// Model is the interactive commit browser: a commit table with a commit bar
// underneath, a diff pane for the selected commit, and a status bar.
type Model struct {
	snap     *history.Snapshot
	commands map[string]config.CustomCommand

	table table.Model
	diff  diffPane

	width  int
	height int
	flash  string
}

// New builds the browser over a scanned history snapshot.
func New(snap *history.Snapshot, cfg *config.Config) Model {
	commands := make(map[string]config.CustomCommand, len(cfg.CustomCommands))
	for _, cmd := range cfg.CustomCommands {
		commands[cmd.Key] = cmd
	}

	t := table.New(
		table.WithColumns(commitColumns(colWidthSummaryMin)),
		table.WithRows(commitRows(snap)),
		table.WithFocused(true),
		table.WithKeyMap(tableKeyMap()),
	)
	styles := table.DefaultStyles()
	styles.Selected = selectedStyle
	styles.Header = headerStyle.Padding(0, 1)
	t.SetStyles(styles)

	return Model{
		snap:     snap,
		commands: commands,
		table:    t,
		diff:     newDiffPane(),
	}
}

// Run opens the browser in the alternate screen and blocks until it quits.
func Run(snap *history.Snapshot, cfg *config.Config) error {
	_, err := tea.NewProgram(New(snap, cfg), tea.WithAltScreen()).Run()
	return err
}

// Init requests the diff of the initially selected commit.
func (m Model) Init() tea.Cmd {
	if len(m.snap.Commits) == 0 {
		return nil
	}
	return loadPatch(m.snap, 0)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.relayout()
		return m, nil

	case patchMsg:
		// Stale answers for rows the user has already moved away from
		// are dropped.
		if msg.index == m.table.Cursor() && msg.index < len(m.snap.Commits) {
			m.diff.SetCommit(&m.snap.Commits[msg.index], msg.patch, msg.err)
		}
		return m, nil

	case commandFailedMsg:
		m.flash = fmt.Sprintf("Failed to start %s: %v", msg.executable, msg.err)
		return m, nil

	case tea.KeyMsg:
		m.flash = ""
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "j":
			m.diff.ScrollDown()
			return m, nil
		case "k":
			m.diff.ScrollUp()
			return m, nil
		}
		if cmd, ok := m.commands[msg.String()]; ok {
			if len(m.snap.Commits) == 0 {
				return m, nil
			}
			return m, execCustomCommand(cmd, m.snap.Commits[m.table.Cursor()])
		}

		before := m.table.Cursor()
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		// An empty table clamps its cursor to -1, so bound-check before
		// asking for a diff.
		if after := m.table.Cursor(); after != before && after >= 0 && after < len(m.snap.Commits) {
			return m, tea.Batch(cmd, loadPatch(m.snap, after))
		}
		return m, cmd
	}
	return m, nil
}

// View renders the panes. Wide terminals get the diff next to the table,
// narrow ones get it underneath.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.landscape() {
		tableWidth := m.width - m.diffWidth() - 1
		left := lipgloss.JoinVertical(lipgloss.Left,
			m.table.View(),
			m.commitBarView(tableWidth),
		)
		panes := lipgloss.JoinHorizontal(lipgloss.Top,
			left,
			separatorColumn(m.height-1),
			m.diff.View(),
		)
		return lipgloss.JoinVertical(lipgloss.Left, panes, m.statusBarView())
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.table.View(),
		m.commitBarView(m.width),
		m.diff.View(),
		m.statusBarView(),
	)
}

func (m Model) landscape() bool {
	return m.width >= m.height*3
}

func (m Model) diffWidth() int {
	return m.width/2 - 1
}

func (m *Model) relayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	if m.landscape() {
		tableWidth := m.width - m.diffWidth() - 1
		contentHeight := m.height - 1
		m.table.SetColumns(commitColumns(summaryWidth(tableWidth)))
		m.table.SetWidth(tableWidth)
		m.table.SetHeight(clampHeight(contentHeight - 1))
		m.diff.SetSize(m.diffWidth(), contentHeight)
		return
	}
	diffHeight := m.height/2 - 1
	m.table.SetColumns(commitColumns(summaryWidth(m.width)))
	m.table.SetWidth(m.width)
	m.table.SetHeight(clampHeight(m.height - diffHeight - 2))
	m.diff.SetSize(m.width, diffHeight)
}

func (m Model) commitBarView(width int) string {
	if m.flash != "" {
		return flashStyle.Width(width).MaxWidth(width).Render(m.flash)
	}
	text := ""
	if len(m.snap.Commits) > 0 {
		c := m.snap.Commits[m.table.Cursor()]
		text = fmt.Sprintf("Commit %d of %d - %s",
			m.table.Cursor()+1, len(m.snap.Commits), c.Repo.RelPath)
	}
	return commitBarStyle.Width(width).MaxWidth(width).Render(text)
}

func (m Model) statusBarView() string {
	left := fmt.Sprintf("Found %d commits across %d repositories",
		len(m.snap.Commits), len(m.snap.Repos))
	missing := ""
	if m.snap.Missing > 0 {
		missing = fmt.Sprintf(" (%d commits unreadable)", m.snap.Missing)
	}
	right := fmt.Sprintf(" [%dx%d]", m.width, m.height)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(missing) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	var b strings.Builder
	b.WriteString(statusBarStyle.Render(left))
	if missing != "" {
		b.WriteString(statusMissingStyle.Render(missing))
	}
	b.WriteString(statusBarStyle.Render(strings.Repeat(" ", gap) + right))
	return b.String()
}

func separatorColumn(height int) string {
	if height < 1 {
		return ""
	}
	rows := make([]string, height)
	for i := range rows {
		rows[i] = "│"
	}
	return separatorStyle.Render(strings.Join(rows, "\n"))
}

func loadPatch(snap *history.Snapshot, index int) tea.Cmd {
	c := snap.Commits[index]
	return func() tea.Msg {
		patch, err := git.ReadPatch(c.Repo.AbsPath, c.Hash)
		return patchMsg{index: index, patch: patch, err: err}
	}
}

func commitColumns(summary int) []table.Column {
	return []table.Column{
		{Title: "Commit", Width: colWidthDate},
		{Title: "Repo", Width: colWidthRepo},
		{Title: "Committer", Width: colWidthCommitter},
		{Title: "Summary", Width: summary},
	}
}

// summaryWidth gives the summary column whatever the fixed columns leave
// over. Each column carries one cell of padding on both sides.
func summaryWidth(tableWidth int) int {
	w := tableWidth - colWidthDate - colWidthRepo - colWidthCommitter - 8
	if w < colWidthSummaryMin {
		return colWidthSummaryMin
	}
	return w
}

func clampHeight(h int) int {
	if h < 3 {
		return 3
	}
	return h
}

func commitRows(snap *history.Snapshot) []table.Row {
	rows := make([]table.Row, len(snap.Commits))
	for i, c := range snap.Commits {
		rows[i] = table.Row{c.TimeString(), c.Repo.Description, c.Committer, c.Summary}
	}
	return rows
}

// tableKeyMap drives the table with arrows and paging keys only, keeping
// j and k free for the diff pane.
func tableKeyMap() table.KeyMap {
	return table.KeyMap{
		LineUp:       key.NewBinding(key.WithKeys("up")),
		LineDown:     key.NewBinding(key.WithKeys("down")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		GotoTop:      key.NewBinding(key.WithKeys("home")),
		GotoBottom:   key.NewBinding(key.WithKeys("end")),
	}
}
