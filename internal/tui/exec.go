package tui

import (
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/elektronenhirn/oper/config"
	"github.com/elektronenhirn/oper/internal/history"
)

// commandFailedMsg reports a custom command that could not be started.
type commandFailedMsg struct {
	executable string
	err        error
}

// execCustomCommand launches a user-configured tool against the selected
// commit in fire-and-forget mode: every "{}" in the argument list is
// replaced with the commit id, the tool runs in the commit's repository,
// and oper does not wait for it to finish.
func execCustomCommand(cmd config.CustomCommand, commit history.Commit) tea.Cmd {
	return func() tea.Msg {
		args := strings.Fields(cmd.Args)
		for i, arg := range args {
			args[i] = strings.ReplaceAll(arg, "{}", commit.Hash)
		}

		c := exec.Command(cmd.Executable, args...)
		c.Dir = commit.Repo.AbsPath

		if err := c.Start(); err != nil {
			return commandFailedMsg{executable: cmd.Executable, err: err}
		}
		return nil
	}
}
