package tui

import "github.com/charmbracelet/lipgloss"

// The palette sticks to the 16 ANSI colors so the view follows the
// terminal's theme.
var (
	colorRed         = lipgloss.Color("1")
	colorGreen       = lipgloss.Color("2")
	colorYellow      = lipgloss.Color("3")
	colorBlue        = lipgloss.Color("4")
	colorMagenta     = lipgloss.Color("5")
	colorWhite       = lipgloss.Color("7")
	colorBrightBlack = lipgloss.Color("8")
	colorBrightBlue  = lipgloss.Color("12")
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(colorWhite).Background(colorBlue)

	commitBarStyle = lipgloss.NewStyle().Foreground(colorWhite).Background(colorBlue)
	flashStyle     = lipgloss.NewStyle().Foreground(colorRed).Background(colorBlue).Bold(true)

	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(colorBrightBlack)
	statusMissingStyle = lipgloss.NewStyle().Foreground(colorRed).Background(colorBrightBlack)

	separatorStyle = lipgloss.NewStyle().Foreground(colorBrightBlack)

	diffRepoStyle      = lipgloss.NewStyle().Foreground(colorRed)
	diffIDStyle        = lipgloss.NewStyle().Foreground(colorBlue)
	diffAuthorStyle    = lipgloss.NewStyle().Foreground(colorBrightBlue)
	diffCommitterStyle = lipgloss.NewStyle().Foreground(colorGreen)
	diffMessageStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	diffContextStyle   = lipgloss.NewStyle().Foreground(colorBlue)
	diffAddStyle       = lipgloss.NewStyle().Foreground(colorGreen)
	diffDelStyle       = lipgloss.NewStyle().Foreground(colorRed)
	diffFileStyle      = lipgloss.NewStyle().Foreground(colorYellow)
	diffHunkStyle      = lipgloss.NewStyle().Foreground(colorMagenta)
	diffErrorStyle     = lipgloss.NewStyle().Foreground(colorRed)
)
