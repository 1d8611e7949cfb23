package views

import "github.com/charmbracelet/lipgloss"

// Theme is the set of styles for one display mode.
type Theme struct {
	Name     string
	Dark     bool
	Header   lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Panel    lipgloss.Style
	Footer   lipgloss.Style
	Row      lipgloss.Style
	Selected lipgloss.Style
	Done     lipgloss.Style
	Modal    lipgloss.Style
	// Markdown is the glamour standard style name for help text.
	Markdown string
}

var (
	lightTheme = Theme{
		Name:     "light",
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("245")).Padding(0, 1),
		Footer:   lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Row:      lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("153")),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("117")),
		Done:     lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("157")),
		Modal:    lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("33")).Padding(1, 2),
		Markdown: "light",
	}
	darkTheme = Theme{
		Name:     "dark",
		Dark:     true,
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		Footer:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Row:      lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("236")),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("24")),
		Done:     lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("250")).Background(lipgloss.Color("22")),
		Modal:    lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("39")).Padding(1, 2),
		Markdown: "dark",
	}
)

func ThemeFor(dark bool) Theme {
	if dark {
		return darkTheme
	}
	return lightTheme
}
