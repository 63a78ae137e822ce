package query

import "github.com/charmbracelet/lipgloss"

// Console styles for the interactive session. These are plain package
// values handed to the interface, not process-wide terminal state.
var (
	TitleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	InfoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	WarnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	PromptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	MenuItemStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	SeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)
