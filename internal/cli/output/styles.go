package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used for text output.
type Styles struct {
	Header1  lipgloss.Style
	Header2  lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Key      lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Selected lipgloss.Style
	Credit   lipgloss.Style
}

// NewStyles builds the styles for a lipgloss renderer.
func NewStyles(lg *lipgloss.Renderer) Styles {
	return Styles{
		Header1:  lg.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Underline(true),
		Header2:  lg.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:     lg.NewStyle().Bold(true),
		Muted:    lg.NewStyle().Foreground(lipgloss.Color("8")),
		Key:      lg.NewStyle().Foreground(lipgloss.Color("7")).Bold(true),
		Success:  lg.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:  lg.NewStyle().Foreground(lipgloss.Color("11")),
		Error:    lg.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Selected: lg.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
		Credit:   lg.NewStyle().Foreground(lipgloss.Color("10")),
	}
}
