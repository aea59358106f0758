package console

import "github.com/charmbracelet/lipgloss"

// Theme defines the styles for status lines.
type Theme struct {
	Name    string
	Info    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

// DefaultTheme returns the colour theme bound to renderer r, so the colour
// profile follows the writer r was created for.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Name:    "default",
		Info:    r.NewStyle().Foreground(lipgloss.Color("#6C99BB")), // steel blue
		Success: r.NewStyle().Foreground(lipgloss.Color("#7B9246")), // olive green
		Warning: r.NewStyle().Foreground(lipgloss.Color("214")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("196")),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("242")),
	}
}

// MonoTheme returns a theme without colours.
func MonoTheme() Theme {
	return Theme{
		Name:    "mono",
		Info:    lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
	}
}
