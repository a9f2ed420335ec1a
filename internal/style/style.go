// Package style provides consistent terminal styling using Lipgloss.
package style

import "github.com/charmbracelet/lipgloss"

var (
	// Success style for confirmations and met requirements
	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10")). // Green
		Bold(true)

	// Error style for field errors
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")). // Red
		Bold(true)

	// Info style for navigation and status lines
	Info = lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")) // Blue

	// Dim style for secondary information
	Dim = lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")) // Gray

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().
		Bold(true)

	// Title style for view headings
	Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("13")). // Magenta
		Bold(true).
		MarginBottom(1)

	// Popup frames the welcome popup
	Popup = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("10")).
		Padding(0, 2)

	// SuccessPrefix is the checkmark prefix for success messages
	SuccessPrefix = Success.Render("✓")

	// ErrorPrefix is the cross prefix for errors
	ErrorPrefix = Error.Render("✗")

	// ArrowPrefix for navigation
	ArrowPrefix = Info.Render("→")
)

// Check renders a requirement line with a tick or a cross.
func Check(met bool, label string) string {
	if met {
		return SuccessPrefix + " " + label
	}
	return ErrorPrefix + " " + Dim.Render(label)
}
