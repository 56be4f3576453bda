package circuit

import "github.com/charmbracelet/lipgloss"

// Layout constants for the wire diagram.
const (
	cellW        = 11 // width of each gate column in characters
	labelVisualW = 7  // visual width of the wire label area
	gateNameW    = 5  // width of a gate name inside its box
	gateBoxW     = 7  // ┤ + gateNameW + ├
)

// Lipgloss styles for the wire diagram.
var (
	gateStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#73daca"))

	qubitLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7dcfff"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))

	railLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0af68"))

	railWireStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))

	railLinkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0af68")).
			Bold(true)
)
