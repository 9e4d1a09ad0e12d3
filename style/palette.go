package style

import "github.com/charmbracelet/lipgloss"

var (
	Overlay = lipgloss.Color("#6c7086")
	Surface = lipgloss.Color("#313244")
	Mauve   = lipgloss.Color("#cba6f7")

	AccentColor = Mauve
	FaintColor  = Overlay
	BorderColor = Surface
)
