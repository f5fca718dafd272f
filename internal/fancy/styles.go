package fancy

import (
	"github.com/charmbracelet/lipgloss"
)

// Common styles that can be used across the application
var (
	RootStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	BranchStyle = lipgloss.NewStyle().
			Foreground(ColorDarkGray)

	ComponentStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	ItemStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	FieldStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	EngineStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta)

	OKStyle = lipgloss.NewStyle().
		Foreground(ColorGreen)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)
)

// ItemText styles a result item label
func ItemText(text string) string {
	return ItemStyle.Render(text)
}

// FieldText styles a record field name
func FieldText(text string) string {
	return FieldStyle.Render(text)
}

// EngineText styles an engine name
func EngineText(text string) string {
	return EngineStyle.Render(text)
}

// ValidText styles valid status text (green)
func ValidText(text string) string {
	return OKStyle.Render(text)
}

// ErrorText styles error text (red)
func ErrorText(text string) string {
	return ErrorStyle.Render(text)
}

// PathText styles file paths (gray)
func PathText(text string) string {
	return InfoStyle.Render(text)
}

// SummaryText styles summary information (dark gray)
func SummaryText(text string) string {
	return BranchStyle.Render(text)
}

// CountText styles count numbers (cyan)
func CountText(text string) string {
	return ComponentStyle.Render(text)
}
