package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains the lipgloss styles for the confirmation view.
type Styles struct {
	// Title renders the header line.
	Title lipgloss.Style

	// Stats renders the batch statistics line.
	Stats lipgloss.Style

	// Inserted renders <ins> spans of the diff.
	Inserted lipgloss.Style

	// Removed renders <del> spans of the diff.
	Removed lipgloss.Style

	// BlockHeader renders the per-block diff section headers.
	BlockHeader lipgloss.Style

	// Help renders the key hints.
	Help lipgloss.Style

	// Border frames the diff viewport.
	Border lipgloss.Style
}

// DefaultStyles returns the default styling.
func DefaultStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")),
		Stats: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")),
		Inserted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1")),
		Removed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8")).
			Strikethrough(true),
		BlockHeader: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#06B6D4")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1),
	}
}
