// Package styles contains Lip Gloss style definitions for the board.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#696969"} // Hints, help text, footers

	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}
	BorderHoverColor   = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#54A0FF"} // Column under the dragged card

	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	SelectionIndicatorColor = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}

	// SelectionIndicatorStyle renders the ">" prefix on the selected card.
	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)

	// DraggingCardStyle dims the card being dragged in its home column.
	DraggingCardStyle = lipgloss.NewStyle().Foreground(TextMutedColor).Italic(true)

	// GhostStyle draws the card that follows the pointer.
	GhostStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderHoverColor).
			Foreground(TextPrimaryColor).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	ErrorTextStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)
	HelpPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderDefaultColor).
			Padding(1, 2)
)
