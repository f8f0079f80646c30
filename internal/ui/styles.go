package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/josephgoksu/crewboard/models"
)

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray
	ColorCyan      = lipgloss.Color("87")  // Cyan for in-review
	ColorBlue      = lipgloss.Color("75")  // Blue for in-progress

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	StyleSectionTitle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				Underline(true)
)

// statusStyles maps each task status to its display style.
var statusStyles = map[models.TaskStatus]lipgloss.Style{
	models.StatusNew:        StyleSubtle,
	models.StatusInProgress: lipgloss.NewStyle().Foreground(ColorBlue),
	models.StatusInReview:   lipgloss.NewStyle().Foreground(ColorCyan),
	models.StatusQuestions:  StyleWarning,
	models.StatusDone:       StyleSuccess,
	models.StatusCancelled:  StyleError,
}

// StatusStyle returns the style used to render a task status.
func StatusStyle(s models.TaskStatus) lipgloss.Style {
	if style, ok := statusStyles[s]; ok {
		return style
	}
	return StyleText
}

// PriorityStyle returns the style used to render a backlog priority.
func PriorityStyle(p models.BacklogPriority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return StyleError
	case models.PriorityMedium:
		return StyleWarning
	default:
		return StyleSubtle
	}
}
