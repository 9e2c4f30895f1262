package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/minjpark/litscreen/internal/model"
)

// Color palette
const (
	colorPrimary    = "#7D56F4"
	colorInfo       = "#626262"
	colorInclude    = "#04B575"
	colorExclude    = "#FF5F5F"
	colorDepression = "#FF5F5F"
	colorMobile     = "#5FAFFF"
	colorBehavioral = "#5FD75F"
)

// Styles for the review interface
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary)).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorInfo))

	includeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorInclude))

	excludeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorExclude))

	abstractStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorPrimary)).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorInclude))

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color(colorPrimary)).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorInfo)).
			Padding(0, 1)

	categoryStyles = map[model.Category]lipgloss.Style{
		model.CategoryDepression: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorDepression)),
		model.CategoryMobile: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorMobile)),
		model.CategoryBehavioral: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorBehavioral)),
	}
)

// markKeyword wraps one highlighted substring in its category color.
func markKeyword(cat model.Category, matched string) string {
	if style, ok := categoryStyles[cat]; ok {
		return style.Render(matched)
	}
	return matched
}

func verdictLabel(v model.Verdict) string {
	switch v {
	case model.VerdictInclude:
		return includeStyle.Render("include")
	case model.VerdictExclude:
		return excludeStyle.Render("exclude")
	default:
		return infoStyle.Render(string(v))
	}
}
