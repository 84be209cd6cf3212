package home

import (
	"fmt"
	"math"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/kotoba/internal/report"
	"github.com/abhisek/kotoba/internal/ui/theme"
)

const titleFull = `┌─┐┌─┐┌─┐  ことば  ┌─┐┌─┐┌─┐
     K O T O B A`

const titleCompact = "ことば · KOTOBA"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art))
}

func greeting(hour int) string {
	switch {
	case hour < 11:
		return "おはよう"
	case hour < 18:
		return "こんにちは"
	default:
		return "こんばんは"
	}
}

func renderGreeting(name string, cw int) string {
	text := fmt.Sprintf("%s, %s!", greeting(time.Now().Hour()), name)
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(text)
}

// renderStatsBar renders the dashboard stats in a bordered box at content width.
func renderStatsBar(o *report.OverallProgress, loaded bool, cw int, compact bool) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	quizStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	accStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	streakStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	var stats string
	switch {
	case !loaded:
		stats = dim.Render("Loading your progress...")
	case o == nil:
		stats = dim.Render("No quizzes yet. Start one to track your progress!")
	case compact:
		stats = fmt.Sprintf("%s %s %s",
			quizStyle.Render(fmt.Sprintf("✎%d", o.QuizzesCompleted)),
			accStyle.Render(fmt.Sprintf("◎%.0f%%", math.Round(o.AverageAccuracy))),
			streakStyle.Render(fmt.Sprintf("★%d", o.StudyStreak)),
		)
	default:
		stats = fmt.Sprintf("%s  %s  %s  %s",
			quizStyle.Render(fmt.Sprintf("✎ %d QUIZZES", o.QuizzesCompleted)),
			accStyle.Render(fmt.Sprintf("◎ %.0f%% ACCURACY", math.Round(o.AverageAccuracy))),
			streakStyle.Render(fmt.Sprintf("★ %d DAY STREAK", o.StudyStreak)),
			dim.Render(strings.ToUpper(string(o.Level))),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderMenu renders each menu item as a fixed-width button.
func renderMenu(items []string, selected int, cw int) string {
	base := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	selectedBtn := base.
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Primary).
		BorderForeground(theme.Primary)
	normalBtn := base.
		Foreground(theme.Text).
		BorderForeground(theme.Border)

	var buttons []string
	for i, label := range items {
		if i == selected {
			buttons = append(buttons, selectedBtn.Render("▸ "+label))
		} else {
			buttons = append(buttons, normalBtn.Render(label))
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderMenuCompact renders menu items as plain lines for small terminals.
func renderMenuCompact(items []string, selected int, cw int) string {
	var lines []string
	for i, label := range items {
		if i == selected {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Primary).
				Bold(true).
				Render(" ▸ "+label+" "))
		} else {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.Text).
				Render("   "+label))
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

func renderCoachNote(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("✦ AI coach tips are on in your study report")
}

// renderUpdateNote renders a dim one-line update notification.
func renderUpdateNote(latestVersion string, cw int) string {
	text := fmt.Sprintf("New version %s available (kotoba update)", latestVersion)
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw).
		Align(lipgloss.Center).
		Render(text)
}

// renderFrame centers content within the given dimensions.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
