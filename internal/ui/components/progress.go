package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/kpv/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar whose fill color follows
// the progress gradient.
type ProgressBar struct {
	Label       string
	Progress    int // 0-100
	ShowPercent bool
	Width       int
	Dim         bool
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, progress int, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Progress:    progress,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // "  100%"
	}

	barWidth := p.Width - labelWidth - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := barWidth * p.Progress / 100
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	empty := barWidth - filled

	fill := theme.ProgressColor(p.Progress)
	if p.Dim {
		fill = theme.TextDim
	}
	filledStr := lipgloss.NewStyle().
		Background(fill).
		Render(strings.Repeat(" ", filled))

	emptyStr := theme.ProgressEmpty.
		Render(strings.Repeat(" ", empty))

	result += filledStr + emptyStr

	if p.ShowPercent {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %3d%%", p.Progress))
	}

	return result
}
