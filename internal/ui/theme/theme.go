package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Gradient endpoints for progress: 0% is rose, 100% is green.
var (
	progressLow  = colorful.Color{R: 0xF4 / 255.0, G: 0x3F / 255.0, B: 0x5E / 255.0}
	progressHigh = colorful.Color{R: 0x22 / 255.0, G: 0xC5 / 255.0, B: 0x5E / 255.0}
)

// ProgressColor interpolates between the low and high progress colors in
// Lab space. progress is clamped to [0, 100].
func ProgressColor(progress int) color.Color {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	c := progressLow.BlendLab(progressHigh, float64(progress)/100).Clamped()
	return lipgloss.Color(c.Hex())
}

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Heading = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Locked = lipgloss.NewStyle().
		Foreground(TextDim)

	Completed = lipgloss.NewStyle().
			Foreground(Success)

	StatusOK = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	StatusErr = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Components
var (
	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)
