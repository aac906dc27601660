package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kpv/internal/ui/theme"
)

// StepPicker selects one of a fixed set of progress values.
type StepPicker struct {
	Steps     []int
	Selected  int
	Submitted bool
}

// NewStepPicker creates a picker positioned on the step closest to current.
func NewStepPicker(steps []int, current int) StepPicker {
	sel := 0
	best := -1
	for i, s := range steps {
		d := s - current
		if d < 0 {
			d = -d
		}
		if best < 0 || d < best {
			best = d
			sel = i
		}
	}
	return StepPicker{Steps: steps, Selected: sel}
}

// Init returns nil.
func (p StepPicker) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection.
func (p StepPicker) Update(msg tea.Msg) (StepPicker, tea.Cmd) {
	if p.Submitted {
		return p, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch kmsg.String() {
	case "left", "h", "up", "k":
		if p.Selected > 0 {
			p.Selected--
		}
	case "right", "l", "down", "j":
		if p.Selected < len(p.Steps)-1 {
			p.Selected++
		}
	case "enter":
		p.Submitted = true
	}

	return p, nil
}

// Value returns the highlighted step.
func (p StepPicker) Value() int {
	if len(p.Steps) == 0 {
		return 0
	}
	return p.Steps[p.Selected]
}

// View renders the steps on one line.
func (p StepPicker) View() string {
	parts := make([]string, len(p.Steps))
	for i, step := range p.Steps {
		label := fmt.Sprintf(" %d%% ", step)
		if i == p.Selected {
			parts[i] = lipgloss.NewStyle().
				Background(theme.ProgressColor(step)).
				Foreground(theme.BgDark).
				Bold(true).
				Render("▸" + label)
		} else {
			parts[i] = lipgloss.NewStyle().
				Foreground(theme.Text).
				Render(" " + label)
		}
	}
	return strings.Join(parts, " ")
}
