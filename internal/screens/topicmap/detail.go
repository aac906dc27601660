package topicmap

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kpv/internal/screen"
	"github.com/abhisek/kpv/internal/topics"
	"github.com/abhisek/kpv/internal/ui/components"
	"github.com/abhisek/kpv/internal/ui/layout"
	"github.com/abhisek/kpv/internal/ui/theme"
)

// DetailScreen shows one topic and lets the user pick a new progress value.
// Leaving without pressing enter changes nothing.
type DetailScreen struct {
	ctx    context.Context
	store  *topics.Store
	topic  topics.Topic
	picker components.StepPicker
}

var _ screen.Screen = (*DetailScreen)(nil)
var _ screen.KeyHintProvider = (*DetailScreen)(nil)

func newDetail(ctx context.Context, store *topics.Store, t topics.Topic) *DetailScreen {
	return &DetailScreen{
		ctx:    ctx,
		store:  store,
		topic:  t,
		picker: components.NewStepPicker(topics.ProgressSteps, t.Progress),
	}
}

func (d *DetailScreen) Init() tea.Cmd { return nil }
func (d *DetailScreen) Title() string {
	if d.topic.Title == "" {
		return d.topic.ID
	}
	return d.topic.Title
}

func (d *DetailScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Progress"},
		{Key: "Enter", Description: "Apply"},
		{Key: "Esc", Description: "Cancel"},
	}
}

func (d *DetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}
	if kmsg.String() == "esc" {
		return d, popCmd
	}

	d.picker, _ = d.picker.Update(msg)
	if !d.picker.Submitted {
		return d, nil
	}
	return d, d.apply(d.picker.Value())
}

func (d *DetailScreen) apply(value int) tea.Cmd {
	change, err := d.store.SetProgress(d.ctx, d.topic.ID, value)
	if err != nil {
		return popWithStatus(err.Error(), true)
	}
	text := fmt.Sprintf("%s set to %d%%%s", d.Title(), change.Topic.Progress,
		changeSummary(change.Unlocked, change.Locked))
	if change.Warning != nil {
		return popWithStatus(text+"; not saved: "+change.Warning.Error(), true)
	}
	return popWithStatus(text, false)
}

func (d *DetailScreen) View(width, height int) string {
	// Re-read so the view reflects changes made elsewhere (HTTP, import).
	if t, ok := d.store.Get(d.topic.ID); ok {
		d.topic = t
	}
	t := d.topic

	contentWidth := width - 8
	if contentWidth > 70 {
		contentWidth = 70
	}

	var b strings.Builder
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	b.WriteString(theme.Selected.Render(fmt.Sprintf("  %s  %s", stateIcon(t), d.Title())))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + t.ID))
	b.WriteString("\n\n")

	if t.Description != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(contentWidth).
			Foreground(theme.Text).
			PaddingLeft(2).
			Render(t.Description))
		b.WriteString("\n\n")
	}

	b.WriteString("  " + components.NewProgressBar("Progress", t.Progress, true, contentWidth).View())
	b.WriteString("\n\n")

	if len(t.Prerequisites) > 0 {
		b.WriteString(theme.Heading.Render("  Prerequisites"))
		b.WriteString("\n")
		for _, id := range t.Prerequisites {
			p, ok := d.store.Get(id)
			if !ok {
				b.WriteString(theme.StatusErr.Render(fmt.Sprintf("  ✗ %s (not in curriculum)", id)))
				b.WriteString("\n")
				continue
			}
			icon, style := "○", dimStyle
			if p.Progress >= topics.UnlockThreshold {
				icon, style = "●", theme.Completed
			}
			b.WriteString(style.Render(fmt.Sprintf("  %s %-28s %3d%%", icon, p.Title, p.Progress)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if deps := d.store.Dependents(t.ID); len(deps) > 0 {
		b.WriteString(theme.Heading.Render("  Unlocks"))
		b.WriteString("\n")
		for _, dep := range deps {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  → %s", dep.Title)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(theme.Heading.Render("  Set progress"))
	b.WriteString("\n  ")
	b.WriteString(d.picker.View())
	b.WriteString("\n")

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top,
		"\n"+b.String())
}
