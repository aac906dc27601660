package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kpv/internal/router"
	"github.com/abhisek/kpv/internal/screen"
	"github.com/abhisek/kpv/internal/screens/topicmap"
	"github.com/abhisek/kpv/internal/topics"
	"github.com/abhisek/kpv/internal/ui/layout"
)

// Options holds dependencies for the TUI.
type Options struct {
	Store *topics.Store

	// ExportDir is where snapshot exports are written. Empty means the
	// working directory.
	ExportDir string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	store  *topics.Store
	width  int
	height int
}

// newAppModel creates a new AppModel with the topic map screen.
func newAppModel(ctx context.Context, opts Options) AppModel {
	dir := opts.ExportDir
	if dir == "" {
		dir = "."
	}
	return AppModel{
		router: router.New(topicmap.New(ctx, opts.Store, dir)),
		store:  opts.Store,
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	v.SetContent(m.render())
	return v
}

// render composes header, active screen and footer for the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.statusLine(), m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(footerHints, p.KeyHints()...)
		footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// statusLine summarizes progress for the header. "open" counts topics that
// are unlocked but not yet completed.
func (m AppModel) statusLine() string {
	if m.store == nil {
		return ""
	}
	all := m.store.All()
	done, open := 0, 0
	for _, t := range all {
		switch {
		case t.Completed():
			done++
		case t.Interactable:
			open++
		}
	}
	return fmt.Sprintf("● %d/%d done   ○ %d open", done, len(all), open)
}

// Run starts the Bubble Tea program.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newAppModel(ctx, opts), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
