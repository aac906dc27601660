// Package topicmap renders the topic graph as a navigable list with
// progress editing, filtering, and snapshot export/import.
package topicmap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/kpv/internal/progress"
	"github.com/abhisek/kpv/internal/router"
	"github.com/abhisek/kpv/internal/screen"
	"github.com/abhisek/kpv/internal/topics"
	"github.com/abhisek/kpv/internal/ui/components"
	"github.com/abhisek/kpv/internal/ui/layout"
	"github.com/abhisek/kpv/internal/ui/theme"
)

// chromeLines is the number of lines around the topic rows: summary line,
// blank, blank, status.
const chromeLines = 4

// TopicMapScreen lists topics in definition order.
type TopicMapScreen struct {
	ctx          context.Context
	store        *topics.Store
	filter       topics.Filter
	showEdges    bool
	cursor       int
	scrollOffset int
	status       string
	statusErr    bool
	exportDir    string
	now          func() time.Time
}

var _ screen.Screen = (*TopicMapScreen)(nil)
var _ screen.KeyHintProvider = (*TopicMapScreen)(nil)

// New creates a topic map over store. Exports are written to exportDir.
func New(ctx context.Context, store *topics.Store, exportDir string) *TopicMapScreen {
	return &TopicMapScreen{
		ctx:       ctx,
		store:     store,
		filter:    topics.FilterAll,
		exportDir: exportDir,
		now:       time.Now,
	}
}

func (s *TopicMapScreen) Init() tea.Cmd {
	return nil
}

func (s *TopicMapScreen) Title() string {
	return "Topic Map"
}

// KeyHints returns the key binding hints for the footer.
func (s *TopicMapScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "f", Description: "Filter"},
		{Key: "e", Description: "Edges"},
		{Key: "x", Description: "Export"},
		{Key: "i", Description: "Import"},
		{Key: "q", Description: "Quit"},
	}
}

func (s *TopicMapScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case StatusMsg:
		s.setStatus(msg.Text, msg.Err)
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.moveCursor(-1)
		case "down", "j":
			s.moveCursor(1)
		case "f":
			s.filter = s.filter.Next()
			s.cursor = 0
			s.scrollOffset = 0
			s.setStatus("Filter: "+s.filter.Label(), false)
		case "e":
			s.showEdges = !s.showEdges
		case "x":
			s.export()
		case "i":
			imp := newImportScreen(s.ctx, s.store)
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: imp} }
		case "enter":
			return s, s.selectTopic()
		case "q":
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *TopicMapScreen) View(width, height int) string {
	visible := s.visible()
	s.clampCursor(len(visible))

	rowsHeight := height - chromeLines
	if rowsHeight < 1 {
		rowsHeight = 1
	}
	s.adjustScroll(rowsHeight)

	var lines []string
	lines = append(lines, s.renderSummary())
	lines = append(lines, "")

	if len(visible) == 0 {
		lines = append(lines, theme.Hint.Render("  No topics match this filter."))
	}
	for i := s.scrollOffset; i < len(visible) && i < s.scrollOffset+rowsHeight; i++ {
		lines = append(lines, s.renderRow(visible[i], i == s.cursor, width))
	}

	lines = append(lines, "")
	if s.status != "" {
		style := theme.StatusOK
		if s.statusErr {
			style = theme.StatusErr
		}
		lines = append(lines, style.Render("  "+s.status))
	}

	return strings.Join(lines, "\n")
}

func (s *TopicMapScreen) visible() []topics.Topic {
	return s.store.Filter(s.filter)
}

func (s *TopicMapScreen) setStatus(text string, isErr bool) {
	s.status = text
	s.statusErr = isErr
}

func (s *TopicMapScreen) moveCursor(delta int) {
	n := len(s.visible())
	next := s.cursor + delta
	if next >= 0 && next < n {
		s.cursor = next
	}
}

func (s *TopicMapScreen) clampCursor(n int) {
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// adjustScroll ensures the cursor is visible within the viewport.
func (s *TopicMapScreen) adjustScroll(height int) {
	if s.cursor < s.scrollOffset {
		s.scrollOffset = s.cursor
	}
	if s.cursor >= s.scrollOffset+height {
		s.scrollOffset = s.cursor - height + 1
	}
}

// selectTopic opens the detail screen, or explains why a locked topic
// cannot be opened.
func (s *TopicMapScreen) selectTopic() tea.Cmd {
	visible := s.visible()
	if len(visible) == 0 {
		return nil
	}
	s.clampCursor(len(visible))
	t := visible[s.cursor]

	if !t.Interactable {
		s.setStatus(fmt.Sprintf("%s is locked: needs %s at %d%%",
			t.Title, strings.Join(s.unmet(t), ", "), topics.UnlockThreshold), true)
		return nil
	}

	s.setStatus("", false)
	detail := newDetail(s.ctx, s.store, t)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: detail}
	}
}

// unmet lists prerequisites of t that are below the unlock threshold or
// missing from the topic set.
func (s *TopicMapScreen) unmet(t topics.Topic) []string {
	var out []string
	for _, id := range t.Prerequisites {
		p, ok := s.store.Get(id)
		if !ok {
			out = append(out, id+" (missing)")
			continue
		}
		if p.Progress < topics.UnlockThreshold {
			out = append(out, id)
		}
	}
	return out
}

func (s *TopicMapScreen) export() {
	data, err := s.store.Export()
	if err != nil {
		s.setStatus("Export failed: "+err.Error(), true)
		return
	}
	path := filepath.Join(s.exportDir, progress.ExportFilename(s.now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.setStatus("Export failed: "+err.Error(), true)
		return
	}
	s.setStatus("Exported to "+path, false)
}

func (s *TopicMapScreen) renderSummary() string {
	st := s.store.Stats()
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf(
		"  %s  ·  %d topics  ·  %d completed  ·  %d unlocked  ·  %d locked",
		s.filter.Label(), st.Total, st.Completed, st.Interactable, st.Locked))
}

// stateIcon returns the glyph for a topic's state.
func stateIcon(t topics.Topic) string {
	switch {
	case !t.Interactable:
		return "⊘"
	case t.Completed():
		return "●"
	case t.Progress > 0:
		return "◐"
	default:
		return "○"
	}
}

func (s *TopicMapScreen) renderRow(t topics.Topic, selected bool, width int) string {
	barWidth := 22
	if layout.IsCompactWidth(width) {
		barWidth = 14
	}
	edgesWidth := 0
	if s.showEdges {
		edgesWidth = width / 3
	}
	nameWidth := width - 4 - 3 - barWidth - edgesWidth - 4
	if nameWidth < 10 {
		nameWidth = 10
	}

	name := t.Title
	if name == "" {
		name = t.ID
	}
	name = ansi.Truncate(name, nameWidth, "…")
	if pad := nameWidth - ansi.StringWidth(name); pad > 0 {
		name += strings.Repeat(" ", pad)
	}

	var nameStyle lipgloss.Style
	switch {
	case selected:
		nameStyle = theme.Selected
	case !t.Interactable:
		nameStyle = theme.Locked
	case t.Completed():
		nameStyle = theme.Completed
	default:
		nameStyle = theme.Unselected
	}

	cursor := "  "
	if selected {
		cursor = "▸ "
	}

	bar := components.NewProgressBar("", t.Progress, true, barWidth)
	bar.Dim = !t.Interactable

	line := fmt.Sprintf("  %s%s %s  %s",
		cursor,
		stateIcon(t),
		nameStyle.Render(name),
		bar.View(),
	)

	if s.showEdges && len(t.Prerequisites) > 0 {
		line += theme.Hint.Render("  ← " + strings.Join(t.Prerequisites, ", "))
	}
	return line
}
