package topicmap

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/kpv/internal/screen"
	"github.com/abhisek/kpv/internal/topics"
	"github.com/abhisek/kpv/internal/ui/layout"
	"github.com/abhisek/kpv/internal/ui/theme"
)

// ImportResultScreen reports what an applied snapshot changed. It takes
// the place of the import prompt; dismissing it returns to the map.
type ImportResultScreen struct {
	file   string
	result topics.ImportResult
}

var _ screen.Screen = (*ImportResultScreen)(nil)
var _ screen.KeyHintProvider = (*ImportResultScreen)(nil)

func newImportResultScreen(file string, res topics.ImportResult) *ImportResultScreen {
	return &ImportResultScreen{file: file, result: res}
}

func (s *ImportResultScreen) Init() tea.Cmd { return nil }
func (s *ImportResultScreen) Title() string { return "Import Complete" }

func (s *ImportResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Back to map"},
	}
}

func (s *ImportResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, popWithStatus(s.statusText(), s.result.Warning != nil)
		}
	}
	return s, nil
}

func (s *ImportResultScreen) statusText() string {
	text := fmt.Sprintf("Imported %d topics from %s%s", s.result.Applied, s.file,
		changeSummary(s.result.Unlocked, s.result.Locked))
	if s.result.Warning != nil {
		text += "; not saved: " + s.result.Warning.Error()
	}
	return text
}

func (s *ImportResultScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Heading.Render(fmt.Sprintf("  Applied %d topics from %s", s.result.Applied, s.file)))
	b.WriteString("\n\n")

	list := func(label string, ids []string) {
		if len(ids) == 0 {
			return
		}
		b.WriteString(theme.Body.Render("  " + label))
		b.WriteString("\n")
		for _, id := range ids {
			b.WriteString("    → " + id + "\n")
		}
		b.WriteString("\n")
	}
	list("Unlocked", s.result.Unlocked)
	list("Locked", s.result.Locked)
	if len(s.result.Unlocked) == 0 && len(s.result.Locked) == 0 {
		b.WriteString(theme.Hint.Render("  No topics changed lock state."))
		b.WriteString("\n")
	}

	if s.result.Warning != nil {
		b.WriteString("\n")
		b.WriteString(theme.StatusErr.Render("  Not saved: " + s.result.Warning.Error()))
		b.WriteString("\n")
	}
	return b.String()
}
