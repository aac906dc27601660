package topicmap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/kpv/internal/progress"
	"github.com/abhisek/kpv/internal/router"
	"github.com/abhisek/kpv/internal/screen"
	"github.com/abhisek/kpv/internal/topics"
	"github.com/abhisek/kpv/internal/ui/components"
	"github.com/abhisek/kpv/internal/ui/layout"
	"github.com/abhisek/kpv/internal/ui/theme"
)

// ImportScreen prompts for a snapshot file and applies it.
type ImportScreen struct {
	ctx   context.Context
	store *topics.Store
	input components.TextInput
	err   string
}

var _ screen.Screen = (*ImportScreen)(nil)
var _ screen.KeyHintProvider = (*ImportScreen)(nil)

func newImportScreen(ctx context.Context, store *topics.Store) *ImportScreen {
	return &ImportScreen{
		ctx:   ctx,
		store: store,
		input: components.NewTextInput("path/to/kpv-progress.json", 512),
	}
}

func (s *ImportScreen) Init() tea.Cmd { return s.input.Init() }
func (s *ImportScreen) Title() string { return "Import Progress" }

func (s *ImportScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Import"},
		{Key: "Esc", Description: "Cancel"},
	}
}

func (s *ImportScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter":
			return s, s.submit()
		case "esc":
			return s, popCmd
		}
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ImportScreen) submit() tea.Cmd {
	path := expandHome(s.input.Value())
	if path == "" {
		s.fail("enter a file path")
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.fail(err.Error())
		return nil
	}

	res, err := s.store.Import(s.ctx, data)
	if err != nil {
		var pe *progress.ParseError
		if errors.As(err, &pe) {
			s.fail(pe.Error())
			return nil
		}
		s.fail(err.Error())
		return nil
	}

	result := newImportResultScreen(filepath.Base(path), res)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: result} }
}

func (s *ImportScreen) fail(msg string) {
	s.err = msg
	s.input.Submit(false)
}

func (s *ImportScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Heading.Render("  Snapshot file"))
	b.WriteString("\n\n  ")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")
	if s.err != "" {
		b.WriteString(theme.StatusErr.Render("  " + s.err))
		b.WriteString("\n")
	} else {
		b.WriteString(theme.Hint.Render("  Topics missing from the file keep their progress."))
		b.WriteString("\n")
	}
	return b.String()
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
