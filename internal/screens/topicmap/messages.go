package topicmap

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/kpv/internal/router"
)

// StatusMsg sets the one-line status shown under the topic map.
type StatusMsg struct {
	Text string
	Err  bool
}

func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text, Err: isErr} }
}

func popCmd() tea.Msg { return router.PopScreenMsg{} }

// popWithStatus returns to the previous screen and then reports text there.
func popWithStatus(text string, isErr bool) tea.Cmd {
	return tea.Sequence(popCmd, statusCmd(text, isErr))
}

func changeSummary(unlocked, locked []string) string {
	var parts []string
	if len(unlocked) > 0 {
		parts = append(parts, "unlocked "+strings.Join(unlocked, ", "))
	}
	if len(locked) > 0 {
		parts = append(parts, "locked "+strings.Join(locked, ", "))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf(" (%s)", strings.Join(parts, "; "))
}
