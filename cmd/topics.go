package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/abhisek/kpv/internal/topics"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Browse the topic graph",
}

var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List topics with progress and lock state",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("filter")
		f, err := topics.ParseFilter(name)
		if err != nil {
			return err
		}

		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		printTopicTable(cmd.OutOrStdout(), d.store.Filter(f))
		st := d.store.Stats()
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d topics, %d completed, %d unlocked, %d locked\n",
			st.Total, st.Completed, st.Interactable, st.Locked)
		return nil
	},
}

var topicsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one topic with its prerequisites and dependents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		t, err := d.store.Lookup(args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s (%s)\n", t.Title, t.ID)
		if t.Description != "" {
			fmt.Fprintf(w, "%s\n", t.Description)
		}
		fmt.Fprintf(w, "\nProgress:  %d%%\n", t.Progress)
		fmt.Fprintf(w, "State:     %s\n", stateLabel(t))

		if len(t.Prerequisites) > 0 {
			fmt.Fprintln(w, "\nPrerequisites:")
			for _, id := range t.Prerequisites {
				p, err := d.store.Lookup(id)
				var nf *topics.NotFoundError
				if errors.As(err, &nf) {
					fmt.Fprintf(w, "  ✗ %-24s missing from curriculum\n", id)
					continue
				}
				mark := "○"
				if p.Progress >= topics.UnlockThreshold {
					mark = "●"
				}
				fmt.Fprintf(w, "  %s %-24s %3d%%\n", mark, p.ID, p.Progress)
			}
		}

		if deps := d.store.Dependents(t.ID); len(deps) > 0 {
			fmt.Fprintln(w, "\nUnlocks:")
			for _, dep := range deps {
				fmt.Fprintf(w, "  → %s\n", dep.ID)
			}
		}
		return nil
	},
}

func init() {
	var names []string
	for _, f := range topics.AllFilters() {
		names = append(names, string(f))
	}
	topicsListCmd.Flags().String("filter", "", "Filter: "+strings.Join(names, ", "))

	topicsCmd.AddCommand(topicsListCmd)
	topicsCmd.AddCommand(topicsShowCmd)
}

func stateLabel(t topics.Topic) string {
	switch {
	case !t.Interactable:
		return "locked"
	case t.Completed():
		return "completed"
	default:
		return "unlocked"
	}
}

func printTopicTable(w io.Writer, ts []topics.Topic) {
	fmt.Fprintf(w, "%-24s  %-36s  %8s  %-9s  %s\n", "ID", "Title", "Progress", "State", "Requires")
	fmt.Fprintln(w, strings.Repeat("─", 100))
	for _, t := range ts {
		fmt.Fprintf(w, "%-24s  %s  %7d%%  %-9s  %s\n",
			t.ID, padCell(t.Title, 36), t.Progress, stateLabel(t), strings.Join(t.Prerequisites, ", "))
	}
}

// padCell fits s into width terminal cells.
func padCell(s string, width int) string {
	s = ansi.Truncate(s, width, "...")
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
