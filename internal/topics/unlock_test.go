package topics

import (
	"testing"
)

func flagsByID(ts []Topic) map[string]bool {
	out := make(map[string]bool, len(ts))
	for _, t := range ts {
		out[t.ID] = t.Interactable
	}
	return out
}

func TestRecompute_RootAlwaysInteractable(t *testing.T) {
	in := []Topic{
		{ID: "root", Progress: 0},
		{ID: "other", Progress: 0, Prerequisites: []string{"root"}},
	}
	for _, p := range []int{0, 25, 50, 75, 100} {
		in[1].Progress = p
		got := flagsByID(Recompute(in))
		if !got["root"] {
			t.Errorf("root not interactable when other=%d", p)
		}
	}
}

func TestRecompute_Threshold(t *testing.T) {
	tests := []struct {
		progress int
		want     bool
	}{
		{0, false},
		{50, false},
		{74, false},
		{75, true},
		{76, true},
		{100, true},
	}
	for _, tt := range tests {
		in := []Topic{
			{ID: "a", Progress: tt.progress},
			{ID: "b", Prerequisites: []string{"a"}},
		}
		got := flagsByID(Recompute(in))
		if got["b"] != tt.want {
			t.Errorf("a=%d: interactable(b) = %v, want %v", tt.progress, got["b"], tt.want)
		}
	}
}

func TestRecompute_AllPrerequisitesRequired(t *testing.T) {
	in := []Topic{
		{ID: "a", Progress: 100},
		{ID: "b", Progress: 50},
		{ID: "c", Prerequisites: []string{"a", "b"}},
	}
	if flagsByID(Recompute(in))["c"] {
		t.Error("c should be locked while b=50")
	}
	in[1].Progress = 75
	if !flagsByID(Recompute(in))["c"] {
		t.Error("c should be interactable once b=75")
	}
}

func TestRecompute_DanglingPrerequisiteUnsatisfied(t *testing.T) {
	in := []Topic{
		{ID: "a", Progress: 100},
		{ID: "b", Prerequisites: []string{"a", "ghost"}},
	}
	if flagsByID(Recompute(in))["b"] {
		t.Error("a missing prerequisite must keep the topic locked")
	}
}

func TestRecompute_NoTransitiveClosure(t *testing.T) {
	// b is locked (a=0), but b itself is at 100, so c unlocks: only raw
	// progress counts, never another topic's flag.
	in := []Topic{
		{ID: "a", Progress: 0},
		{ID: "b", Progress: 100, Prerequisites: []string{"a"}},
		{ID: "c", Prerequisites: []string{"b"}},
	}
	got := flagsByID(Recompute(in))
	if got["b"] {
		t.Error("b should be locked")
	}
	if !got["c"] {
		t.Error("c should be interactable from b's raw progress")
	}
}

func TestRecompute_IdempotentAndOrderIndependent(t *testing.T) {
	in := []Topic{
		{ID: "a", Progress: 75},
		{ID: "b", Progress: 25, Prerequisites: []string{"a"}},
		{ID: "c", Progress: 0, Prerequisites: []string{"a", "b"}},
		{ID: "d", Progress: 100, Prerequisites: []string{"c"}},
	}
	first := flagsByID(Recompute(in))
	second := flagsByID(Recompute(Recompute(in)))

	reversed := make([]Topic, len(in))
	for i := range in {
		reversed[len(in)-1-i] = in[i]
	}
	third := flagsByID(Recompute(reversed))

	for id, want := range first {
		if second[id] != want {
			t.Errorf("second pass: %s = %v, want %v", id, second[id], want)
		}
		if third[id] != want {
			t.Errorf("reversed order: %s = %v, want %v", id, third[id], want)
		}
	}
}

func TestRecompute_DoesNotMutateInput(t *testing.T) {
	in := []Topic{{ID: "a", Prerequisites: []string{"x"}}}
	out := Recompute(in)
	out[0].Prerequisites[0] = "changed"
	if in[0].Prerequisites[0] != "x" {
		t.Error("Recompute must copy prerequisite slices")
	}
	if in[0].Interactable {
		t.Error("Recompute must not set flags on its input")
	}
}
