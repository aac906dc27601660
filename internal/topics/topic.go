package topics

import (
	"fmt"
	"slices"
)

// UnlockThreshold is the progress every prerequisite must reach before a
// dependent topic becomes interactable.
const UnlockThreshold = 75

// ProgressSteps are the values offered by the presentation layers. The
// store accepts any integer and clamps it.
var ProgressSteps = []int{0, 25, 50, 75, 100}

// Topic is a single node of the curriculum graph.
type Topic struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Prerequisites []string `json:"prerequisites"`
	Progress      int      `json:"progress"`

	// Interactable is derived from prerequisite progress and never persisted.
	Interactable bool `json:"interactable"`
}

// Completed reports whether the topic is at 100%.
func (t Topic) Completed() bool {
	return t.Progress >= 100
}

func (t Topic) clone() Topic {
	t.Prerequisites = slices.Clone(t.Prerequisites)
	return t
}

// Edge links a prerequisite to the topic that depends on it.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`

	// Dangling marks an edge whose prerequisite is not in the topic set.
	Dangling bool `json:"dangling,omitempty"`
}

// Change describes the outcome of a progress mutation.
type Change struct {
	Topic Topic `json:"topic"`

	// Unlocked and Locked list topics whose interactable flag flipped.
	Unlocked []string `json:"unlocked,omitempty"`
	Locked   []string `json:"locked,omitempty"`

	// Warning is set when the value could not be persisted. The in-memory
	// state has still been updated.
	Warning error `json:"-"`
}

// ImportResult summarizes an applied snapshot.
type ImportResult struct {
	Applied  int      `json:"applied"`
	Unlocked []string `json:"unlocked,omitempty"`
	Locked   []string `json:"locked,omitempty"`
	Warning  error    `json:"-"`
}

// Stats counts topics by state.
type Stats struct {
	Total        int `json:"total"`
	Completed    int `json:"completed"`
	Interactable int `json:"interactable"`
	Locked       int `json:"locked"`
}

// NotFoundError reports a lookup of an unknown topic id. Callers treat it as
// an unsatisfied condition.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("topic not found: %q", e.ID)
}
