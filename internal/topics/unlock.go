package topics

// IsInteractable reports whether every prerequisite of t resolves in
// progress to a value at or above UnlockThreshold. A prerequisite missing
// from progress is unsatisfied. Topics without prerequisites are always
// interactable.
func IsInteractable(t Topic, progress map[string]int) bool {
	for _, id := range t.Prerequisites {
		p, ok := progress[id]
		if !ok || p < UnlockThreshold {
			return false
		}
	}
	return true
}

// Recompute returns a copy of topics with every Interactable flag derived
// from raw progress values. Flags of other topics are never consulted, so
// the result does not depend on iteration order and repeated calls agree.
func Recompute(topics []Topic) []Topic {
	progress := make(map[string]int, len(topics))
	for _, t := range topics {
		progress[t.ID] = t.Progress
	}

	out := make([]Topic, len(topics))
	for i, t := range topics {
		t = t.clone()
		t.Interactable = IsInteractable(t, progress)
		out[i] = t
	}
	return out
}
