package topics

import "fmt"

// Filter selects which topics a presentation layer shows.
type Filter string

const (
	FilterAll           Filter = "all"
	FilterHideCompleted Filter = "hide-completed"
	FilterOnlyCompleted Filter = "only-completed"
	FilterInteractable  Filter = "interactable"
)

// AllFilters returns the filters in cycling order.
func AllFilters() []Filter {
	return []Filter{FilterAll, FilterHideCompleted, FilterOnlyCompleted, FilterInteractable}
}

// ParseFilter accepts a filter name; empty means FilterAll.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return FilterAll, nil
	}
	for _, f := range AllFilters() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown filter %q", s)
}

// Next returns the filter after f in cycling order.
func (f Filter) Next() Filter {
	all := AllFilters()
	for i, x := range all {
		if x == f {
			return all[(i+1)%len(all)]
		}
	}
	return FilterAll
}

// Label is a short display name.
func (f Filter) Label() string {
	switch f {
	case FilterHideCompleted:
		return "Hide completed"
	case FilterOnlyCompleted:
		return "Completed only"
	case FilterInteractable:
		return "Unlocked only"
	default:
		return "All topics"
	}
}

// Match reports whether t passes the filter.
func (f Filter) Match(t Topic) bool {
	switch f {
	case FilterHideCompleted:
		return !t.Completed()
	case FilterOnlyCompleted:
		return t.Completed()
	case FilterInteractable:
		return t.Interactable
	default:
		return true
	}
}
