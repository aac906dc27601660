package curriculum

import (
	"fmt"
	"strings"
)

// Report lists structural problems found in a curriculum. Errors make the
// curriculum unusable; warnings describe topics that can never unlock.
type Report struct {
	Errors   []string
	Warnings []string
}

// OK reports whether there are no errors. With strict set, warnings count too.
func (r Report) OK(strict bool) bool {
	if strict {
		return len(r.Errors) == 0 && len(r.Warnings) == 0
	}
	return len(r.Errors) == 0
}

// Err combines the report into an error, or nil when OK(strict).
func (r Report) Err(strict bool) error {
	if r.OK(strict) {
		return nil
	}
	problems := append([]string(nil), r.Errors...)
	if strict {
		problems = append(problems, r.Warnings...)
	}
	return fmt.Errorf("curriculum validation failed:\n  %s", strings.Join(problems, "\n  "))
}

// Validate checks ids, prerequisite references and cycles.
//
// Dangling prerequisites are warnings, not errors: at runtime they behave as
// a prerequisite that is never satisfied.
func Validate(defs []Definition) Report {
	var r Report

	idSet := make(map[string]bool, len(defs))
	for i, d := range defs {
		if strings.TrimSpace(d.ID) == "" {
			r.Errors = append(r.Errors, fmt.Sprintf("topic at position %d has an empty id", i))
			continue
		}
		if idSet[d.ID] {
			r.Errors = append(r.Errors, fmt.Sprintf("duplicate topic id: %q", d.ID))
		}
		idSet[d.ID] = true
		if d.Progress < 0 || d.Progress > 100 {
			r.Warnings = append(r.Warnings, fmt.Sprintf("topic %q default progress %d will be clamped to [0, 100]", d.ID, d.Progress))
		}
	}

	for _, d := range defs {
		for _, pre := range d.Prerequisites {
			switch {
			case pre == d.ID:
				r.Warnings = append(r.Warnings, fmt.Sprintf("topic %q lists itself as a prerequisite", d.ID))
			case !idSet[pre]:
				r.Warnings = append(r.Warnings, fmt.Sprintf("topic %q references nonexistent prerequisite %q", d.ID, pre))
			}
		}
	}

	// Cycle detection with Kahn's algorithm over resolvable edges.
	inDegree := make(map[string]int, len(defs))
	adj := make(map[string][]string)
	for _, d := range defs {
		if _, seen := inDegree[d.ID]; !seen {
			inDegree[d.ID] = 0
		}
		for _, pre := range d.Prerequisites {
			if !idSet[pre] || pre == d.ID {
				continue
			}
			inDegree[d.ID]++
			adj[pre] = append(adj[pre], d.ID)
		}
	}

	var queue []string
	for _, d := range defs {
		if inDegree[d.ID] == 0 {
			queue = append(queue, d.ID)
		}
	}
	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, dep := range adj[id] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}
	if visited < len(inDegree) {
		var cycle []string
		for _, d := range defs {
			if inDegree[d.ID] > 0 {
				cycle = append(cycle, d.ID)
			}
		}
		r.Warnings = append(r.Warnings, fmt.Sprintf("cycle detected involving topics: %s", strings.Join(cycle, ", ")))
	}

	hasRoot := false
	for _, d := range defs {
		if len(d.Prerequisites) == 0 {
			hasRoot = true
			break
		}
	}
	if !hasRoot && len(defs) > 0 {
		r.Warnings = append(r.Warnings, "no root topics found (at least one topic should have no prerequisites)")
	}

	return r
}
