package topics

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/kpv/internal/logger"
	"github.com/abhisek/kpv/internal/progress"
)

// Persister is the durable side of the store. *progress.Adapter implements it.
type Persister interface {
	// Load returns previously stored values; failures degrade to an empty map.
	Load(ctx context.Context) map[string]int

	// Save writes one value. A returned error is a non-fatal warning.
	Save(ctx context.Context, id string, progress int) error
}

// Store holds the canonical topic set. The set of topics is fixed at
// construction; only progress changes afterwards. Every mutation persists
// and recomputes all interactable flags before it returns.
type Store struct {
	mu         sync.RWMutex
	topics     []Topic
	byID       map[string]int
	dependents map[string][]string
	edges      []Edge
	persist    Persister
	log        *logger.Logger
}

// NewStore builds a store from curriculum definitions. Persisted progress
// overrides the definitions' defaults; persisted ids that are not part of
// the curriculum are ignored. A nil persister keeps progress in memory only.
func NewStore(ctx context.Context, defs []Topic, p Persister, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	s := &Store{
		topics:     make([]Topic, len(defs)),
		byID:       make(map[string]int, len(defs)),
		dependents: make(map[string][]string),
		persist:    p,
		log:        log.With("component", "topics"),
	}

	for i, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("topic at position %d has an empty id", i)
		}
		if _, dup := s.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate topic id: %q", d.ID)
		}
		d = d.clone()
		d.Progress = progress.Clamp(d.Progress)
		s.topics[i] = d
		s.byID[d.ID] = i
	}

	for _, t := range s.topics {
		for _, pre := range t.Prerequisites {
			_, ok := s.byID[pre]
			s.edges = append(s.edges, Edge{From: pre, To: t.ID, Dangling: !ok})
			s.dependents[pre] = append(s.dependents[pre], t.ID)
		}
	}

	if p != nil {
		loaded := 0
		for id, v := range p.Load(ctx) {
			idx, ok := s.byID[id]
			if !ok {
				continue
			}
			s.topics[idx].Progress = progress.Clamp(v)
			loaded++
		}
		s.log.Debug("loaded persisted progress", "topics", loaded)
	}

	s.topics = Recompute(s.topics)
	return s, nil
}

// Get returns the topic with id. The boolean is false for unknown ids.
func (s *Store) Get(id string) (Topic, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[id]
	if !ok {
		return Topic{}, false
	}
	return s.topics[idx].clone(), true
}

// Lookup is Get with a *NotFoundError for unknown ids.
func (s *Store) Lookup(id string) (Topic, error) {
	t, ok := s.Get(id)
	if !ok {
		return Topic{}, &NotFoundError{ID: id}
	}
	return t, nil
}

// Has reports whether id belongs to the topic set.
func (s *Store) Has(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// All returns every topic in definition order.
func (s *Store) All() []Topic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Topic, len(s.topics))
	for i, t := range s.topics {
		out[i] = t.clone()
	}
	return out
}

// Filter returns the topics that pass f, in definition order.
func (s *Store) Filter(f Filter) []Topic {
	var out []Topic
	for _, t := range s.All() {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Edges returns one edge per (prerequisite, topic) pair in definition order.
func (s *Store) Edges() []Edge {
	out := make([]Edge, len(s.edges))
	copy(out, s.edges)
	return out
}

// Prerequisites returns the resolvable prerequisites of id.
func (s *Store) Prerequisites(id string) []Topic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[id]
	if !ok {
		return nil
	}
	var out []Topic
	for _, pre := range s.topics[idx].Prerequisites {
		if j, ok := s.byID[pre]; ok {
			out = append(out, s.topics[j].clone())
		}
	}
	return out
}

// Dependents returns topics that list id as a prerequisite.
func (s *Store) Dependents(id string) []Topic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Topic
	for _, dep := range s.dependents[id] {
		out = append(out, s.topics[s.byID[dep]].clone())
	}
	return out
}

// Stats counts topics by state.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{Total: len(s.topics)}
	for _, t := range s.topics {
		if t.Completed() {
			st.Completed++
		}
		if t.Interactable {
			st.Interactable++
		} else {
			st.Locked++
		}
	}
	return st
}

// SetProgress clamps value to [0, 100], stores it, persists it and
// recomputes every interactable flag. Locked topics are not refused; the
// lock is a presentation affordance. A persistence failure is returned as
// Change.Warning, not as an error.
func (s *Store) SetProgress(ctx context.Context, id string, value int) (Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[id]
	if !ok {
		return Change{}, &NotFoundError{ID: id}
	}

	before := s.flags()
	value = progress.Clamp(value)
	s.topics[idx].Progress = value

	var warning error
	if s.persist != nil {
		warning = s.persist.Save(ctx, id, value)
	}

	s.topics = Recompute(s.topics)
	unlocked, locked := s.diff(before)

	s.log.Debug("progress updated", "topic", id, "progress", value,
		"unlocked", len(unlocked), "locked", len(locked))

	return Change{
		Topic:    s.topics[idx].clone(),
		Unlocked: unlocked,
		Locked:   locked,
		Warning:  warning,
	}, nil
}

// Export serializes every topic's progress in definition order.
func (s *Store) Export() ([]byte, error) {
	s.mu.RLock()
	entries := make([]progress.Entry, len(s.topics))
	for i, t := range s.topics {
		entries[i] = progress.Entry{ID: t.ID, Progress: t.Progress}
	}
	s.mu.RUnlock()
	return progress.ExportSnapshot(entries)
}

// Import applies a snapshot. On a *progress.ParseError nothing changes.
// Entries for unknown topics are ignored and topics absent from the
// snapshot keep their progress.
func (s *Store) Import(ctx context.Context, data []byte) (ImportResult, error) {
	values, err := progress.ImportSnapshot(data, s.Has)
	if err != nil {
		return ImportResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.flags()
	var warnings []error
	applied := 0
	// Definition order keeps persistence writes deterministic.
	for idx, t := range s.topics {
		v, ok := values[t.ID]
		if !ok {
			continue
		}
		s.topics[idx].Progress = v
		applied++
		if s.persist != nil {
			if err := s.persist.Save(ctx, t.ID, v); err != nil {
				warnings = append(warnings, err)
			}
		}
	}

	s.topics = Recompute(s.topics)
	unlocked, locked := s.diff(before)

	s.log.Info("snapshot imported", "applied", applied, "unlocked", len(unlocked), "locked", len(locked))

	return ImportResult{
		Applied:  applied,
		Unlocked: unlocked,
		Locked:   locked,
		Warning:  errors.Join(warnings...),
	}, nil
}

// flags captures the current interactable flags. Callers hold s.mu.
func (s *Store) flags() []bool {
	out := make([]bool, len(s.topics))
	for i, t := range s.topics {
		out[i] = t.Interactable
	}
	return out
}

// diff lists topics whose flag changed since before. Callers hold s.mu.
func (s *Store) diff(before []bool) (unlocked, locked []string) {
	for i, t := range s.topics {
		switch {
		case t.Interactable && !before[i]:
			unlocked = append(unlocked, t.ID)
		case !t.Interactable && before[i]:
			locked = append(locked, t.ID)
		}
	}
	return unlocked, locked
}
