package topics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/kpv/internal/progress"
)

// recordingPersister keeps saved values and can be switched to fail.
type recordingPersister struct {
	stored map[string]int
	saves  []string
	err    error
}

func newRecordingPersister(initial map[string]int) *recordingPersister {
	if initial == nil {
		initial = map[string]int{}
	}
	return &recordingPersister{stored: initial}
}

func (r *recordingPersister) Load(context.Context) map[string]int {
	out := make(map[string]int, len(r.stored))
	for k, v := range r.stored {
		out[k] = v
	}
	return out
}

func (r *recordingPersister) Save(_ context.Context, id string, v int) error {
	r.saves = append(r.saves, id)
	if r.err != nil {
		return &progress.StorageUnavailableError{Op: "save", Key: id, Err: r.err}
	}
	r.stored[id] = v
	return nil
}

func abcDefs() []Topic {
	return []Topic{
		{ID: "A", Title: "Alpha"},
		{ID: "B", Title: "Beta", Prerequisites: []string{"A"}},
		{ID: "C", Title: "Gamma", Prerequisites: []string{"A", "B"}},
	}
}

func newTestStore(t *testing.T, defs []Topic, p Persister) *Store {
	t.Helper()
	s, err := NewStore(context.Background(), defs, p, nil)
	require.NoError(t, err)
	return s
}

func mustGet(t *testing.T, s *Store, id string) Topic {
	t.Helper()
	tp, ok := s.Get(id)
	require.True(t, ok, "topic %q", id)
	return tp
}

func TestNewStore_DuplicateID(t *testing.T) {
	_, err := NewStore(context.Background(), []Topic{{ID: "A"}, {ID: "A"}}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNewStore_EmptyID(t *testing.T) {
	_, err := NewStore(context.Background(), []Topic{{ID: ""}}, nil, nil)
	require.Error(t, err)
}

func TestNewStore_LoadOverridesDefaults(t *testing.T) {
	defs := abcDefs()
	defs[0].Progress = 25
	p := newRecordingPersister(map[string]int{"A": 75, "ghost": 100, "B": 500})
	s := newTestStore(t, defs, p)

	assert.Equal(t, 75, mustGet(t, s, "A").Progress)
	assert.Equal(t, 100, mustGet(t, s, "B").Progress, "loaded values are clamped")
	assert.True(t, mustGet(t, s, "B").Interactable, "flags are computed after load")
	assert.True(t, mustGet(t, s, "C").Interactable)
	_, ok := s.Get("ghost")
	assert.False(t, ok)
	assert.Empty(t, p.saves, "loading must not write back")
}

func TestStore_GetUnknown(t *testing.T) {
	s := newTestStore(t, abcDefs(), nil)
	_, ok := s.Get("nope")
	assert.False(t, ok)

	_, err := s.Lookup("nope")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "nope", nf.ID)
}

func TestStore_AllKeepsDefinitionOrder(t *testing.T) {
	s := newTestStore(t, abcDefs(), nil)
	var ids []string
	for _, tp := range s.All() {
		ids = append(ids, tp.ID)
	}
	assert.Equal(t, []string{"A", "B", "C"}, ids)
}

func TestStore_AllReturnsCopies(t *testing.T) {
	s := newTestStore(t, abcDefs(), nil)
	all := s.All()
	all[1].Prerequisites[0] = "mutated"
	all[0].Progress = 100
	assert.Equal(t, []string{"A"}, mustGet(t, s, "B").Prerequisites)
	assert.Equal(t, 0, mustGet(t, s, "A").Progress)
}

func TestStore_ScenarioSinglePrerequisite(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, abcDefs(), newRecordingPersister(nil))

	assert.False(t, mustGet(t, s, "B").Interactable)

	ch, err := s.SetProgress(ctx, "A", 75)
	require.NoError(t, err)
	assert.True(t, mustGet(t, s, "B").Interactable)
	assert.Equal(t, []string{"B"}, ch.Unlocked)
	assert.Empty(t, ch.Locked)

	ch, err = s.SetProgress(ctx, "A", 50)
	require.NoError(t, err)
	assert.False(t, mustGet(t, s, "B").Interactable)
	assert.Equal(t, []string{"B"}, ch.Locked)
}

func TestStore_ScenarioTwoPrerequisites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, abcDefs(), nil)

	_, err := s.SetProgress(ctx, "A", 100)
	require.NoError(t, err)
	_, err = s.SetProgress(ctx, "B", 50)
	require.NoError(t, err)
	assert.False(t, mustGet(t, s, "C").Interactable)

	ch, err := s.SetProgress(ctx, "B", 75)
	require.NoError(t, err)
	assert.True(t, mustGet(t, s, "C").Interactable)
	assert.Equal(t, []string{"C"}, ch.Unlocked)
}

func TestStore_FlipOnlyAffectsDependents(t *testing.T) {
	ctx := context.Background()
	defs := []Topic{
		{ID: "A", Progress: 100},
		{ID: "B", Progress: 100},
		{ID: "X", Prerequisites: []string{"A"}},
		{ID: "Y", Prerequisites: []string{"B"}},
	}
	s := newTestStore(t, defs, nil)

	ch, err := s.SetProgress(ctx, "A", 74)
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, ch.Locked)
	assert.Empty(t, ch.Unlocked)
	assert.True(t, mustGet(t, s, "Y").Interactable)
	assert.True(t, mustGet(t, s, "A").Interactable)
	assert.True(t, mustGet(t, s, "B").Interactable)
}

func TestStore_SetProgressClampsAndPersists(t *testing.T) {
	ctx := context.Background()
	p := newRecordingPersister(nil)
	s := newTestStore(t, abcDefs(), p)

	ch, err := s.SetProgress(ctx, "A", 150)
	require.NoError(t, err)
	assert.Equal(t, 100, ch.Topic.Progress)
	assert.Equal(t, 100, p.stored["A"])

	ch, err = s.SetProgress(ctx, "A", -10)
	require.NoError(t, err)
	assert.Equal(t, 0, ch.Topic.Progress)
	assert.Equal(t, 0, p.stored["A"])
}

func TestStore_SetProgressOnLockedTopic(t *testing.T) {
	s := newTestStore(t, abcDefs(), nil)
	ch, err := s.SetProgress(context.Background(), "C", 50)
	require.NoError(t, err)
	assert.Equal(t, 50, ch.Topic.Progress)
	assert.False(t, ch.Topic.Interactable)
}

func TestStore_SetProgressUnknown(t *testing.T) {
	p := newRecordingPersister(nil)
	s := newTestStore(t, abcDefs(), p)
	_, err := s.SetProgress(context.Background(), "ghost", 50)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Empty(t, p.saves)
}

func TestStore_StorageFailureIsWarning(t *testing.T) {
	p := newRecordingPersister(nil)
	p.err = errors.New("disk full")
	s := newTestStore(t, abcDefs(), p)

	ch, err := s.SetProgress(context.Background(), "A", 75)
	require.NoError(t, err)
	require.Error(t, ch.Warning)
	var su *progress.StorageUnavailableError
	assert.True(t, errors.As(ch.Warning, &su))
	assert.Equal(t, 75, mustGet(t, s, "A").Progress, "value applies in memory")
	assert.True(t, mustGet(t, s, "B").Interactable)
}

func TestStore_ExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, abcDefs(), nil)
	_, _ = s.SetProgress(ctx, "A", 75)
	_, _ = s.SetProgress(ctx, "B", 25)
	_, _ = s.SetProgress(ctx, "C", 100)

	snap, err := s.Export()
	require.NoError(t, err)

	other := newTestStore(t, abcDefs(), nil)
	res, err := other.Import(ctx, snap)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Applied)

	for _, want := range s.All() {
		got := mustGet(t, other, want.ID)
		assert.Equal(t, want.Progress, got.Progress, want.ID)
		assert.Equal(t, want.Interactable, got.Interactable, want.ID)
	}
}

func TestStore_ImportUnknownIDIsIgnored(t *testing.T) {
	ctx := context.Background()
	p := newRecordingPersister(nil)
	s := newTestStore(t, abcDefs(), p)
	_, _ = s.SetProgress(ctx, "A", 50)
	before := s.All()
	p.saves = nil

	res, err := s.Import(ctx, []byte(`[{"id":"nonexistent","progress":50}]`))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Applied)
	assert.Equal(t, before, s.All())
	assert.Empty(t, p.saves)
}

func TestStore_ImportPartialLeavesOthersUntouched(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, abcDefs(), nil)
	_, _ = s.SetProgress(ctx, "B", 25)

	res, err := s.Import(ctx, []byte(`[{"id":"A","progress":150}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, []string{"B"}, res.Unlocked)
	assert.Equal(t, 100, mustGet(t, s, "A").Progress)
	assert.Equal(t, 25, mustGet(t, s, "B").Progress)
}

func TestStore_ImportParseErrorNoMutation(t *testing.T) {
	ctx := context.Background()
	p := newRecordingPersister(nil)
	s := newTestStore(t, abcDefs(), p)
	_, _ = s.SetProgress(ctx, "A", 75)
	before := s.All()
	p.saves = nil

	for _, input := range []string{`{"id":"A"}`, `[{"progress":0}]`, `nope`} {
		_, err := s.Import(ctx, []byte(input))
		var pe *progress.ParseError
		require.True(t, errors.As(err, &pe), "input %s", input)
	}
	assert.Equal(t, before, s.All())
	assert.Empty(t, p.saves)
}

func TestStore_ImportPersistsInDefinitionOrder(t *testing.T) {
	p := newRecordingPersister(nil)
	s := newTestStore(t, abcDefs(), p)

	_, err := s.Import(context.Background(), []byte(`[{"id":"C","progress":0},{"id":"A","progress":100}]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, p.saves)
}

func TestStore_EdgesAndNeighbours(t *testing.T) {
	defs := append(abcDefs(), Topic{ID: "D", Prerequisites: []string{"ghost"}})
	s := newTestStore(t, defs, nil)

	assert.Equal(t, []Edge{
		{From: "A", To: "B"},
		{From: "A", To: "C"},
		{From: "B", To: "C"},
		{From: "ghost", To: "D", Dangling: true},
	}, s.Edges())

	var deps []string
	for _, d := range s.Dependents("A") {
		deps = append(deps, d.ID)
	}
	assert.Equal(t, []string{"B", "C"}, deps)

	var pre []string
	for _, p := range s.Prerequisites("D") {
		pre = append(pre, p.ID)
	}
	assert.Empty(t, pre, "dangling prerequisites do not resolve")
}

func TestStore_FilterAndStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, abcDefs(), nil)
	_, _ = s.SetProgress(ctx, "A", 100)

	ids := func(ts []Topic) []string {
		var out []string
		for _, t := range ts {
			out = append(out, t.ID)
		}
		return out
	}
	assert.Equal(t, []string{"A", "B", "C"}, ids(s.Filter(FilterAll)))
	assert.Equal(t, []string{"B", "C"}, ids(s.Filter(FilterHideCompleted)))
	assert.Equal(t, []string{"A"}, ids(s.Filter(FilterOnlyCompleted)))
	assert.Equal(t, []string{"A", "B"}, ids(s.Filter(FilterInteractable)))

	assert.Equal(t, Stats{Total: 3, Completed: 1, Interactable: 2, Locked: 1}, s.Stats())
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	f, err = ParseFilter("hide-completed")
	require.NoError(t, err)
	assert.Equal(t, FilterHideCompleted, f)

	_, err = ParseFilter("bogus")
	assert.Error(t, err)

	assert.Equal(t, FilterHideCompleted, FilterAll.Next())
	assert.Equal(t, FilterAll, FilterInteractable.Next())
}
