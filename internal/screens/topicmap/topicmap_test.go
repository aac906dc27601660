package topicmap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/kpv/internal/router"
	"github.com/abhisek/kpv/internal/screen"
	"github.com/abhisek/kpv/internal/topics"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func newTestStore(t *testing.T) *topics.Store {
	t.Helper()
	defs := []topics.Topic{
		{ID: "a", Title: "Alpha"},
		{ID: "b", Title: "Beta", Prerequisites: []string{"a"}},
		{ID: "c", Title: "Gamma", Prerequisites: []string{"b", "ghost"}},
	}
	st, err := topics.NewStore(context.Background(), defs, nil, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return st
}

func newTestMap(t *testing.T) (*TopicMapScreen, *topics.Store) {
	st := newTestStore(t)
	m := New(context.Background(), st, t.TempDir())
	m.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }
	return m, st
}

func TestSelectLockedTopicIsRejected(t *testing.T) {
	m, _ := newTestMap(t)

	m.Update(specialKey(tea.KeyDown))
	_, cmd := m.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Fatal("expected no navigation for a locked topic")
	}
	if !m.statusErr || !strings.Contains(m.status, "Beta is locked") || !strings.Contains(m.status, "needs a") {
		t.Errorf("unexpected status %q", m.status)
	}
}

func TestLockedStatusNamesMissingPrerequisite(t *testing.T) {
	m, st := newTestMap(t)
	if _, err := st.SetProgress(context.Background(), "b", 100); err != nil {
		t.Fatal(err)
	}

	m.Update(specialKey(tea.KeyDown))
	m.Update(specialKey(tea.KeyDown))
	m.Update(specialKey(tea.KeyEnter))
	if !strings.Contains(m.status, "ghost (missing)") {
		t.Errorf("expected dangling prerequisite in status, got %q", m.status)
	}
	if strings.Contains(m.status, "needs b") {
		t.Errorf("satisfied prerequisite listed: %q", m.status)
	}
}

func TestSelectInteractableTopicPushesDetail(t *testing.T) {
	m, _ := newTestMap(t)

	_, cmd := m.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a navigation command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	d, ok := push.Screen.(*DetailScreen)
	if !ok {
		t.Fatalf("expected *DetailScreen, got %T", push.Screen)
	}
	if d.Title() != "Alpha" {
		t.Errorf("detail title = %q", d.Title())
	}
}

func TestDetailEnterAppliesProgress(t *testing.T) {
	st := newTestStore(t)
	a, _ := st.Get("a")
	d := newDetail(context.Background(), st, a)

	for i := 0; i < 3; i++ {
		d.Update(specialKey(tea.KeyRight))
	}
	_, cmd := d.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command after applying")
	}

	a, _ = st.Get("a")
	if a.Progress != 75 {
		t.Errorf("progress = %d, want 75", a.Progress)
	}
	b, _ := st.Get("b")
	if !b.Interactable {
		t.Error("expected b to unlock")
	}
}

func TestDetailEscAbandons(t *testing.T) {
	st := newTestStore(t)
	a, _ := st.Get("a")
	d := newDetail(context.Background(), st, a)

	d.Update(specialKey(tea.KeyRight))
	d.Update(specialKey(tea.KeyRight))
	_, cmd := d.Update(specialKey(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}

	a, _ = st.Get("a")
	if a.Progress != 0 {
		t.Errorf("progress changed to %d on cancel", a.Progress)
	}
}

func TestDetailViewShowsPrerequisites(t *testing.T) {
	st := newTestStore(t)
	c, _ := st.Get("c")
	view := newDetail(context.Background(), st, c).View(100, 40)

	for _, want := range []string{"Gamma", "Prerequisites", "Beta", "ghost (not in curriculum)", "Set progress"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q", want)
		}
	}
}

func TestFilterCycles(t *testing.T) {
	m, st := newTestMap(t)
	if _, err := st.SetProgress(context.Background(), "a", 100); err != nil {
		t.Fatal(err)
	}

	m.Update(keyPress('f'))
	if m.filter != topics.FilterHideCompleted {
		t.Fatalf("filter = %q", m.filter)
	}
	view := m.View(100, 30)
	if strings.Contains(view, "Alpha") {
		t.Error("completed topic shown under hide-completed")
	}

	m.Update(keyPress('f'))
	view = m.View(100, 30)
	if !strings.Contains(view, "Alpha") || strings.Contains(view, "Beta") {
		t.Error("only-completed filter shows wrong topics")
	}
}

func TestEdgeToggle(t *testing.T) {
	m, _ := newTestMap(t)
	if strings.Contains(m.View(120, 30), "← a") {
		t.Fatal("edges shown before toggle")
	}
	m.Update(keyPress('e'))
	view := m.View(120, 30)
	if !strings.Contains(view, "← a") || !strings.Contains(view, "← b, ghost") {
		t.Error("expected prerequisite ids after toggle")
	}
}

func TestExportWritesSnapshot(t *testing.T) {
	m, st := newTestMap(t)

	m.Update(keyPress('x'))
	if m.statusErr {
		t.Fatalf("export failed: %s", m.status)
	}

	path := filepath.Join(m.exportDir, "kpv-progress-2024-03-09T14-05-07-000Z.json")
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	want, _ := st.Export()
	if string(got) != string(want) {
		t.Errorf("export content mismatch:\n%s\nvs\n%s", got, want)
	}
}

func TestStatusMsgShown(t *testing.T) {
	m, _ := newTestMap(t)
	m.Update(StatusMsg{Text: "Alpha set to 50%"})
	if !strings.Contains(m.View(100, 30), "Alpha set to 50%") {
		t.Error("status not rendered")
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestMap(t)
	_, cmd := m.Update(keyPress('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}

func TestImportOpensPrompt(t *testing.T) {
	m, _ := newTestMap(t)
	_, cmd := m.Update(keyPress('i'))
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := push.Screen.(*ImportScreen); !ok {
		t.Fatalf("expected *ImportScreen, got %T", push.Screen)
	}
}

func TestImportScreenAppliesSnapshot(t *testing.T) {
	st := newTestStore(t)
	path := filepath.Join(t.TempDir(), "snap.json")
	if err := os.WriteFile(path, []byte(`[{"id":"a","progress":80},{"id":"zzz","progress":10}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	s := newImportScreen(context.Background(), st)
	s.input.SetValue(path)
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatalf("expected command after import, err=%q", s.err)
	}

	a, _ := st.Get("a")
	if a.Progress != 80 {
		t.Errorf("progress = %d, want 80", a.Progress)
	}
	b, _ := st.Get("b")
	if !b.Interactable {
		t.Error("expected b to unlock after import")
	}

	replace, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	result, ok := replace.Screen.(*ImportResultScreen)
	if !ok {
		t.Fatalf("expected *ImportResultScreen, got %T", replace.Screen)
	}
	view := result.View(80, 20)
	if !strings.Contains(view, "Applied 1 topics from snap.json") || !strings.Contains(view, "→ b") {
		t.Errorf("unexpected result view:\n%s", view)
	}
	if got := result.statusText(); got != "Imported 1 topics from snap.json (unlocked b)" {
		t.Errorf("statusText = %q", got)
	}
}

func TestImportFlowReplacesPromptWithResult(t *testing.T) {
	m, st := newTestMap(t)
	path := filepath.Join(t.TempDir(), "snap.json")
	if err := os.WriteFile(path, []byte(`[{"id":"a","progress":100}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	r := router.New(m)
	r.Update(router.PushScreenMsg{Screen: newImportScreen(context.Background(), st)})
	prompt := r.Active().(*ImportScreen)
	prompt.input.SetValue(path)

	cmd := r.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatalf("expected replace command, err=%q", prompt.err)
	}
	r.Update(cmd())
	if r.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", r.Depth())
	}
	if _, ok := r.Active().(*ImportResultScreen); !ok {
		t.Fatalf("active = %T, want *ImportResultScreen", r.Active())
	}

	if cmd := r.Update(specialKey(tea.KeyEnter)); cmd == nil {
		t.Fatal("expected dismiss command")
	}
	r.Update(router.PopScreenMsg{})
	if r.Active() != screen.Screen(m) {
		t.Errorf("active = %T, want the topic map", r.Active())
	}
}

func TestImportResultShowsStorageWarning(t *testing.T) {
	res := topics.ImportResult{Applied: 2, Warning: errors.New("redis down")}
	s := newImportResultScreen("snap.json", res)
	if !strings.Contains(s.View(80, 20), "Not saved: redis down") {
		t.Error("warning not rendered")
	}
	if !strings.Contains(s.statusText(), "not saved: redis down") {
		t.Errorf("statusText = %q", s.statusText())
	}
	if _, cmd := s.Update(specialKey(tea.KeyEscape)); cmd == nil {
		t.Error("expected esc to return to the map")
	}
}

func TestImportScreenParseError(t *testing.T) {
	st := newTestStore(t)
	before := st.All()
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"a":75}`), 0o644); err != nil {
		t.Fatal(err)
	}

	s := newImportScreen(context.Background(), st)
	s.input.SetValue(path)
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected to stay on the prompt")
	}
	if !strings.Contains(s.err, "invalid progress snapshot") {
		t.Errorf("err = %q", s.err)
	}
	if !strings.Contains(s.View(80, 20), "invalid progress snapshot") {
		t.Error("error not rendered")
	}

	after := st.All()
	for i := range before {
		if before[i].Progress != after[i].Progress {
			t.Errorf("topic %s changed on parse error", before[i].ID)
		}
	}
}

func TestImportScreenMissingFile(t *testing.T) {
	s := newImportScreen(context.Background(), newTestStore(t))
	s.input.SetValue(filepath.Join(t.TempDir(), "nope.json"))
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil || s.err == "" {
		t.Error("expected an error for a missing file")
	}
}

func TestRenderRowWideTitle(t *testing.T) {
	m, _ := newTestMap(t)
	wide := topics.Topic{ID: "wide", Title: strings.Repeat("日", 40), Interactable: true}

	for _, edges := range []bool{false, true} {
		m.showEdges = edges
		for w := 30; w < 140; w++ {
			row := ansi.Strip(m.renderRow(wide, false, w))
			if strings.ContainsRune(row, 0) {
				t.Fatalf("width %d edges=%v: row contains NUL", w, edges)
			}
			if !strings.Contains(row, "日") {
				t.Fatalf("width %d edges=%v: title missing from %q", w, edges, row)
			}
		}
	}

	m.showEdges = false
	if row := ansi.Strip(m.renderRow(wide, false, 40)); !strings.Contains(row, "…") {
		t.Errorf("expected truncated title at width 40, got %q", row)
	}
	if row := ansi.Strip(m.renderRow(wide, false, 200)); !strings.Contains(row, strings.Repeat("日", 40)) {
		t.Errorf("expected full title at width 200, got %q", row)
	}
}
