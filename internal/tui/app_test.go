package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tracker-cli/internal/api"
	"tracker-cli/internal/logging"
	"tracker-cli/internal/model"
)

func testModel(t *testing.T, handler http.Handler) appModel {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := api.New(srv.URL, 5*time.Second, logging.Nop())
	m := newAppModel(client, logging.Nop())
	m.width = 100
	m.height = 40
	m.resize()
	return m
}

// unreachableModel fails the test if any request reaches the server.
func unreachableModel(t *testing.T) appModel {
	t.Helper()
	return testModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
	}))
}

func asApp(t *testing.T, tm tea.Model) appModel {
	t.Helper()
	m, ok := tm.(appModel)
	if !ok {
		t.Fatalf("model type %T", tm)
	}
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSubmitRejectsEmptyTranscript(t *testing.T) {
	t.Parallel()
	m := unreachableModel(t)
	m.input.SetValue("   \n  ")

	next, cmd := m.submit()
	m = asApp(t, next)

	if cmd != nil {
		t.Fatal("expected no command for empty transcript")
	}
	if m.inputErr != msgEmptyTranscript {
		t.Fatalf("inputErr = %q", m.inputErr)
	}
}

func TestSubmitRejectsShortTranscript(t *testing.T) {
	t.Parallel()
	// Length is counted in characters, not bytes: the CJK text is 10
	// characters but 30 bytes.
	for _, text := range []string{"  too short  ", "ありがとうございます"} {
		m := unreachableModel(t)
		m.input.SetValue(text)

		next, cmd := m.submit()
		m = asApp(t, next)

		if cmd != nil {
			t.Fatalf("expected no command for short transcript %q", text)
		}
		if m.inputErr != msgShortTranscript {
			t.Fatalf("inputErr = %q for %q", m.inputErr, text)
		}
	}
}

func TestSubmitSingleFlight(t *testing.T) {
	t.Parallel()
	m := unreachableModel(t)
	m.input.SetValue("this transcript is long enough to submit")
	m.submitting = true

	_, cmd := m.submit()
	if cmd != nil {
		t.Fatal("expected no second submission while one is in flight")
	}
}

func TestSubmitSuccessAdoptsCollection(t *testing.T) {
	t.Parallel()
	m := unreachableModel(t)
	m.submitting = true
	m.input.SetValue("alice will send the report on friday, noted")
	m.inputErr = "stale error"

	res := model.ExtractResult{
		TranscriptID: "t-1",
		ActionItems: []model.ActionItem{
			{ID: "i-1", Task: "Send the report", Owner: "alice", TranscriptID: "t-1"},
		},
	}
	next, cmd := m.Update(submitResultMsg{res: res})
	m = asApp(t, next)

	if m.submitting {
		t.Fatal("submitting still set")
	}
	if m.inputErr != "" {
		t.Fatalf("inputErr = %q", m.inputErr)
	}
	if m.input.Value() != "" {
		t.Fatal("input not cleared after success")
	}
	if m.transcriptID != "t-1" || len(m.items) != 1 {
		t.Fatalf("collection not adopted: id=%q items=%d", m.transcriptID, len(m.items))
	}
	if m.focus != focusItems {
		t.Fatal("focus did not move to the items pane")
	}
	if cmd == nil {
		t.Fatal("expected a history refresh command")
	}
	if !m.historyLoading {
		t.Fatal("history refresh not marked in flight")
	}
}

func TestSubmitFailurePreservesInput(t *testing.T) {
	t.Parallel()
	m := unreachableModel(t)
	m.submitting = true
	m.input.SetValue("alice will send the report on friday, noted")

	next, _ := m.Update(submitResultMsg{err: &api.Error{StatusCode: 502, Detail: "LLM unavailable"}})
	m = asApp(t, next)

	if m.input.Value() == "" {
		t.Fatal("input cleared on failure")
	}
	if m.inputErr != "LLM unavailable" {
		t.Fatalf("inputErr = %q", m.inputErr)
	}
}

func TestSubmitErrorText(t *testing.T) {
	t.Parallel()
	if got := submitErrorText(&api.Error{StatusCode: 500}); got != msgGenericFailure {
		t.Fatalf("no-detail error: %q", got)
	}
	if got := submitErrorText(&api.Error{StatusCode: 502, Detail: "LLM unavailable"}); got != "LLM unavailable" {
		t.Fatalf("detail error: %q", got)
	}
}

func TestStaleHistoryResponseDropped(t *testing.T) {
	t.Parallel()
	m := unreachableModel(t)
	m.historySeq = 3
	m.history = []model.Transcript{{ID: "keep"}}

	next, _ := m.Update(historyMsg{seq: 2, transcripts: []model.Transcript{{ID: "stale"}}})
	m = asApp(t, next)

	if len(m.history) != 1 || m.history[0].ID != "keep" {
		t.Fatal("stale history response was applied")
	}
}

func TestHistoryFailureDegradesToEmpty(t *testing.T) {
	t.Parallel()
	m := unreachableModel(t)
	m.historySeq = 1
	m.history = []model.Transcript{{ID: "old"}}

	next, _ := m.Update(historyMsg{seq: 1, err: &api.Error{StatusCode: 503}})
	m = asApp(t, next)

	if m.history != nil {
		t.Fatal("history not cleared on failure")
	}
	if m.historyErr == "" {
		t.Fatal("failure not surfaced")
	}
	if m.historyLoading {
		t.Fatal("historyLoading still set")
	}
}

func TestStatusFailureForcesAllError(t *testing.T) {
	t.Parallel()
	m := unreachableModel(t)
	m.statusSeq = 1
	m.statusChecking = true

	next, _ := m.Update(statusResultMsg{seq: 1, err: &api.Error{StatusCode: 500}})
	m = asApp(t, next)

	for _, k := range model.StatusSubsystems {
		if m.status[k] != "error" {
			t.Fatalf("subsystem %q = %q, want error", k, m.status[k])
		}
	}
	if m.status.AllOperational() {
		t.Fatal("degraded status reported operational")
	}
}

func TestStaleItemSaveDropped(t *testing.T) {
	t.Parallel()
	m := unreachableModel(t)
	m.adoptCollection("t-1", []model.ActionItem{{ID: "i-1", Task: "Old task"}})
	staleGen := m.collectionGen
	m.adoptCollection("t-2", []model.ActionItem{{ID: "i-2", Task: "New task"}})

	next, _ := m.Update(itemSavedMsg{gen: staleGen, item: model.ActionItem{ID: "i-1", Task: "Edited", Done: true}})
	m = asApp(t, next)

	if len(m.items) != 1 || m.items[0].ID != "i-2" {
		t.Fatal("stale save mutated the current collection")
	}
}

func TestItemSaveAppliesServerObject(t *testing.T) {
	t.Parallel()
	m := unreachableModel(t)
	m.adoptCollection("t-1", []model.ActionItem{
		{ID: "i-1", Task: "Send report"},
		{ID: "i-2", Task: "Book room"},
	})

	next, _ := m.Update(itemSavedMsg{
		gen:  m.collectionGen,
		item: model.ActionItem{ID: "i-1", Task: "Send report", Done: true},
	})
	m = asApp(t, next)

	if !m.items[0].Done {
		t.Fatal("server object not applied")
	}
	if m.items[1].Done {
		t.Fatal("wrong item updated")
	}
}

func TestItemSaveFailureSurfaced(t *testing.T) {
	t.Parallel()
	m := unreachableModel(t)
	m.adoptCollection("t-1", []model.ActionItem{{ID: "i-1", Task: "Send report"}})

	next, _ := m.Update(itemSavedMsg{gen: m.collectionGen, err: &api.Error{StatusCode: 500}})
	m = asApp(t, next)

	if m.statusLine == "" {
		t.Fatal("save failure not surfaced")
	}
	if m.items[0].Done {
		t.Fatal("item changed despite failure")
	}
}

func TestItemDeletedRemovesRow(t *testing.T) {
	t.Parallel()
	m := unreachableModel(t)
	m.adoptCollection("t-1", []model.ActionItem{
		{ID: "i-1", Task: "Send report"},
		{ID: "i-2", Task: "Book room"},
	})

	next, _ := m.Update(itemDeletedMsg{gen: m.collectionGen, id: "i-1"})
	m = asApp(t, next)

	if len(m.items) != 1 || m.items[0].ID != "i-2" {
		t.Fatalf("items after delete: %+v", m.items)
	}
}

func TestFilterCycling(t *testing.T) {
	t.Parallel()
	m := unreachableModel(t)
	m.adoptCollection("t-1", []model.ActionItem{
		{ID: "i-1", Task: "A", Done: true},
		{ID: "i-2", Task: "B"},
	})
	m.setFocus(focusItems)

	want := []model.Filter{model.FilterOpen, model.FilterDone, model.FilterAll}
	for _, f := range want {
		next, _ := m.Update(keyRunes("f"))
		m = asApp(t, next)
		if m.filter != f {
			t.Fatalf("filter = %v, want %v", m.filter, f)
		}
	}

	m.filter = model.FilterOpen
	m.syncItemsList("")
	if n := len(m.itemsList.Items()); n != 1 {
		t.Fatalf("open rows = %d", n)
	}
}

func TestToggleIssuesPatchWithNextState(t *testing.T) {
	t.Parallel()
	var got map[string]any
	m := testModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/items/i-1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(model.ActionItem{ID: "i-1", Task: "Send report", Done: true})
	}))
	m.adoptCollection("t-1", []model.ActionItem{{ID: "i-1", Task: "Send report"}})
	m.setFocus(focusItems)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = asApp(t, next)
	if cmd == nil {
		t.Fatal("expected a toggle command")
	}

	msg := cmd()
	saved, ok := msg.(itemSavedMsg)
	if !ok {
		t.Fatalf("message type %T", msg)
	}
	if saved.err != nil {
		t.Fatalf("toggle error: %v", saved.err)
	}
	if len(got) != 1 || got["done"] != true {
		t.Fatalf("patch body = %v, want only done=true", got)
	}

	next, _ = m.Update(msg)
	m = asApp(t, next)
	if !m.items[0].Done {
		t.Fatal("toggle result not applied")
	}
}

func TestToggleRoundTripRestoresState(t *testing.T) {
	t.Parallel()
	m := testModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var patch struct {
			Done *bool `json:"done"`
		}
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil || patch.Done == nil {
			t.Errorf("bad patch body: %v", err)
			return
		}
		json.NewEncoder(w).Encode(model.ActionItem{ID: "i-1", Task: "Send report", Done: *patch.Done})
	}))
	m.adoptCollection("t-1", []model.ActionItem{{ID: "i-1", Task: "Send report"}})
	m.setFocus(focusItems)

	for range 2 {
		next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = asApp(t, next)
		if cmd == nil {
			t.Fatal("expected a toggle command")
		}
		next, _ = m.Update(cmd())
		m = asApp(t, next)
	}

	if m.items[0].Done {
		t.Fatal("double toggle did not restore the original state")
	}
}

func TestAddModalRequiresTask(t *testing.T) {
	t.Parallel()
	m := unreachableModel(t)
	m.setFocus(focusItems)

	next, _ := m.Update(keyRunes("a"))
	m = asApp(t, next)
	if m.modal != modalAddItem {
		t.Fatal("add modal did not open")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = asApp(t, next)
	if cmd != nil {
		t.Fatal("expected no command without a task")
	}
	if m.modalErr == "" {
		t.Fatal("missing-task error not shown")
	}
	if m.modal != modalAddItem {
		t.Fatal("modal closed despite the error")
	}
}

func TestEditModalUnchangedClosesSilently(t *testing.T) {
	t.Parallel()
	m := unreachableModel(t)
	m.adoptCollection("t-1", []model.ActionItem{
		{ID: "i-1", Task: "Send report", Owner: "alice"},
	})
	m.setFocus(focusItems)

	next, _ := m.Update(keyRunes("e"))
	m = asApp(t, next)
	if m.modal != modalEditItem {
		t.Fatal("edit modal did not open")
	}
	if m.fieldInputs[fieldTask].Value() != "Send report" {
		t.Fatalf("task field = %q", m.fieldInputs[fieldTask].Value())
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = asApp(t, next)
	if cmd != nil {
		t.Fatal("expected no command when nothing changed")
	}
	if m.modal != modalNone {
		t.Fatal("modal still open")
	}
}

func TestEditModalSendsOnlyChangedFields(t *testing.T) {
	t.Parallel()
	var got map[string]any
	m := testModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(model.ActionItem{ID: "i-1", Task: "Send report", Owner: "bob"})
	}))
	m.adoptCollection("t-1", []model.ActionItem{
		{ID: "i-1", Task: "Send report", Owner: "alice"},
	})
	m.setFocus(focusItems)

	next, _ := m.Update(keyRunes("e"))
	m = asApp(t, next)
	m.fieldInputs[fieldOwner].SetValue("bob")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = asApp(t, next)
	if m.modal != modalNone {
		t.Fatal("modal still open after save")
	}
	if cmd == nil {
		t.Fatal("expected a save command")
	}

	if msg := cmd(); msg != nil {
		if saved, ok := msg.(itemSavedMsg); ok && saved.err != nil {
			t.Fatalf("save error: %v", saved.err)
		}
	}
	if len(got) != 1 || got["owner"] != "bob" {
		t.Fatalf("patch body = %v, want only owner=bob", got)
	}
}

func TestHistorySelectionLoadsCollection(t *testing.T) {
	t.Parallel()
	m := unreachableModel(t)
	m.historyLoading = false
	m.history = []model.Transcript{
		{
			ID:      "t-9",
			Content: "weekly sync notes",
			ActionItems: []model.ActionItem{
				{ID: "i-9", Task: "Follow up", Done: true},
			},
		},
	}
	m.syncHistoryList()
	m.filter = model.FilterOpen
	m.setFocus(focusHistory)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = asApp(t, next)

	if m.transcriptID != "t-9" || len(m.items) != 1 {
		t.Fatal("selection did not load the transcript's items")
	}
	if m.filter != model.FilterAll {
		t.Fatal("filter not reset on load")
	}
	if m.focus != focusItems {
		t.Fatal("focus did not move to the items pane")
	}
}

func TestStatusPageFetchesOnEveryEntry(t *testing.T) {
	t.Parallel()
	m := unreachableModel(t)
	m.setFocus(focusItems)

	next, cmd := m.Update(keyRunes("2"))
	m = asApp(t, next)
	if m.page != pageStatus {
		t.Fatal("status page did not open")
	}
	if cmd == nil || !m.statusChecking {
		t.Fatal("no check issued on first entry")
	}
	firstSeq := m.statusSeq

	next, _ = m.Update(statusResultMsg{seq: firstSeq, status: model.ServiceStatus{
		"backend": "ok", "database": "ok", "llm": "ok",
	}})
	m = asApp(t, next)

	// Leave and re-enter: the page must check again, not show the old data
	// as current.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = asApp(t, next)
	if m.page != pageHome {
		t.Fatal("esc did not leave the status page")
	}
	next, cmd = m.Update(keyRunes("2"))
	m = asApp(t, next)
	if cmd == nil || !m.statusChecking {
		t.Fatal("no check issued on re-entry")
	}
	if m.statusSeq <= firstSeq {
		t.Fatalf("statusSeq = %d, want > %d", m.statusSeq, firstSeq)
	}
}

func TestStatusPageRefreshGuarded(t *testing.T) {
	t.Parallel()
	m := unreachableModel(t)
	m.page = pageStatus
	m.statusChecking = true
	m.statusSeq = 2

	next, cmd := m.Update(keyRunes("r"))
	m = asApp(t, next)
	if cmd != nil {
		t.Fatal("expected no refresh while a check is in flight")
	}
	if m.statusSeq != 2 {
		t.Fatalf("statusSeq = %d", m.statusSeq)
	}
}

func TestMetaPartsSeparatesTags(t *testing.T) {
	t.Parallel()
	row := actionItemRow{item: model.ActionItem{
		Task: "Send report", Owner: "alice", DueDate: "Friday", Tags: "infra, docs",
	}}
	info, tags := row.metaParts()
	if info != "@alice  due Friday" {
		t.Fatalf("info = %q", info)
	}
	if len(tags) != 2 || tags[0] != "infra" || tags[1] != "docs" {
		t.Fatalf("tags = %v", tags)
	}
}

func TestTimeAgoBuckets(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		age  time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{90 * time.Second, "1m ago"},
		{59 * time.Minute, "59m ago"},
		{3 * time.Hour, "3h ago"},
		{49 * time.Hour, "2d ago"},
	}
	for _, tc := range cases {
		if got := timeAgo(now.Add(-tc.age), now); got != tc.want {
			t.Errorf("timeAgo(-%v) = %q, want %q", tc.age, got, tc.want)
		}
	}
}
