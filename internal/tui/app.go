package tui

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"tracker-cli/internal/api"
	"tracker-cli/internal/model"
)

type page int

const (
	pageHome page = iota
	pageStatus
)

type focusArea int

const (
	focusInput focusArea = iota
	focusItems
	focusHistory
)

type modalKind int

const (
	modalNone modalKind = iota
	modalAddItem
	modalEditItem
)

// Indexes into fieldInputs for the add/edit modal.
const (
	fieldTask = iota
	fieldOwner
	fieldDue
	fieldTags
	fieldCount
)

const historyLimitHint = "last 5"

// Validation messages shown before any network call.
const (
	msgEmptyTranscript = "Please paste a transcript first."
	msgShortTranscript = "Transcript is too short to process."
	msgGenericFailure  = "Something went wrong. Please try again."
)

// minTranscriptLen is the minimum trimmed length, in characters, accepted
// for submission.
const minTranscriptLen = 20

type appModel struct {
	client *api.Client
	log    zerolog.Logger

	width  int
	height int

	page  page
	focus focusArea

	// Canonical state: the loaded collection. Owned here; children render it
	// but never hold a divergent copy. collectionGen is bumped on every
	// wholesale replacement so responses issued against a previous collection
	// can be recognized and dropped.
	items         []model.ActionItem
	transcriptID  string
	collectionGen int

	filter model.Filter

	// Transcript submission.
	input      textarea.Model
	submitting bool
	inputErr   string

	itemsList list.Model

	// Add/edit modal.
	modal       modalKind
	editID      string
	fieldInputs []textinput.Model
	fieldFocus  int
	modalErr    string

	// History sidebar. The fetched list is intentionally independent of the
	// live collection and only reconciled on explicit selection.
	historyList    list.Model
	history        []model.Transcript
	historyLoading bool
	historyErr     string
	historySeq     int

	// Status page.
	status          model.ServiceStatus
	statusChecking  bool
	statusSeq       int
	statusCheckedAt time.Time
	statusErr       string

	spin spinner.Model

	// statusLine is a transient message (mutation failures etc.), cleared on
	// the next keypress.
	statusLine string
}

func newAppModel(client *api.Client, log zerolog.Logger) appModel {
	m := appModel{
		client: client,
		log:    log,
		page:   pageHome,
		focus:  focusInput,
		filter: model.FilterAll,
	}

	m.input = textarea.New()
	m.input.Placeholder = "Paste your meeting notes or transcript here…"
	m.input.CharLimit = 0
	m.input.ShowLineNumbers = false
	m.input.Focus()

	m.itemsList = newBareList()
	m.itemsList.SetDelegate(newItemDelegate())

	m.historyList = newBareList()
	m.historyList.SetDelegate(newHistoryDelegate())

	m.fieldInputs = make([]textinput.Model, fieldCount)
	placeholders := [fieldCount]string{"Task description", "Owner", "Due date", "Tags (comma-separated)"}
	for i := range m.fieldInputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 200
		in.Width = 40
		m.fieldInputs[i] = in
	}

	m.spin = spinner.New()
	m.spin.Spinner = spinner.MiniDot

	// The sidebar loads on mount; Init issues the matching fetch.
	m.historyLoading = true
	m.historySeq = 1

	return m
}

// newBareList returns a list with all chrome disabled; panes draw their own
// headers and the collection filter is applied outside the list.
func newBareList() list.Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	return l
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.fetchHistory(m.historySeq))
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.anyInFlight() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case submitResultMsg:
		return m.onSubmitResult(msg)

	case historyMsg:
		return m.onHistory(msg)

	case statusResultMsg:
		return m.onStatusResult(msg)

	case itemSavedMsg:
		return m.onItemSaved(msg)

	case itemDeletedMsg:
		return m.onItemDeleted(msg)

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	return m, nil
}

func (m appModel) anyInFlight() bool {
	return m.submitting || m.historyLoading || m.statusChecking
}

// adoptCollection replaces the canonical items/transcript wholesale. Any
// response still in flight against the previous collection becomes stale.
func (m *appModel) adoptCollection(transcriptID string, items []model.ActionItem) {
	m.collectionGen++
	m.transcriptID = transcriptID
	m.items = items
	m.syncItemsList("")
}

// syncItemsList re-derives the displayed rows from the canonical list and the
// current filter, keeping the selection on keepID (or the previously selected
// item) when it survives.
func (m *appModel) syncItemsList(keepID string) {
	if keepID == "" {
		if row, ok := m.itemsList.SelectedItem().(actionItemRow); ok {
			keepID = row.item.ID
		}
	}
	visible := model.FilterItems(m.items, m.filter)
	rows := make([]list.Item, 0, len(visible))
	sel := -1
	for i, it := range visible {
		if it.ID == keepID {
			sel = i
		}
		rows = append(rows, actionItemRow{item: it})
	}
	m.itemsList.SetItems(rows)
	if sel >= 0 {
		m.itemsList.Select(sel)
	}
}

func (m *appModel) syncHistoryList() {
	now := time.Now()
	rows := make([]list.Item, 0, len(m.history))
	for _, t := range m.history {
		rows = append(rows, historyRow{transcript: t, now: now})
	}
	m.historyList.SetItems(rows)
}

func (m appModel) onSubmitResult(msg submitResultMsg) (tea.Model, tea.Cmd) {
	m.submitting = false
	if msg.err != nil {
		// Input is preserved so the user can retry.
		m.inputErr = submitErrorText(msg.err)
		return m, nil
	}
	m.inputErr = ""
	m.input.Reset()
	m.adoptCollection(msg.res.TranscriptID, msg.res.ActionItems)
	m.setFocus(focusItems)
	// A successful submission is the refresh signal for the sidebar.
	m.historyLoading = true
	m.historySeq++
	return m, m.fetchHistory(m.historySeq)
}

func (m appModel) onHistory(msg historyMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.historySeq {
		// Stale response from an earlier refresh.
		return m, nil
	}
	m.historyLoading = false
	if msg.err != nil {
		// Degrade to an empty list, but say so instead of looking like
		// "genuinely no data".
		m.history = nil
		m.historyErr = errorText(msg.err)
		m.syncHistoryList()
		return m, nil
	}
	m.historyErr = ""
	m.history = msg.transcripts
	m.syncHistoryList()
	return m, nil
}

func (m appModel) onStatusResult(msg statusResultMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.statusSeq {
		return m, nil
	}
	m.statusChecking = false
	m.statusCheckedAt = time.Now()
	if msg.err != nil {
		// Transport failure maps to an explicit all-error state, never a
		// blank or stale one.
		st := model.ServiceStatus{}
		for _, k := range model.StatusSubsystems {
			st[k] = "error"
		}
		m.status = st
		m.statusErr = errorText(msg.err)
		return m, nil
	}
	m.statusErr = ""
	m.status = msg.status
	return m, nil
}

func (m appModel) onItemSaved(msg itemSavedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.collectionGen {
		// The collection was replaced while the request was in flight.
		return m, nil
	}
	if msg.err != nil {
		m.statusLine = "Save failed: " + errorText(msg.err)
		return m, nil
	}
	if msg.created {
		m.items = append(m.items, msg.item)
		m.syncItemsList(msg.item.ID)
		return m, nil
	}
	// The server is authoritative for the final object; adopt its
	// representation wholesale.
	for i := range m.items {
		if m.items[i].ID == msg.item.ID {
			m.items[i] = msg.item
			break
		}
	}
	m.syncItemsList(msg.item.ID)
	return m, nil
}

func (m appModel) onItemDeleted(msg itemDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.collectionGen {
		return m, nil
	}
	if msg.err != nil {
		m.statusLine = "Delete failed: " + errorText(msg.err)
		return m, nil
	}
	kept := m.items[:0]
	for _, it := range m.items {
		if it.ID != msg.id {
			kept = append(kept, it)
		}
	}
	m.items = kept
	m.syncItemsList("")
	return m, nil
}

func (m *appModel) setFocus(f focusArea) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *appModel) cycleFocus(backwards bool) {
	order := []focusArea{focusInput, focusItems, focusHistory}
	cur := 0
	for i, f := range order {
		if f == m.focus {
			cur = i
		}
	}
	if backwards {
		cur = (cur + len(order) - 1) % len(order)
	} else {
		cur = (cur + 1) % len(order)
	}
	m.setFocus(order[cur])
}

func (m *appModel) cycleFilter() {
	switch m.filter {
	case model.FilterAll:
		m.filter = model.FilterOpen
	case model.FilterOpen:
		m.filter = model.FilterDone
	default:
		m.filter = model.FilterAll
	}
	m.syncItemsList("")
}

// submit validates locally and, when valid, issues the extraction request.
// While one is in flight the trigger is a no-op (single-flight per widget).
func (m appModel) submit() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	text := m.input.Value()
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		m.inputErr = msgEmptyTranscript
		return m, nil
	}
	if utf8.RuneCountInString(trimmed) < minTranscriptLen {
		m.inputErr = msgShortTranscript
		return m, nil
	}
	m.inputErr = ""
	m.submitting = true
	return m, tea.Batch(m.spin.Tick, m.submitTranscript(text))
}

func (m appModel) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	m.statusLine = ""

	if m.modal != modalNone {
		return m.onModalKey(msg)
	}
	if m.page == pageStatus {
		return m.onStatusPageKey(msg)
	}

	switch msg.String() {
	case "tab":
		m.cycleFocus(false)
		return m, nil
	case "shift+tab":
		m.cycleFocus(true)
		return m, nil
	}

	switch m.focus {
	case focusInput:
		if msg.String() == "ctrl+s" {
			return m.submit()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case focusItems:
		return m.onItemsKey(msg)

	case focusHistory:
		return m.onHistoryKey(msg)
	}

	return m, nil
}

func (m appModel) onItemsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "2":
		return m.openStatusPage()
	case "f":
		m.cycleFilter()
		return m, nil
	case "a":
		m.openAddModal()
		return m, nil
	case "e":
		if row, ok := m.itemsList.SelectedItem().(actionItemRow); ok {
			m.openEditModal(row.item)
		}
		return m, nil
	case "d":
		if row, ok := m.itemsList.SelectedItem().(actionItemRow); ok {
			return m, m.deleteItem(row.item.ID)
		}
		return m, nil
	case " ", "enter":
		if row, ok := m.itemsList.SelectedItem().(actionItemRow); ok {
			return m, m.toggleItem(row.item)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.itemsList, cmd = m.itemsList.Update(msg)
	return m, cmd
}

func (m appModel) onHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "2":
		return m.openStatusPage()
	case "r":
		if m.historyLoading {
			return m, nil
		}
		m.historyLoading = true
		m.historySeq++
		return m, tea.Batch(m.spin.Tick, m.fetchHistory(m.historySeq))
	case "enter":
		if row, ok := m.historyList.SelectedItem().(historyRow); ok {
			// Wholesale replacement of the canonical state, then back to the
			// item view.
			m.adoptCollection(row.transcript.ID, row.transcript.ActionItems)
			m.filter = model.FilterAll
			m.syncItemsList("")
			m.setFocus(focusItems)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.historyList, cmd = m.historyList.Update(msg)
	return m, cmd
}

// openStatusPage switches to the status page and starts a fresh check; the
// page never shows a previous visit's data as current.
func (m appModel) openStatusPage() (tea.Model, tea.Cmd) {
	m.page = pageStatus
	if m.statusChecking {
		return m, nil
	}
	m.statusChecking = true
	m.statusSeq++
	return m, tea.Batch(m.spin.Tick, m.fetchStatus(m.statusSeq))
}

func (m appModel) onStatusPageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "1":
		m.page = pageHome
		return m, nil
	case "r":
		// The trigger is disabled while a check is in flight.
		if m.statusChecking {
			return m, nil
		}
		m.statusChecking = true
		m.statusSeq++
		return m, tea.Batch(m.spin.Tick, m.fetchStatus(m.statusSeq))
	}
	return m, nil
}

// errorText prefers the server's detail message and falls back to the
// transport error.
func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// submitErrorText matches the submission widget's wording: a server detail
// when present, otherwise a generic retry prompt.
func submitErrorText(err error) string {
	var apiErr *api.Error
	if ok := asAPIError(err, &apiErr); ok && strings.TrimSpace(apiErr.Detail) != "" {
		return apiErr.Detail
	}
	return msgGenericFailure
}
