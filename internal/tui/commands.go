package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"tracker-cli/internal/api"
	"tracker-cli/internal/model"
)

// Async results. Messages that act on the canonical collection carry the
// generation they were issued under; history/status carry a fetch sequence.
// Responses for the *same* generation are not serialized: two mutations fired
// in quick succession may resolve out of order and the later-resolving one
// wins. That hazard is inherited from the backend contract (each response
// returns the authoritative object) and accepted here.

type submitResultMsg struct {
	res model.ExtractResult
	err error
}

type historyMsg struct {
	seq         int
	transcripts []model.Transcript
	err         error
}

type statusResultMsg struct {
	seq    int
	status model.ServiceStatus
	err    error
}

type itemSavedMsg struct {
	gen     int
	item    model.ActionItem
	created bool
	err     error
}

type itemDeletedMsg struct {
	gen int
	id  string
	err error
}

func (m appModel) submitTranscript(text string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		res, err := c.CreateTranscript(context.Background(), text)
		return submitResultMsg{res: res, err: err}
	}
}

// fetchHistory issues one sidebar refresh. The caller bumps/records the fetch
// sequence so responses from superseded fetches are dropped.
func (m appModel) fetchHistory(seq int) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ts, err := c.ListTranscripts(context.Background())
		return historyMsg{seq: seq, transcripts: ts, err: err}
	}
}

func (m appModel) fetchStatus(seq int) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		st, err := c.Status(context.Background())
		return statusResultMsg{seq: seq, status: st, err: err}
	}
}

func (m appModel) toggleItem(item model.ActionItem) tea.Cmd {
	gen := m.collectionGen
	c := m.client
	next := !item.Done
	return func() tea.Msg {
		updated, err := c.UpdateItem(context.Background(), item.ID, api.ItemPatch{Done: &next})
		return itemSavedMsg{gen: gen, item: updated, err: err}
	}
}

func (m appModel) editItem(id string, patch api.ItemPatch) tea.Cmd {
	gen := m.collectionGen
	c := m.client
	return func() tea.Msg {
		updated, err := c.UpdateItem(context.Background(), id, patch)
		return itemSavedMsg{gen: gen, item: updated, err: err}
	}
}

func (m appModel) addItem(item api.NewItem) tea.Cmd {
	gen := m.collectionGen
	c := m.client
	return func() tea.Msg {
		created, err := c.CreateItem(context.Background(), item)
		return itemSavedMsg{gen: gen, item: created, created: true, err: err}
	}
}

func (m appModel) deleteItem(id string) tea.Cmd {
	gen := m.collectionGen
	c := m.client
	return func() tea.Msg {
		err := c.DeleteItem(context.Background(), id)
		return itemDeletedMsg{gen: gen, id: id, err: err}
	}
}

func asAPIError(err error, target **api.Error) bool {
	return errors.As(err, target)
}
