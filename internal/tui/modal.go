package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"tracker-cli/internal/api"
	"tracker-cli/internal/model"
)

func (m *appModel) openAddModal() {
	m.modal = modalAddItem
	m.editID = ""
	m.modalErr = ""
	m.resetModalFields("", "", "", "")
}

func (m *appModel) openEditModal(item model.ActionItem) {
	m.modal = modalEditItem
	m.editID = item.ID
	m.modalErr = ""
	m.resetModalFields(item.Task, item.Owner, item.DueDate, item.Tags)
}

func (m *appModel) resetModalFields(task, owner, due, tags string) {
	values := [fieldCount]string{task, owner, due, tags}
	for i := range m.fieldInputs {
		m.fieldInputs[i].SetValue(values[i])
		m.fieldInputs[i].Blur()
	}
	m.fieldFocus = fieldTask
	m.fieldInputs[fieldTask].Focus()
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.editID = ""
	m.modalErr = ""
	for i := range m.fieldInputs {
		m.fieldInputs[i].SetValue("")
		m.fieldInputs[i].Blur()
	}
}

func (m *appModel) focusModalField(i int) {
	m.fieldInputs[m.fieldFocus].Blur()
	m.fieldFocus = (i + fieldCount) % fieldCount
	m.fieldInputs[m.fieldFocus].Focus()
}

func (m appModel) onModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeModal()
		return m, nil
	case "tab", "down":
		m.focusModalField(m.fieldFocus + 1)
		return m, nil
	case "shift+tab", "up":
		m.focusModalField(m.fieldFocus - 1)
		return m, nil
	case "enter":
		return m.saveModal()
	}

	var cmd tea.Cmd
	m.fieldInputs[m.fieldFocus], cmd = m.fieldInputs[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m appModel) saveModal() (tea.Model, tea.Cmd) {
	task := m.fieldInputs[fieldTask].Value()
	owner := m.fieldInputs[fieldOwner].Value()
	due := m.fieldInputs[fieldDue].Value()
	tags := m.fieldInputs[fieldTags].Value()

	if m.modal == modalAddItem {
		// Task is required; nothing is sent without one.
		if strings.TrimSpace(task) == "" {
			m.modalErr = "Task description is required."
			return m, nil
		}
		cmd := m.addItem(api.NewItem{
			Task:         task,
			Owner:        owner,
			DueDate:      due,
			Tags:         tags,
			TranscriptID: m.transcriptID,
		})
		m.closeModal()
		return m, cmd
	}

	// Edit: send only the fields that changed.
	var orig model.ActionItem
	found := false
	for _, it := range m.items {
		if it.ID == m.editID {
			orig = it
			found = true
			break
		}
	}
	if !found {
		m.closeModal()
		return m, nil
	}
	if strings.TrimSpace(task) == "" {
		m.modalErr = "Task description is required."
		return m, nil
	}

	var patch api.ItemPatch
	if task != orig.Task {
		patch.Task = &task
	}
	if owner != orig.Owner {
		patch.Owner = &owner
	}
	if due != orig.DueDate {
		patch.DueDate = &due
	}
	if tags != orig.Tags {
		patch.Tags = &tags
	}
	id := m.editID
	m.closeModal()
	if patch.Empty() {
		return m, nil
	}
	return m, m.editItem(id, patch)
}
