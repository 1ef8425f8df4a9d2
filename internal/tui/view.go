package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tracker-cli/internal/model"
)

const (
	inputPaneTitle   = "Meeting Transcript"
	historyPaneTitle = "Recent Transcripts"
	statusPageTitle  = "Service Status"
)

// subsystemLabels maps backend status keys to their display names.
var subsystemLabels = map[string]string{
	"backend":  "Backend API",
	"database": "Database",
	"llm":      "LLM Connection",
}

// sidebarOuterWidth is the total width of the history pane, border included.
func (m appModel) sidebarOuterWidth() int {
	w := m.width / 3
	if w < 20 {
		w = 20
	}
	if w > 44 {
		w = 44
	}
	return w
}

func (m appModel) contentHeight() int {
	return max(1, m.height-1)
}

func (m appModel) inputPaneHeight() int {
	h := m.contentHeight() / 3
	if h < 7 {
		h = min(7, m.contentHeight())
	}
	return h
}

// previewHeight is the space at the bottom of the sidebar reserved for the
// rendered excerpt of the selected transcript.
func (m appModel) previewHeight() int {
	h := (m.contentHeight() - 2) / 3
	if h < 4 {
		return 4
	}
	if h > 10 {
		return 10
	}
	return h
}

func (m *appModel) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	side := m.sidebarOuterWidth()
	left := m.width - side
	leftInner := max(4, left-4)
	sideInner := max(4, side-4)

	// Input pane: border (2) + title row + hint row around the textarea.
	m.input.SetWidth(leftInner)
	m.input.SetHeight(max(1, m.inputPaneHeight()-4))

	// Items pane: border (2) + counters, progress and filter rows.
	itemsH := m.contentHeight() - m.inputPaneHeight()
	m.itemsList.SetSize(leftInner, max(1, itemsH-5))

	// Sidebar: border (2) + title row + preview area.
	m.historyList.SetSize(sideInner, max(1, m.contentHeight()-3-m.previewHeight()))
}

func paneStyle(focused bool) lipgloss.Style {
	bc := colorBorder
	if focused {
		bc = colorAccent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(bc).
		Padding(0, 1)
}

// paneHeader lays out a bold title with a muted right-aligned badge.
func paneHeader(title, badge string, width int) string {
	t := lipgloss.NewStyle().Bold(true).Render(title)
	if badge == "" {
		return t
	}
	b := styleMuted().Render(badge)
	gap := width - lipgloss.Width(t) - lipgloss.Width(b)
	if gap < 1 {
		return t
	}
	return t + strings.Repeat(" ", gap) + b
}

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.modal != modalNone {
		return m.modalView()
	}

	var body string
	if m.page == pageStatus {
		body = m.statusView()
	} else {
		left := lipgloss.JoinVertical(lipgloss.Left, m.inputPane(), m.itemsPane())
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, m.historyPane())
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.footer())
}

func (m appModel) inputPane() string {
	side := m.sidebarOuterWidth()
	innerW := max(4, m.width-side-4)

	words := model.WordCount(m.input.Value())
	badge := fmt.Sprintf("%d words", words)
	header := paneHeader(inputPaneTitle, badge, innerW)

	var bottom string
	switch {
	case m.submitting:
		bottom = m.spin.View() + " Extracting action items…"
	case m.inputErr != "":
		bottom = styleError().Render(m.inputErr)
	default:
		bottom = styleMuted().Render("ctrl+s to extract")
	}

	content := lipgloss.JoinVertical(lipgloss.Left, header, m.input.View(), bottom)
	return paneStyle(m.focus == focusInput && m.page == pageHome).
		Width(innerW + 2).
		Height(m.inputPaneHeight() - 2).
		Render(content)
}

func (m appModel) itemsPane() string {
	side := m.sidebarOuterWidth()
	innerW := max(4, m.width-side-4)
	paneH := m.contentHeight() - m.inputPaneHeight()

	total := len(m.items)
	done := model.CountDone(m.items)
	header := paneHeader("Action Items",
		fmt.Sprintf("%d total · %d done · %d open", total, done, total-done), innerW)

	var rows []string
	rows = append(rows, header)
	rows = append(rows, m.progressBar(innerW))
	rows = append(rows, m.filterLine())

	visible := model.FilterItems(m.items, m.filter)
	if len(visible) == 0 {
		rows = append(rows, "", styleMuted().Render(emptyItemsText(m.filter, total)))
	} else {
		rows = append(rows, m.itemsList.View())
	}

	return paneStyle(m.focus == focusItems && m.page == pageHome).
		Width(innerW + 2).
		Height(paneH - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func emptyItemsText(f model.Filter, total int) string {
	if total == 0 {
		return "No items found"
	}
	switch f {
	case model.FilterOpen:
		return "No open items found"
	case model.FilterDone:
		return "No done items found"
	}
	return "No items found"
}

func (m appModel) progressBar(width int) string {
	pct := model.CompletionPercent(m.items)
	label := fmt.Sprintf(" %d%%", pct)
	barW := max(1, width-lipgloss.Width(label))
	filled := barW * pct / 100
	if filled > barW {
		filled = barW
	}
	bar := lipgloss.NewStyle().Foreground(colorDone).Render(strings.Repeat("█", filled)) +
		styleMuted().Render(strings.Repeat("░", barW-filled))
	return bar + label
}

// filterLine renders the three filter buckets with per-bucket counts, the
// active one highlighted.
func (m appModel) filterLine() string {
	active := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	type bucket struct {
		f     model.Filter
		label string
	}
	buckets := []bucket{
		{model.FilterAll, "all"},
		{model.FilterOpen, "open"},
		{model.FilterDone, "done"},
	}
	var parts []string
	for _, b := range buckets {
		s := fmt.Sprintf("%s (%d)", b.label, len(model.FilterItems(m.items, b.f)))
		if b.f == m.filter {
			parts = append(parts, active.Render(s))
		} else {
			parts = append(parts, styleMuted().Render(s))
		}
	}
	return strings.Join(parts, "  ")
}

func (m appModel) historyPane() string {
	innerW := max(4, m.sidebarOuterWidth()-4)
	header := paneHeader(historyPaneTitle, historyLimitHint, innerW)

	var body string
	switch {
	case m.historyLoading:
		body = m.spin.View() + " Loading…"
	case m.historyErr != "":
		body = lipgloss.JoinVertical(lipgloss.Left,
			styleError().Render(wrapText(m.historyErr, innerW)),
			styleMuted().Render("press r to retry"),
		)
	case len(m.history) == 0:
		body = styleMuted().Render("No transcripts yet")
	default:
		body = m.historyList.View()
		if m.focus == focusHistory {
			if row, ok := m.historyList.SelectedItem().(historyRow); ok {
				preview := renderMarkdown(row.transcript.Content, innerW)
				preview = clampLines(preview, m.previewHeight())
				body = lipgloss.JoinVertical(lipgloss.Left, body, "", preview)
			}
		}
	}

	return paneStyle(m.focus == focusHistory && m.page == pageHome).
		Width(innerW + 2).
		Height(m.contentHeight() - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, body))
}

func (m appModel) statusView() string {
	innerW := max(4, m.width-4)

	var banner string
	switch {
	case m.statusChecking:
		banner = m.spin.View() + " Checking services…"
	case m.status == nil:
		banner = styleMuted().Render("No status yet")
	case m.status.AllOperational():
		banner = lipgloss.NewStyle().Foreground(colorDone).Bold(true).
			Render("All systems operational")
	default:
		banner = lipgloss.NewStyle().Foreground(colorError).Bold(true).
			Render("Some services are down")
	}

	rows := []string{paneHeader(statusPageTitle, "", innerW), "", banner, ""}
	for _, key := range model.StatusSubsystems {
		label := subsystemLabels[key]
		if label == "" {
			label = key
		}
		state := m.status[key]
		var dot string
		if state == model.StatusOK {
			dot = lipgloss.NewStyle().Foreground(colorDone).Render("●") + " operational"
		} else if m.status == nil {
			dot = styleMuted().Render("○") + " unknown"
		} else {
			dot = lipgloss.NewStyle().Foreground(colorError).Render("●") + " " + state
		}
		rows = append(rows, fmt.Sprintf("  %-16s %s", label, dot))
	}
	rows = append(rows, "")
	if m.statusErr != "" {
		rows = append(rows, styleError().Render(wrapText(m.statusErr, innerW)))
	}
	if !m.statusCheckedAt.IsZero() {
		rows = append(rows, styleMuted().Render("Last checked "+m.statusCheckedAt.Format("15:04:05")))
	}

	return paneStyle(true).
		Width(innerW + 2).
		Height(m.contentHeight() - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m appModel) modalView() string {
	title := "Add Action Item"
	if m.modal == modalEditItem {
		title = "Edit Action Item"
	}

	labels := [fieldCount]string{"Task", "Owner", "Due date", "Tags"}
	rows := []string{lipgloss.NewStyle().Bold(true).Render(title), ""}
	for i := range m.fieldInputs {
		rows = append(rows, styleMuted().Render(labels[i]), m.fieldInputs[i].View())
	}
	rows = append(rows, "")
	if m.modalErr != "" {
		rows = append(rows, styleError().Render(m.modalErr))
	}
	rows = append(rows, styleMuted().Render("enter save · tab next · esc cancel"))

	box := paneStyle(true).
		BorderForeground(colorAccent).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m appModel) footer() string {
	if m.statusLine != "" {
		return " " + styleError().Render(m.statusLine)
	}
	var hints string
	switch {
	case m.page == pageStatus:
		hints = "r refresh · esc back · q quit"
	case m.focus == focusInput:
		hints = "ctrl+s extract · tab switch pane · ctrl+c quit"
	case m.focus == focusItems:
		hints = "space toggle · a add · e edit · d delete · f filter · 2 status · q quit"
	default:
		hints = "enter load · r refresh · 2 status · q quit"
	}
	return " " + styleMuted().Render(hints)
}

// clampLines truncates s to at most n lines.
func clampLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}

// wrapText is a plain greedy word wrap for error strings; styling is applied
// by the caller.
func wrapText(s string, width int) string {
	if width < 4 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return s
	}
	var b strings.Builder
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			b.WriteString(line)
			b.WriteByte('\n')
			line = w
			continue
		}
		line += " " + w
	}
	b.WriteString(line)
	return b.String()
}
