package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// itemDelegate renders one action item as two lines: a checkbox + task line
// and a muted meta line (owner/due/tags). The focused row gets a full-row
// background highlight instead of a selector bar so the left edge stays stable.
type itemDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	done     lipgloss.Style
	meta     lipgloss.Style
	tag      lipgloss.Style
	checkOn  lipgloss.Style
	checkOff lipgloss.Style
}

func newItemDelegate() itemDelegate {
	return itemDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
		done:     lipgloss.NewStyle().Foreground(colorMuted).Strikethrough(true),
		meta:     lipgloss.NewStyle().Foreground(colorChromeMutedFg),
		tag:      lipgloss.NewStyle().Foreground(colorTag),
		checkOn:  lipgloss.NewStyle().Foreground(colorDone),
		checkOff: lipgloss.NewStyle().Foreground(colorOpen),
	}
}

func (d itemDelegate) Height() int                             { return 2 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(actionItemRow)
	if !ok {
		return
	}
	width := m.Width()
	if width < 8 {
		return
	}
	focused := index == m.Index()

	check := d.checkOff.Render("[ ]")
	if row.item.Done {
		check = d.checkOn.Render("[x]")
	}

	task := row.Title()
	taskStyle := d.normal
	if row.item.Done {
		taskStyle = d.done
	}
	if focused {
		taskStyle = d.selected
	}
	line1 := check + " " + taskStyle.Render(xansi.Truncate(task, width-4, "…"))

	info, tags := row.metaParts()
	var segs []string
	if info != "" {
		segs = append(segs, d.meta.Render(info))
	}
	for _, tg := range tags {
		segs = append(segs, d.tag.Render("#"+tg))
	}
	line2 := "    " + xansi.Truncate(strings.Join(segs, "  "), width-4, "…")

	fmt.Fprintf(w, "%s\n%s", line1, line2)
}

// historyDelegate renders one recent transcript: an age/count/percent line and
// a muted content preview.
type historyDelegate struct {
	title    lipgloss.Style
	selected lipgloss.Style
	preview  lipgloss.Style
}

func newHistoryDelegate() historyDelegate {
	return historyDelegate{
		title: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
		preview: lipgloss.NewStyle().Foreground(colorChromeMutedFg),
	}
}

func (d historyDelegate) Height() int                             { return 2 }
func (d historyDelegate) Spacing() int                            { return 1 }
func (d historyDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d historyDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(historyRow)
	if !ok {
		return
	}
	width := m.Width()
	if width < 8 {
		return
	}

	titleStyle := d.title
	if index == m.Index() {
		titleStyle = d.selected
	}
	line1 := titleStyle.Render(xansi.Truncate(row.Title(), width, "…"))
	line2 := d.preview.Render(xansi.Truncate(row.preview(), width, "…"))

	fmt.Fprintf(w, "%s\n%s", line1, line2)
}
