package tui

import (
	"fmt"
	"strings"
	"time"

	"tracker-cli/internal/model"
)

type actionItemRow struct {
	item model.ActionItem
}

func (r actionItemRow) FilterValue() string {
	return r.item.Task + " " + r.item.Owner + " " + r.item.Tags
}

func (r actionItemRow) Title() string { return r.item.Task }

// metaParts is the secondary row under the task: owner and due date, then the
// tags, which the delegate styles separately.
func (r actionItemRow) metaParts() (info string, tags []string) {
	var parts []string
	if strings.TrimSpace(r.item.Owner) != "" {
		parts = append(parts, "@"+strings.TrimSpace(r.item.Owner))
	}
	if strings.TrimSpace(r.item.DueDate) != "" {
		parts = append(parts, "due "+strings.TrimSpace(r.item.DueDate))
	}
	return strings.Join(parts, "  "), r.item.TagList()
}

type historyRow struct {
	transcript model.Transcript
	// now is captured at refresh time so every entry in one render shares a
	// clock reading.
	now time.Time
}

func (r historyRow) FilterValue() string { return r.transcript.Content }

func (r historyRow) Title() string {
	n := len(r.transcript.ActionItems)
	noun := "items"
	if n == 1 {
		noun = "item"
	}
	return fmt.Sprintf("%s · %d %s · %d%%",
		timeAgo(r.transcript.CreatedAt, r.now),
		n, noun,
		model.CompletionPercent(r.transcript.ActionItems),
	)
}

// preview is a single-line excerpt of the transcript content.
func (r historyRow) preview() string {
	c := strings.Join(strings.Fields(r.transcript.Content), " ")
	return c
}
