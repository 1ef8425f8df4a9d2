package model

import (
	"strings"
	"time"
)

// ActionItem is a single extracted (or manually added) task. The server is
// authoritative for every field; the client never fabricates ids or
// server-computed values.
type ActionItem struct {
	ID           string `json:"id"`
	Task         string `json:"task"`
	Owner        string `json:"owner,omitempty"`
	DueDate      string `json:"due_date,omitempty"`
	Tags         string `json:"tags,omitempty"`
	Done         bool   `json:"done"`
	TranscriptID string `json:"transcript_id"`
}

// TagList splits the comma-separated tags field for display: trimmed,
// empty segments dropped, order preserved as typed.
func (it ActionItem) TagList() []string {
	if strings.TrimSpace(it.Tags) == "" {
		return nil
	}
	parts := strings.Split(it.Tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Transcript is a submitted meeting text plus the action items captured at
// extraction time. The embedded items are a snapshot; the live collection may
// have diverged since via edits.
type Transcript struct {
	ID          string       `json:"id"`
	Content     string       `json:"content"`
	CreatedAt   time.Time    `json:"created_at"`
	ActionItems []ActionItem `json:"action_items"`
}

// ExtractResult is the response to a transcript submission.
type ExtractResult struct {
	TranscriptID string       `json:"transcript_id"`
	ActionItems  []ActionItem `json:"action_items"`
}

// ServiceStatus maps subsystem name to a status token ("ok" or an error token).
type ServiceStatus map[string]string

// StatusOK is the healthy status token the backend reports per subsystem.
const StatusOK = "ok"

// Subsystems tracked by the status endpoint, in display order.
var StatusSubsystems = []string{"backend", "database", "llm"}

// AllOperational reports whether every subsystem token equals "ok".
// An empty status is not operational.
func (s ServiceStatus) AllOperational() bool {
	if len(s) == 0 {
		return false
	}
	for _, v := range s {
		if v != StatusOK {
			return false
		}
	}
	return true
}

// Filter selects which slice of the collection is displayed.
type Filter string

const (
	FilterAll  Filter = "all"
	FilterOpen Filter = "open"
	FilterDone Filter = "done"
)

// Match reports whether the item belongs to the filter's bucket.
func (f Filter) Match(it ActionItem) bool {
	switch f {
	case FilterDone:
		return it.Done
	case FilterOpen:
		return !it.Done
	default:
		return true
	}
}

// FilterItems returns the items matching f, preserving order.
func FilterItems(items []ActionItem, f Filter) []ActionItem {
	var out []ActionItem
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

// CountDone returns how many items are marked done.
func CountDone(items []ActionItem) int {
	n := 0
	for _, it := range items {
		if it.Done {
			n++
		}
	}
	return n
}

// CompletionPercent is done/total rounded to the nearest integer,
// defined as 0 for an empty list.
func CompletionPercent(items []ActionItem) int {
	total := len(items)
	if total == 0 {
		return 0
	}
	done := CountDone(items)
	return int(float64(done)/float64(total)*100 + 0.5)
}

// WordCount counts whitespace-delimited tokens. Display-only; nothing is
// validated against it.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
