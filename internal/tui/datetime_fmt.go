package tui

import (
	"fmt"
	"time"
)

// timeAgo buckets an age the way the history sidebar displays it:
// "just now" under a minute, then minutes, hours, days.
func timeAgo(t, now time.Time) string {
	mins := int(now.Sub(t).Minutes())
	if mins < 1 {
		return "just now"
	}
	if mins < 60 {
		return fmt.Sprintf("%dm ago", mins)
	}
	hrs := mins / 60
	if hrs < 24 {
		return fmt.Sprintf("%dh ago", hrs)
	}
	return fmt.Sprintf("%dd ago", hrs/24)
}
