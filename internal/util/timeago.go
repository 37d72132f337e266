package util

import (
	"fmt"
	"time"
)

// FormatTimeAgo renders t relative to now for status rows: "just now",
// "1 minute ago", "3 hours ago", "2 days ago". Zero times render as "never".
func FormatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	minutes := int(time.Since(t).Minutes())
	if minutes <= 0 {
		return "just now"
	}
	if minutes == 1 {
		return "1 minute ago"
	}
	if minutes < 60 {
		return fmt.Sprintf("%d minutes ago", minutes)
	}
	hours := minutes / 60
	if hours == 1 {
		return "1 hour ago"
	}
	if hours < 24 {
		return fmt.Sprintf("%d hours ago", hours)
	}
	return fmt.Sprintf("%d days ago", hours/24)
}
