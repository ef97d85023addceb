package format

import (
	"fmt"
	"time"
)

// Duration formats a duration as HH:MM:SS or MM:SS.
func Duration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Span formats a half-open time range for progress and log lines.
// Example: 10s..20s -> "00:10-00:20"
func Span(start, end time.Duration) string {
	return Duration(start) + "-" + Duration(end)
}

// Count formats a progress counter; current is 1-based.
// Example: Count(3, 10) -> "3/10"
func Count(current, total int) string {
	return fmt.Sprintf("%d/%d", current, total)
}
