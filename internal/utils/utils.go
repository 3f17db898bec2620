package utils

import (
	"fmt"
	"strings"
)

const NotAvailable = "N/A"

// Truncate shortens s to limit runes and appends an ellipsis when it cut
// anything.
func Truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// Summarize joins the first shown items and counts the rest, e.g.
// "Go, SQL, Docker +2 more". An empty list is "N/A".
func Summarize(items []string, shown int) string {
	if len(items) == 0 {
		return NotAvailable
	}
	if shown <= 0 || shown >= len(items) {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s +%d more", strings.Join(items[:shown], ", "), len(items)-shown)
}

// OrNA returns s, or "N/A" when it is blank.
func OrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}
