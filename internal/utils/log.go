package utils

import "strings"

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
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

// PreviewRow joins raw tabular cells for a log preview of at most limit runes.
func PreviewRow(cells []string, limit int) string {
	return TruncateForLog(strings.Join(cells, " | "), limit)
}
