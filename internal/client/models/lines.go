package models

import "strings"

// SplitLines turns free text into its ordered, trimmed, non-empty lines.
// Both "\n" and "\r\n" line endings are accepted.
func SplitLines(text string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
