package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// clamp keeps idx inside [0, n). With n == 0 it returns 0.
func clamp(idx, n int) int {
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		return 0
	}
	return idx
}

// windowStart returns the first visible row so that cursor stays in a
// window of height rows.
func windowStart(cursor, total, height int) int {
	if height <= 0 || total <= height {
		return 0
	}
	start := cursor - height/2
	if start < 0 {
		return 0
	}
	if start > total-height {
		return total - height
	}
	return start
}

func padRight(value string, width int) string {
	gap := width - lipgloss.Width(value)
	if gap <= 0 {
		return value
	}
	return value + strings.Repeat(" ", gap)
}

func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	keep := limit - 1 // room for ellipsis rune
	prefix := keep / 2
	suffix := keep - prefix
	return string(runes[:prefix]) + "…" + string(runes[len(runes)-suffix:])
}

func truncateEnd(value string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit == 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}

// displayValue makes control characters visible on one line.
func displayValue(v string) string {
	return strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`).Replace(v)
}
