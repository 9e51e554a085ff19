package tui

import (
	"github.com/charmbracelet/x/ansi"
)

// String utilities. Widths are terminal cells, not bytes.

func truncate(s string, max int) string {
	if ansi.StringWidth(s) <= max {
		return s
	}
	return ansi.Truncate(s, max, "…")
}

func truncateMiddle(s string, max int) string {
	if ansi.StringWidth(s) <= max {
		return s
	}
	if max < 7 {
		return ansi.Truncate(s, max, "")
	}
	left := (max - 3) / 2
	right := max - 3 - left
	return ansi.Truncate(s, left, "") + "..." + ansi.TruncateLeft(s, ansi.StringWidth(s)-right, "")
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Wordwrap(s, width, " -")
}
