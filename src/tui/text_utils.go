package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// VisualWidth returns the display width of s.
func VisualWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate cuts s to maxLen display columns, ending in "..." when ellipsis
// is set and there is room for it.
func Truncate(s string, maxLen int, ellipsis bool) string {
	s = strings.TrimSpace(s)
	if maxLen <= 0 {
		return ""
	}
	if VisualWidth(s) <= maxLen {
		return s
	}
	if ellipsis && maxLen > 3 {
		return runewidth.Truncate(s, maxLen, "...")
	}
	return runewidth.Truncate(s, maxLen, "")
}

// TruncateAndPad truncates s and pads it to exactly width columns.
func TruncateAndPad(s string, width int, ellipsis bool) string {
	return runewidth.FillRight(Truncate(s, width, ellipsis), width)
}

// Wrap breaks text into lines of at most width columns. Words longer than
// width are split. Leading indentation is kept on the first line.
func Wrap(text string, width int) string {
	if width <= 0 || VisualWidth(text) <= width {
		return text
	}

	indent := text[:len(text)-len(strings.TrimLeft(text, " \t"))]
	if VisualWidth(indent) >= width {
		indent = ""
	}

	var lines []string
	line, lineWidth, empty := indent, VisualWidth(indent), true
	flush := func() {
		if !empty {
			lines = append(lines, line)
		}
		line, lineWidth, empty = "", 0, true
	}

	for _, word := range strings.Fields(text) {
		for VisualWidth(word) > width {
			flush()
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				head = string([]rune(word)[:1])
			}
			lines = append(lines, head)
			word = word[len(head):]
		}

		w := VisualWidth(word)
		switch {
		case empty && lineWidth+w <= width:
			line += word
			lineWidth += w
		case !empty && lineWidth+1+w <= width:
			line += " " + word
			lineWidth += 1 + w
		default:
			flush()
			line, lineWidth = word, w
		}
		empty = false
	}
	flush()
	return strings.Join(lines, "\n")
}

// SplitLines splits text by newlines, returning an empty slice for "".
func SplitLines(text string) []string {
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}
