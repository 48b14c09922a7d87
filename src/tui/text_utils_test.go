package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"short", "hello world", 20, "hello world"},
		{"exact", "hello world", 11, "hello world"},
		{"two lines", "hello world again", 11, "hello world\nagain"},
		{"long word split", "abcdefghij", 4, "abcd\nefgh\nij"},
		{"indent kept", "    at Object.<anonymous> (test.js:1:1)", 25, "    at Object.<anonymous>\n(test.js:1:1)"},
		{"zero width", "hello", 0, "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Wrap(tt.text, tt.width))
		})
	}
}

func TestWrap_RespectsWidth(t *testing.T) {
	text := strings.Repeat("not ok 12 parallel/test-fs-watch-recursive-symlink ", 8)
	for _, width := range []int{5, 17, 40} {
		for i, line := range strings.Split(Wrap(text, width), "\n") {
			assert.LessOrEqual(t, VisualWidth(line), width, "width %d: line %d %q", width, i, line)
		}
	}
}

func TestWrap_WideRunes(t *testing.T) {
	text := "错误错误错误错误"
	for i, line := range strings.Split(Wrap(text, 5), "\n") {
		assert.LessOrEqual(t, VisualWidth(line), 5, "line %d %q", i, line)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in       string
		max      int
		ellipsis bool
		want     string
	}{
		{"hello", 10, true, "hello"},
		{"hello world", 8, true, "hello..."},
		{"hello world", 8, false, "hello wo"},
		{"hello", 0, true, ""},
		{"  padded  ", 6, false, "padded"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.max, tt.ellipsis), "Truncate(%q, %d, %v)", tt.in, tt.max, tt.ellipsis)
	}
}

func TestTruncateAndPad(t *testing.T) {
	assert.Equal(t, "ab  ", TruncateAndPad("ab", 4, false))
	assert.Equal(t, "abc...", TruncateAndPad("abcdefgh", 6, true))
	assert.Equal(t, 5, VisualWidth(TruncateAndPad("错误错误", 5, false)))
}

func TestSplitLines(t *testing.T) {
	assert.Empty(t, SplitLines(""))
	assert.Len(t, SplitLines("a\nb"), 2)
}
