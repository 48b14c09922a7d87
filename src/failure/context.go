package failure

import "strings"

// Context selects one match and how many surrounding lines to keep.
type Context struct {
	// Index picks the match: 0 is the first, -1 the last.
	Index  int
	Before int
	After  int
}

// PickContext expands one of the matches (as returned by FindAllStringIndex)
// into an excerpt running from the match (or Before whole lines above it) to
// the end of the After-th line below it. It returns the excerpt and the line
// of the excerpt on which the match starts.
func PickContext(matches [][]int, text string, ctx Context) (string, int) {
	idx := ctx.Index
	if idx < 0 {
		idx = len(matches) + idx
	}
	if idx < 0 || idx >= len(matches) {
		return "", 0
	}
	start, end := matches[idx][0], matches[idx][1]

	highlight := 0
	if ctx.Before > 0 {
		start = strings.LastIndexByte(text[:start], '\n') + 1
		for i := 0; i < ctx.Before && start > 0; i++ {
			start = strings.LastIndexByte(text[:start-1], '\n') + 1
			highlight++
		}
	}

	// Move end onto the newline terminating the match's last line.
	if end > start && text[end-1] == '\n' {
		end--
	} else if nl := strings.IndexByte(text[end:], '\n'); nl >= 0 {
		end += nl
	} else {
		end = len(text)
	}

	for i := 0; i < ctx.After && end < len(text); i++ {
		from := end + 1
		if nl := strings.IndexByte(text[from:], '\n'); nl >= 0 {
			end = from + nl
		} else {
			end = len(text)
		}
	}

	return strings.TrimRight(text[start:end], "\r\n"), highlight
}
