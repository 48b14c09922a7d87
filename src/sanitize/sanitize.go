// Package sanitize cleans Jenkins console output before it is classified or shown.
// It removes hidden Jenkins console notes and ANSI escape sequences so that
// rule patterns and renderers see the same plain text a browser would show.
package sanitize

import (
	"regexp"

	"github.com/charmbracelet/x/ansi"
)

// Jenkins console notes: \x1b[8mha:<base64>\x1b[0m, invisible in the web UI.
var consoleNote = regexp.MustCompile(`\x1b\[8mha:[^\x1b]*\x1b\[0m`)

// StripANSI removes Jenkins console notes and ANSI escape codes.
func StripANSI(s string) string {
	s = consoleNote.ReplaceAllString(s, "")
	return ansi.Strip(s)
}
