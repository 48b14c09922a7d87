// Package patterns normalizes failure text so the same failure seen on
// different machines or builds groups together.
//
// Two masking levels share one set of patterns:
//   - MaskDisplay: light normalization for showing a line (keeps numbers)
//   - MaskGrouping: aggressive normalization for grouping (masks numbers)
package patterns

import (
	"regexp"
	"strings"

	"cisleuth/src/failure"
)

// MaskingLevel controls how aggressively lines are normalized.
type MaskingLevel int

const (
	// MaskDisplay keeps diagnostic details like line numbers.
	// Example: /home/iojs/build/workspace/node-test-commit-linux/test/parallel/test-fs.js:42 → .../test-fs.js:42
	MaskDisplay MaskingLevel = iota

	// MaskGrouping replaces anything that varies between runs of one failure.
	// Example: not ok 1234 parallel/test-fs → not ok [NUM] parallel/test-fs
	MaskGrouping
)

var (
	// Jenkins timestamper and TAP timestamps.
	// Matches: 2024-05-21T10:00:05.123Z, 10:00:05 prefixes
	timestampPattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}([.,]\d+)?(Z|[+-]\d{2}:?\d{2})?|^\d{2}:\d{2}:\d{2} `)

	// Matches: 0x7fff5fbff8c0
	hexAddressPattern = regexp.MustCompile(`\b0x[0-9a-fA-F]+\b`)

	// Git SHAs and similar identifiers.
	longHashPattern = regexp.MustCompile(`\b[a-f0-9]{12,}\b`)

	numberPattern = regexp.MustCompile(`\b\d+\b`)

	// Absolute unix paths with 3+ directories, capturing the file name and
	// optional line number.
	unixPathPattern = regexp.MustCompile(`/(?:[^/\s]+/){3,}([^/\s:]+(?::\d+)?)`)

	// Windows agent paths such as c:\workspace\node-test-binary-windows\test\parallel\test-fs.js
	windowsPathPattern = regexp.MustCompile(`(?i)\b[a-z]:\\(?:[^\\\s]+\\){2,}([^\\\s:]+(?::\d+)?)`)

	whitespacePattern = regexp.MustCompile(`\s+`)
)

const minPrefixLength = 20

// Normalize applies the masking level to a single line.
func Normalize(line string, level MaskingLevel) string {
	line = timestampPattern.ReplaceAllString(line, placeholder("TIME", level))
	line = hexAddressPattern.ReplaceAllString(line, placeholder("HEX", level))

	switch level {
	case MaskDisplay:
		line = unixPathPattern.ReplaceAllString(line, ".../$1")
		line = windowsPathPattern.ReplaceAllString(line, `...\$1`)
		line = longHashPattern.ReplaceAllString(line, "<HASH>")
	case MaskGrouping:
		line = unixPathPattern.ReplaceAllString(line, "[PATH]")
		line = windowsPathPattern.ReplaceAllString(line, "[PATH]")
		line = longHashPattern.ReplaceAllString(line, "[HASH]")
		line = numberPattern.ReplaceAllString(line, "[NUM]")
	}

	return strings.TrimSpace(whitespacePattern.ReplaceAllString(line, " "))
}

func placeholder(name string, level MaskingLevel) string {
	if level == MaskDisplay {
		return ""
	}
	return "[" + name + "]"
}

// NormalizeLines normalizes each line. At display level a long prefix shared
// by every line is replaced with "...".
func NormalizeLines(lines []string, level MaskingLevel) []string {
	if len(lines) == 0 {
		return lines
	}

	result := make([]string, len(lines))
	for i, line := range lines {
		result[i] = Normalize(line, level)
	}

	if level == MaskDisplay {
		result = removeCommonPrefix(result)
	}
	return result
}

// Signature is the grouping key of a failure. JS test failures group by test
// file; everything else by its normalized highlighted line.
func Signature(f failure.Failure) string {
	if f.Sentinel {
		return "sentinel: " + f.Reason
	}
	if f.Kind == failure.JSTestFailure && f.File != "" {
		return string(f.Kind) + ": " + f.File
	}
	return string(f.Kind) + ": " + Normalize(f.HighlightedLine(), MaskGrouping)
}

func removeCommonPrefix(lines []string) []string {
	prefix := findCommonPrefix(lines)
	if prefix == "" {
		return lines
	}

	result := make([]string, len(lines))
	for i, line := range lines {
		result[i] = "... " + line[len(prefix):]
	}
	return result
}

func findCommonPrefix(lines []string) string {
	if len(lines) < 2 {
		return ""
	}

	prefix := lines[0]
	for _, line := range lines[1:] {
		for len(prefix) > 0 && !strings.HasPrefix(line, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
		if prefix == "" {
			break
		}
	}

	if len(prefix) < minPrefixLength {
		return ""
	}
	return prefix
}
