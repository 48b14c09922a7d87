// Package failure turns raw Jenkins console text into typed failure records.
package failure

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Kind tags the category of a classified failure.
type Kind string

const (
	BuildFailure   Kind = "BUILD_FAILURE"
	JSTestFailure  Kind = "JS_TEST_FAILURE"
	CCTestFailure  Kind = "CC_TEST_FAILURE"
	JenkinsFailure Kind = "JENKINS_FAILURE"
)

// UnknownReason is the reason used when no rule group matched.
const UnknownReason = "Unknown"

// ErrMissingSeverity is returned when a JS test excerpt has no severity marker.
// The TAP reporter always emits one, so its absence means the console format
// changed and the rule needs updating.
var ErrMissingSeverity = errors.New("JS test failure has no severity marker")

var severityPattern = regexp.MustCompile(`severity: (\w+)`)

// Source identifies where a console text came from.
type Source struct {
	URL     string
	BuiltOn string
}

// Failure is one classified failure.
type Failure struct {
	Kind      Kind   `json:"type,omitempty"`
	URL       string `json:"url"`
	BuiltOn   string `json:"builtOn,omitempty"`
	Reason    string `json:"reason"`
	Highlight int    `json:"highlight"`

	// JS test failures only.
	File     string `json:"file,omitempty"`
	Severity string `json:"severity,omitempty"`

	// Sentinel marks records synthesized for missing or unclassifiable data.
	Sentinel bool `json:"sentinel,omitempty"`
}

// New builds a failure of the given kind.
func New(kind Kind, src Source, reason string, highlight int) Failure {
	return Failure{
		Kind:      kind,
		URL:       src.URL,
		BuiltOn:   src.BuiltOn,
		Reason:    reason,
		Highlight: highlight,
	}
}

// NewJSTestFailure builds a JS test failure from a TAP excerpt whose
// highlighted line is the "not ok" line.
func NewJSTestFailure(src Source, excerpt string, highlight int) (Failure, error) {
	lines := strings.Split(excerpt, "\n")
	if highlight < 0 || highlight >= len(lines) {
		return Failure{}, fmt.Errorf("highlight %d out of range for %d lines", highlight, len(lines))
	}

	m := severityPattern.FindStringSubmatch(excerpt)
	if m == nil {
		return Failure{}, fmt.Errorf("%w: %s", ErrMissingSeverity, strings.TrimSpace(lines[highlight]))
	}

	fields := strings.Split(strings.TrimRight(lines[highlight], "\r"), " ")

	f := New(JSTestFailure, src, excerpt, highlight)
	f.File = fields[len(fields)-1]
	f.Severity = m[1]
	return f, nil
}

// Sentinel builds a stand-in failure for missing or unclassifiable data.
func Sentinel(src Source, reason string) Failure {
	return Failure{
		URL:      src.URL,
		BuiltOn:  src.BuiltOn,
		Reason:   reason,
		Sentinel: true,
	}
}

// Unknown is the sentinel used when classification found nothing.
func Unknown(src Source) Failure {
	return Sentinel(src, UnknownReason)
}

// HighlightedLine returns the primary line of the reason.
func (f Failure) HighlightedLine() string {
	lines := strings.Split(f.Reason, "\n")
	if f.Highlight < 0 || f.Highlight >= len(lines) {
		return ""
	}
	return lines[f.Highlight]
}
