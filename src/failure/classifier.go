package failure

import (
	"regexp"
	"strings"

	"cisleuth/src/sanitize"
)

// rule is one regex with the context it keeps around its chosen match.
type rule struct {
	pattern *regexp.Regexp
	context Context
}

// group is an ordered classification step. It returns nil to abstain.
type group func(src Source, text string) ([]Failure, error)

var (
	tapFailurePattern = regexp.MustCompile(`not ok \d+[\s\S]+? +\.\.\.\r?\n`)
	flakyMarker       = "# TODO :"

	ccTestRules = []rule{
		{regexp.MustCompile(`\[  FAILED  \].+`), Context{Index: 0, After: 5}},
	}
	jenkinsIORules = []rule{
		{regexp.MustCompile(`java\.io\.IOException.+`), Context{Index: -1, After: 5}},
	}
	jenkinsErrorRules = []rule{
		{regexp.MustCompile(`ERROR: .+`), Context{Index: -1, After: 5}},
		{regexp.MustCompile(`Error: .+`), Context{Index: 0, After: 5}},
	}
	gitFatalPattern = regexp.MustCompile(`fatal: .+`)
	buildRules      = []rule{
		{regexp.MustCompile(`FATAL: .+`), Context{Index: -1, Before: 2, After: 5}},
		{regexp.MustCompile(`error: .+`), Context{Index: 0, Before: 5}},
		{regexp.MustCompile(`make.*: write error`), Context{Index: 0}},
		{regexp.MustCompile(`Makefile:.+failed`), Context{Index: 0}},
		{regexp.MustCompile(`make.*: .+ Error \d.*`), Context{Index: 0}},
		{regexp.MustCompile(`warning: failed .+`), Context{Index: 0, After: 3}},
	}
)

// groups are evaluated in order; the first to produce failures wins.
var groups = []group{
	classifyJSTests,
	firstRule(CCTestFailure, ccTestRules),
	firstRule(JenkinsFailure, jenkinsIORules),
	firstRule(JenkinsFailure, jenkinsErrorRules),
	classifyGitFatal,
	firstRule(BuildFailure, buildRules),
}

// Classify extracts failures from console text. When no group matches it
// returns a single Unknown sentinel. The only error is ErrMissingSeverity.
func Classify(src Source, text string) ([]Failure, error) {
	text = sanitize.StripANSI(text)

	for _, g := range groups {
		failures, err := g(src, text)
		if err != nil {
			return nil, err
		}
		if len(failures) > 0 {
			return failures, nil
		}
	}
	return []Failure{Unknown(src)}, nil
}

func classifyJSTests(src Source, text string) ([]Failure, error) {
	seen := make(map[string]bool)
	var failures []Failure
	for _, m := range tapFailurePattern.FindAllString(text, -1) {
		if seen[m] || strings.Contains(m, flakyMarker) {
			continue
		}
		seen[m] = true

		f, err := NewJSTestFailure(src, m, 0)
		if err != nil {
			return nil, err
		}
		failures = append(failures, f)
	}
	return failures, nil
}

func classifyGitFatal(src Source, text string) ([]Failure, error) {
	matches := gitFatalPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil, nil
	}
	var lines []string
	seen := make(map[string]bool)
	for _, m := range matches {
		if !seen[m] {
			seen[m] = true
			lines = append(lines, m)
		}
	}
	return []Failure{New(BuildFailure, src, strings.Join(lines, "\n"), 0)}, nil
}

// firstRule returns a group that emits the excerpt of the first rule with any
// match.
func firstRule(kind Kind, rules []rule) group {
	return func(src Source, text string) ([]Failure, error) {
		for _, r := range rules {
			matches := r.pattern.FindAllStringIndex(text, -1)
			if len(matches) == 0 {
				continue
			}
			excerpt, highlight := PickContext(matches, text, r.context)
			return []Failure{New(kind, src, excerpt, highlight)}, nil
		}
		return nil, nil
	}
}
