package failure

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSource = Source{URL: "https://ci.nodejs.org/job/node-test-binary-windows/1/", BuiltOn: "test-azure-win2019-1"}

func tapFailure(n int, file, severity, extra string) string {
	var b strings.Builder
	b.WriteString("not ok " + strconv.Itoa(n) + " " + file + extra + "\n")
	b.WriteString("  ---\n")
	b.WriteString("  duration_ms: 120.5\n")
	if severity != "" {
		b.WriteString("  severity: " + severity + "\n")
	}
	b.WriteString("  exitcode: 1\n")
	b.WriteString("  ...\n")
	return b.String()
}

func TestClassify_JSTestFailures(t *testing.T) {
	text := "ok 1 parallel/test-a\n" +
		tapFailure(2, "parallel/test-fs-watch", "fail", "") +
		"ok 3 parallel/test-b\n" +
		tapFailure(4, "sequential/test-net-timeout", "crashed", "")

	failures, err := Classify(testSource, text)
	require.NoError(t, err)
	require.Len(t, failures, 2)

	tests := []struct {
		file     string
		severity string
	}{
		{"parallel/test-fs-watch", "fail"},
		{"sequential/test-net-timeout", "crashed"},
	}
	for i, tt := range tests {
		f := failures[i]
		assert.Equal(t, JSTestFailure, f.Kind, "failure %d", i)
		assert.Equal(t, tt.file, f.File, "failure %d", i)
		assert.Equal(t, tt.severity, f.Severity, "failure %d", i)
		assert.Zero(t, f.Highlight, "failure %d", i)
		assert.Equal(t, testSource.URL, f.URL)
		assert.Equal(t, testSource.BuiltOn, f.BuiltOn)
		assert.True(t, strings.HasPrefix(f.HighlightedLine(), "not ok "), "highlighted line = %q", f.HighlightedLine())
	}
}

func TestClassify_SeverityOnMarkerLine(t *testing.T) {
	failures, err := Classify(testSource, "not ok 2 parallel/test-b\n  --- severity: crashed\n  ...\n")
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "parallel/test-b", failures[0].File)
	assert.Equal(t, "crashed", failures[0].Severity)
}

func TestClassify_FlakyExcluded(t *testing.T) {
	text := tapFailure(1, "parallel/test-flaky", "flaky", " # TODO : Fix flaky test") +
		tapFailure(2, "parallel/test-real", "fail", "")

	failures, err := Classify(testSource, text)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "parallel/test-real", failures[0].File)
}

func TestClassify_OnlyFlakyFallsThrough(t *testing.T) {
	text := tapFailure(1, "parallel/test-flaky", "flaky", " # TODO : Fix flaky test") +
		"Build step 'Execute shell' marked build as failure\n" +
		"ERROR: Step 'Publish TAP Results' failed\n"

	failures, err := Classify(testSource, text)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, JenkinsFailure, failures[0].Kind)
}

func TestClassify_DuplicateTAPBlocks(t *testing.T) {
	block := tapFailure(7, "parallel/test-dup", "fail", "")
	failures, err := Classify(testSource, block+"ok 8 x\n"+block)
	require.NoError(t, err)
	assert.Len(t, failures, 1)
}

func TestClassify_MissingSeverity(t *testing.T) {
	_, err := Classify(testSource, tapFailure(1, "parallel/test-x", "", ""))
	assert.ErrorIs(t, err, ErrMissingSeverity)
}

func TestClassify_Priority(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		kind   Kind
		reason string
	}{
		{
			name: "js test beats cc and jenkins",
			text: "[  FAILED  ] DebugTest.Foo\nERROR: something\n" +
				tapFailure(1, "parallel/test-a", "fail", ""),
			kind:   JSTestFailure,
			reason: "not ok 1 parallel/test-a",
		},
		{
			name:   "cc test beats jenkins error",
			text:   "[ RUN      ] A.B\n[  FAILED  ] A.B (3 ms)\nERROR: step failed\n",
			kind:   CCTestFailure,
			reason: "[  FAILED  ] A.B (3 ms)",
		},
		{
			name:   "io exception beats ERROR",
			text:   "ERROR: first\njava.io.IOException: Connection reset\nERROR: second\n",
			kind:   JenkinsFailure,
			reason: "java.io.IOException: Connection reset",
		},
		{
			name:   "ERROR beats Error",
			text:   "Error: lowercase style\nERROR: upper style\n",
			kind:   JenkinsFailure,
			reason: "ERROR: upper style",
		},
		{
			name:   "Error used when no ERROR",
			text:   "Error: Cannot find module 'x'\n",
			kind:   JenkinsFailure,
			reason: "Error: Cannot find module 'x'",
		},
		{
			name:   "git fatal beats build",
			text:   "fatal: reference is not a tree: abc\nerror: compile failed\n",
			kind:   BuildFailure,
			reason: "fatal: reference is not a tree: abc",
		},
		{
			name:   "make error",
			text:   "cc -o out/x.o\nmake[2]: *** [out/x.o] Error 1\n",
			kind:   BuildFailure,
			reason: "make[2]: *** [out/x.o] Error 1",
		},
		{
			name:   "makefile failed",
			text:   "Makefile:108: recipe for target 'node' failed\n",
			kind:   BuildFailure,
			reason: "Makefile:108: recipe for target 'node' failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failures, err := Classify(testSource, tt.text)
			require.NoError(t, err)
			require.NotEmpty(t, failures)
			assert.Equal(t, tt.kind, failures[0].Kind)
			assert.Equal(t, tt.reason, failures[0].HighlightedLine())
		})
	}
}

func TestClassify_GitFatalUniqueLines(t *testing.T) {
	text := "fatal: unable to access repo\nretrying\nfatal: unable to access repo\nfatal: early EOF\n"
	failures, err := Classify(testSource, text)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "fatal: unable to access repo\nfatal: early EOF", failures[0].Reason)
}

func TestClassify_FatalContext(t *testing.T) {
	text := "l1\nl2\nl3\nFATAL: first\nl5\nl6\nFATAL: last\na1\na2\na3\na4\na5\na6\n"
	failures, err := Classify(testSource, text)
	require.NoError(t, err)
	require.NotEmpty(t, failures)

	f := failures[0]
	assert.Equal(t, "l5\nl6\nFATAL: last\na1\na2\na3\na4\na5", f.Reason)
	assert.Equal(t, 2, f.Highlight)
	assert.Equal(t, "FATAL: last", f.HighlightedLine())
}

func TestClassify_Unknown(t *testing.T) {
	failures, err := Classify(testSource, "Started by upstream project\nFinished: FAILURE\n")
	require.NoError(t, err)
	require.Len(t, failures, 1)

	f := failures[0]
	assert.True(t, f.Sentinel)
	assert.Equal(t, UnknownReason, f.Reason)
	assert.Equal(t, testSource.URL, f.URL)
}

func TestClassify_StripsConsoleNotes(t *testing.T) {
	text := "\x1b[8mha:AAAAWB+LCAAAAAAAAP9b\x1b[0m\x1b[31mERROR: node exited\x1b[0m\n"
	failures, err := Classify(testSource, text)
	require.NoError(t, err)
	require.NotEmpty(t, failures)
	assert.Equal(t, "ERROR: node exited", failures[0].Reason)
}
