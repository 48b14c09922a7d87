package tui

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cisleuth/src/ci"
	"cisleuth/src/failure"
	"cisleuth/src/ranking"
	"cisleuth/src/report"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripAnsi(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func testReport() *report.Report {
	src := func(machine string) failure.Source {
		return failure.Source{URL: "https://ci.nodejs.org/job/node-test-commit-linux/nodes=" + machine + "/1/", BuiltOn: machine}
	}
	js := func(machine, file string) failure.Failure {
		f, err := failure.NewJSTestFailure(src(machine),
			"not ok 1 "+file+"\n  ---\n  severity: fail\n  stack: |-\n    AssertionError\n  ...", 0)
		if err != nil {
			panic(err)
		}
		return f
	}

	failures := []failure.Failure{
		js("ubuntu", "parallel/test-fs-watch"),
		js("fedora", "parallel/test-fs-watch"),
		failure.New(failure.BuildFailure, src("rhel"), "cc1plus: out of memory\nerror: build failed\nmake: *** [all] Error 1", 1),
		failure.Unknown(src("smartos")),
	}
	return &report.Report{
		Type:     report.TypeCommit,
		URL:      "https://ci.nodejs.org/job/node-test-commit/1/",
		Result:   ci.Failure,
		Failures: failures,
		Groups:   ranking.RankFailures(failures),
	}
}

func readyModel(t *testing.T, width, height int) MainModel {
	t.Helper()
	m := NewMainModel()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	updated, _ = updated.Update(ReportMsg{Report: testReport()})
	return updated.(MainModel)
}

func press(t *testing.T, m MainModel, keys ...string) MainModel {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		m = updated.(MainModel)
	}
	return m
}

func TestMainModel_Loading(t *testing.T) {
	m := NewMainModel()
	assert.Contains(t, m.View(), "Initializing")

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	updated, _ = updated.Update(ProgressMsg{Stage: "Querying data of job/node-test-commit/1/"})
	assert.Contains(t, stripAnsi(updated.View()), "Querying data of job/node-test-commit/1/")
}

func TestMainModel_Report(t *testing.T) {
	m := readyModel(t, 120, 30)

	require.Equal(t, StatusReady, m.status)
	require.Equal(t, 3, m.listView.Len())

	first, ok := m.listView.SelectedItem()
	require.True(t, ok)
	assert.Equal(t, "parallel/test-fs-watch", first.Title())
	assert.Equal(t, ranking.TierWidespread, first.Group.Tier)

	view := stripAnsi(m.View())
	for _, want := range []string{"COMMIT", "FAILURE", "parallel/test-fs-watch", "ubuntu, fedora"} {
		assert.Contains(t, view, want)
	}
}

func TestMainModel_TierFilter(t *testing.T) {
	m := readyModel(t, 120, 30)

	tests := []struct {
		keys []string
		want int
	}{
		{[]string{"1"}, 1},
		{[]string{"2"}, 1},
		{[]string{"3"}, 1},
		{[]string{"0"}, 3},
		{[]string{"tab"}, 1},
		{[]string{"tab", "tab", "tab", "tab"}, 3},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.keys, ","), func(t *testing.T) {
			got := press(t, m, tt.keys...)
			assert.Equal(t, tt.want, got.listView.Len(), "after %v", tt.keys)
		})
	}

	sentinel := press(t, m, "3")
	item, _ := sentinel.listView.SelectedItem()
	assert.Equal(t, failure.UnknownReason, item.Title())
}

func TestMainModel_Search(t *testing.T) {
	m := readyModel(t, 120, 30)

	m = press(t, m, "/", "r", "h", "e", "l")
	require.True(t, m.searchMode)
	require.Equal(t, 1, m.listView.Len(), "search 'rhel' matches")

	m = press(t, m, "enter")
	assert.False(t, m.searchMode)
	assert.Equal(t, "rhel", m.searchQuery)
	assert.Contains(t, stripAnsi(m.View()), "Search: rhel", "header shows the applied search")

	m = press(t, m, "esc")
	assert.Empty(t, m.searchQuery, "esc clears the search")
	assert.Equal(t, 3, m.listView.Len())
}

func TestMainModel_DetailFocus(t *testing.T) {
	m := readyModel(t, 120, 30)

	m = press(t, m, "down", "enter")
	require.True(t, m.detailFocused, "enter focuses the detail panel")
	assert.Contains(t, stripAnsi(m.detailViewport.View()), "error: build failed")

	m = press(t, m, "1")
	assert.Equal(t, 3, m.listView.Len(), "tier keys do not apply while the detail panel is focused")

	m = press(t, m, "esc")
	assert.False(t, m.detailFocused, "esc returns to the list")
}

func TestMainModel_Error(t *testing.T) {
	m := NewMainModel()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	updated, _ = updated.Update(ErrMsg{Err: errors.New("Build not found")})

	assert.Contains(t, stripAnsi(updated.View()), "Error: Build not found")

	_, cmd := updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd, "q should quit")
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestMainModel_NoOverflow(t *testing.T) {
	rep := testReport()
	long := strings.Repeat("This is a very long line of console output that must wrap ", 6)
	extra := failure.New(failure.CCTestFailure, failure.Source{URL: "u", BuiltOn: "win"}, long+"\n"+long, 0)
	rep.Failures = append(rep.Failures, extra)
	rep.Groups = ranking.RankFailures(rep.Failures)

	for _, width := range []int{60, 100, 160} {
		t.Run(fmt.Sprint(width), func(t *testing.T) {
			m := NewMainModel()
			updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: 30})
			updated, _ = updated.Update(ReportMsg{Report: rep})
			mm := press(t, updated.(MainModel), "2", "down", "enter")

			for i, line := range strings.Split(mm.View(), "\n") {
				plain := stripAnsi(line)
				assert.LessOrEqual(t, VisualWidth(plain), width, "line %d: %q", i, plain)
			}
		})
	}
}

func TestItem(t *testing.T) {
	rep := testReport()
	items := itemsFromGroups(rep.Groups)

	lines, hl := items[1].Excerpt()
	require.Equal(t, 1, hl)
	assert.Equal(t, "error: build failed", lines[hl])
	assert.Equal(t, "BLD", items[1].KindLabel())

	lines, hl = items[2].Excerpt()
	assert.Nil(t, lines, "sentinel has no excerpt")
	assert.Equal(t, -1, hl)
	assert.Contains(t, items[0].FilterValue(), "fedora", "filter value includes machines")
}
