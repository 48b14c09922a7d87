package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"cisleuth/src/ci"
	"cisleuth/src/failure"
	"cisleuth/src/jobs"
	"cisleuth/src/patterns"
	"cisleuth/src/ranking"
)

// Format selects a renderer.
type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatMarkdown, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, markdown or json)", s)
	}
}

// Render writes reports in the given format.
func Render(w io.Writer, format Format, reports []*Report, width int) error {
	switch format {
	case FormatJSON:
		return JSON(w, reports)
	case FormatMarkdown:
		for _, r := range reports {
			if err := Markdown(w, r); err != nil {
				return err
			}
		}
		return nil
	default:
		for _, r := range reports {
			if err := Table(w, r, width); err != nil {
				return err
			}
		}
		return nil
	}
}

// JSON writes reports as an indented JSON array.
func JSON(w io.Writer, reports []*Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

// Markdown writes a report suitable for pasting into a GitHub comment.
func Markdown(w io.Writer, r *Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s %s: %s\n\n", r.Type, r.URL, resultText(r))
	if r.Change != nil {
		fmt.Fprintf(&b, "- Commit: `%s` %s (%s)\n", shortSHA(r.Change.CommitID), firstLine(r.Change.Message), r.Change.Author)
	}
	if r.SourceURL != "" {
		fmt.Fprintf(&b, "- Source: %s\n", r.SourceURL)
	}
	if r.SubBuilds != nil {
		writeSubBuildList(&b, "Failed", r.SubBuilds.Failed)
		writeSubBuildList(&b, "Aborted", r.SubBuilds.Aborted)
		writeSubBuildList(&b, "Pending", r.SubBuilds.Pending)
		writeSubBuildList(&b, "Unstable", r.SubBuilds.Unstable)
	}
	if r.Change != nil || r.SourceURL != "" || r.SubBuilds != nil {
		b.WriteString("\n")
	}

	if len(r.Benchmark) > 0 {
		b.WriteString("### Significant results\n\n```console\n")
		b.WriteString(strings.Join(r.Benchmark, "\n"))
		b.WriteString("\n```\n\n")
	}

	for _, g := range r.Groups {
		writeGroup(&b, g)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSubBuildList(b *strings.Builder, label string, builds []SubBuildRef) {
	if len(builds) == 0 {
		return
	}
	names := make([]string, len(builds))
	for i, sb := range builds {
		names[i] = fmt.Sprintf("[%s#%d](%s)", sb.Job, sb.Number, sb.URL)
	}
	fmt.Fprintf(b, "- %s: %s\n", label, strings.Join(names, ", "))
}

func writeGroup(b *strings.Builder, g ranking.Group) {
	f := g.Example
	switch {
	case f.Sentinel:
		fmt.Fprintf(b, "### %s\n\n", f.Reason)
	case f.Kind == failure.JSTestFailure:
		fmt.Fprintf(b, "### %s %s\n\n", kindLabel(f), f.File)
	default:
		fmt.Fprintf(b, "### %s %s\n\n", kindLabel(f), patterns.Normalize(f.HighlightedLine(), patterns.MaskDisplay))
	}
	if len(g.Machines) > 0 {
		fmt.Fprintf(b, "- Machines: %s\n", strings.Join(g.Machines, ", "))
	}
	for _, u := range g.URLs {
		fmt.Fprintf(b, "- %s\n", u)
	}
	if !f.Sentinel {
		b.WriteString("\n<details>\n<summary>Output</summary>\n\n```console\n")
		b.WriteString(f.Reason)
		b.WriteString("\n```\n\n</details>\n")
	}
	b.WriteString("\n")
}

// ThreadMarkdown lists mined job references.
func ThreadMarkdown(w io.Writer, refs []jobs.Reference) error {
	var b strings.Builder
	if len(refs) == 0 {
		b.WriteString("No CI runs found.\n")
	}
	for _, ref := range refs {
		name := string(ref.Type)
		if jt, ok := jobs.Lookup(ref.Type); ok {
			name = jt.Name
		}
		fmt.Fprintf(&b, "- %s: %s (%s)\n", name, ref.Link, ref.Date.Format("2006-01-02 15:04"))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8AB4F8"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9AA0A6"))
	tierStyles  = map[int]lipgloss.Style{
		ranking.TierWidespread: lipgloss.NewStyle().Foreground(lipgloss.Color("#EA4335")),
		ranking.TierIsolated:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBC04")),
		ranking.TierSentinel:   dimStyle,
	}
)

const (
	rankWidth    = 3
	kindWidth    = 8
	countWidth   = 5
	machineWidth = 24
	minReason    = 20
)

// Table writes a terminal table of ranked failure groups.
func Table(w io.Writer, r *Report, width int) error {
	if width <= 0 {
		width = 120
	}
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("%s %s  %s", r.Type, r.URL, resultText(r))))
	b.WriteString("\n")
	if r.Change != nil {
		b.WriteString(dimStyle.Render(fmt.Sprintf("%s %s (%s)", shortSHA(r.Change.CommitID), firstLine(r.Change.Message), r.Change.Author)))
		b.WriteString("\n")
	}

	for _, line := range r.Benchmark {
		b.WriteString(cell(line, width, false))
		b.WriteString("\n")
	}

	if len(r.Groups) > 0 {
		reasonWidth := width - rankWidth - kindWidth - countWidth - machineWidth - 12
		if reasonWidth < minReason {
			reasonWidth = minReason
		}

		header := fmt.Sprintf("%s │ %s │ %s │ %s │ %s",
			cell("#", rankWidth, false), cell("Type", kindWidth, false),
			cell("Count", countWidth, false), cell("Machine", machineWidth, false), "Failure")
		b.WriteString(headerStyle.Render(header))
		b.WriteString("\n")

		for _, g := range r.Groups {
			reason := g.Example.HighlightedLine()
			if g.Example.Kind == failure.JSTestFailure {
				reason = g.Example.File
			} else if g.Example.Sentinel {
				reason = g.Example.Reason
			}
			machine := strings.Join(g.Machines, ",")
			row := fmt.Sprintf("%s │ %s │ %s │ %s │ %s",
				cell(fmt.Sprintf("%d", g.Rank), rankWidth, false),
				cell(kindLabel(g.Example), kindWidth, false),
				cell(fmt.Sprintf("%d", g.Count), countWidth, false),
				cell(machine, machineWidth, true),
				cell(patterns.Normalize(reason, patterns.MaskDisplay), reasonWidth, true))
			b.WriteString(tierStyles[g.Tier].Render(row))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// cell truncates s to width display columns and pads it.
func cell(s string, width int, ellipsis bool) string {
	s = strings.TrimSpace(s)
	if runewidth.StringWidth(s) > width {
		tail := ""
		if ellipsis && width > 3 {
			tail = "..."
		}
		s = runewidth.Truncate(s, width, tail)
	}
	return runewidth.FillRight(s, width)
}

func kindLabel(f failure.Failure) string {
	switch f.Kind {
	case failure.JSTestFailure:
		return "JS"
	case failure.CCTestFailure:
		return "C++"
	case failure.JenkinsFailure:
		return "Jenkins"
	case failure.BuildFailure:
		return "Build"
	}
	return "Unknown"
}

func resultText(r *Report) string {
	if r.Result == "" {
		return string(ci.Pending)
	}
	return string(r.Result)
}

func shortSHA(sha string) string {
	if len(sha) > 10 {
		return sha[:10]
	}
	return sha
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
