package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// Panel border (2) plus bubbles/list padding.
	listRenderingOverhead = 4

	kindWidth = 3
)

// Delegate renders failure groups as table rows.
type Delegate struct {
	RankWidth  int
	CountWidth int
	styles     *StyleConfig
}

// NewDelegate creates a delegate using styles.
func NewDelegate(styles *StyleConfig) *Delegate {
	return &Delegate{RankWidth: 2, CountWidth: 2, styles: styles}
}

// SetColumnWidths sizes the numeric columns for the largest values.
func (d *Delegate) SetColumnWidths(maxRank, maxCount int) {
	d.RankWidth = max(2, len(fmt.Sprint(maxRank)))
	d.CountWidth = max(2, len(fmt.Sprint(maxCount)))
}

func (d *Delegate) Height() int  { return 1 }
func (d *Delegate) Spacing() int { return 0 }

func (d *Delegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

// FixedWidth is the width of every column but the title, separators included.
func (d *Delegate) FixedWidth() int {
	return d.RankWidth + d.CountWidth + kindWidth + 3*3
}

// Render draws one row: rank, kind, count and title.
func (d *Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(Item)
	if !ok {
		return
	}

	titleWidth := m.Width() - d.FixedWidth() - listRenderingOverhead
	var title string
	if titleWidth > 0 {
		title = TruncateAndPad(entry.Title(), titleWidth, true)
	}

	line := fmt.Sprintf("%*d │ %s │ %*d │ %s",
		d.RankWidth, entry.Group.Rank,
		TruncateAndPad(entry.KindLabel(), kindWidth, false),
		d.CountWidth, entry.Group.Count,
		title)

	style := d.styles.TierStyle(entry.Group.Tier)
	if index == m.Index() {
		style = style.Bold(true).Background(d.styles.SelectedColor)
	}
	fmt.Fprint(w, style.Render(line))
}

// headerRow labels the delegate's columns.
func (d *Delegate) headerRow() string {
	return fmt.Sprintf("%*s │ %s │ %*s │ Failure",
		d.RankWidth, "Rk",
		TruncateAndPad("Knd", kindWidth, false),
		d.CountWidth, "N")
}

var _ list.ItemDelegate = (*Delegate)(nil)

func renderHeaderRow(styles *StyleConfig, text string, width int) string {
	return lipgloss.NewStyle().
		Foreground(styles.PrimaryBlue).
		Bold(true).
		Width(width).
		Padding(0, 1).
		Render(Truncate(text, width-2, true))
}
