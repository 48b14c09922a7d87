package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"cisleuth/src/progress"
	"cisleuth/src/report"
)

// ProgramReporter forwards progress to a running program.
type ProgramReporter struct {
	send func(tea.Msg)
}

func NewProgramReporter(p *tea.Program) *ProgramReporter {
	return &ProgramReporter{send: p.Send}
}

func (r *ProgramReporter) Announce(msg string) { r.send(ProgressMsg{Stage: msg}) }
func (r *ProgramReporter) Update(msg string)   { r.send(ProgressMsg{Stage: msg}) }
func (r *ProgramReporter) Done(msg string)     { r.send(ProgressMsg{Stage: msg, Done: true}) }

var _ progress.Reporter = (*ProgramReporter)(nil)

// Loader resolves the report to browse, reporting progress to r.
type Loader func(ctx context.Context, r progress.Reporter) (*report.Report, error)

// Run shows the browser while load runs, and until the user quits. It returns
// what load returned; quitting early cancels load.
func Run(ctx context.Context, load Loader) (*report.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewMainModel(), tea.WithAltScreen(), tea.WithContext(ctx))
	reporter := NewProgramReporter(p)

	var (
		rep     *report.Report
		loadErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		rep, loadErr = load(ctx, reporter)
		if loadErr != nil {
			p.Send(ErrMsg{Err: loadErr})
			return
		}
		p.Send(ReportMsg{Report: rep})
	}()

	_, err := p.Run()
	cancel()
	<-done
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return nil, err
	}
	return rep, loadErr
}
