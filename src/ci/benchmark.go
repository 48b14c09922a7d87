package ci

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	benchmarkMarker     = "improvement"
	significanceMarker  = "*"
	benchmarkSummaryLen = 3
)

// ErrBenchmarkNotFinished is returned when a benchmark console has no result
// table yet.
var ErrBenchmarkNotFinished = errors.New("benchmark has not finished")

var emailFooter = regexp.MustCompile(`\nSending e-mails[\s\S]+`)

// BenchmarkRun is a micro-benchmark comparison job.
type BenchmarkRun struct {
	r      *Resolver
	number int
	once   once

	// Results is the comparison table with its summary, set by Resolve.
	Results string
}

func (r *Resolver) BenchmarkRun(number int) *BenchmarkRun {
	return &BenchmarkRun{r: r, number: number}
}

func (b *BenchmarkRun) Path() string { return JobPath(BenchmarkJob, b.number) }

// Resolve extracts the result table. It fails with ErrBenchmarkNotFinished
// while the job is still running.
func (b *BenchmarkRun) Resolve(ctx context.Context) (*Resolution, error) {
	return b.once.do(func() (*Resolution, error) {
		b.r.progress.Update(fmt.Sprintf("Querying results of %s", b.Path()))

		text, err := b.r.fetcher.FetchText(ctx, b.Path())
		if err != nil {
			return nil, err
		}

		results, err := benchmarkResults(text)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Path(), err)
		}
		b.Results = results
		return &Resolution{Result: Success}, nil
	})
}

// SignificantResults returns the result lines flagged as significant,
// including the table header, without the trailing false-positive summary.
func (b *BenchmarkRun) SignificantResults() []string {
	return significantLines(b.Results)
}

func benchmarkResults(text string) (string, error) {
	idx := strings.Index(text, benchmarkMarker)
	if idx < 0 {
		return "", ErrBenchmarkNotFinished
	}
	start := strings.LastIndex(text[:idx], "\n") + 1
	results := emailFooter.ReplaceAllString(text[start:], "")
	return strings.TrimRight(results, "\r\n"), nil
}

func significantLines(results string) []string {
	var lines []string
	for _, line := range strings.Split(results, "\n") {
		if strings.Contains(line, significanceMarker) {
			lines = append(lines, line)
		}
	}
	if len(lines) <= benchmarkSummaryLen {
		return nil
	}
	return lines[:len(lines)-benchmarkSummaryLen]
}
