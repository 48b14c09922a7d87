// Package report turns resolved builds into reports and renders them.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cisleuth/src/ci"
	"cisleuth/src/failure"
	"cisleuth/src/ranking"
)

// Node types as shown in reports.
const (
	TypePR        = "PR"
	TypeCommit    = "COMMIT"
	TypeBenchmark = "BENCHMARK"
	TypeBuild     = "BUILD"
	TypeSummary   = "SUMMARY"
)

// SubBuildRef is a downstream build as listed in a report.
type SubBuildRef struct {
	Job    string    `json:"job"`
	Number int       `json:"number"`
	Result ci.Result `json:"result"`
	URL    string    `json:"url"`
}

// SubBuilds summarizes a commit build's downstream jobs by outcome.
type SubBuilds struct {
	Failed   []SubBuildRef `json:"failed,omitempty"`
	Aborted  []SubBuildRef `json:"aborted,omitempty"`
	Pending  []SubBuildRef `json:"pending,omitempty"`
	Unstable []SubBuildRef `json:"unstable,omitempty"`
}

// Report is the outcome of resolving one build.
type Report struct {
	ID          uuid.UUID         `json:"id"`
	Type        string            `json:"type"`
	URL         string            `json:"url"`
	Result      ci.Result         `json:"result"`
	Change      *ci.Change        `json:"change,omitempty"`
	SourceURL   string            `json:"source,omitempty"`
	SubBuilds   *SubBuilds        `json:"subBuilds,omitempty"`
	Failures    []failure.Failure `json:"failures"`
	Groups      []ranking.Group   `json:"groups,omitempty"`
	Benchmark   []string          `json:"significantResults,omitempty"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

// Build resolves node and collects what its concrete type exposes.
func Build(ctx context.Context, r *ci.Resolver, node ci.Node) (*Report, error) {
	res, err := node.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		ID:          uuid.New(),
		Type:        TypeBuild,
		URL:         r.URL(node.Path()),
		Result:      res.Result,
		Failures:    res.Failures,
		Groups:      ranking.RankFailures(res.Failures),
		GeneratedAt: time.Now().UTC(),
	}
	if rep.Failures == nil {
		rep.Failures = []failure.Failure{}
	}

	switch n := node.(type) {
	case *ci.PRBuild:
		rep.Type = TypePR
		if n.Commit != nil {
			addCommit(rep, n.Commit)
		}
	case *ci.CommitBuild:
		rep.Type = TypeCommit
		addCommit(rep, n)
	case *ci.BenchmarkRun:
		rep.Type = TypeBenchmark
		rep.Benchmark = n.SignificantResults()
	case *ci.Unsupported:
		rep.URL = n.Link()
	}
	return rep, nil
}

func addCommit(rep *Report, c *ci.CommitBuild) {
	rep.Change = c.Change
	rep.SourceURL = c.SourceURL
	if len(c.Failed)+len(c.Aborted)+len(c.Pending)+len(c.Unstable) == 0 {
		return
	}
	rep.SubBuilds = &SubBuilds{
		Failed:   refs(c.Failed),
		Aborted:  refs(c.Aborted),
		Pending:  refs(c.Pending),
		Unstable: refs(c.Unstable),
	}
}

func refs(builds []ci.SubBuild) []SubBuildRef {
	if len(builds) == 0 {
		return nil
	}
	out := make([]SubBuildRef, len(builds))
	for i, sb := range builds {
		out[i] = SubBuildRef{Job: sb.JobName, Number: sb.BuildNumber, Result: sb.Result, URL: sb.URL}
	}
	return out
}

// Aggregate merges the failures of several reports and ranks them together,
// so a failure seen across builds outranks one seen in a single build.
func Aggregate(reports []*Report) *Report {
	agg := &Report{
		ID:          uuid.New(),
		Type:        TypeSummary,
		URL:         fmt.Sprintf("%d builds", len(reports)),
		Result:      ci.Success,
		Failures:    []failure.Failure{},
		GeneratedAt: time.Now().UTC(),
	}
	for _, r := range reports {
		agg.Failures = append(agg.Failures, r.Failures...)
		if r.Result != ci.Success {
			agg.Result = ci.Failure
		}
	}
	agg.Groups = ranking.RankFailures(agg.Failures)
	return agg
}
