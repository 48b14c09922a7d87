package ci

import (
	"context"
	"fmt"

	"cisleuth/src/failure"
)

// NormalBuild is a matrix build made of per-platform runs.
type NormalBuild struct {
	r      *Resolver
	job    string
	number int
	once   once
}

func (r *Resolver) NormalBuild(job string, number int) *NormalBuild {
	return &NormalBuild{r: r, job: job, number: number}
}

func (b *NormalBuild) Path() string { return JobPath(b.job, b.number) }

func (b *NormalBuild) Resolve(ctx context.Context) (*Resolution, error) {
	return b.once.do(func() (*Resolution, error) {
		b.r.progress.Update(fmt.Sprintf("Querying data for %s", b.Path()))

		var data buildData
		if err := b.r.fetcher.FetchJSON(ctx, b.Path(), normalTree, &data); err != nil {
			return nil, err
		}

		switch data.Result {
		case Success:
			return &Resolution{Result: Success}, nil
		case Failure:
		default:
			src := b.r.source(b.Path(), "")
			return &Resolution{Result: data.Result, Failures: []failure.Failure{failure.Sentinel(src, string(data.Result))}}, nil
		}

		// A failed build without matrix runs has its own console to classify.
		if len(data.Runs) == 0 {
			res, err := b.r.TestRun(b.Path(), "").Resolve(ctx)
			if err != nil {
				return nil, err
			}
			return &Resolution{Result: Failure, Failures: res.Failures}, nil
		}

		var nodes []Node
		for _, run := range data.Runs {
			if run.Result == Failure {
				nodes = append(nodes, b.r.TestRun(b.r.relPath(run.URL), run.BuiltOn))
			}
		}

		failures, err := b.r.fanOut(ctx, nodes)
		if err != nil {
			return nil, err
		}
		return &Resolution{Result: Failure, Failures: failures}, nil
	})
}
