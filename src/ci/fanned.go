package ci

import (
	"context"
	"fmt"

	"cisleuth/src/failure"
)

const (
	testPhase         = "Binary Tests"
	noTestPhaseReason = "No test phase"
)

// FannedBuild compiles once and fans the test phase out to a matrix job.
type FannedBuild struct {
	r      *Resolver
	job    string
	number int
	once   once
}

func (r *Resolver) FannedBuild(job string, number int) *FannedBuild {
	return &FannedBuild{r: r, job: job, number: number}
}

func (b *FannedBuild) Path() string { return JobPath(b.job, b.number) }

func (b *FannedBuild) Resolve(ctx context.Context) (*Resolution, error) {
	return b.once.do(func() (*Resolution, error) {
		b.r.progress.Update(fmt.Sprintf("Querying data for %s", b.Path()))

		var data buildData
		if err := b.r.fetcher.FetchJSON(ctx, b.Path(), fannedTree, &data); err != nil {
			return nil, err
		}

		src := b.r.source(b.Path(), "")

		var phase *SubBuild
		for i := range data.SubBuilds {
			if data.SubBuilds[i].PhaseName == testPhase {
				phase = &data.SubBuilds[i]
				break
			}
		}
		if phase == nil {
			return &Resolution{Result: data.Result, Failures: []failure.Failure{failure.Sentinel(src, noTestPhaseReason)}}, nil
		}

		switch phase.Result {
		case Success:
			return &Resolution{Result: data.Result}, nil
		case Failure:
			res, err := b.r.NormalBuild(phase.JobName, phase.BuildNumber).Resolve(ctx)
			if err != nil {
				return nil, err
			}
			return &Resolution{Result: data.Result, Failures: res.Failures}, nil
		default:
			return &Resolution{Result: data.Result, Failures: []failure.Failure{failure.Sentinel(src, string(phase.Result))}}, nil
		}
	})
}
