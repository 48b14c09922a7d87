package ci

import (
	"context"
	"fmt"
)

// Commit build job names.
const (
	PRJob         = "node-test-pull-request"
	CommitJob     = "node-test-commit"
	LiteCommitJob = "node-test-commit-lite"
	LibuvJob      = "libuv-test-commit"
	BenchmarkJob  = "benchmark-node-micro-benchmarks"
)

// CommitBuild is a multi-job build that tests one commit across platforms.
type CommitBuild struct {
	r      *Resolver
	job    string
	number int
	seed   *buildData
	once   once

	// Populated by Resolve.
	Result     Result
	Change     *Change
	Parameters map[string]string
	SourceURL  string
	Failed     []SubBuild
	Aborted    []SubBuild
	Pending    []SubBuild
	Unstable   []SubBuild
}

// CommitBuild returns an unresolved node for a build of a commit job.
func (r *Resolver) CommitBuild(job string, number int) *CommitBuild {
	return &CommitBuild{r: r, job: job, number: number}
}

// seededCommitBuild resolves from data already fetched by a parent.
func (r *Resolver) seededCommitBuild(job string, number int, data *buildData) *CommitBuild {
	return &CommitBuild{r: r, job: job, number: number, seed: data}
}

func (b *CommitBuild) Path() string { return JobPath(b.job, b.number) }
func (b *CommitBuild) Job() string  { return b.job }
func (b *CommitBuild) Number() int  { return b.number }

func (b *CommitBuild) Resolve(ctx context.Context) (*Resolution, error) {
	return b.once.do(func() (*Resolution, error) {
		data := b.seed
		if data == nil {
			b.r.progress.Update(fmt.Sprintf("Querying data for %s", b.Path()))
			data = &buildData{}
			if err := b.r.fetcher.FetchJSON(ctx, b.Path(), commitTree, data); err != nil {
				return nil, err
			}
		}
		b.seed = nil

		b.Result = data.Result
		b.Parameters = mergeParameters(data.Actions)
		b.SourceURL = sourceURL(b.Parameters)
		if items := data.ChangeSet.Items; len(items) > 0 {
			item := items[0]
			b.Change = &Change{
				CommitID:    item.CommitID,
				Author:      item.Author.FullName,
				AuthorEmail: item.AuthorEmail,
				Message:     item.Msg,
				Date:        item.Date,
			}
		}

		if data.Result == Success {
			return &Resolution{Result: Success}, nil
		}

		for _, sb := range data.SubBuilds {
			switch sb.Result {
			case Failure:
				b.Failed = append(b.Failed, sb)
			case Aborted:
				b.Aborted = append(b.Aborted, sb)
			case Pending:
				b.Pending = append(b.Pending, sb)
			case Unstable:
				b.Unstable = append(b.Unstable, sb)
			}
		}

		nodes := make([]Node, len(b.Failed))
		for i, sb := range b.Failed {
			nodes[i] = b.r.subBuildNode(sb)
		}

		b.r.progress.Update(fmt.Sprintf("Resolving %d failed sub-builds of %s", len(nodes), b.Path()))
		failures, err := b.r.fanOut(ctx, nodes)
		if err != nil {
			return nil, err
		}
		return &Resolution{Result: data.Result, Failures: failures}, nil
	})
}
