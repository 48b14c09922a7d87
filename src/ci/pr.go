package ci

import (
	"context"
	"fmt"
)

// PRBuild is a pull request build. It wraps exactly one commit build.
type PRBuild struct {
	r      *Resolver
	number int
	once   once

	// Commit is set by Resolve once the commit sub-build is known.
	Commit *CommitBuild
}

// PRBuild returns an unresolved node for a node-test-pull-request build.
func (r *Resolver) PRBuild(number int) *PRBuild {
	return &PRBuild{r: r, number: number}
}

func (b *PRBuild) Path() string { return JobPath(PRJob, b.number) }
func (b *PRBuild) Number() int  { return b.number }

// Resolve hands off to the commit sub-build using the data embedded in the
// pull request response, so the commit build is never fetched separately.
func (b *PRBuild) Resolve(ctx context.Context) (*Resolution, error) {
	return b.once.do(func() (*Resolution, error) {
		b.r.progress.Update(fmt.Sprintf("Querying data for %s", b.Path()))

		var data buildData
		if err := b.r.fetcher.FetchJSON(ctx, b.Path(), prTree, &data); err != nil {
			return nil, err
		}

		if len(data.SubBuilds) == 0 {
			if data.Result == Pending {
				return &Resolution{Result: Pending}, nil
			}
			return nil, fmt.Errorf("%w: %s has no commit sub-build", ErrMalformed, b.Path())
		}
		if len(data.SubBuilds) > 1 {
			return nil, fmt.Errorf("%w: %s has %d sub-builds, want 1", ErrMalformed, b.Path(), len(data.SubBuilds))
		}

		sb := data.SubBuilds[0]
		if sb.Build == nil {
			// The commit build has not started yet.
			return &Resolution{Result: Pending}, nil
		}

		b.Commit = b.r.seededCommitBuild(sb.JobName, sb.BuildNumber, sb.Build)
		return b.Commit.Resolve(ctx)
	})
}
