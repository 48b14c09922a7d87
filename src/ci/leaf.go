package ci

import (
	"context"
	"fmt"

	"cisleuth/src/failure"
)

// TestRun is one matrix run. Its console output is classified.
type TestRun struct {
	r       *Resolver
	path    string
	builtOn string
	once    once
}

// TestRun returns a leaf for the run at path, built on the named agent.
func (r *Resolver) TestRun(path, builtOn string) *TestRun {
	return &TestRun{r: r, path: path, builtOn: builtOn}
}

func (t *TestRun) Path() string { return t.path }

func (t *TestRun) Resolve(ctx context.Context) (*Resolution, error) {
	return t.once.do(func() (*Resolution, error) {
		t.r.progress.Update(fmt.Sprintf("Querying failures of %s", t.path))

		text, err := t.r.fetcher.FetchText(ctx, t.path)
		if err != nil {
			return nil, err
		}

		failures, err := failure.Classify(t.r.source(t.path, t.builtOn), text)
		if err != nil {
			return nil, fmt.Errorf("classify %s: %w", t.path, err)
		}
		return &Resolution{Result: Failure, Failures: failures}, nil
	})
}

// LinterBuild is a lint job. Like a TestRun, its console is classified
// directly.
type LinterBuild struct {
	*TestRun
}

func (r *Resolver) LinterBuild(job string, number int) *LinterBuild {
	return &LinterBuild{TestRun: r.TestRun(JobPath(job, number), "")}
}
