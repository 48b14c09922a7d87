package ci

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"cisleuth/src/failure"
)

// ErrUnsupportedURL is returned for URLs that do not point at a Jenkins build.
var ErrUnsupportedURL = errors.New("not a Jenkins build URL")

var buildPathPattern = regexp.MustCompile(`job/([^/]+)/(?:([^/]+=[^/]+)/)?(\d+)/?`)

// commitJobs are multi-job builds shaped like node-test-commit.
var commitJobs = map[string]bool{
	CommitJob:                 true,
	LiteCommitJob:             true,
	LibuvJob:                  true,
	"node-test-commit-nointl": true,
}

// NodeFromURL returns the node for a Jenkins build URL such as
// https://ci.nodejs.org/job/node-test-commit/123/.
func (r *Resolver) NodeFromURL(raw string) (Node, error) {
	m := buildPathPattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURL, raw)
	}
	job, axes := m[1], m[2]
	number, err := strconv.Atoi(m[3])
	if err != nil {
		return nil, fmt.Errorf("%w: bad build number in %s", ErrUnsupportedURL, raw)
	}

	if axes != "" {
		return r.TestRun(fmt.Sprintf("job/%s/%s/%d/", job, axes, number), ""), nil
	}

	switch {
	case job == PRJob:
		return r.PRBuild(number), nil
	case commitJobs[job]:
		return r.CommitBuild(job, number), nil
	case job == BenchmarkJob:
		return r.BenchmarkRun(number), nil
	case strings.HasSuffix(job, "-pipeline"):
		return nil, fmt.Errorf("%w: pipeline jobs are not supported: %s", ErrUnsupportedURL, raw)
	}

	switch ClassifyJob(job) {
	case FannedJob:
		return r.FannedBuild(job, number), nil
	case LinterJob:
		return r.LinterBuild(job, number), nil
	default:
		return r.NormalBuild(job, number), nil
	}
}

// Unsupported stands in for a linked build that cannot be walked, such as a
// pipeline job. It resolves to a single sentinel so the link is still
// reported.
type Unsupported struct {
	r    *Resolver
	link string
}

func (r *Resolver) Unsupported(link string) *Unsupported {
	return &Unsupported{r: r, link: link}
}

func (u *Unsupported) Path() string { return u.r.relPath(u.link) }
func (u *Unsupported) Link() string { return u.link }

func (u *Unsupported) Resolve(context.Context) (*Resolution, error) {
	src := failure.Source{URL: u.link}
	return &Resolution{
		Result:   Failure,
		Failures: []failure.Failure{failure.Sentinel(src, UnsupportedReason+u.link)},
	}, nil
}

// UnsupportedReason prefixes the sentinel reason of an Unsupported node.
const UnsupportedReason = "Unsupported job type: "

// NodeFromLink is NodeFromURL for links mined from a thread. A link that
// cannot be walked becomes an Unsupported node instead of an error.
func (r *Resolver) NodeFromLink(link string) Node {
	node, err := r.NodeFromURL(link)
	if err != nil {
		return r.Unsupported(link)
	}
	return node
}
