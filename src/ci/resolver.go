package ci

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"cisleuth/src/config"
	"cisleuth/src/failure"
	"cisleuth/src/logger"
	"cisleuth/src/progress"
)

// ErrMalformed is returned when Jenkins data lacks something every build of
// that kind has.
var ErrMalformed = errors.New("malformed build data")

// Node is one build in the hierarchy.
type Node interface {
	// Path is the Jenkins path of the build, relative to the base URL.
	Path() string
	// Resolve fetches and classifies the build. It runs once; later calls
	// return the stored outcome.
	Resolve(ctx context.Context) (*Resolution, error)
}

// Resolver holds what every node needs and constructs nodes.
type Resolver struct {
	fetcher  Fetcher
	baseURL  string
	progress progress.Reporter
	log      logger.Logger
	limit    int
}

// ResolverOptions configures a Resolver. Zero values pick defaults.
type ResolverOptions struct {
	BaseURL     string
	Progress    progress.Reporter
	Logger      logger.Logger
	Concurrency int
}

func NewResolver(fetcher Fetcher, opts ResolverOptions) *Resolver {
	r := &Resolver{
		fetcher:  fetcher,
		baseURL:  opts.BaseURL,
		progress: opts.Progress,
		log:      opts.Logger,
		limit:    opts.Concurrency,
	}
	if r.baseURL == "" {
		r.baseURL = config.DefaultJenkinsURL
	}
	if !strings.HasSuffix(r.baseURL, "/") {
		r.baseURL += "/"
	}
	if r.progress == nil {
		r.progress = progress.Silent{}
	}
	if r.log == nil {
		r.log = logger.NewSilentLogger()
	}
	if r.limit <= 0 {
		r.limit = config.DefaultConcurrency
	}
	return r
}

// URL returns the absolute URL of a Jenkins path.
func (r *Resolver) URL(path string) string {
	return r.baseURL + strings.TrimPrefix(path, "/")
}

// relPath turns an absolute Jenkins URL into a path relative to the base URL.
func (r *Resolver) relPath(raw string) string {
	if strings.HasPrefix(raw, r.baseURL) {
		return ensureSlash(strings.TrimPrefix(raw, r.baseURL))
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ensureSlash(strings.TrimPrefix(raw, "/"))
	}
	return ensureSlash(strings.TrimPrefix(u.Path, "/"))
}

func ensureSlash(p string) string {
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

func (r *Resolver) source(path, builtOn string) failure.Source {
	return failure.Source{URL: r.URL(path), BuiltOn: builtOn}
}

// fanOut resolves nodes with at most r.limit in flight and concatenates their
// failures in input order, regardless of completion order. The first error
// cancels the remaining work.
func (r *Resolver) fanOut(ctx context.Context, nodes []Node) ([]failure.Failure, error) {
	results := make([][]failure.Failure, len(nodes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)

	for i, node := range nodes {
		g.Go(func() error {
			res, err := node.Resolve(gctx)
			if err != nil {
				return err
			}
			results[i] = res.Failures
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var flat []failure.Failure
	for _, fs := range results {
		flat = append(flat, fs...)
	}
	return flat, nil
}

// once stores a node's resolution.
type once struct {
	once sync.Once
	res  *Resolution
	err  error
}

func (o *once) do(fn func() (*Resolution, error)) (*Resolution, error) {
	o.once.Do(func() {
		o.res, o.err = fn()
	})
	return o.res, o.err
}

// JobKind selects how a failed sub-build is resolved.
type JobKind int

const (
	NormalJob JobKind = iota
	FannedJob
	LinterJob
)

const (
	fannedMarker = "fanned"
	linterMarker = "linter"
)

// ClassifyJob picks the node kind for a sub-build from its job name.
func ClassifyJob(jobName string) JobKind {
	switch {
	case strings.Contains(jobName, fannedMarker):
		return FannedJob
	case strings.Contains(jobName, linterMarker):
		return LinterJob
	default:
		return NormalJob
	}
}

// subBuildNode builds the node that explains a failed sub-build.
func (r *Resolver) subBuildNode(sb SubBuild) Node {
	switch ClassifyJob(sb.JobName) {
	case FannedJob:
		return r.FannedBuild(sb.JobName, sb.BuildNumber)
	case LinterJob:
		return r.LinterBuild(sb.JobName, sb.BuildNumber)
	default:
		return r.NormalBuild(sb.JobName, sb.BuildNumber)
	}
}
