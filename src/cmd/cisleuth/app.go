package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/term"

	"cisleuth/src/broker"
	"cisleuth/src/cache"
	"cisleuth/src/ci"
	"cisleuth/src/config"
	"cisleuth/src/jenkins"
	"cisleuth/src/logger"
	"cisleuth/src/progress"
	"cisleuth/src/report"
	"cisleuth/src/tui"
)

// app bundles what every command needs.
type app struct {
	cfg     *config.Config
	log     logger.Logger
	fetcher ci.Fetcher
	broker  broker.Broker
	closers []func() error
}

// newApp opens the cache and, when REDPANDA_BROKERS is set, the broker.
// Without --cache, nothing is persisted and no backend is contacted.
func newApp(ctx context.Context, cfg *config.Config, log logger.Logger, useCache bool) (*app, error) {
	a := &app{cfg: cfg, log: log}

	var storage cache.Storage = cache.NewMemoryStorage()
	if useCache {
		s, closeStorage, err := cache.OpenStorage(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s cache: %w", cfg.CacheBackend, err)
		}
		storage = s
		a.closers = append(a.closers, closeStorage)
	}
	c := cache.NewCache(storage, log)
	if useCache {
		c.Enable()
	}

	client := jenkins.NewClient(cfg.JenkinsURL, cfg.JenkinsUser, cfg.JenkinsToken)
	a.fetcher = ci.NewCachedFetcher(client, c)

	b, err := broker.Open(cfg.RedpandaBrokers, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to connect to Redpanda: %w", err)
	}
	if b != nil {
		a.broker = b
		a.closers = append(a.closers, b.Close)
	}
	return a, nil
}

// appFromFlags builds an app from the loaded configuration and flags. TUI
// mode keeps the terminal free of log lines.
func appFromFlags(ctx context.Context) (*app, error) {
	var log logger.Logger = logger.NewConsoleLogger(opts.verbose)
	if opts.interactive {
		log = logger.NewSilentLogger()
	}
	return newApp(ctx, appConfig, log, opts.cache)
}

func (a *app) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func (a *app) resolver(p progress.Reporter) *ci.Resolver {
	return ci.NewResolver(a.fetcher, ci.ResolverOptions{
		BaseURL:     a.cfg.JenkinsURL,
		Progress:    p,
		Logger:      a.log,
		Concurrency: a.cfg.Concurrency,
	})
}

// nodesFunc picks the builds a command resolves.
type nodesFunc func(r *ci.Resolver) ([]ci.Node, error)

// resolveAll builds one report per node, in order, publishing each.
func (a *app) resolveAll(ctx context.Context, r *ci.Resolver, nodes []ci.Node) ([]*report.Report, error) {
	reports := make([]*report.Report, 0, len(nodes))
	for _, node := range nodes {
		rep, err := report.Build(ctx, r, node)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", r.URL(node.Path()), err)
		}
		a.publish(ctx, rep)
		reports = append(reports, rep)
	}
	return reports, nil
}

func (a *app) publish(ctx context.Context, rep *report.Report) {
	if a.broker == nil {
		return
	}
	if err := broker.PublishJSON(ctx, a.broker, broker.ReportsTopic, rep.URL, rep); err != nil {
		a.log.Error("failed to publish report for %s: %v", rep.URL, err)
		return
	}
	a.log.Debug("published report %s to %s", rep.ID, broker.ReportsTopic)
}

// run resolves the selected builds and renders them to w, or browses them
// when --interactive is set.
func (a *app) run(ctx context.Context, w io.Writer, pick nodesFunc) error {
	if opts.interactive {
		return a.browse(ctx, pick)
	}

	r := a.resolver(progress.NewLogReporter(a.log))
	nodes, err := pick(r)
	if err != nil {
		return err
	}
	reports, err := a.resolveAll(ctx, r, nodes)
	if err != nil {
		return err
	}

	format, _ := report.ParseFormat(opts.format)
	if len(reports) > 1 && format != report.FormatJSON {
		reports = append(reports, report.Aggregate(reports))
	}
	return report.Render(w, format, reports, terminalWidth())
}

// browse shows the report in the TUI. Several builds are browsed as their
// aggregate. Quitting before the report is ready is not an error.
func (a *app) browse(ctx context.Context, pick nodesFunc) error {
	if !term.IsTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("--interactive needs a terminal")
	}
	_, err := tui.Run(ctx, func(ctx context.Context, p progress.Reporter) (*report.Report, error) {
		r := a.resolver(p)
		nodes, err := pick(r)
		if err != nil {
			return nil, err
		}
		reports, err := a.resolveAll(ctx, r, nodes)
		if err != nil {
			return nil, err
		}
		if len(reports) == 1 {
			return reports[0], nil
		}
		return report.Aggregate(reports), nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// terminalWidth returns the width of stdout, or 0 when it is not a terminal.
func terminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil {
		return 0
	}
	return w
}
