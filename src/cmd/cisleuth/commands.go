package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cisleuth/src/broker"
	"cisleuth/src/ci"
	"cisleuth/src/github"
	"cisleuth/src/jobs"
	"cisleuth/src/logger"
	"cisleuth/src/mcp"
	"cisleuth/src/report"
)

var (
	commitJob    string
	resolveLinks bool
	watchGroup   string
)

var prCmd = &cobra.Command{
	Use:   "pr <id>...",
	Short: "Resolve node-test-pull-request builds",
	Example: `  cisleuth pr 51234
  cisleuth pr 51234 51240 --format markdown`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return a.run(ctx, cmd.OutOrStdout(), func(r *ci.Resolver) ([]ci.Node, error) {
				nodes := make([]ci.Node, len(ids))
				for i, id := range ids {
					nodes[i] = r.PRBuild(id)
				}
				return nodes, nil
			})
		})
	},
}

var commitCmd = &cobra.Command{
	Use:   "commit <id>...",
	Short: "Resolve commit builds such as node-test-commit",
	Example: `  cisleuth commit 70120
  cisleuth commit 812 --job libuv-test-commit`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return a.run(ctx, cmd.OutOrStdout(), func(r *ci.Resolver) ([]ci.Node, error) {
				nodes := make([]ci.Node, len(ids))
				for i, id := range ids {
					nodes[i] = r.CommitBuild(commitJob, id)
				}
				return nodes, nil
			})
		})
	},
}

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark <id>...",
	Short: "Show the significant results of benchmark-node-micro-benchmarks runs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return a.run(ctx, cmd.OutOrStdout(), func(r *ci.Resolver) ([]ci.Node, error) {
				nodes := make([]ci.Node, len(ids))
				for i, id := range ids {
					nodes[i] = r.BenchmarkRun(id)
				}
				return nodes, nil
			})
		})
	},
}

var urlCmd = &cobra.Command{
	Use:   "url <jenkins-url>...",
	Short: "Resolve builds by their Jenkins URL",
	Long: `Resolve any build by URL. The job name picks how the build is walked:
pull request and commit jobs resolve their failed sub-builds, matrix jobs
their failed runs, and everything else its own console.`,
	Example: `  cisleuth url https://ci.nodejs.org/job/node-test-commit-linux/61234/`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return a.run(ctx, cmd.OutOrStdout(), func(r *ci.Resolver) ([]ci.Node, error) {
				return nodesFromURLs(r, args)
			})
		})
	},
}

var threadCmd = &cobra.Command{
	Use:   "thread <owner/repo> <number>",
	Short: "List the latest Jenkins jobs linked from a pull request thread",
	Long: `Read the body, comments and reviews of a pull request and list the most
recent link to each known Jenkins job. With --resolve, every listed build is
resolved as if passed to the url command.

GitHub credentials come from the gh CLI, GH_TOKEN or GITHUB_TOKEN.`,
	Example: `  cisleuth thread nodejs/node 51234
  cisleuth thread nodejs/node 51234 --resolve --format markdown`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, repo, err := parseRepo(args[0])
		if err != nil {
			return err
		}
		number, err := parseID(args[1])
		if err != nil {
			return err
		}

		gh, err := github.NewClient()
		if err != nil {
			return err
		}
		thread, err := gh.Thread(cmd.Context(), owner, repo, number)
		if err != nil {
			return err
		}
		refs := jobs.Sorted(jobs.Mine(thread))

		if !resolveLinks {
			return renderRefs(cmd, refs)
		}
		links := refLinks(refs)
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return a.run(ctx, cmd.OutOrStdout(), func(r *ci.Resolver) ([]ci.Node, error) {
				return nodesFromLinks(r, a.log, links), nil
			})
		})
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the Model Context Protocol on stdio",
	Long: `Run an MCP server on stdin/stdout exposing the resolve_build,
get_failure_details and mine_thread tools.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.NewSilentLogger()
		a, err := newApp(cmd.Context(), appConfig, log, opts.cache)
		if err != nil {
			return err
		}
		defer a.Close()

		serverOpts := mcp.Options{
			Resolver: a.resolver(nil),
			Broker:   a.broker,
			Logger:   log,
			Version:  version,
		}
		if gh, err := github.NewClient(); err == nil {
			serverOpts.Threads = gh
		}
		return mcp.NewServer(serverOpts).Run()
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Render reports published by other cisleuth processes",
	Long: `Subscribe to the cisleuth.reports topic and render every report as it
arrives. Requires REDPANDA_BROKERS.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(appConfig.RedpandaBrokers) == 0 {
			return errors.New("watch needs REDPANDA_BROKERS to be set")
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			msgs, err := a.broker.Subscribe(ctx, broker.ReportsTopic, watchGroup)
			if err != nil {
				return fmt.Errorf("failed to subscribe to %s: %w", broker.ReportsTopic, err)
			}
			format, _ := report.ParseFormat(opts.format)
			for msg := range msgs {
				var rep report.Report
				if err := json.Unmarshal(msg.Value, &rep); err != nil {
					a.log.Error("skipping undecodable report at offset %d: %v", msg.Offset, err)
					continue
				}
				if err := report.Render(cmd.OutOrStdout(), format, []*report.Report{&rep}, terminalWidth()); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

func init() {
	commitCmd.Flags().StringVar(&commitJob, "job", ci.CommitJob, "Commit job name")
	threadCmd.Flags().BoolVar(&resolveLinks, "resolve", false, "Resolve every listed build")
	watchCmd.Flags().StringVar(&watchGroup, "group", "cisleuth-watch", "Consumer group")
}

// withApp runs fn with an app that is closed afterwards, until fn returns or
// the process is interrupted.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	a, err := appFromFlags(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	err = fn(ctx, a)
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func renderRefs(cmd *cobra.Command, refs []jobs.Reference) error {
	if format, _ := report.ParseFormat(opts.format); format == report.FormatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(refs)
	}
	return report.ThreadMarkdown(cmd.OutOrStdout(), refs)
}

func nodesFromURLs(r *ci.Resolver, urls []string) ([]ci.Node, error) {
	nodes := make([]ci.Node, 0, len(urls))
	for _, u := range urls {
		node, err := r.NodeFromURL(u)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func refLinks(refs []jobs.Reference) []string {
	links := make([]string, len(refs))
	for i, ref := range refs {
		links[i] = ref.Link
	}
	return links
}

// nodesFromLinks is nodesFromURLs for mined links. A link that cannot be
// walked is reported as an unsupported job instead of failing the run.
func nodesFromLinks(r *ci.Resolver, log logger.Logger, links []string) []ci.Node {
	nodes := make([]ci.Node, len(links))
	for i, link := range links {
		nodes[i] = r.NodeFromLink(link)
		if _, ok := nodes[i].(*ci.Unsupported); ok {
			log.Info("cannot resolve %s, reporting it as unsupported", link)
		}
	}
	return nodes
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, len(args))
	for i, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid build number %q", arg)
	}
	return id, nil
}

func parseRepo(arg string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(arg, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("repository must be owner/repo, got %q", arg)
	}
	return owner, repo, nil
}
