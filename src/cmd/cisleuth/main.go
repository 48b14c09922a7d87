// Package main provides the cisleuth CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cisleuth/src/config"
	"cisleuth/src/jenkins"
	"cisleuth/src/report"
)

var version = "dev"

var (
	appConfig *config.Config
	opts      options
)

// options holds the persistent flags. Set flags override the environment.
type options struct {
	format       string
	cache        bool
	cacheBackend string
	concurrency  int
	verbose      bool
	interactive  bool
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cisleuth",
	Short: "cisleuth - CI result aggregation for Node.js Jenkins",
	Long: `cisleuth resolves Node.js Jenkins builds (pull request, commit,
benchmark and plain jobs) down to their test runs, classifies the failures
found in console output and ranks them across machines.

Set JENKINS_URL to point at another Jenkins, REDPANDA_BROKERS to publish
every report, and CISLEUTH_CACHE_BACKEND to share the response cache.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFromEnv()
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		if err := applyFlags(cmd, cfg); err != nil {
			return err
		}
		appConfig = cfg
		return nil
	},
}

// applyFlags copies explicitly set flags over cfg and revalidates it.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	if _, err := report.ParseFormat(opts.format); err != nil {
		return err
	}
	if cmd.Flags().Changed("cache-backend") {
		cfg.CacheBackend = opts.cacheBackend
	}
	if cmd.Flags().Changed("concurrency") {
		if opts.concurrency <= 0 {
			return fmt.Errorf("--concurrency must be positive, got %d", opts.concurrency)
		}
		cfg.Concurrency = opts.concurrency
	}
	return cfg.Validate()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.format, "format", "f", string(report.FormatTable), "Output format: table, markdown or json")
	flags.BoolVar(&opts.cache, "cache", false, "Cache Jenkins responses between runs")
	flags.StringVar(&opts.cacheBackend, "cache-backend", config.BackendDir, "Cache backend: dir, memory, redis or postgres")
	flags.IntVar(&opts.concurrency, "concurrency", config.DefaultConcurrency, "Maximum child builds resolved at once")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log every request and resolution step")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "Browse the result in a terminal UI")

	rootCmd.AddCommand(prCmd, commitCmd, urlCmd, benchmarkCmd, threadCmd, mcpCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, jenkins.WrapError(err))
		os.Exit(1)
	}
}
