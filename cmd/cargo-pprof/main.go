// cargo-pprof is a cargo subcommand that profiles Rust applications with
// perf and produces a trace viewable in the Firefox Profiler.
//
// Usage:
//
//	cargo pprof [--ignore-exit] [--freq N] [-- <app args...>]
//	cargo pprof --init
//	cargo pprof --open-firefox-profiler
package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/danpilch/cargo-pprof/pkg/browser"
	"github.com/danpilch/cargo-pprof/pkg/cargo"
	"github.com/danpilch/cargo-pprof/pkg/execrun"
	"github.com/danpilch/cargo-pprof/pkg/pipeline"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagOpenProfiler bool
	flagIgnoreExit   bool
	flagInit         bool
	flagFrequency    int
	flagVerbose      bool
)

var rootCmd = &cobra.Command{
	Use:           "cargo-pprof",
	Short:         "Profile Rust applications with perf",
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

// Cargo invokes external subcommands as `cargo-pprof pprof <args>`, so the
// actual work hangs off a subcommand named after the tool.
var pprofCmd = &cobra.Command{
	Use:   "pprof [flags] [-- args...]",
	Short: "Build with the profiling profile, record with perf, emit a trace",
	Long: "Builds the current crate under the profiling cargo profile, runs the\n" +
		"produced binary under `perf record`, converts the capture with\n" +
		"`perf script` and prints the resulting trace path.",
	Args: cobra.ArbitraryArgs,
	RunE: runPProf,
}

func init() {
	pprofCmd.Flags().BoolVarP(&flagOpenProfiler, "open-firefox-profiler", "o", false,
		"open the Firefox Profiler and exit")
	pprofCmd.Flags().BoolVarP(&flagIgnoreExit, "ignore-exit", "i", false,
		"ignore the exit code of the profiled application")
	pprofCmd.Flags().BoolVar(&flagInit, "init", false,
		"append the profiling profile to Cargo.toml and exit")
	pprofCmd.Flags().IntVarP(&flagFrequency, "freq", "F", pipeline.DefaultFrequency,
		"perf sampling frequency in Hz")
	pprofCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable debug logging")
	rootCmd.AddCommand(pprofCmd)
	rootCmd.Version = version
}

func runPProf(cmd *cobra.Command, args []string) error {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	if flagVerbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	if flagInit {
		if err := cargo.AppendProfilingProfile("Cargo.toml"); err != nil {
			return err
		}
		fmt.Println("Added the profiling profile to Cargo.toml")
		return nil
	}

	runner := execrun.NewExecRunner(logger)

	if flagOpenProfiler {
		return browser.OpenProfiler(cmd.Context(), runner)
	}

	cargoPath, err := cargo.PathFromEnv()
	if err != nil {
		return err
	}
	if _, err := exec.LookPath("perf"); err != nil {
		return fmt.Errorf("perf not found: install linux-tools-common or equivalent")
	}

	p := pipeline.New(pipeline.Config{
		CargoPath:  cargoPath,
		IgnoreExit: flagIgnoreExit,
		Frequency:  flagFrequency,
		AppArgs:    args,
	}, runner, logger)
	return p.Run(cmd.Context())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
