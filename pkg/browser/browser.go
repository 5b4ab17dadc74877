// Package browser opens the Firefox Profiler for viewing trace files.
package browser

import (
	"context"

	"github.com/danpilch/cargo-pprof/pkg/execrun"
)

// ProfilerURL is where perf.trace files can be loaded and inspected.
const ProfilerURL = "https://profiler.firefox.com"

// OpenProfiler launches firefox pointed at the profiler page and waits for
// the command to finish. Used as an escape hatch that bypasses the whole
// pipeline.
func OpenProfiler(ctx context.Context, runner execrun.Runner) error {
	res, err := runner.Run(ctx, execrun.Command{
		Program: "firefox",
		Args:    []string{ProfilerURL},
		Stdout:  execrun.Inherit,
		Stderr:  execrun.Inherit,
	})
	if err != nil {
		return err
	}
	return execrun.StatusError("firefox", res.Status)
}
