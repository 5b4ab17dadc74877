// Package pipeline sequences the build, capture and convert stages that turn
// a cargo project into a perf trace.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/danpilch/cargo-pprof/pkg/browser"
	"github.com/danpilch/cargo-pprof/pkg/cargo"
	"github.com/danpilch/cargo-pprof/pkg/execrun"
	"github.com/danpilch/cargo-pprof/pkg/output"
)

// DefaultFrequency is the perf sampling rate in Hz. 999 rather than 1000
// avoids lockstep with kernel timer ticks.
const DefaultFrequency = 999

// Config holds the per-run options. Immutable once the pipeline starts.
type Config struct {
	CargoPath  string   // cargo executable, from the CARGO env var
	IgnoreExit bool     // keep the capture even if the profiled program fails
	Frequency  int      // sampling frequency in Hz, 0 = DefaultFrequency
	AppArgs    []string // forwarded verbatim to the profiled program
}

// Pipeline runs build, capture and convert strictly in order. Each stage
// blocks on its subprocess; any failure aborts the run with no retry.
type Pipeline struct {
	cfg    Config
	runner execrun.Runner
	logger *logrus.Logger
	stdout io.Writer
	stderr io.Writer
}

// New creates a pipeline. A nil logger defaults to warn level.
func New(cfg Config, runner execrun.Runner, logger *logrus.Logger) *Pipeline {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	if cfg.Frequency <= 0 {
		cfg.Frequency = DefaultFrequency
	}
	return &Pipeline{
		cfg:    cfg,
		runner: runner,
		logger: logger,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// SetOutput redirects the report and the step banners.
func (p *Pipeline) SetOutput(stdout, stderr io.Writer) {
	p.stdout = stdout
	p.stderr = stderr
}

// Run executes the full pipeline and reports the trace location on success.
func (p *Pipeline) Run(ctx context.Context) error {
	output.Step(p.stderr, "Building binary")
	executable, err := p.build(ctx)
	if err != nil {
		return err
	}
	paths, err := DerivePaths(executable)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.stderr, "Binary found: %s\n", executable)

	output.Step(p.stderr, "Running program with perf")
	if err := p.capture(ctx, executable, paths); err != nil {
		return err
	}

	output.Step(p.stderr, "Converting data to trace format")
	if err := p.convert(ctx, paths); err != nil {
		return err
	}

	output.ReportTrace(p.stdout, paths.Trace, browser.ProfilerURL)
	return nil
}

// build compiles the project under the profiling profile and returns the
// produced executable's path. Stdout carries cargo's JSON message stream;
// stderr stays on the terminal so the user sees rendered diagnostics.
func (p *Pipeline) build(ctx context.Context) (string, error) {
	res, err := p.runner.Run(ctx, execrun.Command{
		Program: p.cfg.CargoPath,
		Args: []string{
			"build",
			"--message-format=json-render-diagnostics",
			"--profile=profiling",
		},
		Stdout: execrun.Capture,
		Stderr: execrun.Inherit,
	})
	if err != nil {
		return "", err
	}
	if err := execrun.StatusError("cargo", res.Status); err != nil {
		return "", err
	}
	return cargo.LastExecutable(bytes.NewReader(res.Stdout), p.logger)
}

// capture records the profiled program under perf. The program's own exit
// status is only propagated when IgnoreExit is off: a profiling target is
// often expected to crash or return non-zero under instrumentation.
func (p *Pipeline) capture(ctx context.Context, executable string, paths ArtifactPaths) error {
	args := []string{
		"record",
		"--output=" + paths.Capture,
		"-g",
		"-F", strconv.Itoa(p.cfg.Frequency),
		executable,
	}
	args = append(args, p.cfg.AppArgs...)

	res, err := p.runner.Run(ctx, execrun.Command{
		Program: "perf",
		Args:    args,
		Stdout:  execrun.Inherit,
		Stderr:  execrun.Inherit,
	})
	if err != nil {
		return err
	}
	if p.cfg.IgnoreExit {
		if !res.Status.Success() {
			p.logger.WithFields(logrus.Fields{
				"code":   res.Status.Code,
				"exited": res.Status.Exited,
			}).Debug("Ignoring profiled program exit status")
		}
		return nil
	}
	return execrun.StatusError("perf record", res.Status)
}

// convert renders the raw capture into the trace file via perf script.
// The +pid field is what lets the Firefox Profiler split by process.
func (p *Pipeline) convert(ctx context.Context, paths ArtifactPaths) error {
	res, err := p.runner.Run(ctx, execrun.Command{
		Program: "perf",
		Args: []string{
			"script",
			"-F", "+pid",
			"--input=" + paths.Capture,
		},
		Stdout:     execrun.ToFile,
		StdoutPath: paths.Trace,
		Stderr:     execrun.Inherit,
	})
	if err != nil {
		return err
	}
	return execrun.StatusError("perf script", res.Status)
}
