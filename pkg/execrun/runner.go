// Package execrun runs external programs and reports how they terminated.
package execrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// StreamMode selects how one of a child's standard streams is handled.
type StreamMode int

const (
	// Inherit connects the stream to the parent's corresponding stream.
	Inherit StreamMode = iota
	// Capture collects the stream into memory and returns it in the Result.
	Capture
	// ToFile creates (or truncates) a file and redirects the stream into it.
	ToFile
)

// Command describes one subprocess invocation. Stdin is always inherited.
type Command struct {
	Program    string
	Args       []string
	Stdout     StreamMode
	StdoutPath string // used when Stdout is ToFile
	Stderr     StreamMode
}

// Status describes how a child process terminated.
type Status struct {
	Code   int
	Exited bool   // false when the child was killed by a signal
	Signal string // signal name when not Exited, e.g. "SIGSEGV"
}

// Success reports whether the child exited normally with code zero.
func (s Status) Success() bool {
	return s.Exited && s.Code == 0
}

// Result holds a finished command's captured output and termination status.
type Result struct {
	Stdout []byte
	Stderr []byte
	Status Status
}

// Runner starts a program, waits for it, and reports the outcome.
// A non-zero exit is a Result, not an error; errors mean the program
// could not be started at all.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner is the os/exec backed Runner used outside of tests.
type ExecRunner struct {
	logger *logrus.Logger
}

// NewExecRunner creates a runner. A nil logger defaults to warn level.
func NewExecRunner(logger *logrus.Logger) *ExecRunner {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &ExecRunner{logger: logger}
}

// Run executes c synchronously, blocking until the child terminates.
func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Program, c.Args...)
	cmd.Stdin = os.Stdin

	var stdout, stderr bytes.Buffer

	switch c.Stdout {
	case Capture:
		cmd.Stdout = &stdout
	case ToFile:
		f, err := os.Create(c.StdoutPath)
		if err != nil {
			return Result{}, fmt.Errorf("create %s: %w", c.StdoutPath, err)
		}
		defer f.Close()
		cmd.Stdout = f
	default:
		cmd.Stdout = os.Stdout
	}

	switch c.Stderr {
	case Capture:
		cmd.Stderr = &stderr
	default:
		cmd.Stderr = os.Stderr
	}

	r.logger.WithFields(logrus.Fields{
		"program": c.Program,
		"args":    strings.Join(c.Args, " "),
	}).Debug("Starting subprocess")

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("%s: %w", c.Program, err)
		}
		res.Status = statusFromState(exitErr.ProcessState)
	} else {
		res.Status = Status{Code: 0, Exited: true}
	}

	r.logger.WithFields(logrus.Fields{
		"program": c.Program,
		"code":    res.Status.Code,
		"exited":  res.Status.Exited,
	}).Debug("Subprocess finished")

	return res, nil
}

func statusFromState(ps *os.ProcessState) Status {
	st := Status{Code: ps.ExitCode(), Exited: ps.Exited()}
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		st.Signal = unix.SignalName(unix.Signal(ws.Signal()))
	}
	return st
}

// StatusError converts a termination status into an error naming the tool
// that failed. The child's code appears in the message only; callers always
// exit with code 1 on any failure.
func StatusError(tool string, st Status) error {
	switch {
	case st.Success():
		return nil
	case st.Exited:
		return fmt.Errorf("%s returned with exit code %d", tool, st.Code)
	case st.Signal != "":
		return fmt.Errorf("%s terminated by signal %s", tool, st.Signal)
	default:
		return fmt.Errorf("%s returned with an error", tool)
	}
}
