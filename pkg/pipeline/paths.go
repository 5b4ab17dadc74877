package pipeline

import (
	"errors"
	"path/filepath"
)

const (
	captureName = "perf.data"
	traceName   = "perf.trace"
)

// ArtifactPaths locates the files the pipeline produces, both siblings of
// the profiled binary.
type ArtifactPaths struct {
	Capture string // raw perf record output
	Trace   string // converted perf script output
}

// DerivePaths places the capture and trace files next to the executable.
// A bare filename has no directory to write into, so derivation fails.
func DerivePaths(executable string) (ArtifactPaths, error) {
	dir := filepath.Dir(executable)
	if dir == "." && filepath.Base(executable) == executable {
		return ArtifactPaths{}, errors.New("could not determine output directory")
	}
	return ArtifactPaths{
		Capture: filepath.Join(dir, captureName),
		Trace:   filepath.Join(dir, traceName),
	}, nil
}
