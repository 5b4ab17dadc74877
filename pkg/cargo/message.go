// Package cargo locates the cargo build tool and interprets its output.
package cargo

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"

	"github.com/sirupsen/logrus"
)

// Message is one line of cargo's --message-format=json output. Cargo emits
// many record kinds; only artifact records carry an executable path, and
// that is the only field this tool reads.
type Message struct {
	Executable *string `json:"executable"`
}

// maxMessageLine bounds a single cargo JSON line. Artifact records for
// crates with many dependencies easily exceed bufio's 64 KiB default.
const maxMessageLine = 1024 * 1024

// LastExecutable scans newline-delimited cargo messages and returns the
// executable path of the last record that names one. Cargo interleaves
// plain diagnostic lines with JSON records, so lines that fail to parse
// are skipped rather than treated as errors. Build-script binaries are
// reported before the final target, which is why the last record wins.
func LastExecutable(r io.Reader, logger *logrus.Logger) (string, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageLine)

	var executable string
	for scanner.Scan() {
		var msg Message
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}
		if msg.Executable == nil || *msg.Executable == "" {
			continue
		}
		logger.WithField("executable", *msg.Executable).Debug("Artifact record")
		executable = *msg.Executable
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	if executable == "" {
		return "", errors.New("could not find executable in cargo output")
	}
	return executable, nil
}
