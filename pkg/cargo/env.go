package cargo

import (
	"errors"
	"os"
)

// EnvVar names the variable cargo sets when dispatching to an external
// subcommand. It points at the cargo executable itself.
const EnvVar = "CARGO"

// PathFromEnv returns the cargo executable path from the environment.
// The variable is set whenever this tool is invoked as `cargo pprof`;
// its absence means the tool was started outside of cargo.
func PathFromEnv() (string, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return "", errors.New("CARGO environment variable is not set (run as `cargo pprof`)")
	}
	return path, nil
}
