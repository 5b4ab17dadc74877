package cargo

import (
	"fmt"
	"os"
)

// ProfilingProfile is the Cargo.toml snippet defining the build profile the
// pipeline compiles with: release optimizations plus debug symbols, so perf
// can resolve stacks in optimized code.
const ProfilingProfile = `
[profile.profiling]
inherits = "release"
debug = true
`

// AppendProfilingProfile appends ProfilingProfile to the manifest at path.
// It is a raw byte append: the manifest is not parsed, and the user's
// formatting is left untouched.
func AppendProfilingProfile(path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := f.WriteString(ProfilingProfile); err != nil {
		f.Close()
		return fmt.Errorf("append to %s: %w", path, err)
	}
	return f.Close()
}
