package cargo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAppendProfilingProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Cargo.toml")
	original := "[package]\nname = \"app\"\nversion = \"0.1.0\"\n"
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := AppendProfilingProfile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.HasPrefix(got, original) {
		t.Fatal("existing manifest content was modified")
	}
	if !strings.Contains(got, "[profile.profiling]") {
		t.Fatal("profiling profile was not appended")
	}
	if !strings.Contains(got, `inherits = "release"`) || !strings.Contains(got, "debug = true") {
		t.Fatalf("unexpected snippet contents:\n%s", got)
	}
}

func TestAppendProfilingProfileMissingManifest(t *testing.T) {
	err := AppendProfilingProfile(filepath.Join(t.TempDir(), "Cargo.toml"))
	if err == nil {
		t.Fatal("expected an error for a missing manifest")
	}
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv(EnvVar, "/usr/bin/cargo")
	got, err := PathFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/usr/bin/cargo" {
		t.Fatalf("expected /usr/bin/cargo, got %q", got)
	}
}

func TestPathFromEnvUnset(t *testing.T) {
	t.Setenv(EnvVar, "")
	if _, err := PathFromEnv(); err == nil {
		t.Fatal("expected an error when CARGO is unset")
	}
}
