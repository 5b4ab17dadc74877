package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestStepWritesBanner(t *testing.T) {
	var buf bytes.Buffer
	Step(&buf, "Building binary")
	if !strings.Contains(buf.String(), "=> Building binary") {
		t.Fatalf("expected step banner, got %q", buf.String())
	}
}

func TestReportTrace(t *testing.T) {
	var buf bytes.Buffer
	ReportTrace(&buf, "/tmp/out/perf.trace", "https://profiler.firefox.com")
	got := buf.String()
	if !strings.Contains(got, "Trace file: ") {
		t.Fatalf("missing trace line: %q", got)
	}
	if !strings.Contains(got, "/tmp/out/perf.trace") {
		t.Fatalf("missing trace path: %q", got)
	}
	if !strings.Contains(got, "https://profiler.firefox.com") {
		t.Fatalf("missing viewer URL: %q", got)
	}
}
