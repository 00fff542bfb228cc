package version

import (
	"runtime"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version == "" {
		t.Error("Version should not be empty")
	}
	if info.Commit == "" {
		t.Error("Commit should not be empty")
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
}

func TestInfo_String(t *testing.T) {
	info := Info{Version: "v1.2.0", Commit: "abc123", BuildTime: "2026-01-01T00:00:00Z", GoVersion: "go1.24.0"}

	want := "provision v1.2.0 (commit abc123, built 2026-01-01T00:00:00Z, go1.24.0)"
	if got := info.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestInfo_LogAttrs(t *testing.T) {
	attrs := Info{Version: "dev", Commit: "unknown", GoVersion: "go1.24.0"}.LogAttrs()
	if len(attrs) != 6 {
		t.Fatalf("expected 6 attrs, got %d", len(attrs))
	}
	if attrs[1] != "dev" {
		t.Errorf("version attr = %v, want dev", attrs[1])
	}
}
