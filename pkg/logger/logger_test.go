package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitAndLevelString(t *testing.T) {
	Init("debug")
	if got := LevelString(); got != "debug" {
		t.Fatalf("LevelString() = %q, want %q", got, "debug")
	}
	Init("WARN")
	if got := LevelString(); got != "warn" {
		t.Fatalf("LevelString() = %q, want %q", got, "warn")
	}
	Init("Error")
	if got := LevelString(); got != "error" {
		t.Fatalf("LevelString() = %q, want %q", got, "error")
	}
	Init("nonsense")
	if got := LevelString(); got != "info" {
		t.Fatalf("LevelString() = %q, want %q for unknown input", got, "info")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	setOutput(&buf)
	defer setOutput(os.Stdout)

	Init("warn")
	Debugf("debug-msg")
	Infof("info-msg")
	Warnf("warn-msg")
	Errorf("error-msg")

	out := buf.String()
	if strings.Contains(out, "debug-msg") {
		t.Fatalf("debug messages should be suppressed at warn level")
	}
	if strings.Contains(out, "info-msg") {
		t.Fatalf("info messages should be suppressed at warn level")
	}
	if !strings.Contains(out, "warn-msg") || !strings.Contains(out, "WARN") {
		t.Fatalf("warn message missing: %q", out)
	}
	if !strings.Contains(out, "error-msg") {
		t.Fatalf("error message missing: %q", out)
	}

	Init("info")
	buf.Reset()
	Infow("http_request", "status", 200)
	require.Contains(t, buf.String(), "http_request")
	require.Contains(t, buf.String(), "200")
}

func TestWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meetings.log")
	Init("info", WithFile(path, 1, 1, 1))
	defer setOutput(os.Stdout)

	Infof("written to %s", "file")
	_ = Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "written to file")
}
