package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWritesPlainTextToBuffers(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)
	logger.Info("wrote word table", "words", 1024)
	logger.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "wrote word table") || !strings.Contains(out, "words=1024") {
		t.Fatalf("unexpected log output: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no colour codes for non-terminal writer: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug message logged at info level")
	}
}

func TestNewVerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Debug("loaded config", "path", "wordsgen.toml")
	if !strings.Contains(buf.String(), "loaded config") {
		t.Fatalf("expected debug output, got %q", buf.String())
	}
}
