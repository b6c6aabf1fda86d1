package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/wordsgen/internal/codegen"
	"github.com/verte-zerg/wordsgen/internal/config"
)

func TestRootGeneratesAndRecordsHistory(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "alpha\n  beta  \ngamma")
	output := filepath.Join(dir, "words.rs")
	db := filepath.Join(dir, "history.db")

	_, err := execute(t, dir, "--input", input, "--output", output, "--count", "3", "--db", db)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	want := `pub const WORDS: [&str; 3] = ["alpha","beta","gamma"];`
	if string(data) != want {
		t.Fatalf("unexpected output: %s", string(data))
	}

	out, err := execute(t, dir, "history", "--db", db, "--yaml")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, "emitted: 3") || !strings.Contains(out, "name: WORDS") {
		t.Fatalf("unexpected history output: %s", out)
	}
}

func TestRootNoHistorySkipsDatabase(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "one\n")
	db := filepath.Join(dir, "history.db")

	if _, err := execute(t, dir, "--input", input, "--output", filepath.Join(dir, "words.rs"), "--count", "1", "--db", db, "--no-history"); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := os.Stat(db); !os.IsNotExist(err) {
		t.Fatalf("expected no history database, stat err: %v", err)
	}
}

func TestBareRunLeavesNoPersistentState(t *testing.T) {
	dir := t.TempDir()
	dataHome := filepath.Join(dir, "xdg")
	home := filepath.Join(dir, "home")
	t.Setenv("XDG_DATA_HOME", dataHome)
	t.Setenv("HOME", home)
	writeInput(t, dir, "alpha\nbeta\n")
	t.Chdir(dir)

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("bare run failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "words.rs"))
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	want := `pub const WORDS: [&str; 2] = ["alpha","beta"];`
	if string(data) != want {
		t.Fatalf("unexpected output: %s", string(data))
	}
	for _, path := range []string{dataHome, home} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("bare run created %s, stat err: %v", path, err)
		}
	}
}

func TestCheckReportsLastRecordedRun(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "a\nb\n")
	output := filepath.Join(dir, "words.rs")
	db := filepath.Join(dir, "history.db")
	args := []string{"--input", input, "--output", output, "--count", "2", "--db", db}

	if _, err := execute(t, dir, args...); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	out, err := execute(t, dir, append([]string{"check"}, args...)...)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.Contains(out, "last run") || !strings.Contains(out, "matches") {
		t.Fatalf("expected last run summary, got %q", out)
	}

	if err := os.WriteFile(input, []byte("a\nc\n"), 0o644); err != nil {
		t.Fatalf("failed to rewrite input: %v", err)
	}
	out, err = execute(t, dir, append([]string{"check"}, args...)...)
	if !errors.Is(err, codegen.ErrStale) {
		t.Fatalf("expected stale error, got %v", err)
	}
	if !strings.Contains(out, "differs") {
		t.Fatalf("expected differing digest, got %q", out)
	}

	out, err = execute(t, dir, "check", "--input", input, "--output", output, "--count", "2")
	if !errors.Is(err, codegen.ErrStale) {
		t.Fatalf("expected stale error, got %v", err)
	}
	if strings.Contains(out, "last run") {
		t.Fatalf("history should be off without --db, got %q", out)
	}
}

func TestRootMissingInputFails(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, dir, "--input", filepath.Join(dir, "missing.txt"), "--output", filepath.Join(dir, "words.rs"), "--no-history")
	if err == nil {
		t.Fatalf("expected error for missing input")
	}
}

func TestConfigFileAppliesUnlessFlagSet(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "a\nb\nc\n")
	output := filepath.Join(dir, "out.rs")
	cfgPath := filepath.Join(dir, config.DefaultFileName)
	body := map[string]any{
		"generate": map[string]any{"input": input, "output": output, "count": 2, "name": "PASS"},
		"history":  map[string]any{"enabled": false},
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("failed to encode config: %v", err)
	}
	if err := os.WriteFile(cfgPath, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := execute(t, dir, "--config", cfgPath, "--count", "3"); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	want := `pub const PASS: [&str; 3] = ["a","b","c"];`
	if string(data) != want {
		t.Fatalf("unexpected output: %s", string(data))
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "a\nb\n")
	output := filepath.Join(dir, "words.rs")
	args := []string{"--input", input, "--output", output, "--count", "2"}

	_, err := execute(t, dir, append([]string{"check"}, args...)...)
	if !errors.Is(err, codegen.ErrStale) {
		t.Fatalf("expected stale error, got %v", err)
	}
	if _, err := execute(t, dir, append(args, "--no-history")...); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	out, err := execute(t, dir, append([]string{"check"}, args...)...)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.Contains(out, "ok") {
		t.Fatalf("unexpected check output: %q", out)
	}
}

func TestInvalidNameRejected(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "a\n")
	_, err := execute(t, dir, "--input", input, "--output", filepath.Join(dir, "words.rs"), "--name", "bad name", "--no-history")
	if !errors.Is(err, codegen.ErrInvalidConfig) {
		t.Fatalf("expected invalid config error, got %v", err)
	}
}

func TestConfigCommandWritesTemplate(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "conf", config.DefaultFileName)
	out, err := execute(t, dir, "config", "--config", cfgPath)
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	if strings.TrimSpace(out) != cfgPath {
		t.Fatalf("unexpected config output: %q", out)
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		t.Fatalf("template does not parse: %v", err)
	}
	if cfg.Generate.Count != nil {
		t.Fatalf("expected template values to be commented out")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, t.TempDir(), "version", "--short")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "wordsgen ") {
		t.Fatalf("unexpected version output: %q", out)
	}
}

func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	hasConfig := false
	for _, arg := range args {
		if arg == "--config" {
			hasConfig = true
		}
	}
	if !hasConfig {
		args = append(args, "--config", filepath.Join(dir, "absent.toml"))
	}
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeInput(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "words.txt")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	return path
}
