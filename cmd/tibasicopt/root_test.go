package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// resetFlags restores every package-level flag variable to its zero value
// and clears Cobra's "flag was set" bookkeeping, since rootCmd is a package
// singleton shared across every test in this file.
func resetFlags(t *testing.T) {
	t.Helper()
	flagTxt = ""
	flagEightXP = ""
	flagSize = false
	flagSpeed = false
	flagRoundTrip = false
	flagJSON = false
	flagLang = "en"
	for _, name := range []string{"txt", "8xp", "size", "speed", "round-trip", "json", "lang"} {
		if f := rootCmd.Flags().Lookup(name); f != nil {
			f.Changed = false
		}
	}
}

func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(t)
	var outBuf, errBuf bytes.Buffer
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestRootRewritesTextFileInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "program.txt")
	if err := os.WriteFile(path, []byte("Lbl AB\nIf 1\nClrHome"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	stdout, _, err := runCLI(t, "--txt", path)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(stdout, "saved") {
		t.Errorf("expected a byte-savings summary, got %q", stdout)
	}

	rewritten, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.Contains(string(rewritten), "Lbl") {
		t.Errorf("expected the unused label to be dropped, got %q", rewritten)
	}
}

func TestRootRejectsMissingInputFlag(t *testing.T) {
	_, _, err := runCLI(t)
	if err == nil {
		t.Error("expected an error when neither --txt nor --8xp is given")
	}
}

func TestRootRejectsConflictingInputFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "program.txt")
	os.WriteFile(path, []byte("ClrHome"), 0o644)

	_, _, err := runCLI(t, "--txt", path, "--8xp", path)
	if err == nil {
		t.Error("expected an error when both --txt and --8xp are given")
	}
}

func TestRootRejectsConflictingPriorityFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "program.txt")
	os.WriteFile(path, []byte("ClrHome"), 0o644)

	_, _, err := runCLI(t, "--txt", path, "--size", "--speed")
	if err == nil {
		t.Error("expected an error when both --size and --speed are given")
	}
}

func TestRootReportsParseErrorsOnStderr(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.txt")
	os.WriteFile(path, []byte("If "), 0o644)

	_, stderr, err := runCLI(t, "--txt", path)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if stderr == "" {
		t.Error("expected a diagnostic on stderr")
	}
}

func TestRootReportsParseErrorsAsJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.txt")
	os.WriteFile(path, []byte("If "), 0o644)

	_, stderr, err := runCLI(t, "--txt", path, "--json")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if !strings.Contains(stderr, `"kind"`) && !strings.Contains(stderr, `"error"`) {
		t.Errorf("expected a JSON diagnostic, got %q", stderr)
	}
}

func TestRootRoundTripFlagAccepted(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "program.txt")
	os.WriteFile(path, []byte("5->A"), 0o644)

	_, _, err := runCLI(t, "--txt", path, "--round-trip")
	if err != nil {
		t.Errorf("Execute with --round-trip: %v", err)
	}
}
