package compiler

import (
	"strings"
	"testing"

	"tibasicopt/internal/strategy"
	"tibasicopt/internal/token"
	"tibasicopt/internal/tokensheet"

	"github.com/gkampitakis/go-snaps/snaps"
)

func testConfig(priority strategy.Priority) Config {
	return Config{Version: token.Latest, Priority: priority}
}

func TestCompileStoreRoundTripsThroughRewrite(t *testing.T) {
	sheet := tokensheet.MustParseCurated()
	result, err := Compile("5->A", sheet, testConfig(strategy.PriorityNeutral))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if result.Text != "5->A" {
		t.Errorf("Text = %q, want %q", result.Text, "5->A")
	}
}

func TestCompileStripsUnusedLabel(t *testing.T) {
	sheet := tokensheet.MustParseCurated()
	source := "Lbl AB\nIf 1\nClrHome"
	result, err := Compile(source, sheet, testConfig(strategy.PriorityNeutral))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	// AB is declared but nothing Goto's it, so OptimizeLabelNames clears the
	// declaration to a NoneStmt, which reconstruction drops from the output.
	if strings.Contains(result.Text, "Lbl") {
		t.Errorf("expected the unused label to be dropped, got %q", result.Text)
	}
}

func TestCompileRoundTripFlagAcceptsFixedPoint(t *testing.T) {
	sheet := tokensheet.MustParseCurated()
	cfg := testConfig(strategy.PriorityNeutral)
	cfg.RoundTrip = true
	if _, err := Compile("5->A", sheet, cfg); err != nil {
		t.Errorf("Compile with RoundTrip: %v", err)
	}
}

func TestCompilePropagatesParseErrors(t *testing.T) {
	sheet := tokensheet.MustParseCurated()
	if _, err := Compile("If ", sheet, testConfig(strategy.PriorityNeutral)); err == nil {
		t.Error("expected an error for an If with no condition")
	}
}

func TestCompileExposesFailurePaths(t *testing.T) {
	sheet := tokensheet.MustParseCurated()
	source := "If 1\nClrHome"
	result, err := Compile(source, sheet, testConfig(strategy.PriorityNeutral))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, ok := result.Diagnostics.FailurePaths[0]; !ok {
		t.Errorf("expected line 0's bare If to have a recorded failure path, got %v", result.Diagnostics.FailurePaths)
	}
}

func TestCompileDefaultsLangToEnglish(t *testing.T) {
	sheet := tokensheet.MustParseCurated()
	result, err := Compile("ClrHome", sheet, Config{Version: token.Latest})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if result.Text != "ClrHome" {
		t.Errorf("Text = %q, want %q", result.Text, "ClrHome")
	}
}

func TestCompileSnapshotsMultilineProgram(t *testing.T) {
	sheet := tokensheet.MustParseCurated()
	source := "ClrHome\n1->A\nIf A\nThen\nDisp A\nEnd"
	result, err := Compile(source, sheet, testConfig(strategy.PriorityNeutral))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	snaps.MatchSnapshot(t, "multiline_program", result.Text)
}
