// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package operation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"testing"
)

// testLogger returns a logger that discards output, keeping test
// output readable.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// requireTool skips the test when the named binary is not on PATH.
func requireTool(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

// runShell runs a shell script through the Runner and returns the
// collected lines, exit code, and error.
func runShell(t *testing.T, script string) ([]Line, int, error) {
	t.Helper()
	requireTool(t, "sh")

	lines := make(chan Line, 64)
	runner := &Runner{Logger: testLogger()}
	exitCode, err := runner.Run(context.Background(),
		CommandSpec{Path: "sh", Args: []string{"-c", script}}, lines)
	close(lines)

	var collected []Line
	for line := range lines {
		collected = append(collected, line)
	}
	return collected, exitCode, err
}

func TestRunnerMergesBothStreams(t *testing.T) {
	t.Parallel()

	collected, exitCode, err := runShell(t, "echo out-line; echo err-line 1>&2")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if exitCode != 0 {
		t.Errorf("exit code = %d, want 0", exitCode)
	}

	byText := make(map[string]Origin)
	for _, line := range collected {
		byText[line.Text] = line.Origin
	}
	if byText["out-line"] != OriginStdout {
		t.Errorf("out-line origin = %q, want stdout", byText["out-line"])
	}
	if byText["err-line"] != OriginStderr {
		t.Errorf("err-line origin = %q, want stderr", byText["err-line"])
	}
}

func TestRunnerDropsBlankLines(t *testing.T) {
	t.Parallel()

	collected, _, err := runShell(t, `printf 'first\n\n   \n\t\nsecond\n'`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(collected) != 2 {
		t.Fatalf("got %d lines, want 2: %v", len(collected), collected)
	}
	if collected[0].Text != "first" || collected[1].Text != "second" {
		t.Errorf("lines = %q, %q; want first, second", collected[0].Text, collected[1].Text)
	}
}

func TestRunnerPreservesStreamOrder(t *testing.T) {
	t.Parallel()

	collected, _, err := runShell(t, "echo one; echo two; echo three")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"one", "two", "three"}
	if len(collected) != len(want) {
		t.Fatalf("got %d lines, want %d", len(collected), len(want))
	}
	for index, text := range want {
		if collected[index].Text != text {
			t.Errorf("line %d = %q, want %q", index, collected[index].Text, text)
		}
	}
}

func TestRunnerExitCode(t *testing.T) {
	t.Parallel()

	_, exitCode, err := runShell(t, "exit 7")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if exitCode != 7 {
		t.Errorf("exit code = %d, want 7", exitCode)
	}
}

func TestRunnerLongLine(t *testing.T) {
	t.Parallel()
	requireTool(t, "awk")

	// A line past the scanner's initial buffer must survive intact.
	collected, exitCode, err := runShell(t,
		`awk 'BEGIN { for (i = 0; i < 70000; i++) printf "x"; print "" }'; echo tail`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if exitCode != 0 {
		t.Errorf("exit code = %d, want 0", exitCode)
	}
	if len(collected) != 2 {
		t.Fatalf("got %d lines, want 2", len(collected))
	}
	if got := len(collected[0].Text); got != 70000 {
		t.Errorf("long line length = %d, want 70000", got)
	}
	if collected[1].Text != "tail" {
		t.Errorf("trailing line = %q, want tail", collected[1].Text)
	}
}

func TestRunnerSpawnFailure(t *testing.T) {
	t.Parallel()

	lines := make(chan Line, 1)
	runner := &Runner{Logger: testLogger()}
	exitCode, err := runner.Run(context.Background(),
		CommandSpec{Path: "/nonexistent/fedpak-test-binary"}, lines)
	close(lines)

	var spawnError *SpawnError
	if !errors.As(err, &spawnError) {
		t.Fatalf("error = %v, want *SpawnError", err)
	}
	if exitCode != -1 {
		t.Errorf("exit code = %d, want -1", exitCode)
	}
	if len(lines) != 0 {
		t.Errorf("got %d lines from a process that never started", len(lines))
	}
}

func TestRunnerPreSpawnCancellation(t *testing.T) {
	t.Parallel()
	requireTool(t, "sh")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lines := make(chan Line, 1)
	runner := &Runner{Logger: testLogger()}
	_, err := runner.Run(ctx, CommandSpec{Path: "sh", Args: []string{"-c", "echo hi"}}, lines)

	var spawnError *SpawnError
	if !errors.As(err, &spawnError) {
		t.Fatalf("error = %v, want *SpawnError", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want wrapped context.Canceled", err)
	}
}

func TestRunnerEnvOverlay(t *testing.T) {
	t.Parallel()
	requireTool(t, "sh")

	lines := make(chan Line, 4)
	runner := &Runner{Logger: testLogger()}
	_, err := runner.Run(context.Background(), CommandSpec{
		Path: "sh",
		Args: []string{"-c", `echo "value=$FEDPAK_TEST_VAR"`},
		Env:  []string{"FEDPAK_TEST_VAR=overlay"},
	}, lines)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	close(lines)

	line := <-lines
	if line.Text != "value=overlay" {
		t.Errorf("child saw %q, want value=overlay", line.Text)
	}
}
