// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package operation

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fedpak-project/fedpak/lib/oplog"
	"github.com/fedpak-project/fedpak/lib/testutil"
)

// scriptedSpawner implements Spawner with a fixed line sequence and
// exit, capturing the spec it was handed.
type scriptedSpawner struct {
	lines    []Line
	exitCode int
	err      error
	spec     CommandSpec
}

func (s *scriptedSpawner) Run(ctx context.Context, spec CommandSpec, lines chan<- Line) (int, error) {
	s.spec = spec
	for _, line := range s.lines {
		lines <- line
	}
	return s.exitCode, s.err
}

// movingRelocator implements ArtifactRelocator by renaming locally,
// standing in for the mv/pkexec machinery.
type movingRelocator struct {
	err     error
	called  bool
	src     string
	destDir string
}

func (r *movingRelocator) Relocate(ctx context.Context, src, destDir string) (string, error) {
	r.called = true
	r.src, r.destDir = src, destDir
	if r.err != nil {
		return "", r.err
	}
	dest := filepath.Join(destDir, filepath.Base(src))
	if err := os.Rename(src, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func stdoutLine(text string) Line {
	return Line{Origin: OriginStdout, Text: text}
}

// runOperation drives Run with an unbuffered event channel, draining
// until close, and returns the collected events and the outcome.
func runOperation(t *testing.T, config RunConfig) ([]Event, *Outcome) {
	t.Helper()
	events := make(chan Event)
	config.Events = events
	config.Logger = testLogger()

	outcomes := make(chan *Outcome, 1)
	go func() { outcomes <- Run(context.Background(), config) }()

	var collected []Event
	for event := range events {
		collected = append(collected, event)
	}
	outcome := testutil.RequireReceive(t, outcomes, 5*time.Second, "Run return value")
	return collected, outcome
}

// requireTerminalOutcome asserts exactly one outcome event was
// delivered, last, and returns it.
func requireTerminalOutcome(t *testing.T, events []Event) *Outcome {
	t.Helper()
	if len(events) == 0 {
		t.Fatal("no events delivered")
	}
	outcomes := 0
	for _, event := range events {
		if event.Type == EventOutcome {
			outcomes++
		}
	}
	if outcomes != 1 {
		t.Fatalf("got %d outcome events, want exactly 1", outcomes)
	}
	last := events[len(events)-1]
	if last.Type != EventOutcome {
		t.Fatalf("last event type = %q, want %q", last.Type, EventOutcome)
	}
	return last.Outcome
}

func transcriptContains(transcript []string, want string) bool {
	for _, line := range transcript {
		if strings.Contains(line, want) {
			return true
		}
	}
	return false
}

// logFiles lists the non-directory entries of the log dir.
func logFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("reading log dir: %v", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, filepath.Join(dir, entry.Name()))
		}
	}
	return names
}

// readSoleLog returns the content of the single log file in dir.
func readSoleLog(t *testing.T, dir string) string {
	t.Helper()
	files := logFiles(t, dir)
	if len(files) != 1 {
		t.Fatalf("log dir has %d files, want 1: %v", len(files), files)
	}
	content, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	return string(content)
}

func TestRunFlatpakUpdateSuccess(t *testing.T) {
	t.Parallel()

	logDir := filepath.Join(t.TempDir(), "logs")
	spawner := &scriptedSpawner{
		lines: []Line{
			stdoutLine("Looking for updates..."),
			stdoutLine("Installing org.mozilla.firefox... Installed."),
		},
	}

	events := make(chan Event)
	config := RunConfig{
		Request: Request{Kind: KindFlatpakUpdate, AppIDs: []string{"org.mozilla.firefox"}, Remote: "flathub"},
		Targets: []Target{{AppID: "org.mozilla.firefox", Name: "Firefox"}},
		Events:  events,
		Log:     &oplog.Writer{Dir: logDir},
		Logger:  testLogger(),
		Spawner: spawner,
	}

	outcomes := make(chan *Outcome, 1)
	go func() { outcomes <- Run(context.Background(), config) }()

	// Snapshot the log dir at the instant the outcome event arrives:
	// the log write must already be visible.
	var collected []Event
	var logsAtOutcome []string
	for event := range events {
		if event.Type == EventOutcome {
			logsAtOutcome = logFiles(t, logDir)
		}
		collected = append(collected, event)
	}
	outcome := testutil.RequireReceive(t, outcomes, 5*time.Second, "Run return value")

	if emitted := requireTerminalOutcome(t, collected); emitted != outcome {
		t.Error("returned outcome is not the emitted outcome")
	}
	if outcome.Variant != VariantSuccess {
		t.Fatalf("Variant = %q, want success (message: %s)", outcome.Variant, outcome.Message)
	}
	if outcome.Message != "Update complete." {
		t.Errorf("Message = %q, want %q", outcome.Message, "Update complete.")
	}
	if outcome.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", outcome.ExitCode)
	}

	// The classifier spotted the target and the completion keyword.
	var sawTarget, sawCompletion bool
	for _, event := range collected {
		if event.Type != EventStatus {
			continue
		}
		if event.Status.CurrentTarget == "org.mozilla.firefox" {
			sawTarget = true
		}
		if event.Status.Completion {
			sawCompletion = true
		}
	}
	if !sawTarget {
		t.Error("no status event carried the current target")
	}
	if !sawCompletion {
		t.Error("no status event carried completion")
	}

	// Every child line survives into the transcript, after the header.
	if outcome.Transcript[0] != "Command: flatpak update --app -y --noninteractive --verbose org.mozilla.firefox" {
		t.Errorf("transcript header = %q", outcome.Transcript[0])
	}
	for _, line := range spawner.lines {
		if !transcriptContains(outcome.Transcript, line.Text) {
			t.Errorf("transcript missing child line %q", line.Text)
		}
	}

	// The log was written before the outcome was delivered, and
	// matches the outcome's transcript.
	if len(logsAtOutcome) != 1 {
		t.Fatalf("at outcome delivery, log dir had %d files, want 1", len(logsAtOutcome))
	}
	content := readSoleLog(t, logDir)
	if !strings.Contains(content, "Status: SUCCESS") {
		t.Errorf("log missing Status: SUCCESS:\n%s", content)
	}
	if !strings.Contains(content, "Remote: flathub") {
		t.Errorf("log missing Remote line:\n%s", content)
	}
	for _, line := range outcome.Transcript {
		if !strings.Contains(content, line) {
			t.Errorf("log missing transcript line %q", line)
		}
	}
}

func TestRunFlatpakUpdateNoOp(t *testing.T) {
	t.Parallel()

	logDir := filepath.Join(t.TempDir(), "logs")
	spawner := &scriptedSpawner{
		lines:    []Line{stdoutLine("Nothing to do.")},
		exitCode: 1,
	}
	config := RunConfig{
		Request: Request{Kind: KindFlatpakUpdate},
		Log:     &oplog.Writer{Dir: logDir},
		Spawner: spawner,
	}
	events, outcome := runOperation(t, config)
	requireTerminalOutcome(t, events)

	if outcome.Variant != VariantNoOp {
		t.Fatalf("Variant = %q, want no_op", outcome.Variant)
	}
	if !outcome.Success() {
		t.Error("Success() = false for a no-op")
	}
	if outcome.Transcript[0] != "No updates needed." {
		t.Errorf("Transcript[0] = %q, want the no-op prefix", outcome.Transcript[0])
	}
	if outcome.Message != "No updates needed." {
		t.Errorf("Message = %q, want %q", outcome.Message, "No updates needed.")
	}
	if !strings.Contains(readSoleLog(t, logDir), "Status: SUCCESS") {
		t.Error("no-op log not recorded as SUCCESS")
	}
}

func TestRunConversionSuccess(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	rpmName := "discord-0.0.114-2.x86_64.rpm"
	rpmPath := filepath.Join(workDir, rpmName)
	if err := os.WriteFile(rpmPath, []byte("rpm-bytes"), 0o644); err != nil {
		t.Fatalf("writing rpm fixture: %v", err)
	}

	logDir := filepath.Join(t.TempDir(), "logs")
	spawner := &scriptedSpawner{
		lines: []Line{
			stdoutLine(workDir),
			stdoutLine(rpmName + " generated"),
		},
	}
	config := RunConfig{
		Request: Request{Kind: KindDebToRpm, FilePath: filepath.Join(workDir, "discord_0.0.114.deb")},
		Log:     &oplog.Writer{Dir: logDir},
		Spawner: spawner,
	}
	events, outcome := runOperation(t, config)
	requireTerminalOutcome(t, events)

	if outcome.Variant != VariantSuccess {
		t.Fatalf("Variant = %q, want success (message: %s)", outcome.Variant, outcome.Message)
	}
	if outcome.ArtifactPath != rpmPath {
		t.Errorf("ArtifactPath = %q, want %q", outcome.ArtifactPath, rpmPath)
	}
	if len(outcome.ArtifactDigest) != 64 {
		t.Errorf("ArtifactDigest = %q, want 64 hex chars", outcome.ArtifactDigest)
	}
	if outcome.Message != "Created "+rpmName {
		t.Errorf("Message = %q, want Created %s", outcome.Message, rpmName)
	}
	if !transcriptContains(outcome.Transcript, "BLAKE3: "+outcome.ArtifactDigest) {
		t.Error("transcript missing the checksum line")
	}
	if transcriptContains(outcome.Transcript, "Moved RPM to:") {
		t.Error("transcript has a relocation note for an artifact already in place")
	}

	// The envelope went through the privilege helper.
	if !spawner.spec.Privileged {
		t.Error("conversion spec not marked privileged")
	}
	if spawner.spec.Path != "pkexec" {
		t.Errorf("spec.Path = %q, want pkexec", spawner.spec.Path)
	}
	if !strings.Contains(spawner.spec.Rendered(), "alien --scripts -r") {
		t.Errorf("spec does not invoke alien: %s", spawner.spec.Rendered())
	}
}

func TestRunConversionPwdDrift(t *testing.T) {
	t.Parallel()

	requestedDir := t.TempDir()
	driftDir := t.TempDir()
	rpmName := "discord-0.0.114-2.x86_64.rpm"
	driftPath := filepath.Join(driftDir, rpmName)
	if err := os.WriteFile(driftPath, []byte("rpm-bytes"), 0o644); err != nil {
		t.Fatalf("writing rpm fixture: %v", err)
	}

	relocator := &movingRelocator{}
	spawner := &scriptedSpawner{
		lines: []Line{
			stdoutLine(driftDir),
			stdoutLine(rpmName + " generated"),
		},
	}
	config := RunConfig{
		Request: Request{
			Kind:     KindDebToRpm,
			FilePath: filepath.Join(requestedDir, "discord_0.0.114.deb"),
		},
		Spawner:   spawner,
		Relocator: relocator,
	}
	events, outcome := runOperation(t, config)
	requireTerminalOutcome(t, events)

	if outcome.Variant != VariantSuccess {
		t.Fatalf("Variant = %q, want success (message: %s)", outcome.Variant, outcome.Message)
	}
	if !relocator.called {
		t.Fatal("relocator was not invoked for a drifted artifact")
	}
	if relocator.src != driftPath {
		t.Errorf("relocated src = %q, want %q", relocator.src, driftPath)
	}
	if relocator.destDir != requestedDir {
		t.Errorf("relocated destDir = %q, want %q", relocator.destDir, requestedDir)
	}

	wantPath := filepath.Join(requestedDir, rpmName)
	if outcome.ArtifactPath != wantPath {
		t.Errorf("ArtifactPath = %q, want %q", outcome.ArtifactPath, wantPath)
	}
	if _, err := os.Stat(wantPath); err != nil {
		t.Errorf("artifact not at destination: %v", err)
	}
	if !transcriptContains(outcome.Transcript, "Moved RPM to: "+wantPath) {
		t.Error("transcript missing the relocation note")
	}
}

func TestRunConversionRelocationFailure(t *testing.T) {
	t.Parallel()

	requestedDir := t.TempDir()
	driftDir := t.TempDir()
	rpmName := "pkg-1.0-1.noarch.rpm"
	driftPath := filepath.Join(driftDir, rpmName)
	if err := os.WriteFile(driftPath, []byte("rpm-bytes"), 0o644); err != nil {
		t.Fatalf("writing rpm fixture: %v", err)
	}

	relocator := &movingRelocator{err: os.ErrPermission}
	spawner := &scriptedSpawner{
		lines: []Line{
			stdoutLine(driftDir),
			stdoutLine(rpmName + " generated"),
		},
	}
	config := RunConfig{
		Request: Request{
			Kind:     KindDebToRpm,
			FilePath: filepath.Join(requestedDir, "pkg_1.0.deb"),
		},
		Spawner:   spawner,
		Relocator: relocator,
	}
	events, outcome := runOperation(t, config)
	requireTerminalOutcome(t, events)

	// Relocation failure is non-fatal: the artifact stays where the
	// tool left it.
	if outcome.Variant != VariantSuccess {
		t.Fatalf("Variant = %q, want success (message: %s)", outcome.Variant, outcome.Message)
	}
	if outcome.ArtifactPath != driftPath {
		t.Errorf("ArtifactPath = %q, want original %q", outcome.ArtifactPath, driftPath)
	}
	var sawWarning bool
	for _, event := range events {
		if event.Type == EventWarning && strings.Contains(event.Warning.Message, "Could not move") {
			sawWarning = true
		}
	}
	if !sawWarning {
		t.Error("no warning event for the failed relocation")
	}
	if !transcriptContains(outcome.Transcript, "Warning: Could not move") {
		t.Error("transcript missing the relocation warning")
	}
}

func TestRunConversionAuthCancelled(t *testing.T) {
	t.Parallel()

	logDir := filepath.Join(t.TempDir(), "logs")
	spawner := &scriptedSpawner{exitCode: 126}
	config := RunConfig{
		Request: Request{Kind: KindDebToRpm, FilePath: "/home/u/Downloads/pkg.deb"},
		Log:     &oplog.Writer{Dir: logDir},
		Spawner: spawner,
	}
	events, outcome := runOperation(t, config)
	requireTerminalOutcome(t, events)

	if outcome.Variant != VariantFailure || outcome.Failure != FailureAuthCancelled {
		t.Fatalf("outcome = %s/%s, want failure/auth_cancelled", outcome.Variant, outcome.Failure)
	}
	if outcome.Message != AuthCancelledMessage {
		t.Errorf("Message = %q, want %q", outcome.Message, AuthCancelledMessage)
	}
	if outcome.ExitCode != 126 {
		t.Errorf("ExitCode = %d, want 126", outcome.ExitCode)
	}
	if !strings.Contains(readSoleLog(t, logDir), "Status: FAILED") {
		t.Error("auth-cancelled log not recorded as FAILED")
	}
}

func TestRunUpdateExit126IsToolFailure(t *testing.T) {
	t.Parallel()

	// 126/127 only means auth-cancelled for privileged commands; an
	// update exiting 126 is an ordinary tool failure.
	spawner := &scriptedSpawner{exitCode: 126}
	config := RunConfig{
		Request: Request{Kind: KindFlatpakUpdate},
		Spawner: spawner,
	}
	events, outcome := runOperation(t, config)
	requireTerminalOutcome(t, events)

	if outcome.Failure != FailureTool {
		t.Fatalf("Failure = %q, want tool_failed", outcome.Failure)
	}
	if outcome.Message != "Tool failed with exit status 126" {
		t.Errorf("Message = %q", outcome.Message)
	}
}

func TestRunConversionArtifactMissing(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	logDir := filepath.Join(t.TempDir(), "logs")
	spawner := &scriptedSpawner{
		lines: []Line{stdoutLine(workDir)},
	}
	config := RunConfig{
		Request: Request{Kind: KindDebToRpm, FilePath: filepath.Join(workDir, "pkg.deb")},
		Log:     &oplog.Writer{Dir: logDir},
		Spawner: spawner,
	}
	events, outcome := runOperation(t, config)
	requireTerminalOutcome(t, events)

	if outcome.Variant != VariantFailure || outcome.Failure != FailureArtifactMissing {
		t.Fatalf("outcome = %s/%s, want failure/artifact_missing", outcome.Variant, outcome.Failure)
	}
	if len(outcome.SearchedDirs) != 1 || outcome.SearchedDirs[0] != workDir {
		t.Errorf("SearchedDirs = %v, want [%s]", outcome.SearchedDirs, workDir)
	}
	if !transcriptContains(outcome.Transcript, "No RPM found. Searched directories:") {
		t.Error("transcript missing the search summary")
	}
	if !transcriptContains(outcome.Transcript, "  "+workDir) {
		t.Error("transcript does not enumerate the searched directory")
	}
	if !strings.Contains(readSoleLog(t, logDir), "Status: FAILED") {
		t.Error("artifact-missing log not recorded as FAILED")
	}
}

func TestRunSpawnFailureWritesNoLog(t *testing.T) {
	t.Parallel()

	logDir := filepath.Join(t.TempDir(), "logs")
	spawner := &scriptedSpawner{
		exitCode: -1,
		err:      &SpawnError{Path: "flatpak", Err: os.ErrNotExist},
	}
	config := RunConfig{
		Request: Request{Kind: KindFlatpakUpdate},
		Log:     &oplog.Writer{Dir: logDir},
		Spawner: spawner,
	}
	events, outcome := runOperation(t, config)
	requireTerminalOutcome(t, events)

	if outcome.Failure != FailureSpawn {
		t.Fatalf("Failure = %q, want spawn_failed", outcome.Failure)
	}
	if outcome.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", outcome.ExitCode)
	}
	if files := logFiles(t, logDir); len(files) != 0 {
		t.Errorf("spawn failure wrote a log: %v", files)
	}
}

func TestRunReadErrorKeepsPartialTranscript(t *testing.T) {
	t.Parallel()

	logDir := filepath.Join(t.TempDir(), "logs")
	spawner := &scriptedSpawner{
		lines: []Line{
			stdoutLine("Updating org.a.One"),
			stdoutLine("Downloading delta"),
		},
		exitCode: 0,
		err:      &ReadError{Origin: OriginStdout, Err: os.ErrClosed},
	}
	config := RunConfig{
		Request: Request{Kind: KindFlatpakUpdate},
		Log:     &oplog.Writer{Dir: logDir},
		Spawner: spawner,
	}
	events, outcome := runOperation(t, config)
	requireTerminalOutcome(t, events)

	if outcome.Failure != FailureRead {
		t.Fatalf("Failure = %q, want read_error", outcome.Failure)
	}
	if !transcriptContains(outcome.Transcript, "Downloading delta") {
		t.Error("partial transcript lost")
	}
	if !strings.Contains(readSoleLog(t, logDir), "Status: FAILED") {
		t.Error("read-error log not recorded as FAILED")
	}
}

func TestRunValidationFailure(t *testing.T) {
	t.Parallel()

	config := RunConfig{Request: Request{Kind: "mystery"}}
	events, outcome := runOperation(t, config)

	if len(events) != 1 || events[0].Type != EventOutcome {
		t.Fatalf("events = %d, want only the outcome", len(events))
	}
	if outcome.Failure != FailureSpawn {
		t.Errorf("Failure = %q, want spawn_failed", outcome.Failure)
	}
	if outcome.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", outcome.ExitCode)
	}
}

func TestRunWithoutEventChannel(t *testing.T) {
	t.Parallel()

	spawner := &scriptedSpawner{lines: []Line{stdoutLine("Nothing to do.")}}
	outcome := Run(context.Background(), RunConfig{
		Request: Request{Kind: KindFlatpakUpdate},
		Logger:  testLogger(),
		Spawner: spawner,
	})
	if outcome.Variant != VariantSuccess {
		t.Errorf("Variant = %q, want success", outcome.Variant)
	}
}
