// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package operation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fedpak-project/fedpak/lib/artifact"
	"github.com/fedpak-project/fedpak/lib/clock"
	"github.com/fedpak-project/fedpak/lib/oplog"
)

// Spawner runs one command and streams its output lines into the
// channel. Satisfied by *Runner; tests substitute scripted
// implementations.
type Spawner interface {
	Run(ctx context.Context, spec CommandSpec, lines chan<- Line) (int, error)
}

// ArtifactLocator finds the RPM a conversion produced. Satisfied by
// *artifact.Locator.
type ArtifactLocator interface {
	Locate(ctx context.Context, request artifact.LocateRequest) (string, error)
}

// ArtifactRelocator moves a drifted RPM into the requested directory.
// Satisfied by *artifact.Relocator.
type ArtifactRelocator interface {
	Relocate(ctx context.Context, src, destDir string) (string, error)
}

// RunConfig wires one operation run. Zero-value fields select the
// production defaults.
type RunConfig struct {
	// Request describes the operation to perform.
	Request Request

	// Targets are the known applications the classifier can
	// recognize in tool output. Usually the installed Flatpak
	// inventory; irrelevant for conversions.
	Targets []Target

	// Tools overrides external binary names.
	Tools Tools

	// Events receives progress events with the outcome last, and is
	// closed when Run returns. Sends block: the consumer must drain
	// until close, even after losing interest. Nil disables eventing;
	// the returned Outcome still carries everything.
	Events chan<- Event

	// Log persists the operation record. Nil skips persistence.
	Log *oplog.Writer

	// Logger receives engine diagnostics. Nil defaults to a stderr
	// text handler.
	Logger *slog.Logger

	// Clock drives the default artifact locator's recency window.
	// Nil defaults to the real clock.
	Clock clock.Clock

	// Spawner, Locator, and Relocator substitute the process and
	// artifact machinery. Nil selects the production implementations.
	Spawner   Spawner
	Locator   ArtifactLocator
	Relocator ArtifactRelocator
}

// childResult carries the spawner's return values across the producer
// goroutine boundary.
type childResult struct {
	exitCode int
	err      error
}

// Run executes one operation to completion: spawn, stream, classify,
// resolve the artifact, log, and deliver the outcome. Exactly one
// Outcome is produced per call, emitted (and returned) strictly after
// every progress event and after the operation log is written.
//
// Cancellation is honored before spawn only. A running child is never
// signalled: dismissing the observer must not abort a package
// transaction in flight, and the transcript is drained to EOF so the
// log stays complete.
func Run(ctx context.Context, config RunConfig) *Outcome {
	if config.Events != nil {
		defer close(config.Events)
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	emit := func(event Event) {
		if config.Events != nil {
			config.Events <- event
		}
	}

	request := config.Request
	if err := request.Validate(); err != nil {
		outcome := failureOutcome(FailureSpawn, -1, nil, err.Error())
		emit(outcomeEvent(outcome))
		return outcome
	}
	tools := config.Tools.withDefaults()

	spec := updateCommand(request, tools)
	if request.Kind.Conversion() {
		spec = conversionCommand(request, tools)
	}
	logger.Info("operation starting",
		"kind", request.Kind, "target", request.TargetLabel(), "command", spec.Rendered())

	spawner := config.Spawner
	if spawner == nil {
		spawner = &Runner{Logger: logger}
	}

	transcript := transcriptHeader(spec.Rendered())
	for _, line := range transcript {
		emit(lineEvent(Line{Origin: OriginSystem, Text: line}))
	}

	lines := make(chan Line, 64)
	done := make(chan childResult, 1)
	go func() {
		exitCode, err := spawner.Run(ctx, spec, lines)
		done <- childResult{exitCode: exitCode, err: err}
		close(lines)
	}()

	var classification Classification
	for line := range lines {
		transcript = append(transcript, line.Text)
		emit(lineEvent(line))
		previous := classification
		classification.observe(line.Text, config.Targets)
		if classification != previous {
			emit(statusEvent(classification))
		}
	}
	result := <-done

	var outcome *Outcome
	switch {
	case result.err != nil:
		var spawnError *SpawnError
		if errors.As(result.err, &spawnError) {
			outcome = failureOutcome(FailureSpawn, -1, nil,
				fmt.Sprintf("Could not start %s: %v", spec.Path, spawnError.Err))
		} else {
			outcome = failureOutcome(FailureRead, result.exitCode, transcript, result.err.Error())
		}
	case result.exitCode == 0:
		outcome = resolveSuccess(ctx, config, tools, logger, emit, transcript, classification)
	case spec.Privileged && (result.exitCode == 126 || result.exitCode == 127):
		outcome = failureOutcome(FailureAuthCancelled, result.exitCode, transcript, AuthCancelledMessage)
	case IsNoOp(transcript):
		outcome = noOpOutcome(result.exitCode, transcript)
	default:
		outcome = failureOutcome(FailureTool, result.exitCode, transcript,
			fmt.Sprintf("Tool failed with exit status %d", result.exitCode))
	}

	// A process that never started leaves no record: there is no tool
	// output to preserve.
	if outcome.Failure == FailureSpawn {
		logger.Error("operation could not start", "kind", request.Kind, "message", outcome.Message)
		emit(outcomeEvent(outcome))
		return outcome
	}

	if config.Log != nil {
		record := oplog.Record{
			Operation:  request.Kind.String(),
			Target:     request.TargetLabel(),
			Remote:     request.Remote,
			Success:    outcome.Success(),
			Transcript: outcome.Transcript,
		}
		if path, err := config.Log.Write(record); err != nil {
			logger.Warn("operation log write failed", "error", err)
			emit(warningEvent("Could not write operation log: " + err.Error()))
		} else {
			logger.Debug("operation log written", "path", path)
		}
	}

	logger.Info("operation finished",
		"kind", request.Kind, "variant", outcome.Variant, "exit_code", outcome.ExitCode)
	emit(outcomeEvent(outcome))
	return outcome
}

// resolveSuccess turns a zero exit into the final outcome. Updates
// succeed as-is; conversions must additionally produce a locatable,
// readable RPM, relocated into the requested directory when the tool
// left it elsewhere.
func resolveSuccess(ctx context.Context, config RunConfig, tools Tools, logger *slog.Logger,
	emit func(Event), transcript []string, classification Classification) *Outcome {

	request := config.Request
	if !request.Kind.Conversion() {
		return successOutcome(request, 0, transcript, "")
	}

	appendLine := func(text string) {
		transcript = append(transcript, text)
		emit(lineEvent(Line{Origin: OriginSystem, Text: text}))
	}

	locator := config.Locator
	if locator == nil {
		locator = &artifact.Locator{Clock: config.Clock, Logger: logger}
	}
	relocator := config.Relocator
	if relocator == nil {
		relocator = &artifact.Relocator{PrivilegeHelper: tools.PrivilegeHelper, Logger: logger}
	}

	requestedDir := request.Directory()
	located, err := locator.Locate(ctx, artifact.LocateRequest{
		RequestedDir: requestedDir,
		FilenameHint: classification.ArtifactHint,
		Transcript:   transcript,
	})
	if err != nil {
		var missing *artifact.MissingError
		if !errors.As(err, &missing) {
			return failureOutcome(FailureArtifactMissing, 0, transcript,
				fmt.Sprintf("Artifact search failed: %v", err))
		}
		appendLine("No RPM found. Searched directories:")
		for _, dir := range missing.SearchedDirs {
			appendLine("  " + dir)
		}
		outcome := failureOutcome(FailureArtifactMissing, 0, transcript,
			"Conversion finished but no RPM was produced")
		outcome.SearchedDirs = missing.SearchedDirs
		return outcome
	}

	if filepath.Dir(located) != requestedDir {
		moved, err := relocator.Relocate(ctx, located, requestedDir)
		if err != nil {
			// Non-fatal: the RPM exists, just not where asked.
			warning := fmt.Sprintf("Could not move %s to %s: %v", located, requestedDir, err)
			appendLine("Warning: " + warning)
			emit(warningEvent(warning))
			logger.Warn("artifact relocation failed",
				"src", located, "dest", requestedDir, "error", err)
		} else {
			located = moved
			appendLine("Moved RPM to: " + moved)
		}
	}

	digest, err := artifact.Checksum(located)
	if err != nil {
		return failureOutcome(FailureArtifactMissing, 0, transcript,
			fmt.Sprintf("Produced RPM is unreadable: %v", err))
	}
	appendLine("BLAKE3: " + digest)

	outcome := successOutcome(request, 0, transcript, located)
	outcome.ArtifactDigest = digest
	return outcome
}
