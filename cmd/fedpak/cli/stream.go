// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/fedpak-project/fedpak/lib/operation"
)

// StreamEvents renders operation progress to w as it arrives and
// returns the terminal outcome once the event channel closes. On a
// terminal the transcript streams raw, with a summary block at the
// end; piped, every event becomes a structured JSON record so scripts
// and CI can parse the stream.
//
// Status events are omitted in terminal mode: the transcript lines
// already narrate the tool's progress.
func StreamEvents(events <-chan operation.Event, w io.Writer, tty bool) *operation.Outcome {
	if !tty {
		return streamStructured(events, w)
	}

	var outcome *operation.Outcome
	for event := range events {
		switch event.Type {
		case operation.EventLine:
			if event.Line != nil {
				fmt.Fprintln(w, event.Line.Text)
			}
		case operation.EventWarning:
			if event.Warning != nil {
				fmt.Fprintf(w, "warning: %s\n", event.Warning.Message)
			}
		case operation.EventOutcome:
			outcome = event.Outcome
		}
	}
	if outcome != nil {
		printSummary(w, outcome)
	}
	return outcome
}

// OutcomeExitCode maps an operation outcome to the headless command's
// process exit code: 0 for success and no-op, the tool's own exit
// code for failures that carry a positive one, 1 otherwise.
func OutcomeExitCode(outcome *operation.Outcome) int {
	if outcome == nil {
		return 1
	}
	if outcome.Success() {
		return 0
	}
	if outcome.ExitCode > 0 {
		return outcome.ExitCode
	}
	return 1
}

func printSummary(w io.Writer, outcome *operation.Outcome) {
	fmt.Fprintln(w)
	switch outcome.Variant {
	case operation.VariantSuccess:
		fmt.Fprintf(w, "✓ %s\n", outcome.Message)
		if outcome.ArtifactPath != "" {
			fmt.Fprintf(w, "  artifact  %s\n", outcome.ArtifactPath)
			if outcome.ArtifactDigest != "" {
				fmt.Fprintf(w, "  blake3    %s\n", outcome.ArtifactDigest)
			}
			if info, err := os.Stat(outcome.ArtifactPath); err == nil {
				fmt.Fprintf(w, "  size      %s\n", humanize.Bytes(uint64(info.Size())))
			}
		}
	case operation.VariantNoOp:
		fmt.Fprintf(w, "− %s\n", outcome.Message)
	case operation.VariantFailure:
		if outcome.ExitCode > 0 {
			fmt.Fprintf(w, "✗ %s (exit %d)\n", outcome.Message, outcome.ExitCode)
		} else {
			fmt.Fprintf(w, "✗ %s\n", outcome.Message)
		}
		if outcome.Failure == operation.FailureArtifactMissing && len(outcome.SearchedDirs) > 0 {
			fmt.Fprintln(w, "  searched:")
			for _, dir := range outcome.SearchedDirs {
				fmt.Fprintf(w, "    %s\n", dir)
			}
		}
	}
}

func streamStructured(events <-chan operation.Event, w io.Writer) *operation.Outcome {
	logger := slog.New(slog.NewJSONHandler(w, nil))

	var outcome *operation.Outcome
	for event := range events {
		switch event.Type {
		case operation.EventLine:
			if event.Line != nil {
				logger.Info("line",
					"origin", string(event.Line.Origin),
					"text", event.Line.Text)
			}
		case operation.EventStatus:
			if event.Status != nil {
				logger.Info("status",
					"target", event.Status.CurrentTarget,
					"completion", event.Status.Completion)
			}
		case operation.EventWarning:
			if event.Warning != nil {
				logger.Warn("warning", "message", event.Warning.Message)
			}
		case operation.EventOutcome:
			outcome = event.Outcome
		}
	}

	if outcome != nil {
		attrs := []any{
			"variant", string(outcome.Variant),
			"message", outcome.Message,
			"exit_code", outcome.ExitCode,
		}
		if outcome.Failure != "" {
			attrs = append(attrs, "failure", string(outcome.Failure))
		}
		if outcome.ArtifactPath != "" {
			attrs = append(attrs, "artifact", outcome.ArtifactPath)
		}
		if outcome.ArtifactDigest != "" {
			attrs = append(attrs, "blake3", outcome.ArtifactDigest)
		}
		logger.Info("outcome", attrs...)
	}
	return outcome
}
