// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package operation

import (
	"fmt"
	"path/filepath"
)

// Variant is the top-level disposition of a finished operation.
type Variant string

const (
	// VariantSuccess: the tool exited zero and any artifact
	// obligations were met.
	VariantSuccess Variant = "success"

	// VariantNoOp: the tool reported there was nothing to do. Not a
	// failure; the system was already in the requested state.
	VariantNoOp Variant = "no_op"

	// VariantFailure: anything else. Failure carries the kind.
	VariantFailure Variant = "failure"
)

// FailureKind discriminates failures for presentation and retry
// decisions.
type FailureKind string

const (
	// FailureSpawn: the tool process never started. No transcript,
	// no log file.
	FailureSpawn FailureKind = "spawn_failed"

	// FailureRead: an output pipe broke mid-stream. The transcript
	// holds whatever arrived before the break.
	FailureRead FailureKind = "read_error"

	// FailureAuthCancelled: the privilege helper was dismissed or
	// rejected the user.
	FailureAuthCancelled FailureKind = "auth_cancelled"

	// FailureTool: the tool ran and exited non-zero.
	FailureTool FailureKind = "tool_failed"

	// FailureArtifactMissing: a conversion exited zero but no
	// produced package could be found.
	FailureArtifactMissing FailureKind = "artifact_missing"
)

// AuthCancelledMessage is the fixed user-facing text for a dismissed
// or failed privilege prompt. Exit codes 126 and 127 from a
// privileged command both map here; the helper does not distinguish
// "declined" from "bad password" reliably enough to report them apart.
const AuthCancelledMessage = "Authentication cancelled or failed"

// noUpdatesMessage prefixes the transcript and serves as the outcome
// message when the tool reports nothing to do.
const noUpdatesMessage = "No updates needed."

// Outcome is the single terminal result of an operation. Exactly one
// is produced per Run, delivered after every progress event.
type Outcome struct {
	// Variant is the disposition.
	Variant Variant

	// Failure is the failure kind; empty unless Variant is
	// VariantFailure.
	Failure FailureKind

	// ExitCode is the tool's exit status. -1 when the process never
	// started or was killed by a signal.
	ExitCode int

	// Transcript is the full transcript, header included, exactly as
	// written to the operation log.
	Transcript []string

	// Message is a one-line human summary suitable for a status bar
	// or notification.
	Message string

	// ArtifactPath is the located (and possibly relocated) package
	// file for a successful conversion. Empty otherwise.
	ArtifactPath string

	// ArtifactDigest is the BLAKE3 hex digest of ArtifactPath, when
	// it could be computed.
	ArtifactDigest string

	// SearchedDirs lists the directories examined when the variant is
	// a failure of kind FailureArtifactMissing.
	SearchedDirs []string
}

// Success reports whether the outcome is non-failing. A no-op counts:
// "already up to date" is a satisfied request.
func (o *Outcome) Success() bool {
	return o.Variant == VariantSuccess || o.Variant == VariantNoOp
}

func successOutcome(request Request, exitCode int, transcript []string, artifactPath string) *Outcome {
	message := "Update complete."
	if request.Kind.Conversion() {
		message = fmt.Sprintf("Created %s", filepath.Base(artifactPath))
	}
	return &Outcome{
		Variant:      VariantSuccess,
		ExitCode:     exitCode,
		Transcript:   transcript,
		Message:      message,
		ArtifactPath: artifactPath,
	}
}

func noOpOutcome(exitCode int, transcript []string) *Outcome {
	return &Outcome{
		Variant:    VariantNoOp,
		ExitCode:   exitCode,
		Transcript: append([]string{noUpdatesMessage}, transcript...),
		Message:    noUpdatesMessage,
	}
}

func failureOutcome(kind FailureKind, exitCode int, transcript []string, message string) *Outcome {
	return &Outcome{
		Variant:    VariantFailure,
		Failure:    kind,
		ExitCode:   exitCode,
		Transcript: transcript,
		Message:    message,
	}
}
