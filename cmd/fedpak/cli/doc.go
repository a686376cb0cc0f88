// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the fedpak CLI.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a [pflag.FlagSet] factory, and a
// Run function. Commands are assembled into a tree in cmd/fedpak and
// dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and structured help output with examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3). This is implemented in
// suggest.go.
//
// Command handlers return [ToolError] values built with the category
// constructors ([Validation], [NotFound], ...); the main function maps
// categories to exit codes via [ExitCode] so scripts can branch without
// parsing message text. Handlers that have already written their own
// output return [ExitError] to set the exit code silently.
//
// The package also carries the wiring shared by the subcommand
// packages: settings loading ([LoadSettings], [LoadTheme]), GitHub
// client construction with sealed-token resolution ([GitHubToken],
// [NewReleaseSource]), and transcript streaming for the headless
// operation commands ([StreamEvents]).
package cli
