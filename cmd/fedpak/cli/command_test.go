// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "fedpak",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "proton",
				Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
					called = "proton"
					if ctx == nil {
						t.Error("Run received nil context")
					}
					if logger == nil {
						t.Error("Run received nil logger")
					}
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"proton"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "proton" {
		t.Errorf("dispatched to %q, want %q", called, "proton")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "fedpak",
		Subcommands: []*Command{
			{
				Name: "proton",
				Subcommands: []*Command{
					{
						Name: "show",
						Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
							called = "proton show"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute([]string{"proton", "show", "GE-Proton9-20"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "proton show" {
		t.Errorf("dispatched to %q, want %q", called, "proton show")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "GE-Proton9-20" {
		t.Errorf("args = %v, want [GE-Proton9-20]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var dest string
	var target string

	command := &Command{
		Name: "convert",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("convert", pflag.ContinueOnError)
			flagSet.StringVar(&dest, "dest", "", "destination directory")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				target = args[0]
			}
			return nil
		},
	}

	if err := command.Execute([]string{"--dest", "/home/u/rpms", "discord.deb"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if dest != "/home/u/rpms" {
		t.Errorf("dest = %q, want %q", dest, "/home/u/rpms")
	}
	if target != "discord.deb" {
		t.Errorf("target = %q, want %q", target, "discord.deb")
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "prune",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("prune", pflag.ContinueOnError)
			flagSet.Int("keep", 10, "newest logs to leave untouched")
			flagSet.Bool("all", false, "also delete archives")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error { return nil },
	}

	err := command.Execute([]string{"--kep"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "did you mean --keep") {
		t.Errorf("error = %q, want suggestion for '--keep'", errStr)
	}
	// Suggestion should be on the same line as the error, not buried.
	if !strings.Contains(errStr, "kep") {
		t.Errorf("error = %q, should mention the bad flag", errStr)
	}
	// Should include a pointer to --help.
	if !strings.Contains(errStr, "--help") {
		t.Errorf("error = %q, should point to --help", errStr)
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	command := &Command{
		Name: "prune",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("prune", pflag.ContinueOnError)
			flagSet.Int("keep", 10, "newest logs to leave untouched")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error { return nil },
	}

	err := command.Execute([]string{"--zzzzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for distant flag", err.Error())
	}
	if !strings.Contains(err.Error(), "--help") {
		t.Errorf("error = %q, should point to --help", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "fedpak",
		Subcommands: []*Command{
			{Name: "update"},
			{Name: "proton"},
			{Name: "version"},
		},
	}

	err := root.Execute([]string{"protn"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), "did you mean \"proton\"") {
		t.Errorf("error = %q, want suggestion for 'proton'", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandNoSuggestion(t *testing.T) {
	root := &Command{
		Name: "fedpak",
		Subcommands: []*Command{
			{Name: "update"},
			{Name: "proton"},
		},
	}

	err := root.Execute([]string{"zzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not contain suggestion for distant input", err.Error())
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			root := &Command{
				Name:    "fedpak",
				Summary: "Desktop package chores",
				Subcommands: []*Command{
					{Name: "update", Summary: "Update installed Flatpak applications"},
				},
			}

			err := root.Execute([]string{helpArg})
			if err != nil {
				t.Errorf("Execute(%q) error: %v", helpArg, err)
			}
		})
	}
}

func TestCommand_Execute_NoArgsShowsHelp(t *testing.T) {
	root := &Command{
		Name: "fedpak",
		Subcommands: []*Command{
			{Name: "update", Summary: "Update installed Flatpak applications"},
		},
	}

	err := root.Execute([]string{})
	if err == nil {
		t.Fatal("Execute() = nil, want error for missing subcommand")
	}
	if !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %q, want 'subcommand required'", err.Error())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	command := &Command{
		Name:        "fedpak",
		Description: "Desktop package chores for Fedora-family systems.",
		Subcommands: []*Command{
			{Name: "ui", Summary: "Open the tabbed terminal interface"},
			{Name: "update", Summary: "Update installed Flatpak applications"},
			{Name: "version", Summary: "Print version information"},
		},
		Examples: []Example{
			{
				Description: "Open the terminal interface",
				Command:     "fedpak ui",
			},
			{
				Description: "Update two specific applications",
				Command:     "fedpak update org.mozilla.firefox com.spotify.Client",
			},
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	// Verify structural elements are present.
	for _, want := range []string{
		"Desktop package chores for Fedora-family systems.",
		"Usage:",
		"fedpak <command> [flags]",
		"Commands:",
		"ui",
		"Open the tabbed terminal interface",
		"update",
		"Update installed Flatpak applications",
		"Examples:",
		"fedpak ui",
		"fedpak update org.mozilla.firefox",
		"Run 'fedpak <command> --help'",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_PrintHelp_WithFlags(t *testing.T) {
	command := &Command{
		Name:    "prune",
		Summary: "Compress old logs",
		Usage:   "fedpak logs prune [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("prune", pflag.ContinueOnError)
			flagSet.Int("keep", 10, "newest logs to leave untouched")
			flagSet.Bool("all", false, "also delete archives")
			return flagSet
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"fedpak logs prune [flags]",
		"Flags:",
		"keep",
		"all",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_FullName(t *testing.T) {
	root := &Command{Name: "fedpak"}
	proton := &Command{Name: "proton", parent: root}
	show := &Command{Name: "show", parent: proton}

	if got := root.fullName(); got != "fedpak" {
		t.Errorf("root.fullName() = %q, want %q", got, "fedpak")
	}
	if got := proton.fullName(); got != "fedpak proton" {
		t.Errorf("proton.fullName() = %q, want %q", got, "fedpak proton")
	}
	if got := show.fullName(); got != "fedpak proton show" {
		t.Errorf("show.fullName() = %q, want %q", got, "fedpak proton show")
	}
}
