// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fedpak-project/fedpak/cmd/fedpak/cli"
	"github.com/fedpak-project/fedpak/cmd/fedpak/configcmd"
	convertcmd "github.com/fedpak-project/fedpak/cmd/fedpak/convert"
	logscmd "github.com/fedpak-project/fedpak/cmd/fedpak/logs"
	protoncmd "github.com/fedpak-project/fedpak/cmd/fedpak/proton"
	uicmd "github.com/fedpak-project/fedpak/cmd/fedpak/ui"
	updatecmd "github.com/fedpak-project/fedpak/cmd/fedpak/update"
	"github.com/fedpak-project/fedpak/lib/version"
)

// rootCommand builds the complete fedpak CLI command tree.
func rootCommand() *cli.Command {
	return &cli.Command{
		Name: "fedpak",
		Description: `fedpak: desktop package chores for Fedora-family systems.

Update Flatpak applications, convert DEB and TGZ packages to RPM,
and follow Proton-GE releases — from a tabbed terminal interface or
headless from scripts. Every operation writes a transcript log.

Pass --verbose to any command for debug-level diagnostics on stderr.`,
		Subcommands: []*cli.Command{
			uicmd.Command(),
			updatecmd.Command(),
			convertcmd.Command(),
			protoncmd.Command(),
			logscmd.Command(),
			configcmd.Command(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					fmt.Printf("fedpak %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Open the terminal interface (start here)",
				Command:     "fedpak ui",
			},
			{
				Description: "Update everything, headless",
				Command:     "fedpak update",
			},
			{
				Description: "Convert a Debian package to RPM",
				Command:     "fedpak convert ~/Downloads/discord-0.0.114.deb",
			},
			{
				Description: "Read the latest Proton-GE changelog",
				Command:     "fedpak proton list",
			},
			{
				Description: "Compress operation logs older than 30 days",
				Command:     "fedpak logs prune",
			},
			{
				Description: "Write a commented settings file",
				Command:     "fedpak config init",
			},
		},
	}
}
