// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package logs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/fedpak-project/fedpak/cmd/fedpak/cli"
	"github.com/fedpak-project/fedpak/lib/oplog"
)

// Command returns the "logs" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "logs",
		Summary: "Manage operation logs",
		Description: `Manage the operation log directory.

Every update and conversion writes one log file with the full
transcript and outcome. These accumulate; prune compresses old ones
to .zst archives and, with --all, removes expired archives too.`,
		Subcommands: []*cli.Command{
			listCommand(),
			showCommand(),
			pruneCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "See what operations have run",
				Command:     "fedpak logs list",
			},
			{
				Description: "Read the newest flatpak update log",
				Command:     "fedpak logs show fedpak_flatpak-update_2026-08-25_14-02-07.log",
			},
			{
				Description: "Compress logs older than a week, keep the newest ten",
				Command:     "fedpak logs prune --age 168h --keep 10",
			},
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Summary: "List operation logs, newest first",
		Usage:   "fedpak logs list",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("list takes no arguments, got %q", args[0])
			}
			cfg, err := cli.LoadSettings()
			if err != nil {
				return err
			}
			entries, err := oplog.List(cfg.Paths.LogDir)
			if err != nil {
				return cli.Internal("list logs: %w", err)
			}
			renderList(os.Stdout, entries, time.Now())
			return nil
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:    "show",
		Summary: "Print one operation log",
		Description: `Print an operation log to stdout, transparently decompressing
pruned archives. The argument is a filename from 'fedpak logs list'
or a path.`,
		Usage: "fedpak logs show <name>",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("show takes exactly one log name")
			}
			cfg, err := cli.LoadSettings()
			if err != nil {
				return err
			}

			path := args[0]
			if !strings.ContainsRune(path, os.PathSeparator) {
				path = filepath.Join(cfg.Paths.LogDir, path)
			}

			content, err := oplog.Read(path)
			if err != nil {
				if os.IsNotExist(err) {
					return cli.NotFound("log %s does not exist", path).
						WithHint("Run 'fedpak logs list' to see available logs.")
				}
				return cli.Internal("read log: %w", err)
			}
			fmt.Print(content)
			if !strings.HasSuffix(content, "\n") {
				fmt.Println()
			}
			return nil
		},
	}
}

func pruneCommand() *cli.Command {
	var (
		keep int
		age  time.Duration
		all  bool
	)

	return &cli.Command{
		Name:    "prune",
		Summary: "Compress old logs, optionally drop old archives",
		Description: `Compress operation logs older than --age to .zst archives and
delete the originals. The newest --keep logs are never touched,
whatever their age. With --all, archives older than --age are deleted
as well; without it they accumulate indefinitely.`,
		Usage: "fedpak logs prune [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("prune", pflag.ContinueOnError)
			flagSet.IntVar(&keep, "keep", 10, "newest logs to leave untouched")
			flagSet.DurationVar(&age, "age", 30*24*time.Hour, "age beyond which logs are compressed")
			flagSet.BoolVar(&all, "all", false, "also delete archives older than --age")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Default pass: compress logs older than 30 days",
				Command:     "fedpak logs prune",
			},
			{
				Description: "Aggressive cleanup including archives",
				Command:     "fedpak logs prune --age 72h --keep 3 --all",
			},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("prune takes no arguments, got %q", args[0])
			}
			if keep < 0 {
				return cli.Validation("--keep must be zero or positive, got %d", keep)
			}
			cfg, err := cli.LoadSettings()
			if err != nil {
				return err
			}

			pruner := &oplog.Pruner{Dir: cfg.Paths.LogDir, Logger: logger}
			result, err := pruner.Prune(oplog.PruneOptions{
				MaxAge:         age,
				Keep:           keep,
				RemoveArchives: all,
			})
			if err != nil {
				return cli.Internal("prune logs: %w", err)
			}

			renderPruneResult(os.Stdout, result)
			return nil
		},
	}
}

// renderList prints the log table: result, operation kind, age, size,
// filename.
func renderList(w io.Writer, entries []oplog.Entry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no operation logs")
		return
	}

	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "RESULT\tOPERATION\tAGE\tSIZE\tNAME")
	for _, entry := range entries {
		result := "SUCCESS"
		if !entry.Success {
			result = "FAILED"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			result,
			entry.Operation,
			humanize.RelTime(entry.Timestamp, now, "ago", "from now"),
			humanize.Bytes(uint64(entry.Size)),
			filepath.Base(entry.Path))
	}
	tw.Flush()
}

func renderPruneResult(w io.Writer, result oplog.PruneResult) {
	if result.Compressed == 0 && result.Removed == 0 {
		fmt.Fprintln(w, "nothing to prune")
		return
	}
	fmt.Fprintf(w, "compressed %d, removed %d", result.Compressed, result.Removed)
	if result.Reclaimed > 0 {
		fmt.Fprintf(w, ", reclaimed %s", humanize.Bytes(uint64(result.Reclaimed)))
	}
	fmt.Fprintln(w)
}
