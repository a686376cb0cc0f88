// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package proton

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/fedpak-project/fedpak/cmd/fedpak/cli"
	"github.com/fedpak-project/fedpak/lib/github"
	"github.com/fedpak-project/fedpak/lib/proton"
	"github.com/fedpak-project/fedpak/lib/theme"
	"github.com/fedpak-project/fedpak/lib/tui"
)

// Command returns the "proton" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "proton",
		Summary: "Browse Proton-GE releases and changelogs",
		Description: `Browse Proton-GE releases from the command line.

Listings come from the on-disk snapshot while it is fresh; a stale
snapshot triggers a conditional fetch (an unchanged upstream costs a
304, not a download). When GitHub is unreachable the snapshot is
served anyway, marked offline.`,
		Subcommands: []*cli.Command{
			listCommand(),
			showCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "List known releases",
				Command:     "fedpak proton list",
			},
			{
				Description: "Read a release changelog",
				Command:     "fedpak proton show GE-Proton9-20",
			},
		},
	}
}

func listCommand() *cli.Command {
	var refresh bool

	return &cli.Command{
		Name:    "list",
		Summary: "List Proton-GE releases",
		Usage:   "fedpak proton list [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.BoolVar(&refresh, "refresh", false, "revalidate against GitHub even if the snapshot is fresh")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("list takes no arguments, got %q", args[0])
			}

			fetcher, err := newFetcher(logger)
			if err != nil {
				return err
			}

			feed, err := fetchFeed(ctx, fetcher, refresh)
			if err != nil {
				return err
			}

			renderList(os.Stdout, feed, time.Now())
			return nil
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:    "show",
		Summary: "Print a release changelog",
		Description: `Print one release's changelog.

On a terminal the release notes render as styled markdown; piped, the
raw markdown passes through untouched for further processing.`,
		Usage: "fedpak proton show <tag>",
		Examples: []cli.Example{
			{
				Description: "Read the notes for a release",
				Command:     "fedpak proton show GE-Proton9-20",
			},
			{
				Description: "Extract the raw markdown",
				Command:     "fedpak proton show GE-Proton9-20 > notes.md",
			},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("show takes exactly one release tag")
			}
			tag := args[0]

			cfg, err := cli.LoadSettings()
			if err != nil {
				return err
			}
			fetcher, err := cli.NewReleaseSource(cfg, logger)
			if err != nil {
				return err
			}

			release, err := fetcher.Release(ctx, tag)
			if err != nil {
				if github.IsNotFound(err) {
					return cli.NotFound("release %q not found", tag).
						WithHint("Run 'fedpak proton list' to see known releases.")
				}
				return cli.Transient("fetch release %q: %w", tag, err)
			}

			tty := term.IsTerminal(int(os.Stdout.Fd()))
			palette, err := cli.LoadTheme(cfg)
			if err != nil {
				return err
			}
			renderShow(os.Stdout, release, palette, tty, terminalWidth())
			return nil
		},
	}
}

func newFetcher(logger *slog.Logger) (*proton.Fetcher, error) {
	cfg, err := cli.LoadSettings()
	if err != nil {
		return nil, err
	}
	return cli.NewReleaseSource(cfg, logger)
}

func fetchFeed(ctx context.Context, fetcher *proton.Fetcher, refresh bool) (*proton.Feed, error) {
	var feed *proton.Feed
	var err error
	if refresh {
		feed, err = fetcher.Refresh(ctx)
	} else {
		feed, err = fetcher.Releases(ctx)
	}
	if err != nil {
		return nil, cli.Transient("fetch releases: %w", err)
	}
	return feed, nil
}

// renderList prints the release table: tag, publication date, age,
// tarball size.
func renderList(w io.Writer, feed *proton.Feed, now time.Time) {
	if len(feed.Releases) == 0 {
		fmt.Fprintln(w, "no releases known")
		return
	}

	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "TAG\tDATE\tAGE\tSIZE")
	for _, release := range feed.Releases {
		size := "-"
		if release.TarballSize > 0 {
			size = humanize.Bytes(uint64(release.TarballSize))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			release.Tag,
			release.Published.Format("2006-01-02"),
			humanize.RelTime(release.Published, now, "ago", "from now"),
			size)
	}
	tw.Flush()

	if feed.Offline {
		fmt.Fprintf(w, "\noffline — showing the snapshot from %s\n",
			humanize.RelTime(feed.FetchedAt, now, "ago", "from now"))
	}
}

// renderShow prints one release: a header, then the notes — styled
// markdown on a terminal, raw markdown piped.
func renderShow(w io.Writer, release *proton.Release, palette theme.Theme, tty bool, width int) {
	title := release.Title
	if title == "" {
		title = release.Tag
	}

	if !tty {
		fmt.Fprintf(w, "# %s\n\n", title)
		fmt.Fprintln(w, release.Notes)
		return
	}

	fmt.Fprintf(w, "%s — %s\n\n", title, release.Published.Format("2006-01-02"))
	fmt.Fprintln(w, tui.RenderMarkdown(release.Notes, palette, width))
}

// terminalWidth returns the stdout width for markdown wrapping, with
// a conservative default when it cannot be measured.
func terminalWidth() int {
	if cols, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && cols > 20 {
		return cols
	}
	return 80
}
