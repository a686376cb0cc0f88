// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package configcmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/fedpak-project/fedpak/cmd/fedpak/cli"
	"github.com/fedpak-project/fedpak/lib/config"
	"github.com/fedpak-project/fedpak/lib/sealed"
	"github.com/fedpak-project/fedpak/lib/theme"
)

// Command returns the "config" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "config",
		Summary: "Manage settings and the sealed GitHub token",
		Description: `Manage the settings file and the sealed GitHub token.

fedpak runs without a settings file; init writes a commented template
to change that. The token subcommands manage the age-encrypted GitHub
token used for authenticated release fetching.`,
		Subcommands: []*cli.Command{
			initCommand(),
			showCommand(),
			tokenCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Write the settings template",
				Command:     "fedpak config init",
			},
			{
				Description: "See the effective settings and available themes",
				Command:     "fedpak config show",
			},
			{
				Description: "Store a GitHub token, sealed with a passphrase",
				Command:     "fedpak config token set",
			},
		},
	}
}

// settingsTemplate is what "config init" writes: every field present,
// commented, with the default value. Fields left commented out keep
// their defaults, so a fresh file changes nothing.
const settingsTemplate = `# fedpak settings. Every entry is optional; commented entries show
# the default. Environment overrides (FEDPAK_LOG_DIR, FEDPAK_THEME,
# FEDPAK_FLATPAK, ...) beat this file.

tools:
  # External binaries, resolved through PATH unless absolute.
  #flatpak: flatpak
  #alien: alien
  #privilege_helper: pkexec
  # Graphical file chooser: auto, zenity, kdialog, or none.
  #file_picker: auto

paths:
  # Operation logs. Default: $XDG_STATE_HOME/fedpak.
  #log_dir: ~/.local/state/fedpak
  # Where converted RPMs land. Empty: next to the source package.
  #convert_dir: ""

ui:
  # A built-in (default, light, contrast) or a user theme file name
  # from ~/.config/fedpak/themes.
  #theme: default
  #mouse: true

github:
  #base_url: https://api.github.com
  #owner: GloriousEggroll
  #repo: proton-ge-custom
  # Release snapshot freshness window.
  #cache_ttl: 6h

logging:
  # Diagnostic log file; empty disables. Default:
  # $XDG_STATE_HOME/fedpak/fedpak.log.
  #file: ~/.local/state/fedpak/fedpak.log
  #level: info
`

func initCommand() *cli.Command {
	var force bool

	return &cli.Command{
		Name:    "init",
		Summary: "Write a commented settings template",
		Description: `Write the settings template to the standard location (or to the
file named by FEDPAK_CONFIG when that is set). Refuses to overwrite
an existing file unless --force is given.`,
		Usage: "fedpak config init [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("init", pflag.ContinueOnError)
			flagSet.BoolVar(&force, "force", false, "overwrite an existing settings file")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("init takes no arguments, got %q", args[0])
			}

			path := os.Getenv("FEDPAK_CONFIG")
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return cli.Internal("resolve settings path: %w", err)
				}
			}

			if _, err := os.Stat(path); err == nil && !force {
				return cli.Conflict("settings file %s already exists", path).
					WithHint("Pass --force to overwrite it.")
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return cli.Internal("create settings directory: %w", err)
			}
			if err := os.WriteFile(path, []byte(settingsTemplate), 0o644); err != nil {
				return cli.Internal("write settings file: %w", err)
			}

			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:    "show",
		Summary: "Print the effective settings",
		Description: `Print the effective settings: defaults, file, and environment
overrides merged — what every other command actually runs with. Also
lists the selectable themes and whether a sealed token is stored.`,
		Usage: "fedpak config show",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("show takes no arguments, got %q", args[0])
			}
			cfg, err := cli.LoadSettings()
			if err != nil {
				return err
			}
			return renderShow(os.Stdout, cfg)
		},
	}
}

func renderShow(w io.Writer, cfg *config.Config) error {
	path := os.Getenv("FEDPAK_CONFIG")
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return cli.Internal("resolve settings path: %w", err)
		}
	}
	source := path
	if _, err := os.Stat(path); err != nil {
		source = path + " (absent, defaults apply)"
	}
	fmt.Fprintf(w, "# settings: %s\n", source)

	encoded, err := yaml.Marshal(cfg)
	if err != nil {
		return cli.Internal("encode settings: %w", err)
	}
	fmt.Fprint(w, string(encoded))

	fmt.Fprintf(w, "\n# themes: %s\n", strings.Join(theme.Available(), ", "))

	tokenPath, err := sealed.DefaultTokenPath()
	if err == nil && sealed.HasToken(tokenPath) {
		fmt.Fprintf(w, "# github token: sealed at %s\n", tokenPath)
	} else {
		fmt.Fprintln(w, "# github token: none (set FEDPAK_GITHUB_TOKEN or run 'fedpak config token set')")
	}
	return nil
}
