// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package configcmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/fedpak-project/fedpak/cmd/fedpak/cli"
	"github.com/fedpak-project/fedpak/lib/sealed"
	"github.com/fedpak-project/fedpak/lib/secret"
)

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:    "token",
		Summary: "Manage the sealed GitHub token",
		Description: `Manage the GitHub token used for authenticated release fetching.

The token is sealed to a passphrase (age scrypt recipient) and stored
armored at ~/.config/fedpak/token.age with mode 0600. It is unsealed
at most once per process, and only when a terminal is available for
the passphrase prompt. FEDPAK_GITHUB_TOKEN bypasses the file
entirely.`,
		Subcommands: []*cli.Command{
			tokenSetCommand(),
			tokenClearCommand(),
		},
	}
}

func tokenSetCommand() *cli.Command {
	var (
		tokenFile      string
		passphraseFile string
	)

	return &cli.Command{
		Name:    "set",
		Summary: "Seal and store a GitHub token",
		Description: `Read a GitHub token and store it sealed under a passphrase.

Without flags both the token and the passphrase are prompted on the
terminal, echo off, passphrase confirmed. The file flags exist for
scripted setup; "-" reads from stdin.`,
		Usage: "fedpak config token set [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("set", pflag.ContinueOnError)
			flagSet.StringVar(&tokenFile, "token-file", "", "read the token from this file instead of prompting")
			flagSet.StringVar(&passphraseFile, "passphrase-file", "", "read the sealing passphrase from this file instead of prompting")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Interactive setup",
				Command:     "fedpak config token set",
			},
			{
				Description: "Scripted setup",
				Command:     "fedpak config token set --token-file ./token --passphrase-file ./passphrase",
			},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("set takes no arguments, got %q", args[0])
			}

			token, err := readSecretInput(tokenFile, "GitHub token: ", false)
			if err != nil {
				return err
			}
			defer token.Close()

			passphrase, err := readSecretInput(passphraseFile, "Passphrase: ", true)
			if err != nil {
				return err
			}
			defer passphrase.Close()

			path, err := sealed.DefaultTokenPath()
			if err != nil {
				return cli.Internal("resolve token path: %w", err)
			}

			// SaveToken zeroes the token bytes during sealing; the
			// deferred Close covers the buffer bookkeeping.
			if err := sealed.SaveToken(path, token.Bytes(), passphrase); err != nil {
				return cli.Internal("seal token: %w", err)
			}

			fmt.Printf("token sealed at %s\n", path)
			return nil
		},
	}
}

func tokenClearCommand() *cli.Command {
	return &cli.Command{
		Name:    "clear",
		Summary: "Remove the sealed token",
		Usage:   "fedpak config token clear",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("clear takes no arguments, got %q", args[0])
			}

			path, err := sealed.DefaultTokenPath()
			if err != nil {
				return cli.Internal("resolve token path: %w", err)
			}

			existed := sealed.HasToken(path)
			if err := sealed.ClearToken(path); err != nil {
				return cli.Internal("%w", err)
			}

			if existed {
				fmt.Printf("removed %s\n", path)
			} else {
				fmt.Println("no token to remove")
			}
			return nil
		},
	}
}

// readSecretInput reads a secret from a file ("-" is stdin), or
// prompts on the terminal with echo disabled. confirm asks for the
// value twice, for secrets that cannot be re-checked later.
func readSecretInput(path, prompt string, confirm bool) (*secret.Buffer, error) {
	if path != "" {
		buffer, err := secret.ReadFromPath(path)
		if err != nil {
			return nil, cli.Validation("read %s: %w", path, err)
		}
		return buffer, nil
	}

	stdinFd := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFd) {
		// Stdin is piped: read a single line without prompting.
		buffer, err := secret.ReadFromPath("-")
		if err != nil {
			return nil, cli.Validation("read from stdin: %w", err)
		}
		return buffer, nil
	}

	fmt.Fprint(os.Stderr, prompt)
	first, err := term.ReadPassword(stdinFd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, cli.Internal("reading input: %w", err)
	}
	if len(first) == 0 {
		return nil, cli.Validation("empty input")
	}

	if confirm {
		fmt.Fprint(os.Stderr, "Confirm: ")
		second, err := term.ReadPassword(stdinFd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			secret.Zero(first)
			return nil, cli.Internal("reading confirmation: %w", err)
		}

		match := len(first) == len(second)
		if match {
			for index := range first {
				if first[index] != second[index] {
					match = false
					break
				}
			}
		}
		secret.Zero(second)
		if !match {
			secret.Zero(first)
			return nil, cli.Validation("entries do not match")
		}
	}

	buffer, err := secret.NewFromBytes(first)
	if err != nil {
		secret.Zero(first)
		return nil, cli.Internal("storing input: %w", err)
	}
	return buffer, nil
}
