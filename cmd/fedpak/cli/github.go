// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/fedpak-project/fedpak/lib/config"
	"github.com/fedpak-project/fedpak/lib/github"
	"github.com/fedpak-project/fedpak/lib/proton"
	"github.com/fedpak-project/fedpak/lib/sealed"
	"github.com/fedpak-project/fedpak/lib/secret"
)

// GitHubToken resolves the API token: FEDPAK_GITHUB_TOKEN first, then
// the sealed token file, unsealed with a passphrase read from the
// terminal. The prompt happens at most once per process, and only when
// stdin is a terminal — a piped invocation with a sealed token runs
// anonymously rather than hanging on a prompt nobody will answer.
//
// Returns "" for anonymous access when no token source is available.
// Token problems (unreadable file, wrong passphrase) degrade to
// anonymous with a diagnostic; GitHub's unauthenticated rate limit is
// a nuisance, not a failure.
func GitHubToken(logger *slog.Logger) string {
	if token := os.Getenv("FEDPAK_GITHUB_TOKEN"); token != "" {
		return token
	}

	path, err := sealed.DefaultTokenPath()
	if err != nil || !sealed.HasToken(path) {
		return ""
	}

	stdinFd := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFd) {
		logger.Debug("sealed token present but stdin is not a terminal; proceeding anonymously",
			"path", path)
		return ""
	}

	fmt.Fprintf(os.Stderr, "Passphrase for %s: ", path)
	passphraseBytes, err := term.ReadPassword(stdinFd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		logger.Warn("reading passphrase", "error", err)
		return ""
	}

	passphrase, err := secret.NewFromBytes(passphraseBytes)
	if err != nil {
		secret.Zero(passphraseBytes)
		logger.Warn("storing passphrase", "error", err)
		return ""
	}
	defer passphrase.Close()

	tokenBuffer, err := sealed.LoadToken(path, passphrase)
	if err != nil {
		if sealed.IsWrongPassphrase(err) {
			fmt.Fprintln(os.Stderr, "wrong passphrase; continuing without a token")
		} else {
			logger.Warn("unsealing token", "path", path, "error", err)
		}
		return ""
	}
	defer tokenBuffer.Close()

	return tokenBuffer.String()
}

// NewReleaseSource builds the Proton-GE release fetcher from the
// settings: GitHub client with optional bearer token, on-disk
// snapshot, configured freshness window.
func NewReleaseSource(cfg *config.Config, logger *slog.Logger) (*proton.Fetcher, error) {
	client, err := github.NewClient(github.Config{
		BaseURL: cfg.GitHub.BaseURL,
		Token:   GitHubToken(logger),
		Logger:  logger,
	})
	if err != nil {
		return nil, Validation("github client: %w", err)
	}

	cachePath, err := proton.DefaultCachePath()
	if err != nil {
		// No resolvable home directory. Run without the snapshot:
		// every listing fetches.
		logger.Warn("release snapshot disabled", "error", err)
		cachePath = ""
	}

	return &proton.Fetcher{
		Client:    client,
		Owner:     cfg.GitHub.Owner,
		Repo:      cfg.GitHub.Repo,
		CachePath: cachePath,
		TTL:       cfg.GitHub.TTL(),
		Logger:    logger,
	}, nil
}
