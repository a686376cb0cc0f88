// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// pinEnv isolates settings loading from the developer's real
// environment: paths point into a temp directory, overrides cleared.
func pinEnv(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmpDir, "state"))
	t.Setenv("FEDPAK_CONFIG", "")
	for _, name := range []string{
		"FEDPAK_FLATPAK", "FEDPAK_ALIEN", "FEDPAK_PRIVILEGE_HELPER",
		"FEDPAK_FILE_PICKER", "FEDPAK_LOG_DIR", "FEDPAK_CONVERT_DIR",
		"FEDPAK_THEME", "FEDPAK_GITHUB_BASE_URL", "FEDPAK_LOG_LEVEL",
		"FEDPAK_GITHUB_TOKEN",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	pinEnv(t)

	cfg, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if cfg.Tools.Flatpak != "flatpak" {
		t.Errorf("Tools.Flatpak = %q, want flatpak", cfg.Tools.Flatpak)
	}
}

func TestLoadSettings_BrokenFileIsValidation(t *testing.T) {
	pinEnv(t)
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("tools: [not, a, mapping\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FEDPAK_CONFIG", path)

	_, err := LoadSettings()
	if err == nil {
		t.Fatal("LoadSettings() = nil, want error for broken YAML")
	}

	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error %T is not a ToolError", err)
	}
	if toolErr.Category != CategoryValidation {
		t.Errorf("Category = %q, want %q", toolErr.Category, CategoryValidation)
	}
}

func TestLoadSettings_InvalidValueIsValidation(t *testing.T) {
	pinEnv(t)
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("github:\n  base_url: http://plaintext.example\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FEDPAK_CONFIG", path)

	_, err := LoadSettings()
	if err == nil {
		t.Fatal("LoadSettings() = nil, want error for http base URL")
	}

	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error %T is not a ToolError", err)
	}
	if toolErr.Category != CategoryValidation {
		t.Errorf("Category = %q, want %q", toolErr.Category, CategoryValidation)
	}
}

func TestLoadTheme_UnknownIsValidation(t *testing.T) {
	pinEnv(t)

	cfg, err := LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	cfg.UI.Theme = "no-such-theme"

	_, err = LoadTheme(cfg)
	if err == nil {
		t.Fatal("LoadTheme() = nil, want error for unknown theme")
	}

	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error %T is not a ToolError", err)
	}
	if toolErr.Category != CategoryValidation {
		t.Errorf("Category = %q, want %q", toolErr.Category, CategoryValidation)
	}
}

func TestOperationTools(t *testing.T) {
	pinEnv(t)

	cfg, err := LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Tools.Flatpak = "/usr/local/bin/flatpak"
	cfg.Tools.Alien = "alien"
	cfg.Tools.PrivilegeHelper = "sudo"

	tools := OperationTools(cfg)
	if tools.Flatpak != "/usr/local/bin/flatpak" {
		t.Errorf("Flatpak = %q", tools.Flatpak)
	}
	if tools.Alien != "alien" {
		t.Errorf("Alien = %q", tools.Alien)
	}
	if tools.PrivilegeHelper != "sudo" {
		t.Errorf("PrivilegeHelper = %q", tools.PrivilegeHelper)
	}
}

func TestGitHubToken_Environment(t *testing.T) {
	pinEnv(t)
	t.Setenv("FEDPAK_GITHUB_TOKEN", "ghp_fromenv")

	if got := GitHubToken(discardLogger()); got != "ghp_fromenv" {
		t.Errorf("GitHubToken() = %q, want the environment value", got)
	}
}

func TestGitHubToken_NoSourcesIsAnonymous(t *testing.T) {
	pinEnv(t)

	if got := GitHubToken(discardLogger()); got != "" {
		t.Errorf("GitHubToken() = %q, want anonymous", got)
	}
}

func TestNewReleaseSource(t *testing.T) {
	pinEnv(t)

	cfg, err := LoadSettings()
	if err != nil {
		t.Fatal(err)
	}

	fetcher, err := NewReleaseSource(cfg, discardLogger())
	if err != nil {
		t.Fatalf("NewReleaseSource() error: %v", err)
	}
	if fetcher.Owner != "GloriousEggroll" || fetcher.Repo != "proton-ge-custom" {
		t.Errorf("release source %s/%s, want the Proton-GE defaults", fetcher.Owner, fetcher.Repo)
	}
	if fetcher.CachePath == "" {
		t.Error("CachePath empty, want the default snapshot path")
	}
}

func TestNewReleaseSource_RejectsPlaintextURL(t *testing.T) {
	pinEnv(t)

	cfg, err := LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	cfg.GitHub.BaseURL = "http://api.github.example"

	_, err = NewReleaseSource(cfg, discardLogger())
	if err == nil {
		t.Fatal("NewReleaseSource() = nil, want error for plaintext URL")
	}

	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error %T is not a ToolError", err)
	}
	if toolErr.Category != CategoryValidation {
		t.Errorf("Category = %q, want %q", toolErr.Category, CategoryValidation)
	}
}
