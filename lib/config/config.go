// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the fedpak settings file.
type Config struct {
	// Tools configures the external binaries fedpak drives.
	Tools ToolsConfig `yaml:"tools"`

	// Paths configures directory locations.
	Paths PathsConfig `yaml:"paths"`

	// UI configures the terminal interface.
	UI UIConfig `yaml:"ui"`

	// GitHub configures the Proton-GE release source.
	GitHub GitHubConfig `yaml:"github"`

	// Logging configures the diagnostic log.
	Logging LoggingConfig `yaml:"logging"`
}

// ToolsConfig names the external binaries. Bare names resolve through
// PATH at spawn time; absolute paths pin a specific binary.
type ToolsConfig struct {
	// Flatpak is the flatpak binary. Default: flatpak.
	Flatpak string `yaml:"flatpak"`

	// Alien is the package converter binary. Default: alien.
	Alien string `yaml:"alien"`

	// PrivilegeHelper authenticates the user and runs a command as
	// root. Default: pkexec.
	PrivilegeHelper string `yaml:"privilege_helper"`

	// FilePicker selects the graphical file chooser: "auto" tries
	// zenity then kdialog, "zenity" and "kdialog" force one, "none"
	// leaves only manual path entry. Default: auto.
	FilePicker string `yaml:"file_picker"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// LogDir is where operation logs are written.
	// Default: $XDG_STATE_HOME/fedpak (or ~/.local/state/fedpak).
	LogDir string `yaml:"log_dir"`

	// ConvertDir is where converted RPMs land. Empty means the
	// directory of the source package.
	ConvertDir string `yaml:"convert_dir"`
}

// UIConfig configures the terminal interface.
type UIConfig struct {
	// Theme is the active theme name: a built-in (default, light,
	// contrast) or a user theme file under ~/.config/fedpak/themes.
	Theme string `yaml:"theme"`

	// Mouse enables mouse support in the interface. Default: true.
	Mouse bool `yaml:"mouse"`
}

// GitHubConfig configures the Proton-GE release source.
type GitHubConfig struct {
	// BaseURL is the GitHub API endpoint. HTTPS is required.
	// Default: https://api.github.com.
	BaseURL string `yaml:"base_url"`

	// Owner and Repo select the release repository.
	// Default: GloriousEggroll/proton-ge-custom.
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`

	// CacheTTL is how long the on-disk release snapshot stays fresh
	// before a conditional refetch, as a Go duration string.
	// Default: 6h.
	CacheTTL string `yaml:"cache_ttl"`
}

// LoggingConfig configures the diagnostic log. The terminal belongs to
// the interface, so diagnostics go to a file.
type LoggingConfig struct {
	// File is the diagnostic log path. Empty disables file logging.
	// Default: $XDG_STATE_HOME/fedpak/fedpak.log.
	File string `yaml:"file"`

	// Level is the minimum level: debug, info, warn, or error.
	// Default: info.
	Level string `yaml:"level"`
}

// Default returns the default configuration. The defaults describe a
// complete working setup: fedpak runs without a settings file.
func Default() *Config {
	stateDir := defaultStateDir()

	return &Config{
		Tools: ToolsConfig{
			Flatpak:         "flatpak",
			Alien:           "alien",
			PrivilegeHelper: "pkexec",
			FilePicker:      "auto",
		},
		Paths: PathsConfig{
			LogDir:     stateDir,
			ConvertDir: "",
		},
		UI: UIConfig{
			Theme: "default",
			Mouse: true,
		},
		GitHub: GitHubConfig{
			BaseURL:  "https://api.github.com",
			Owner:    "GloriousEggroll",
			Repo:     "proton-ge-custom",
			CacheTTL: "6h",
		},
		Logging: LoggingConfig{
			File:  filepath.Join(stateDir, "fedpak.log"),
			Level: "info",
		},
	}
}

// defaultStateDir returns $XDG_STATE_HOME/fedpak, falling back to
// ~/.local/state/fedpak.
func defaultStateDir() string {
	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		return filepath.Join(state, "fedpak")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "fedpak")
}

// DefaultPath returns the standard settings file location:
// $XDG_CONFIG_HOME/fedpak/config.yaml, falling back to
// ~/.config/fedpak/config.yaml.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "fedpak", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "fedpak", "config.yaml"), nil
}

// Load loads the settings from their standard location, or from the
// file named by FEDPAK_CONFIG when that is set.
//
// A missing file at the standard location is not an error: the
// defaults apply. A missing file named by FEDPAK_CONFIG is an error,
// because the user asked for that file specifically.
func Load() (*Config, error) {
	if path := os.Getenv("FEDPAK_CONFIG"); path != "" {
		return LoadFile(path)
	}

	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := cfg.loadFile(path); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	cfg.applyEnvOverrides()
	cfg.expandVariables()
	return cfg, nil
}

// LoadFile loads settings from a specific file path.
//
// The file merges over the defaults: absent keys keep their default
// values. After the file, FEDPAK_* environment variables override
// individual fields, then ${VAR} and ${VAR:-default} patterns in path
// fields are expanded.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()
	cfg.expandVariables()
	return cfg, nil
}

// loadFile merges a single settings file into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// overrideEnvVars lists the FEDPAK_* environment variables that
// override individual settings, in the order applyEnvOverrides binds
// them to fields.
func overrideEnvVars() []string {
	return []string{
		"FEDPAK_FLATPAK",
		"FEDPAK_ALIEN",
		"FEDPAK_PRIVILEGE_HELPER",
		"FEDPAK_FILE_PICKER",
		"FEDPAK_LOG_DIR",
		"FEDPAK_CONVERT_DIR",
		"FEDPAK_THEME",
		"FEDPAK_GITHUB_BASE_URL",
		"FEDPAK_LOG_LEVEL",
	}
}

// applyEnvOverrides applies FEDPAK_* environment variables on top of
// the loaded file. The environment wins over the file so a single
// invocation can deviate without editing the settings.
func (c *Config) applyEnvOverrides() {
	targets := []*string{
		&c.Tools.Flatpak,
		&c.Tools.Alien,
		&c.Tools.PrivilegeHelper,
		&c.Tools.FilePicker,
		&c.Paths.LogDir,
		&c.Paths.ConvertDir,
		&c.UI.Theme,
		&c.GitHub.BaseURL,
		&c.Logging.Level,
	}

	for i, name := range overrideEnvVars() {
		if value := os.Getenv(name); value != "" {
			*targets[i] = value
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in path
// fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Paths.LogDir = expandVars(c.Paths.LogDir, vars)
	c.Paths.ConvertDir = expandVars(c.Paths.ConvertDir, vars)
	c.Logging.File = expandVars(c.Logging.File, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. All problems are
// reported together so the user fixes the file in one pass.
func (c *Config) Validate() error {
	var errs []error

	if c.Tools.Flatpak == "" {
		errs = append(errs, fmt.Errorf("tools.flatpak is required"))
	}
	if c.Tools.Alien == "" {
		errs = append(errs, fmt.Errorf("tools.alien is required"))
	}
	if c.Tools.PrivilegeHelper == "" {
		errs = append(errs, fmt.Errorf("tools.privilege_helper is required"))
	}

	pickers := []string{"auto", "zenity", "kdialog", "none"}
	if !slices.Contains(pickers, c.Tools.FilePicker) {
		errs = append(errs, fmt.Errorf("tools.file_picker must be one of: %v", pickers))
	}

	if c.Paths.LogDir == "" {
		errs = append(errs, fmt.Errorf("paths.log_dir is required"))
	}

	if c.UI.Theme == "" {
		errs = append(errs, fmt.Errorf("ui.theme is required"))
	}

	if !strings.HasPrefix(c.GitHub.BaseURL, "https://") {
		errs = append(errs, fmt.Errorf("github.base_url must use https (got %q)", c.GitHub.BaseURL))
	}
	if c.GitHub.Owner == "" {
		errs = append(errs, fmt.Errorf("github.owner is required"))
	}
	if c.GitHub.Repo == "" {
		errs = append(errs, fmt.Errorf("github.repo is required"))
	}
	if _, err := time.ParseDuration(c.GitHub.CacheTTL); err != nil {
		errs = append(errs, fmt.Errorf("github.cache_ttl: %v", err))
	}

	levels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(levels, c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level must be one of: %v", levels))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsurePaths creates the configured directories if they don't exist.
// Idempotent.
func (c *Config) EnsurePaths() error {
	paths := []string{
		c.Paths.LogDir,
		c.Paths.ConvertDir,
	}
	if c.Logging.File != "" {
		paths = append(paths, filepath.Dir(c.Logging.File))
	}

	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}

	return nil
}

// TTL returns the parsed snapshot freshness window. Validate reports
// unparseable values; this falls back to the default so callers that
// skip validation still get a sane window.
func (g GitHubConfig) TTL() time.Duration {
	ttl, err := time.ParseDuration(g.CacheTTL)
	if err != nil || ttl <= 0 {
		return 6 * time.Hour
	}
	return ttl
}

// SlogLevel maps the configured level name onto a slog level.
// Unrecognized names map to Info.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ResolveTool returns the absolute path of a configured tool binary,
// searching PATH when the configured value is a bare name. `fedpak
// config show` uses this to report which external tools are actually
// installed.
func ResolveTool(configured string) (string, error) {
	if filepath.IsAbs(configured) {
		if _, err := os.Stat(configured); err != nil {
			return "", fmt.Errorf("%s: %w", configured, err)
		}
		return configured, nil
	}
	return exec.LookPath(configured)
}
