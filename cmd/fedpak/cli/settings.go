// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/fedpak-project/fedpak/lib/config"
	"github.com/fedpak-project/fedpak/lib/operation"
	"github.com/fedpak-project/fedpak/lib/theme"
)

// LoadSettings loads and validates the settings file, returning
// categorized errors: a broken or invalid file is the user's to fix.
// A missing file is not an error; the defaults apply.
func LoadSettings() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, Validation("load settings: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, Validation("invalid settings: %w", err)
	}
	return cfg, nil
}

// LoadTheme resolves the configured theme name to a palette: a
// built-in, or a user theme file under the themes directory.
func LoadTheme(cfg *config.Config) (theme.Theme, error) {
	palette, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		return theme.Theme{}, Validation("load theme %q: %w", cfg.UI.Theme, err)
	}
	return palette, nil
}

// OperationTools maps the configured binary names onto the operation
// engine's tool set.
func OperationTools(cfg *config.Config) operation.Tools {
	return operation.Tools{
		Flatpak:         cfg.Tools.Flatpak,
		Alien:           cfg.Tools.Alien,
		PrivilegeHelper: cfg.Tools.PrivilegeHelper,
	}
}
