// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package theme

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
)

// Dir returns the user theme directory:
// $XDG_CONFIG_HOME/fedpak/themes, falling back to
// ~/.config/fedpak/themes.
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "fedpak", "themes"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "fedpak", "themes"), nil
}

// Load resolves a theme name: built-ins first, then
// <themes-dir>/<name>.jsonc. Built-in names always win, so a user
// file called default.jsonc cannot silently replace the default.
func Load(name string) (Theme, error) {
	if theme, ok := Builtin(name); ok {
		return theme, nil
	}

	dir, err := Dir()
	if err != nil {
		return Theme{}, err
	}

	path := filepath.Join(dir, name+".jsonc")
	theme, err := LoadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Theme{}, fmt.Errorf("unknown theme %q: not a built-in (%s) and no file at %s",
				name, strings.Join(BuiltinNames(), ", "), path)
		}
		return Theme{}, err
	}
	return theme, nil
}

// LoadFile reads a JSONC theme file from disk and parses it.
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}

	theme, err := Parse(data)
	if err != nil {
		return Theme{}, fmt.Errorf("%s: %w", path, err)
	}
	return theme, nil
}

// userTheme is the on-disk shape: an optional base name plus any
// subset of Theme fields.
type userTheme struct {
	Base string `json:"base"`
	Theme
}

// Parse strips JSONC comments and trailing commas from data, then
// applies the fields over the named base theme (default when no base
// is given). Unknown fields and malformed color values are errors.
func Parse(data []byte) (Theme, error) {
	stripped := jsonc.ToJSON(data)

	// Lenient pass: pull out the base name, which must be known
	// before the overlay decode can start from the right palette.
	var raw map[string]any
	if err := json.Unmarshal(stripped, &raw); err != nil {
		return Theme{}, fmt.Errorf("parsing theme: %w", err)
	}

	baseName := "default"
	if value, present := raw["base"]; present {
		name, ok := value.(string)
		if !ok {
			return Theme{}, fmt.Errorf("theme base must be a string, got %T", value)
		}
		baseName = name
	}

	base, ok := Builtin(baseName)
	if !ok {
		return Theme{}, fmt.Errorf("theme base %q is not a built-in (have: %s)",
			baseName, strings.Join(BuiltinNames(), ", "))
	}

	// Strict pass: decode over a copy of the base so present fields
	// override and absent fields inherit. Unknown fields error here.
	overlay := userTheme{Base: baseName, Theme: base}
	decoder := json.NewDecoder(bytes.NewReader(stripped))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&overlay); err != nil {
		return Theme{}, fmt.Errorf("parsing theme: %w", err)
	}

	// Every key the strict decode accepted is a color field except
	// base and chroma_style; check the values so a typo'd color fails
	// here instead of rendering as unstyled text.
	for key, value := range raw {
		if key == "base" || key == "chroma_style" {
			continue
		}
		text, ok := value.(string)
		if !ok {
			return Theme{}, fmt.Errorf("theme field %q must be a string color, got %T", key, value)
		}
		if !validColorValue(text) {
			return Theme{}, fmt.Errorf("theme field %q: invalid color %q (use an ANSI 256 index or #rrggbb)", key, text)
		}
	}

	return overlay.Theme, nil
}

// colorPattern matches what the built-in themes use: ANSI 256 palette
// indexes and #rrggbb hex.
var colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{6}|[0-9]{1,3})$`)

// validColorValue accepts ANSI 256 indexes, #rrggbb hex, and the
// empty string (an explicit "no color" that clears the base value).
func validColorValue(value string) bool {
	if value == "" {
		return true
	}
	if !colorPattern.MatchString(value) {
		return false
	}
	if value[0] == '#' {
		return true
	}
	index, err := strconv.Atoi(value)
	return err == nil && index <= 255
}

// Available returns the selectable theme names: built-ins in
// presentation order, then user theme files sorted by name. A missing
// or unreadable theme directory just means no user themes.
func Available() []string {
	names := BuiltinNames()

	dir, err := Dir()
	if err != nil {
		return names
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return names
	}

	var userNames []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonc") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".jsonc")
		// A user file with a built-in's name is shadowed; listing it
		// would suggest it is selectable.
		if _, shadowed := Builtin(name); shadowed {
			continue
		}
		userNames = append(userNames, name)
	}
	sort.Strings(userNames)

	return append(names, userNames...)
}
