// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fedpak-project/fedpak/lib/secret"
)

// DefaultTokenPath returns the standard sealed token location:
// $XDG_CONFIG_HOME/fedpak/token.age, falling back to
// ~/.config/fedpak/token.age.
func DefaultTokenPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "fedpak", "token.age"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "fedpak", "token.age"), nil
}

// SaveToken seals the token with the passphrase and writes the armored
// ciphertext to path with mode 0600. The write is atomic. The token
// bytes are zeroed by Seal.
func SaveToken(path string, token []byte, passphrase *secret.Buffer) error {
	armored, err := Seal(token, passphrase)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".token.age.tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp token file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.WriteString(armored); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing sealed token: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("syncing sealed token: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp token file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		return fmt.Errorf("setting token file mode: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming token into place: %w", err)
	}

	success = true
	return nil
}

// LoadToken reads the sealed token at path and unseals it with the
// passphrase. The caller must close the returned buffer.
func LoadToken(path string, passphrase *secret.Buffer) (*secret.Buffer, error) {
	armored, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sealed token: %w", err)
	}
	return Unseal(string(armored), passphrase)
}

// ClearToken removes the sealed token file. A missing file is not an
// error.
func ClearToken(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing sealed token: %w", err)
	}
	return nil
}

// HasToken reports whether a sealed token file exists at path.
func HasToken(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
