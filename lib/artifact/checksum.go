// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Checksum returns the hex-encoded BLAKE3-256 digest of the file at
// path. Recorded in the operation log so a relocated RPM can be
// verified against what the conversion produced (b3sum-compatible).
// Doubles as the readability check the Success outcome requires: a
// path whose content cannot be read never reaches the UI.
func Checksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
