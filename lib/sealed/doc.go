// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed stores the GitHub token encrypted at rest. It wraps
// filippo.io/age for the one operation fedpak needs: passphrase
// (scrypt) encryption of a small secret, armored for a text-friendly
// file.
//
// [Seal] encrypts to an scrypt recipient derived from the passphrase;
// [Unseal] reverses it, returning the plaintext in a [secret.Buffer]
// (mmap-backed, locked against swap, zeroed on Close).
// [IsWrongPassphrase] distinguishes a mistyped passphrase from a
// corrupt file.
//
// The token lifecycle helpers ([SaveToken], [LoadToken], [ClearToken],
// [HasToken]) manage the sealed file at ~/.config/fedpak/token.age
// (mode 0600, atomic writes).
//
// Used by `fedpak config token set|clear` and by the GitHub client
// setup when FEDPAK_GITHUB_TOKEN is not exported.
//
// Depends on lib/secret for secure memory allocation.
package sealed
