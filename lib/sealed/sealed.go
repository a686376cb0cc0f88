// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/fedpak-project/fedpak/lib/secret"
)

// Seal encrypts plaintext to an age scrypt recipient derived from the
// passphrase and returns the ASCII-armored ciphertext. The armor makes
// the file self-describing and safe to cat, diff, or back up as text.
//
// The passphrase is borrowed and NOT closed by this function. The
// plaintext is zeroed before returning.
func Seal(plaintext []byte, passphrase *secret.Buffer) (string, error) {
	defer secret.Zero(plaintext)

	if len(plaintext) == 0 {
		return "", fmt.Errorf("nothing to seal")
	}

	// The scrypt work factor stays at the age default: sealing happens
	// once per `config token set`, unsealing once per process.
	recipient, err := age.NewScryptRecipient(passphrase.String())
	if err != nil {
		return "", fmt.Errorf("deriving scrypt recipient: %w", err)
	}

	var armored strings.Builder
	armorWriter := armor.NewWriter(&armored)
	encryptWriter, err := age.Encrypt(armorWriter, recipient)
	if err != nil {
		return "", fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := encryptWriter.Write(plaintext); err != nil {
		return "", fmt.Errorf("writing plaintext to age encryptor: %w", err)
	}
	if err := encryptWriter.Close(); err != nil {
		return "", fmt.Errorf("finalizing age encryption: %w", err)
	}
	if err := armorWriter.Close(); err != nil {
		return "", fmt.Errorf("finalizing armor: %w", err)
	}

	return armored.String(), nil
}

// Unseal decrypts armored ciphertext with the passphrase. Returns the
// plaintext in a secret.Buffer (mmap-backed, zeroed on close).
//
// The passphrase is borrowed and NOT closed by this function. The
// caller must call Close on the returned buffer when the plaintext is
// no longer needed.
func Unseal(armored string, passphrase *secret.Buffer) (*secret.Buffer, error) {
	identity, err := age.NewScryptIdentity(passphrase.String())
	if err != nil {
		return nil, fmt.Errorf("deriving scrypt identity: %w", err)
	}

	reader, err := age.Decrypt(armor.NewReader(strings.NewReader(armored)), identity)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}

	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted plaintext: %w", err)
	}

	if len(plaintext) == 0 {
		return nil, fmt.Errorf("sealed file is empty")
	}

	// Move the decrypted plaintext into mmap-backed memory immediately.
	// NewFromBytes zeros the heap copy.
	buffer, err := secret.NewFromBytes(plaintext)
	if err != nil {
		secret.Zero(plaintext)
		return nil, fmt.Errorf("protecting decrypted plaintext: %w", err)
	}
	return buffer, nil
}

// IsWrongPassphrase reports whether an Unseal failure means the
// passphrase did not match, as opposed to a corrupt or truncated file.
func IsWrongPassphrase(err error) bool {
	var noMatch *age.NoIdentityMatchError
	return errors.As(err, &noMatch)
}
