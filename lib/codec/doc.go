// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides fedpak's standard CBOR encoding configuration.
//
// Fedpak uses two serialization formats with a clear boundary:
//
//   - JSON for external interfaces: the GitHub REST API wire format
//     and user-editable theme files.
//   - CBOR for internal on-disk state: the release snapshot cache.
//
// This package provides the shared CBOR encoding and decoding modes so
// that every state file encodes identically without duplicating
// configuration. The encoder uses Core Deterministic Encoding (RFC 8949
// §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces identical
// bytes.
//
// Types serialized only as CBOR carry `cbor` struct tags; types that
// also cross a JSON boundary carry `json` tags, which fxamacker/cbor
// reads as a fallback. Never use both tags on the same field.
package codec
