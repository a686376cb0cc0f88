// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"os"
)

// Fatal writes "error: err" to stderr and exits with code 1. Use it in
// main() for errors from run() where the structured logger may not be
// initialized.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// FatalCode writes "error: err" to stderr and exits with the given
// code. Subcommands that map tool failures to distinct exit codes
// (authentication cancelled vs. tool failure) use this variant.
func FatalCode(err error, code int) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(code)
}
