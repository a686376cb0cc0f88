// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// Relocator moves a converted RPM into the requested directory when
// the conversion left it somewhere else.
type Relocator struct {
	// PrivilegeHelper runs the move as root when the plain move
	// would be refused. Default "pkexec".
	PrivilegeHelper string

	// Logger receives move diagnostics. Nil disables them.
	Logger *slog.Logger
}

// Relocate moves src into destDir and returns the destination path.
//
// A move needs write access to both the destination directory (create
// the entry) and the source's directory (remove it). When the
// invoking user has both, a plain mv runs — no authentication prompt
// for a move the user could perform themselves. Otherwise the move
// runs under the privilege helper, whose graphical prompt renders via
// the inherited display-server environment.
//
// Relocation failure is non-fatal to the operation: the caller keeps
// the original path and reports a warning.
func (r *Relocator) Relocate(ctx context.Context, src, destDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dest := filepath.Join(destDir, filepath.Base(src))

	if r.plainMoveAllowed(src, destDir) {
		if err := runMove("mv", src, dest); err != nil {
			return "", err
		}
		r.log("artifact moved", "src", src, "dest", dest, "privileged", false)
		return dest, nil
	}

	helper := r.PrivilegeHelper
	if helper == "" {
		helper = "pkexec"
	}
	if err := runMove(helper, "mv", src, dest); err != nil {
		return "", err
	}
	r.log("artifact moved", "src", src, "dest", dest, "privileged", true)
	return dest, nil
}

// plainMoveAllowed reports whether the invoking user can perform the
// move without privilege: write+search on the destination and on the
// source's parent directory.
func (r *Relocator) plainMoveAllowed(src, destDir string) bool {
	if unix.Access(destDir, unix.W_OK|unix.X_OK) != nil {
		return false
	}
	return unix.Access(filepath.Dir(src), unix.W_OK|unix.X_OK) == nil
}

// runMove executes the move command, capturing stderr for the error
// message. The child is never signalled on context cancellation — a
// partial move is worse than a completed one.
func runMove(name string, args ...string) error {
	command := exec.Command(name, args...)
	var stderr bytes.Buffer
	command.Stderr = &stderr
	if err := command.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("%s %s: %w (stderr: %s)", name, strings.Join(args, " "), err, detail)
		}
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

func (r *Relocator) log(message string, args ...any) {
	if r.Logger != nil {
		r.Logger.Debug(message, args...)
	}
}
