// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package operation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Kind identifies the type of package operation.
type Kind string

const (
	// KindFlatpakUpdate updates installed Flatpak applications.
	KindFlatpakUpdate Kind = "flatpak-update"

	// KindDebToRpm converts a Debian package to RPM via alien.
	KindDebToRpm Kind = "deb-to-rpm"

	// KindTgzToRpm converts a tarball package to RPM via alien.
	KindTgzToRpm Kind = "tgz-to-rpm"
)

// String returns the kind identifier used in log filenames and UI labels.
func (k Kind) String() string { return string(k) }

// Conversion reports whether the kind produces an RPM artifact.
func (k Kind) Conversion() bool {
	return k == KindDebToRpm || k == KindTgzToRpm
}

// KindForFile maps a package file to the conversion kind that handles
// it: .deb selects KindDebToRpm, .tgz and .tar.gz select KindTgzToRpm.
// Extension matching is case-insensitive. Anything else is an error
// naming the supported extensions.
func KindForFile(path string) (Kind, error) {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".deb"):
		return KindDebToRpm, nil
	case strings.HasSuffix(name, ".tgz"), strings.HasSuffix(name, ".tar.gz"):
		return KindTgzToRpm, nil
	}
	return "", fmt.Errorf("unsupported package file %q: expected .deb, .tgz, or .tar.gz", filepath.Base(path))
}

// Target is one known package the classifier can recognize in tool
// output. For Flatpak updates these are the installed applications.
type Target struct {
	// AppID is the reverse-DNS application identifier
	// (e.g., "org.mozilla.firefox").
	AppID string

	// Name is the human display name (e.g., "Firefox"). May be empty.
	Name string
}

// Request is an immutable description of one operation. Built by the
// UI or a subcommand, consumed exactly once by [Run].
type Request struct {
	// Kind selects the operation.
	Kind Kind

	// AppIDs lists the Flatpak applications to update. Empty means
	// all installed applications. Only meaningful for
	// KindFlatpakUpdate.
	AppIDs []string

	// FilePath is the package file to convert. Only meaningful for
	// conversion kinds.
	FilePath string

	// WorkDir is the directory the conversion runs in and where the
	// produced RPM should end up. Defaults to the directory of
	// FilePath when empty. Only meaningful for conversion kinds.
	WorkDir string

	// Remote is the Flatpak remote name recorded in the operation
	// log. Informational only; the update command does not filter by
	// remote. May be empty.
	Remote string
}

// Validate checks that the request is internally consistent.
func (r Request) Validate() error {
	switch r.Kind {
	case KindFlatpakUpdate:
		if r.FilePath != "" {
			return fmt.Errorf("flatpak update does not take a file path")
		}
		for _, id := range r.AppIDs {
			if strings.TrimSpace(id) == "" {
				return fmt.Errorf("empty application ID in request")
			}
		}
	case KindDebToRpm, KindTgzToRpm:
		if r.FilePath == "" {
			return fmt.Errorf("conversion requires a package file path")
		}
		if !filepath.IsAbs(r.FilePath) {
			return fmt.Errorf("conversion file path must be absolute, got %q", r.FilePath)
		}
	default:
		return fmt.Errorf("unknown operation kind %q", r.Kind)
	}
	return nil
}

// Directory returns the effective working directory for a conversion
// request: WorkDir when set, otherwise the directory containing the
// package file.
func (r Request) Directory() string {
	if r.WorkDir != "" {
		return r.WorkDir
	}
	return filepath.Dir(r.FilePath)
}

// TargetLabel returns the identifier recorded in the operation log:
// the application list for updates (or "all-apps" when updating
// everything), the package file basename for conversions.
func (r Request) TargetLabel() string {
	switch r.Kind {
	case KindFlatpakUpdate:
		if len(r.AppIDs) == 0 {
			return "all-apps"
		}
		return strings.Join(r.AppIDs, " ")
	default:
		return filepath.Base(r.FilePath)
	}
}

// Tools holds the external binary names (or absolute paths) the engine
// invokes. Zero values select the standard names; the config layer
// overrides them.
type Tools struct {
	// Flatpak is the flatpak binary. Default "flatpak".
	Flatpak string

	// Alien is the package converter binary. Default "alien".
	Alien string

	// PrivilegeHelper authenticates the user and runs a command as
	// root. Default "pkexec".
	PrivilegeHelper string
}

// withDefaults returns a copy with empty fields set to the standard
// binary names.
func (t Tools) withDefaults() Tools {
	if t.Flatpak == "" {
		t.Flatpak = "flatpak"
	}
	if t.Alien == "" {
		t.Alien = "alien"
	}
	if t.PrivilegeHelper == "" {
		t.PrivilegeHelper = "pkexec"
	}
	return t
}

// updateCommand builds the CommandSpec for a Flatpak update request:
//
//	flatpak update --app -y --noninteractive --verbose [<app-id>...]
func updateCommand(request Request, tools Tools) CommandSpec {
	args := []string{"update", "--app", "-y", "--noninteractive", "--verbose"}
	args = append(args, request.AppIDs...)
	return CommandSpec{
		Path: tools.Flatpak,
		Args: args,
	}
}

// conversionCommand builds the privileged envelope for a package
// conversion:
//
//	pkexec bash -c "cd '<dir>' || exit 1; pwd; alien --scripts -r '<file>'"
//
// The envelope cd's into the requested directory itself rather than
// relying on CommandSpec.Dir: the privilege helper may reset the
// working directory, and the pwd echo records where the conversion
// actually ran so the artifact locator can follow the drift.
func conversionCommand(request Request, tools Tools) CommandSpec {
	script := fmt.Sprintf("cd %s || exit 1; pwd; %s --scripts -r %s",
		singleQuote(request.Directory()), tools.Alien, singleQuote(request.FilePath))
	return CommandSpec{
		Path:       tools.PrivilegeHelper,
		Args:       []string{"bash", "-c", script},
		Env:        displayEnvironment(),
		Privileged: true,
	}
}

// displayEnvironment collects the display-server variables forwarded
// to privileged children so the authentication prompt can render even
// when fedpak was launched with a minimal environment.
func displayEnvironment() []string {
	var env []string
	for _, name := range []string{"DISPLAY", "WAYLAND_DISPLAY", "XAUTHORITY"} {
		if value := os.Getenv(name); value != "" {
			env = append(env, name+"="+value)
		}
	}
	return env
}
