// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package operation

import (
	"strings"
	"testing"
)

func TestRequestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		request Request
		wantErr bool
	}{
		{"update all apps", Request{Kind: KindFlatpakUpdate}, false},
		{"update listed apps", Request{Kind: KindFlatpakUpdate, AppIDs: []string{"org.mozilla.firefox"}}, false},
		{"update with blank app id", Request{Kind: KindFlatpakUpdate, AppIDs: []string{"  "}}, true},
		{"update with file path", Request{Kind: KindFlatpakUpdate, FilePath: "/tmp/x.deb"}, true},
		{"deb conversion", Request{Kind: KindDebToRpm, FilePath: "/home/u/pkg.deb"}, false},
		{"tgz conversion", Request{Kind: KindTgzToRpm, FilePath: "/home/u/pkg.tgz"}, false},
		{"conversion without file", Request{Kind: KindDebToRpm}, true},
		{"conversion relative path", Request{Kind: KindDebToRpm, FilePath: "pkg.deb"}, true},
		{"unknown kind", Request{Kind: "mystery"}, true},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			err := testCase.request.Validate()
			if (err != nil) != testCase.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, testCase.wantErr)
			}
		})
	}
}

func TestKindForFile(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path    string
		want    Kind
		wantErr bool
	}{
		{"/home/u/Downloads/discord_0.0.114.deb", KindDebToRpm, false},
		{"/home/u/Downloads/Pkg.DEB", KindDebToRpm, false},
		{"/opt/bundle.tgz", KindTgzToRpm, false},
		{"/opt/bundle.tar.gz", KindTgzToRpm, false},
		{"/opt/bundle.TAR.GZ", KindTgzToRpm, false},
		{"/opt/bundle.rpm", "", true},
		{"/opt/bundle.tar.xz", "", true},
		{"/opt/noextension", "", true},
	}
	for _, testCase := range cases {
		got, err := KindForFile(testCase.path)
		if (err != nil) != testCase.wantErr {
			t.Errorf("KindForFile(%q) error = %v, wantErr %v", testCase.path, err, testCase.wantErr)
			continue
		}
		if got != testCase.want {
			t.Errorf("KindForFile(%q) = %q, want %q", testCase.path, got, testCase.want)
		}
	}
}

func TestRequestTargetLabel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		request Request
		want    string
	}{
		{"update all", Request{Kind: KindFlatpakUpdate}, "all-apps"},
		{"update listed", Request{Kind: KindFlatpakUpdate, AppIDs: []string{"org.a.One", "org.b.Two"}}, "org.a.One org.b.Two"},
		{"conversion", Request{Kind: KindDebToRpm, FilePath: "/home/u/Downloads/discord_0.0.114.deb"}, "discord_0.0.114.deb"},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.request.TargetLabel(); got != testCase.want {
				t.Errorf("TargetLabel() = %q, want %q", got, testCase.want)
			}
		})
	}
}

func TestRequestDirectory(t *testing.T) {
	t.Parallel()

	explicit := Request{Kind: KindDebToRpm, FilePath: "/a/b/pkg.deb", WorkDir: "/work"}
	if got := explicit.Directory(); got != "/work" {
		t.Errorf("Directory() = %q, want /work", got)
	}
	derived := Request{Kind: KindDebToRpm, FilePath: "/a/b/pkg.deb"}
	if got := derived.Directory(); got != "/a/b" {
		t.Errorf("Directory() = %q, want /a/b", got)
	}
}

func TestUpdateCommand(t *testing.T) {
	t.Parallel()

	request := Request{Kind: KindFlatpakUpdate, AppIDs: []string{"org.a.One", "org.b.Two"}}
	spec := updateCommand(request, Tools{}.withDefaults())

	want := "flatpak update --app -y --noninteractive --verbose org.a.One org.b.Two"
	if got := spec.Rendered(); got != want {
		t.Errorf("Rendered() = %q, want %q", got, want)
	}
	if spec.Privileged {
		t.Error("update command marked privileged")
	}
}

func TestConversionCommand(t *testing.T) {
	t.Parallel()

	request := Request{Kind: KindDebToRpm, FilePath: "/home/u/Downloads/discord_0.0.114.deb"}
	spec := conversionCommand(request, Tools{}.withDefaults())

	if spec.Path != "pkexec" {
		t.Errorf("Path = %q, want pkexec", spec.Path)
	}
	if len(spec.Args) != 3 || spec.Args[0] != "bash" || spec.Args[1] != "-c" {
		t.Fatalf("Args = %v, want bash -c <script>", spec.Args)
	}
	script := spec.Args[2]
	want := "cd '/home/u/Downloads' || exit 1; pwd; alien --scripts -r '/home/u/Downloads/discord_0.0.114.deb'"
	if script != want {
		t.Errorf("script = %q, want %q", script, want)
	}
	if !spec.Privileged {
		t.Error("conversion command not marked privileged")
	}
}

func TestConversionCommandQuotesApostrophe(t *testing.T) {
	t.Parallel()

	request := Request{Kind: KindDebToRpm, FilePath: "/home/u/it's here/pkg.deb"}
	spec := conversionCommand(request, Tools{}.withDefaults())
	script := spec.Args[2]
	if !strings.Contains(script, `'/home/u/it'\''s here/pkg.deb'`) {
		t.Errorf("script does not escape the apostrophe: %q", script)
	}
}

func TestToolsOverride(t *testing.T) {
	t.Parallel()

	tools := Tools{Flatpak: "/opt/flatpak", Alien: "/usr/local/bin/alien", PrivilegeHelper: "sudo"}.withDefaults()
	update := updateCommand(Request{Kind: KindFlatpakUpdate}, tools)
	if update.Path != "/opt/flatpak" {
		t.Errorf("update Path = %q, want /opt/flatpak", update.Path)
	}
	conversion := conversionCommand(Request{Kind: KindDebToRpm, FilePath: "/p/x.deb"}, tools)
	if conversion.Path != "sudo" {
		t.Errorf("conversion Path = %q, want sudo", conversion.Path)
	}
	if !strings.Contains(conversion.Args[2], "/usr/local/bin/alien --scripts -r") {
		t.Errorf("script does not use overridden alien: %q", conversion.Args[2])
	}
}

func TestShellQuote(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"", "''"},
		{"has space", "'has space'"},
		{"semi;colon", "'semi;colon'"},
		{"don't", `'don'\''t'`},
	}
	for _, testCase := range cases {
		if got := shellQuote(testCase.in); got != testCase.want {
			t.Errorf("shellQuote(%q) = %q, want %q", testCase.in, got, testCase.want)
		}
	}
}

func TestCommandSpecRendered(t *testing.T) {
	t.Parallel()

	spec := CommandSpec{Path: "pkexec", Args: []string{"bash", "-c", "cd '/x' || exit 1"}}
	want := `pkexec bash -c 'cd '\''/x'\'' || exit 1'`
	if got := spec.Rendered(); got != want {
		t.Errorf("Rendered() = %q, want %q", got, want)
	}
}
