// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package packui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/fedpak-project/fedpak/lib/filepick"
	"github.com/fedpak-project/fedpak/lib/operation"
)

// convertFilter is the glob list handed to the file chooser.
const convertFilter = "*.deb *.tgz *.tar.gz"

// handleConvertKeys processes keys while the Convert tab is active
// and the path input is not capturing.
func (model Model) handleConvertKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.paneActive(TabConvert) {
		return model, nil
	}

	switch {
	case key.Matches(message, model.keys.Browse):
		if model.picker == nil {
			command := model.notice("no file chooser configured — press e to type the path", true)
			return model, command
		}
		return model, pickFile(model.picker, "Select a package to convert", convertFilter)

	case key.Matches(message, model.keys.Edit):
		return model.focusPathInput()

	case key.Matches(message, model.keys.Confirm):
		return model.startConversion()
	}
	return model, nil
}

// handlePathKeys processes keys while the path input has focus.
// Everything types except the exits: esc and tab blur, enter runs.
func (model Model) handlePathKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case message.Type == tea.KeyCtrlC:
		return model, tea.Quit

	case message.Type == tea.KeyEscape, message.Type == tea.KeyTab:
		model.blurPathInput()
		return model, nil

	case message.Type == tea.KeyEnter:
		model.blurPathInput()
		return model.startConversion()
	}

	var command tea.Cmd
	model.pathInput, command = model.pathInput.Update(message)
	return model, command
}

// focusPathInput hands key input to the path field.
func (model Model) focusPathInput() (tea.Model, tea.Cmd) {
	model.focusRegion = FocusPath
	command := model.pathInput.Focus()
	return model, command
}

// blurPathInput returns key input to the tab.
func (model *Model) blurPathInput() {
	model.pathInput.Blur()
	model.focusRegion = FocusList
}

// handlePickResult folds the file chooser's answer into the path
// field. A cancelled dialog is not an error worth reporting.
func (model Model) handlePickResult(message pickResultMsg) (tea.Model, tea.Cmd) {
	if message.err != nil {
		if errors.Is(message.err, filepick.ErrCancelled) {
			return model, nil
		}
		if errors.Is(message.err, filepick.ErrNoPicker) {
			command := model.notice("no file chooser available — press e to type the path", true)
			return model, command
		}
		command := model.notice("file chooser: "+message.err.Error(), true)
		return model, command
	}
	model.pathInput.SetValue(message.path)
	return model, nil
}

// startConversion validates the entered path and launches the
// conversion.
func (model Model) startConversion() (tea.Model, tea.Cmd) {
	path := strings.TrimSpace(model.pathInput.Value())
	if path == "" {
		command := model.notice("enter a package file path first (b to browse, e to type)", true)
		return model, command
	}
	path = expandHome(path)
	absolute, err := filepath.Abs(path)
	if err == nil {
		path = absolute
	}

	kind, err := operation.KindForFile(path)
	if err != nil {
		command := model.notice(err.Error(), true)
		return model, command
	}

	request := operation.Request{
		Kind:     kind,
		FilePath: path,
		WorkDir:  model.settings.Paths.ConvertDir,
	}
	label := "convert " + filepath.Base(path)
	return model.startOperation(TabConvert, request, label, nil, nil)
}

// expandHome resolves a leading ~ against the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// renderConvertTab renders the conversion form, or the operation pane
// while a conversion owns the tab.
func (model Model) renderConvertTab(width, height int) string {
	if pane := model.renderOperationPane(width, height); pane != "" {
		return pane
	}

	label := lipgloss.NewStyle().Foreground(model.theme.HeaderForeground).Bold(true)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	normal := lipgloss.NewStyle().Foreground(model.theme.NormalText)

	lines := []string{
		"",
		" " + label.Render("Convert a package to RPM"),
		"",
		" " + faint.Render("package file"),
		" " + model.pathInput.View(),
		"",
	}

	value := strings.TrimSpace(model.pathInput.Value())
	detected := faint.Render("—")
	if value != "" {
		if kind, err := operation.KindForFile(value); err != nil {
			detected = faint.Render("unsupported — expected .deb, .tgz, or .tar.gz")
		} else {
			switch kind {
			case operation.KindDebToRpm:
				detected = normal.Render("Debian package → RPM")
			case operation.KindTgzToRpm:
				detected = normal.Render("tar archive → RPM")
			}
		}
	}
	lines = append(lines, " "+faint.Render("detected    ")+detected)

	dest := model.settings.Paths.ConvertDir
	if dest == "" {
		dest = "alongside the package file"
	}
	lines = append(lines, " "+faint.Render("destination ")+normal.Render(ansi.Truncate(dest, width-14, "…")))

	lines = append(lines, "")
	lines = append(lines, " "+faint.Render("b browse · e edit path · enter convert"))

	return padPane(lines, height)
}
