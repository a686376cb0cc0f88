// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package packui

import (
	"context"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/fedpak-project/fedpak/lib/operation"
	"github.com/fedpak-project/fedpak/lib/tui"
)

// runningOperation is the single in-flight operation. Its tab shows
// the progress pane; every other tab stays browsable.
type runningOperation struct {
	tab    Tab
	kind   operation.Kind
	label  string
	appIDs []string

	events chan operation.Event
	cancel context.CancelFunc

	currentTarget string
	completion    bool
	tail          []string
	warnings      []string

	// Set by the Outcome event; consumed when the channel closes.
	outcome *operation.Outcome
}

// appendLine adds a transcript line, keeping only the tail the
// progress pane can show.
func (op *runningOperation) appendLine(text string) {
	op.tail = append(op.tail, text)
	if len(op.tail) > transcriptTailLimit {
		op.tail = op.tail[len(op.tail)-transcriptTailLimit:]
	}
}

// finishedOperation keeps the last outcome on its tab until the user
// dismisses it.
type finishedOperation struct {
	tab          Tab
	kind         operation.Kind
	label        string
	outcome      operation.Outcome
	artifactSize int64
}

// startOperation launches an operation if none is running. appIDs
// names the rows to flash when the outcome lands.
func (model Model) startOperation(tab Tab, request operation.Request, label string, targets []operation.Target, appIDs []string) (tea.Model, tea.Cmd) {
	if model.running != nil {
		command := model.notice("busy: "+model.running.label+" is still running", true)
		return model, command
	}
	if model.runner == nil {
		command := model.notice("no operation runner configured", true)
		return model, command
	}
	if err := request.Validate(); err != nil {
		command := model.notice(err.Error(), true)
		return model, command
	}

	events := make(chan operation.Event, eventBuffer)
	ctx, cancel := context.WithCancel(context.Background())
	go model.runner.Run(ctx, request, targets, events)

	model.running = &runningOperation{
		tab:    tab,
		kind:   request.Kind,
		label:  label,
		appIDs: appIDs,
		events: events,
		cancel: cancel,
	}
	model.finished = nil
	return model, tea.Batch(listenForOperationEvent(events), model.spin.Tick)
}

// handleOperationEvent folds one engine event into the running
// operation and re-arms the listener. The channel close ends the run.
func (model Model) handleOperationEvent(message operationEventMsg) (tea.Model, tea.Cmd) {
	if model.running == nil {
		return model, nil
	}
	if message.closed {
		return model.finishOperation()
	}

	event := message.event
	switch event.Type {
	case operation.EventLine:
		if event.Line != nil {
			model.running.appendLine(event.Line.Text)
		}
	case operation.EventStatus:
		if event.Status != nil {
			if event.Status.CurrentTarget != "" {
				model.running.currentTarget = event.Status.CurrentTarget
			}
			if event.Status.Completion {
				model.running.completion = true
			}
		}
	case operation.EventWarning:
		if event.Warning != nil {
			model.running.warnings = append(model.running.warnings, event.Warning.Message)
		}
	case operation.EventOutcome:
		if event.Outcome != nil {
			outcome := *event.Outcome
			model.running.outcome = &outcome
		}
	}
	return model, listenForOperationEvent(model.running.events)
}

// finishOperation converts the running operation into a displayed
// outcome, reloads the log listing, and flashes affected rows.
func (model Model) finishOperation() (tea.Model, tea.Cmd) {
	running := model.running
	model.running = nil
	model.quitPending = false
	running.cancel()

	commands := []tea.Cmd{loadLogs(model.logDir, true)}

	if running.outcome == nil {
		model.logger.Warn("operation events ended without an outcome",
			"kind", running.kind)
		return model, tea.Batch(commands...)
	}
	outcome := *running.outcome

	finished := &finishedOperation{
		tab:     running.tab,
		kind:    running.kind,
		label:   running.label,
		outcome: outcome,
	}
	if outcome.ArtifactPath != "" {
		if info, err := os.Stat(outcome.ArtifactPath); err == nil {
			finished.artifactSize = info.Size()
		}
	}
	model.finished = finished

	// Flash the rows the operation touched. A no-op changed nothing,
	// and an all-apps update names no individual rows.
	if outcome.Variant != operation.VariantNoOp {
		kind := tui.HeatSuccess
		if outcome.Variant == operation.VariantFailure {
			kind = tui.HeatFailure
		}
		for _, id := range running.appIDs {
			if command := model.igniteHeat(id, kind); command != nil {
				commands = append(commands, command)
			}
		}
	}

	// Installed versions changed; the inventory is stale.
	if running.kind == operation.KindFlatpakUpdate && outcome.Variant == operation.VariantSuccess {
		model.appsLoading = true
		commands = append(commands, loadApps(model.lister))
	}

	return model, tea.Batch(commands...)
}

// renderOperationPane renders the progress or outcome pane for the
// active tab, or returns "" when neither applies.
func (model Model) renderOperationPane(width, height int) string {
	if model.running != nil && model.running.tab == model.activeTab {
		return model.renderProgressPane(width, height)
	}
	if model.finished != nil && model.finished.tab == model.activeTab {
		return model.renderOutcomePane(width, height)
	}
	return ""
}

// renderProgressPane shows the spinner, the current target, any
// warnings, and the transcript tail of the running operation.
func (model Model) renderProgressPane(width, height int) string {
	running := model.running
	titleStyle := lipgloss.NewStyle().Foreground(model.theme.Running).Bold(true)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	warning := lipgloss.NewStyle().Foreground(model.theme.Warning)

	var lines []string
	lines = append(lines, " "+model.spin.View()+" "+titleStyle.Render(running.label))
	if running.currentTarget != "" {
		lines = append(lines, faint.Render("   target: ")+running.currentTarget)
	}
	if running.completion {
		lines = append(lines, faint.Render("   finishing up"))
	}
	for _, text := range running.warnings {
		lines = append(lines, warning.Render("   ! "+text))
	}
	lines = append(lines, "")

	// Fill the remainder with the transcript tail.
	remaining := height - len(lines)
	tail := running.tail
	if remaining > 0 && len(tail) > remaining {
		tail = tail[len(tail)-remaining:]
	}
	for _, text := range tail {
		lines = append(lines, faint.Render("   "+ansi.Truncate(text, width-4, "…")))
	}

	return padPane(lines, height)
}

// renderOutcomePane shows the finished operation: status line,
// outcome message, artifact details, and the transcript tail.
func (model Model) renderOutcomePane(width, height int) string {
	finished := model.finished
	outcome := finished.outcome
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	var chip, word string
	var color lipgloss.Color
	switch outcome.Variant {
	case operation.VariantSuccess:
		chip, word, color = "✓", "succeeded", model.theme.Success
	case operation.VariantNoOp:
		chip, word, color = "−", "nothing to do", model.theme.NoOp
	default:
		chip, word, color = "✗", "failed", model.theme.Failure
	}

	title := " " + chip + " " + finished.label + " — " + word
	if outcome.Variant == operation.VariantFailure && outcome.ExitCode > 0 {
		title += " (exit " + strconv.Itoa(outcome.ExitCode) + ")"
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Foreground(color).Bold(true).Render(title))
	if outcome.Message != "" {
		block := lipgloss.NewStyle().Width(max(width-3, 20)).Render(outcome.Message)
		for _, line := range strings.Split(block, "\n") {
			lines = append(lines, "   "+line)
		}
	}

	if outcome.Variant == operation.VariantSuccess && outcome.ArtifactPath != "" {
		lines = append(lines, "")
		lines = append(lines, faint.Render("   artifact  ")+ansi.Truncate(outcome.ArtifactPath, width-14, "…"))
		if outcome.ArtifactDigest != "" {
			lines = append(lines, faint.Render("   blake3    ")+ansi.Truncate(outcome.ArtifactDigest, width-14, "…"))
		}
		if finished.artifactSize > 0 {
			lines = append(lines, faint.Render("   size      ")+humanize.Bytes(uint64(finished.artifactSize)))
		}
	}

	if outcome.Failure == operation.FailureArtifactMissing && len(outcome.SearchedDirs) > 0 {
		lines = append(lines, "")
		lines = append(lines, faint.Render("   searched:"))
		for _, dir := range outcome.SearchedDirs {
			lines = append(lines, faint.Render("     "+ansi.Truncate(dir, width-6, "…")))
		}
	}

	lines = append(lines, "")

	// Transcript tail, leaving the bottom line for the dismiss hint.
	remaining := height - len(lines) - 1
	tail := outcome.Transcript
	if remaining > 0 && len(tail) > remaining {
		tail = tail[len(tail)-remaining:]
	}
	if remaining > 0 {
		for _, text := range tail {
			lines = append(lines, faint.Render("   "+ansi.Truncate(text, width-4, "…")))
		}
	}

	for len(lines) < height-1 {
		lines = append(lines, "")
	}
	lines = append(lines, faint.Render("   esc to dismiss"))
	return padPane(lines, height)
}

// padPane trims or pads lines to exactly height rows.
func padPane(lines []string, height int) string {
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
