// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package packui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/junegunn/fzf/src/util"

	"github.com/fedpak-project/fedpak/lib/clock"
	"github.com/fedpak-project/fedpak/lib/config"
	"github.com/fedpak-project/fedpak/lib/flatpak"
	"github.com/fedpak-project/fedpak/lib/operation"
	"github.com/fedpak-project/fedpak/lib/oplog"
	"github.com/fedpak-project/fedpak/lib/proton"
	"github.com/fedpak-project/fedpak/lib/theme"
	"github.com/fedpak-project/fedpak/lib/tui"
)

// Tab identifies a top-level view.
type Tab int

const (
	TabUpdates Tab = iota
	TabProton
	TabConvert
	TabLogs
)

// FocusRegion identifies which surface receives navigation keys.
type FocusRegion int

const (
	// FocusList: the active tab's primary list.
	FocusList FocusRegion = iota

	// FocusDetail: the Proton changelog pane or an open log view.
	FocusDetail

	// FocusFilter: the filter bar is capturing input.
	FocusFilter

	// FocusPath: the Convert tab's path input is capturing input.
	FocusPath
)

// appsLoadedMsg delivers the installed-application inventory.
type appsLoadedMsg struct {
	apps []flatpak.App
	err  error
}

// releasesLoadedMsg delivers the Proton release feed. manual marks an
// explicit refresh so the result is confirmed in the status bar.
type releasesLoadedMsg struct {
	feed   *proton.Feed
	err    error
	manual bool
}

// logsLoadedMsg delivers the operation log listing. igniteNewest
// flashes the newest row — set when the reload follows a finished
// operation that just wrote its log.
type logsLoadedMsg struct {
	entries      []oplog.Entry
	err          error
	igniteNewest bool
}

// logContentMsg delivers one log file's content for the viewer.
type logContentMsg struct {
	path    string
	content string
	err     error
}

// pickResultMsg delivers the file picker's selection.
type pickResultMsg struct {
	path string
	err  error
}

// operationEventMsg delivers one engine event. closed marks the
// channel close that follows the Outcome; no event accompanies it.
type operationEventMsg struct {
	event  operation.Event
	closed bool
}

// heatTickMsg drives the row flash decay animation.
type heatTickMsg struct{}

// statusFadeMsg clears the status notice it was scheduled for. The
// generation guards against a stale fade wiping a newer notice.
type statusFadeMsg struct {
	generation int
}

// statusFadeDelay is how long a status notice stays visible.
const statusFadeDelay = 3 * time.Second

// transcriptTailLimit bounds the retained transcript tail of a
// running operation. The pane shows a screenful; the full transcript
// arrives with the Outcome and lives in the log.
const transcriptTailLimit = 200

// eventBuffer smooths bursts of engine events between listen
// commands. The engine blocks when it fills; nothing is dropped.
const eventBuffer = 64

// Proton tab split bounds.
const (
	minSplitRatio = 0.20
	maxSplitRatio = 0.80
	splitStep     = 0.05
)

// listCursor tracks selection and scroll for one list.
type listCursor struct {
	cursor int
	scroll int
}

// move shifts the cursor by delta, clamped to [0, length).
func (list *listCursor) move(delta, length int) {
	list.cursor += delta
	list.clamp(length)
}

// clamp forces the cursor into [0, length).
func (list *listCursor) clamp(length int) {
	if list.cursor >= length {
		list.cursor = length - 1
	}
	if list.cursor < 0 {
		list.cursor = 0
	}
}

// ensureVisible adjusts scroll so the cursor is within the visible
// window, and never scrolls past the end of the list.
func (list *listCursor) ensureVisible(visible, length int) {
	if visible <= 0 {
		return
	}
	maxOffset := length - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if list.scroll > maxOffset {
		list.scroll = maxOffset
	}
	if list.cursor < list.scroll {
		list.scroll = list.cursor
	}
	if list.cursor >= list.scroll+visible {
		list.scroll = list.cursor - visible + 1
	}
}

// tabHitRange maps a horizontal span of the tab bar to a tab.
type tabHitRange struct {
	startX int // Inclusive.
	endX   int // Exclusive.
	tab    Tab
}

// Model is the top-level bubbletea model.
type Model struct {
	settings *config.Config
	theme    theme.Theme
	keys     KeyMap
	version  string
	clock    clock.Clock
	logger   *slog.Logger

	lister        AppLister
	releaseSource ReleaseSource
	runner        Runner
	picker        Picker
	logDir        string

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	activeTab   Tab
	focusRegion FocusRegion

	// Fuzzy filter over the Updates and Logs lists.
	filter        FilterModel
	appHighlights map[string][]int
	slab          *util.Slab

	// Updates tab.
	installed   []flatpak.App
	visibleApps []flatpak.App
	selected    map[string]bool
	appsList    listCursor
	appsLoading bool
	appsError   string

	// Proton tab.
	feed            *proton.Feed
	protonList      listCursor
	splitRatio      float64
	changelog       viewport.Model
	changelogTag    string
	releasesLoading bool
	releasesError   string

	// Convert tab.
	pathInput textinput.Model

	// Logs tab.
	logEntries  []oplog.Entry
	visibleLogs []oplog.Entry
	logsList    listCursor
	logsError   string
	logView     viewport.Model
	logViewPath string
	logViewOpen bool

	// Operation state. running is the single-flight guard; finished
	// keeps the last outcome on screen until dismissed.
	running     *runningOperation
	finished    *finishedOperation
	spin        spinner.Model
	quitPending bool

	// Row flash animation.
	heat        *tui.HeatTracker
	tickRunning bool

	// Status notice. Replaces the help bar until it fades.
	status           string
	statusIsWarning  bool
	statusGeneration int

	tabHitRanges []tabHitRange
}

// Options wires the model's dependencies. Settings, Clock, and Logger
// may be nil; everything else is required for the corresponding tab
// to function.
type Options struct {
	// Settings is the loaded configuration. Nil uses defaults.
	Settings *config.Config

	// Theme is the resolved color palette. Zero value selects the
	// default theme.
	Theme theme.Theme

	// Version is shown in the footer.
	Version string

	// Apps lists installed Flatpak applications (Updates tab).
	Apps AppLister

	// Releases provides the Proton-GE feed (Proton tab).
	Releases ReleaseSource

	// Runner executes operations (Updates and Convert tabs).
	Runner Runner

	// Picker opens the graphical file chooser (Convert tab). Nil
	// leaves manual path entry only.
	Picker Picker

	// LogDir is the operation log directory (Logs tab).
	LogDir string

	// Clock drives animations and age labels. Nil means real time.
	Clock clock.Clock

	// Logger receives interface diagnostics.
	Logger *slog.Logger
}

// NewModel creates the interface model. The Updates tab is active
// initially; Init kicks off the data loads.
func NewModel(options Options) Model {
	settings := options.Settings
	if settings == nil {
		settings = config.Default()
	}
	palette := options.Theme
	if palette == (theme.Theme{}) {
		palette = theme.DefaultTheme
	}
	timeSource := options.Clock
	if timeSource == nil {
		timeSource = clock.Real()
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pathInput := textinput.New()
	pathInput.Prompt = "> "
	pathInput.Placeholder = "/path/to/package.deb"

	spin := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(palette.Running)),
	)

	return Model{
		settings:        settings,
		theme:           palette,
		keys:            DefaultKeyMap,
		version:         options.Version,
		clock:           timeSource,
		logger:          logger,
		lister:          options.Apps,
		releaseSource:   options.Releases,
		runner:          options.Runner,
		picker:          options.Picker,
		logDir:          options.LogDir,
		activeTab:       TabUpdates,
		splitRatio:      0.40,
		selected:        make(map[string]bool),
		slab:            tui.NewSlab(),
		heat:            tui.NewHeatTracker(),
		pathInput:       pathInput,
		spin:            spin,
		appsLoading:     true,
		releasesLoading: true,
	}
}

// Init implements tea.Model. Loads every tab's data up front so tab
// switches are instant.
func (model Model) Init() tea.Cmd {
	return tea.Batch(
		loadApps(model.lister),
		loadReleases(model.releaseSource),
		loadLogs(model.logDir, false),
		textinput.Blink,
	)
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return model.handleKey(message)

	case tea.MouseMsg:
		model.handleMouse(message)

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.updatePaneSizes()
		model.computeTabHitRanges()

	case appsLoadedMsg:
		model.appsLoading = false
		if message.err != nil {
			model.appsError = message.err.Error()
			break
		}
		model.appsError = ""
		model.installed = message.apps
		model.pruneSelection()
		model.rebuildVisibleApps()

	case releasesLoadedMsg:
		return model.handleReleasesLoaded(message)

	case logsLoadedMsg:
		return model.handleLogsLoaded(message)

	case logContentMsg:
		if message.err != nil {
			command := model.notice("reading log: "+message.err.Error(), true)
			return model, command
		}
		model.openLogView(message.path, message.content)

	case pickResultMsg:
		return model.handlePickResult(message)

	case operationEventMsg:
		return model.handleOperationEvent(message)

	case spinner.TickMsg:
		if model.running == nil {
			return model, nil
		}
		var command tea.Cmd
		model.spin, command = model.spin.Update(message)
		return model, command

	case heatTickMsg:
		return model.handleHeatTick()

	case statusFadeMsg:
		if message.generation == model.statusGeneration {
			model.status = ""
		}

	default:
		// Cursor blink and other component housekeeping.
		if model.pathInput.Focused() {
			var command tea.Cmd
			model.pathInput, command = model.pathInput.Update(message)
			return model, command
		}
	}
	return model, nil
}

// handleKey routes key input: capturing surfaces (filter bar, path
// input) first, then chrome bindings, then the active tab.
func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key other than quit withdraws a pending quit confirmation.
	if model.quitPending && !key.Matches(message, model.keys.Quit) {
		model.quitPending = false
	}

	if model.focusRegion == FocusFilter {
		return model.handleFilterKeys(message)
	}
	if model.focusRegion == FocusPath {
		return model.handlePathKeys(message)
	}

	switch {
	case key.Matches(message, model.keys.Quit):
		// A running operation cannot be aborted — the engine never
		// signals a started child — so quitting means leaving it to
		// finish unwatched. Ask once.
		if model.running != nil && message.Type != tea.KeyCtrlC && !model.quitPending {
			model.quitPending = true
			command := model.notice("operation in progress — q again to quit and leave it running", true)
			return model, command
		}
		return model, tea.Quit

	case key.Matches(message, model.keys.TabUpdates):
		model.switchTab(TabUpdates)
	case key.Matches(message, model.keys.TabProton):
		model.switchTab(TabProton)
	case key.Matches(message, model.keys.TabConvert):
		model.switchTab(TabConvert)
	case key.Matches(message, model.keys.TabLogs):
		model.switchTab(TabLogs)

	case key.Matches(message, model.keys.FilterActivate):
		if model.filterableListVisible() {
			model.filter.Active = true
			model.focusRegion = FocusFilter
		}

	case key.Matches(message, model.keys.FilterClear):
		model.handleEscape()

	case key.Matches(message, model.keys.FocusToggle):
		return model.toggleFocus()

	case key.Matches(message, model.keys.SplitGrow):
		if model.activeTab == TabProton {
			model.adjustSplit(splitStep)
		}
	case key.Matches(message, model.keys.SplitShrink):
		if model.activeTab == TabProton {
			model.adjustSplit(-splitStep)
		}

	case key.Matches(message, model.keys.Refresh):
		return model.handleRefresh()

	default:
		return model.handleTabKeys(message)
	}
	return model, nil
}

// handleFilterKeys processes input while the filter bar has focus.
func (model Model) handleFilterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		// ctrl+c always quits, even in filter mode.
		if message.Type == tea.KeyCtrlC {
			return model, tea.Quit
		}
		// 'q' is a regular character in filter mode.
		model.filter.HandleRune('q')
		model.applyFilter()
		return model, nil

	case key.Matches(message, model.keys.FilterClear):
		// Esc: if there's filter text, clear it but keep typing
		// focus; if already empty, exit filter mode.
		if model.filter.Input != "" {
			model.filter.Input = ""
			model.applyFilter()
		} else {
			model.filter.Active = false
			model.focusRegion = FocusList
		}
		return model, nil

	case message.Type == tea.KeyEnter:
		// Confirm filter and return focus to the list.
		model.filter.Active = false
		model.focusRegion = FocusList
		return model, nil

	case message.Type == tea.KeyBackspace:
		if model.filter.HandleBackspace() {
			model.applyFilter()
		}
		return model, nil

	case message.Type == tea.KeyRunes || message.Type == tea.KeySpace:
		for _, character := range message.Runes {
			model.filter.HandleRune(character)
		}
		model.applyFilter()
		return model, nil
	}
	return model, nil
}

// handleEscape dismisses the topmost transient surface: an open log
// view, then a lingering outcome pane, then the filter.
func (model *Model) handleEscape() {
	if model.activeTab == TabLogs && model.logViewOpen {
		model.closeLogView()
		return
	}
	if model.finished != nil && model.finished.tab == model.activeTab {
		model.finished = nil
		return
	}
	if model.filter.Input != "" {
		model.filter.Clear()
		model.applyFilter()
	}
}

// handleTabKeys routes remaining keys to the active tab's handler.
func (model Model) handleTabKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch model.activeTab {
	case TabUpdates:
		return model.handleUpdatesKeys(message)
	case TabProton:
		return model.handleProtonKeys(message)
	case TabConvert:
		return model.handleConvertKeys(message)
	case TabLogs:
		return model.handleLogsKeys(message)
	}
	return model, nil
}

// handleRefresh reloads the active tab's data.
func (model Model) handleRefresh() (tea.Model, tea.Cmd) {
	switch model.activeTab {
	case TabUpdates:
		model.appsLoading = true
		return model, loadApps(model.lister)
	case TabProton:
		model.releasesLoading = true
		return model, refreshReleases(model.releaseSource)
	case TabLogs:
		return model, loadLogs(model.logDir, false)
	}
	return model, nil
}

// switchTab activates a tab, clearing transient state that does not
// carry across: the filter and pane focus.
func (model *Model) switchTab(tab Tab) {
	if model.activeTab == tab {
		return
	}
	model.activeTab = tab
	model.focusRegion = FocusList
	model.pathInput.Blur()
	if model.filter.Input != "" || model.filter.Active {
		model.filter.Clear()
		model.applyFilter()
	}
}

// applyFilter re-derives the visible lists from the filter. When
// actively filtering, snap to the top of the list so the
// highest-scored matches are visible as the user types.
func (model *Model) applyFilter() {
	model.rebuildVisibleApps()
	model.rebuildVisibleLogs()
	if model.filter.Input != "" {
		switch model.activeTab {
		case TabUpdates:
			model.appsList = listCursor{}
		case TabLogs:
			model.logsList = listCursor{}
		}
	}
}

// filterableListVisible reports whether the active tab is currently
// showing a list the filter applies to.
func (model Model) filterableListVisible() bool {
	switch model.activeTab {
	case TabUpdates:
		return !model.paneActive(TabUpdates)
	case TabLogs:
		return !model.logViewOpen
	}
	return false
}

// paneActive reports whether tab's content area is occupied by the
// progress or outcome pane instead of its normal content.
func (model Model) paneActive(tab Tab) bool {
	if model.running != nil && model.running.tab == tab {
		return true
	}
	return model.finished != nil && model.finished.tab == tab
}

// toggleFocus switches between the list and detail panes where the
// active tab has both.
func (model Model) toggleFocus() (tea.Model, tea.Cmd) {
	switch model.activeTab {
	case TabProton:
		if model.focusRegion == FocusDetail {
			model.focusRegion = FocusList
		} else {
			model.focusRegion = FocusDetail
		}
	case TabLogs:
		// The open log view is the only scrollable surface; focus
		// follows it automatically.
	case TabConvert:
		return model.focusPathInput()
	}
	return model, nil
}

// adjustSplit resizes the Proton tab's list/changelog split.
func (model *Model) adjustSplit(delta float64) {
	model.splitRatio += delta
	if model.splitRatio < minSplitRatio {
		model.splitRatio = minSplitRatio
	}
	if model.splitRatio > maxSplitRatio {
		model.splitRatio = maxSplitRatio
	}
	model.updatePaneSizes()
}

// notice posts a status message on the help bar line, fading after a
// few seconds. warning selects the warning color.
func (model *Model) notice(text string, warning bool) tea.Cmd {
	model.status = text
	model.statusIsWarning = warning
	model.statusGeneration++
	generation := model.statusGeneration
	return tea.Tick(statusFadeDelay, func(time.Time) tea.Msg {
		return statusFadeMsg{generation: generation}
	})
}

// handleHeatTick processes a flash animation tick. While any rows are
// still hot another tick is scheduled; otherwise the timer stops.
func (model Model) handleHeatTick() (tea.Model, tea.Cmd) {
	if model.heat.HasHot(model.clock.Now()) {
		return model, scheduleHeatTick()
	}
	model.tickRunning = false
	return model, nil
}

// igniteHeat starts a row flash and returns the tick command when the
// animation timer needs starting.
func (model *Model) igniteHeat(rowID string, kind tui.HeatKind) tea.Cmd {
	model.heat.Ignite(rowID, kind, model.clock.Now())
	if model.tickRunning {
		return nil
	}
	model.tickRunning = true
	return scheduleHeatTick()
}

// handleReleasesLoaded folds a feed load into the Proton tab.
func (model Model) handleReleasesLoaded(message releasesLoadedMsg) (tea.Model, tea.Cmd) {
	model.releasesLoading = false
	if message.err != nil {
		model.releasesError = message.err.Error()
		if message.manual {
			command := model.notice("refresh failed: "+message.err.Error(), true)
			return model, command
		}
		return model, nil
	}
	model.releasesError = ""
	model.feed = message.feed
	model.protonList.clamp(len(message.feed.Releases))
	model.protonList.ensureVisible(model.contentHeight(), len(message.feed.Releases))
	model.syncChangelog()
	if message.manual {
		if message.feed.Offline {
			command := model.notice("offline — showing cached releases", true)
			return model, command
		}
		command := model.notice("releases refreshed", false)
		return model, command
	}
	return model, nil
}

// handleLogsLoaded folds a log listing into the Logs tab.
func (model Model) handleLogsLoaded(message logsLoadedMsg) (tea.Model, tea.Cmd) {
	if message.err != nil {
		model.logsError = message.err.Error()
		return model, nil
	}
	model.logsError = ""
	model.logEntries = message.entries
	model.rebuildVisibleLogs()

	if message.igniteNewest && len(message.entries) > 0 {
		newest := message.entries[0]
		kind := tui.HeatSuccess
		if !newest.Success {
			kind = tui.HeatFailure
		}
		command := model.igniteHeat(newest.Path, kind)
		return model, command
	}
	return model, nil
}

// handleMouse routes mouse events: tab bar clicks switch tabs, the
// wheel scrolls whichever surface the cursor is over, list clicks
// move the cursor.
func (model *Model) handleMouse(message tea.MouseMsg) {
	inContentArea := message.Y >= model.contentStartY() && message.Y < model.height-2

	switch message.Button {
	case tea.MouseButtonWheelUp:
		if inContentArea {
			model.handleWheel(-1, message.X)
		}

	case tea.MouseButtonWheelDown:
		if inContentArea {
			model.handleWheel(1, message.X)
		}

	case tea.MouseButtonLeft:
		if message.Action != tea.MouseActionPress {
			return
		}
		// Tab clicks: header row maps X spans to tabs.
		if message.Y == 0 {
			for _, hit := range model.tabHitRanges {
				if message.X >= hit.startX && message.X < hit.endX {
					model.switchTab(hit.tab)
					return
				}
			}
			return
		}
		if inContentArea {
			model.handleContentClick(message.X, message.Y-model.contentStartY())
		}
	}
}

// handleWheel scrolls the surface under the cursor by direction
// (negative is up). Lists move their cursor; viewports scroll lines.
func (model *Model) handleWheel(direction, x int) {
	switch model.activeTab {
	case TabUpdates:
		if model.paneActive(TabUpdates) {
			return
		}
		model.appsList.move(direction, len(model.visibleApps))
		model.appsList.ensureVisible(model.contentHeight(), len(model.visibleApps))

	case TabProton:
		if x < model.protonListWidth() {
			model.protonList.move(direction, model.releaseCount())
			model.protonList.ensureVisible(model.contentHeight(), model.releaseCount())
			model.syncChangelog()
		} else if direction < 0 {
			model.changelog.LineUp(3)
		} else {
			model.changelog.LineDown(3)
		}

	case TabLogs:
		if model.logViewOpen {
			if direction < 0 {
				model.logView.LineUp(3)
			} else {
				model.logView.LineDown(3)
			}
			return
		}
		model.logsList.move(direction, len(model.visibleLogs))
		model.logsList.ensureVisible(model.contentHeight(), len(model.visibleLogs))
	}
}

// handleContentClick moves the cursor to a clicked list row.
func (model *Model) handleContentClick(x, rowOffset int) {
	switch model.activeTab {
	case TabUpdates:
		if model.paneActive(TabUpdates) {
			return
		}
		index := model.appsList.scroll + rowOffset
		if index >= 0 && index < len(model.visibleApps) {
			model.appsList.cursor = index
		}

	case TabProton:
		if x >= model.protonListWidth() {
			model.focusRegion = FocusDetail
			return
		}
		model.focusRegion = FocusList
		index := model.protonList.scroll + rowOffset
		if index >= 0 && index < model.releaseCount() {
			model.protonList.cursor = index
			model.syncChangelog()
		}

	case TabLogs:
		if model.logViewOpen {
			return
		}
		index := model.logsList.scroll + rowOffset
		if index >= 0 && index < len(model.visibleLogs) {
			model.logsList.cursor = index
		}
	}
}

// handleListNav applies the shared navigation bindings to a list.
// Returns true when the key was one of them.
func (model *Model) handleListNav(message tea.KeyMsg, list *listCursor, length int) bool {
	visible := model.contentHeight()
	switch {
	case key.Matches(message, model.keys.Up):
		list.move(-1, length)
	case key.Matches(message, model.keys.Down):
		list.move(1, length)
	case key.Matches(message, model.keys.PageUp):
		list.move(-visible, length)
	case key.Matches(message, model.keys.PageDown):
		list.move(visible, length)
	case key.Matches(message, model.keys.Home):
		list.cursor = 0
	case key.Matches(message, model.keys.End):
		if length > 0 {
			list.cursor = length - 1
		}
	default:
		return false
	}
	list.ensureVisible(visible, length)
	return true
}

// handleViewportNav applies the shared navigation bindings to a
// viewport. Returns true when the key was one of them.
func (model *Model) handleViewportNav(message tea.KeyMsg, view *viewport.Model) bool {
	switch {
	case key.Matches(message, model.keys.Up):
		view.LineUp(1)
	case key.Matches(message, model.keys.Down):
		view.LineDown(1)
	case key.Matches(message, model.keys.PageUp):
		view.HalfViewUp()
	case key.Matches(message, model.keys.PageDown):
		view.HalfViewDown()
	case key.Matches(message, model.keys.Home):
		view.GotoTop()
	case key.Matches(message, model.keys.End):
		view.GotoBottom()
	default:
		return false
	}
	return true
}

// contentStartY returns the Y coordinate where the content area
// begins. The top chrome line is always exactly 1 row: either the tab
// bar or, while filtering, the filter bar in its place.
func (model Model) contentStartY() int {
	return 1
}

// contentHeight returns the rows available to the content area: total
// height minus the top chrome, the footer rule, and the help bar.
func (model Model) contentHeight() int {
	return model.height - model.contentStartY() - 2
}

// updatePaneSizes recalculates pane dimensions after a resize or
// split change.
func (model *Model) updatePaneSizes() {
	content := model.contentHeight()

	// Proton changelog pane: width minus list and divider; 1 column
	// of left padding and a right scrollbar inside; 3 header lines.
	detailWidth := model.width - model.protonListWidth() - 1
	if detailWidth < 10 {
		detailWidth = 10
	}
	model.changelog.Width = detailWidth - 2
	model.changelog.Height = max(content-protonHeaderLines, 1)
	model.rerenderChangelog()

	// Log view: full width minus padding and scrollbar; 2 header lines.
	model.logView.Width = model.width - 2
	model.logView.Height = max(content-2, 1)

	model.pathInput.Width = max(model.width-10, 20)
}
