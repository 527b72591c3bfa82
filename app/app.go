package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dualstream/config"
	"dualstream/keys"
	"dualstream/log"
	"dualstream/markdown"
	"dualstream/stream"
	"dualstream/ui"
	"dualstream/ui/overlay"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var errNothingToCopy = errors.New("nothing to copy yet")

// Run is the main entrypoint into the application.
func Run(ctx context.Context, cfg *config.Config, autoStart bool) error {
	h, err := newHome(ctx, cfg, autoStart)
	if err != nil {
		return err
	}
	p := tea.NewProgram(
		h,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // Mouse scroll
	)
	_, err = p.Run()
	h.stopTicks()
	return err
}

type state int

const (
	stateDefault state = iota
	// stateEditRate is the state when the focused panel's rate input is open.
	stateEditRate
	// stateHelp is the state when a help screen is displayed.
	stateHelp
	// stateTranscript is the state when the segment transcript is displayed.
	stateTranscript
)

type home struct {
	ctx context.Context

	// -- Storage and Configuration --

	// appConfig stores persistent application configuration
	appConfig *config.Config
	// appState stores persistent application state like seen help screens
	appState config.AppState

	// -- State --

	// state is the current discrete state of the application
	state state
	// keySent is used to manage underlining menu items
	keySent bool
	// autoStart starts generation on Init.
	autoStart bool

	controller *stream.Controller
	// tickCtx and tickCancel hold one context per panel. Cancelling one wakes
	// that panel's pending tick so it returns without a message.
	tickCtx    []context.Context
	tickCancel []context.CancelFunc
	// editingPanel is the panel whose rate input is open.
	editingPanel int

	now             func() time.Time
	copyToClipboard func(string) error

	// -- UI Components --

	panes []*ui.PanelPane
	// splitWindow displays the panels side by side with the chunk log
	splitWindow *ui.SplitWindow
	logPane     *ui.LogPane
	// menu displays the bottom menu
	menu *ui.Menu
	// errBox displays error messages
	errBox *ui.ErrBox
	// global spinner instance, shown in the title while generating
	spinner spinner.Model
	// textOverlay displays help and transcripts
	textOverlay *overlay.ScrollOverlay

	windowWidth, windowHeight int
	// startupErr is shown once the program starts.
	startupErr error
}

func newHome(ctx context.Context, cfg *config.Config, autoStart bool) (*home, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	opts, err := cfg.ControllerOptions()
	if err != nil {
		return nil, err
	}

	// Initialize custom keybindings
	keysErr := keys.InitializeCustomKeyBindings()
	if keysErr != nil {
		// Log error but continue with defaults
		log.ErrorLog.Printf("Failed to load custom keybindings: %v", keysErr)
	}

	controller := stream.NewController(opts)
	logPane := ui.NewLogPane(cfg.LogLimit)
	log.SetChunkLogger(NewChunkLoggerAdapter(logPane))

	panels := controller.Panels()
	panes := make([]*ui.PanelPane, len(panels))
	for i, p := range panels {
		panes[i] = ui.NewPanelPane(p.Name(), ui.RenderMode(cfg.RenderMode), cfg.GlamourStyle)
	}

	h := &home{
		ctx:             ctx,
		appConfig:       cfg,
		appState:        config.LoadState(),
		state:           stateDefault,
		autoStart:       autoStart,
		controller:      controller,
		tickCtx:         make([]context.Context, len(panels)),
		tickCancel:      make([]context.CancelFunc, len(panels)),
		now:             time.Now,
		copyToClipboard: clipboard.WriteAll,
		panes:           panes,
		splitWindow:     ui.NewSplitWindow(panes, logPane),
		logPane:         logPane,
		menu:            ui.NewMenu(),
		errBox:          ui.NewErrBox(),
		spinner:         spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}
	h.splitWindow.Refresh(panels, h.now())
	if errors.Is(keysErr, keys.ErrBindingConflict) {
		h.startupErr = keysErr
		h.errBox.SetError(keysErr)
	}

	// First run gets a short introduction.
	h.showHelpScreen(helpTypeWelcome{}, nil)
	return h, nil
}

// updateHandleWindowSizeEvent sets the sizes of the components.
// The components will try to render inside their bounds.
func (m *home) updateHandleWindowSizeEvent(msg tea.WindowSizeMsg) {
	m.windowWidth, m.windowHeight = msg.Width, msg.Height

	// One row each for the title, menu and error box.
	contentHeight := msg.Height - 3
	m.splitWindow.SetSize(msg.Width, max(contentHeight, 1))
	m.menu.SetSize(msg.Width, 1)
	m.errBox.SetSize(int(float32(msg.Width)*0.9), 1) // error box takes 1 row

	if m.textOverlay != nil {
		m.textOverlay.SetSize(m.calculateOverlayDimensions())
	}
	m.splitWindow.Refresh(m.controller.Panels(), m.now())
}

func (m *home) calculateOverlayDimensions() (int, int) {
	return int(float32(m.windowWidth) * 0.8), int(float32(m.windowHeight) * 0.8)
}

func (m *home) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.startupErr != nil {
		cmds = append(cmds, m.hideStatusAfter(5*time.Second))
	}
	if m.autoStart {
		cmds = append(cmds, func() tea.Msg { return startMsg{} })
	}
	return tea.Batch(cmds...)
}

func (m *home) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case hideErrMsg:
		m.errBox.Clear()
	case keyupMsg:
		m.menu.ClearKeydown()
		return m, nil
	case startMsg:
		if m.controller.Running() {
			return m, nil
		}
		return m, m.toggleGeneration()
	case panelTickMsg:
		return m, m.handlePanelTick(msg)
	case tea.MouseMsg:
		// Handle mouse wheel events for scrolling the focused panel
		if msg.Action == tea.MouseActionPress {
			switch msg.Button {
			case tea.MouseButtonWheelUp:
				m.splitWindow.ScrollUp()
			case tea.MouseButtonWheelDown:
				m.splitWindow.ScrollDown()
			}
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.updateHandleWindowSizeEvent(msg)
		return m, nil
	case error:
		return m, m.handleError(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handlePanelTick feeds a tick to the controller and schedules the next one.
// A tick from an old epoch is dropped without rescheduling: the restart that
// bumped the epoch already scheduled its own chain.
func (m *home) handlePanelTick(msg panelTickMsg) tea.Cmd {
	p := m.controller.Panel(msg.panel)
	if p == nil || !m.controller.Running() || !p.Scheduled(msg.epoch) {
		return nil
	}
	if _, ok := m.controller.Tick(msg.panel, msg.epoch, msg.at); ok {
		m.panes[msg.panel].Refresh(p, msg.at)
	}
	return m.scheduleTick(msg.panel)
}

// scheduleTick sleeps for the panel's delay and then reports a tick for the
// epoch current at scheduling time. Paused panels are not scheduled.
func (m *home) scheduleTick(i int) tea.Cmd {
	p := m.controller.Panel(i)
	if p == nil || !m.controller.Running() {
		return nil
	}
	delay, ok := p.Delay()
	if !ok {
		return nil
	}
	ctx := m.tickCtx[i]
	if ctx == nil {
		return nil
	}
	epoch := p.Epoch()
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
		return panelTickMsg{panel: i, epoch: epoch, at: time.Now()}
	}
}

// restartTicks cancels any pending tick for panel i and schedules a new one.
func (m *home) restartTicks(i int) tea.Cmd {
	if m.tickCancel[i] != nil {
		m.tickCancel[i]()
	}
	m.tickCtx[i], m.tickCancel[i] = context.WithCancel(m.ctx)
	return m.scheduleTick(i)
}

// startTicks restarts the schedule of every panel.
func (m *home) startTicks() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.tickCtx))
	for i := range m.tickCtx {
		cmds = append(cmds, m.restartTicks(i))
	}
	return tea.Batch(cmds...)
}

// stopTicks cancels every pending tick.
func (m *home) stopTicks() {
	for i, cancel := range m.tickCancel {
		if cancel != nil {
			cancel()
		}
		m.tickCtx[i], m.tickCancel[i] = nil, nil
	}
}

func (m *home) toggleGeneration() tea.Cmd {
	running := m.controller.Toggle(m.now())
	m.menu.SetRunning(running)
	m.refreshPanes()
	if !running {
		m.stopTicks()
		return nil
	}
	return m.startTicks()
}

func (m *home) resetGeneration() tea.Cmd {
	m.controller.Reset(m.now())
	m.logPane.Clear()
	m.refreshPanes()
	if m.controller.Running() {
		return m.startTicks()
	}
	return nil
}

func (m *home) refreshPanes() {
	m.splitWindow.Refresh(m.controller.Panels(), m.now())
}

func (m *home) handleMenuHighlighting(msg tea.KeyMsg) (cmd tea.Cmd, returnEarly bool) {
	// Handle menu highlighting when you press a button. We intercept it here and immediately return to
	// update the ui while re-sending the keypress. Then, on the next call to this, we actually handle the keypress.
	if m.keySent {
		m.keySent = false
		return nil, false
	}
	if m.state != stateDefault {
		return nil, false
	}
	// If it's in the global keymap, we should try to highlight it.
	name, ok := keys.GetKeyName(msg.String())
	if !ok {
		return nil, false
	}
	if name == keys.KeyUp || name == keys.KeyDown {
		return nil, false
	}

	m.keySent = true
	return tea.Batch(
		func() tea.Msg { return msg },
		m.keydownCallback(name)), true
}

func (m *home) handleKeyPress(msg tea.KeyMsg) (mod tea.Model, cmd tea.Cmd) {
	cmd, returnEarly := m.handleMenuHighlighting(msg)
	if returnEarly {
		return m, cmd
	}

	switch m.state {
	case stateHelp, stateTranscript:
		return m.handleOverlayState(msg)
	case stateEditRate:
		return m.handleEditRateState(msg)
	}

	name, ok := keys.GetKeyName(msg.String())
	if !ok {
		return m, nil
	}

	switch name {
	case keys.KeyToggle:
		return m, m.toggleGeneration()
	case keys.KeyReset:
		return m, m.resetGeneration()
	case keys.KeyEditRate:
		i := m.splitWindow.Focused()
		p := m.controller.Panel(i)
		if p == nil {
			return m, nil
		}
		m.editingPanel = i
		m.state = stateEditRate
		m.menu.SetState(ui.StateEditRate)
		return m, m.panes[i].StartEditing(p.Rate())
	case keys.KeyFocus:
		m.splitWindow.Focus()
		return m, nil
	case keys.KeyUp:
		m.splitWindow.ScrollUp()
		return m, nil
	case keys.KeyDown:
		m.splitWindow.ScrollDown()
		return m, nil
	case keys.KeyCopy:
		return m, m.copyFocusedOutput()
	case keys.KeyTranscript:
		m.showTranscript()
		return m, nil
	case keys.KeyChunkLog:
		m.splitWindow.ToggleLog()
		return m, nil
	case keys.KeyHelp:
		return m.showHelpScreen(helpTypeGeneral{}, nil)
	case keys.KeyQuit:
		return m.handleQuit()
	}
	return m, nil
}

func (m *home) handleQuit() (tea.Model, tea.Cmd) {
	for _, p := range m.controller.Panels() {
		st := p.Stats(m.now())
		log.InfoLog.Printf("panel %s: %d chunks, %d chars", p.Name(), st.Chunks, st.Runes)
	}
	m.stopTicks()
	return m, tea.Quit
}

// handleEditRateState routes keys to the open rate input. Enter applies the
// rate; anything unparseable pauses the panel.
func (m *home) handleEditRateState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pane := m.panes[m.editingPanel]

	switch {
	case msg.String() == "ctrl+c":
		pane.StopEditing()
		return m.handleQuit()
	case key.Matches(msg, keys.GlobalkeyBindings[keys.KeyCancel]):
		pane.StopEditing()
		m.closeRateEditor()
		return m, nil
	case key.Matches(msg, keys.GlobalkeyBindings[keys.KeySubmitRate]):
		value := pane.StopEditing()
		m.closeRateEditor()
		return m, m.applyRate(m.editingPanel, value)
	}
	return m, pane.UpdateInput(msg)
}

func (m *home) closeRateEditor() {
	m.state = stateDefault
	m.menu.SetState(ui.StateDefault)
}

// applyRate parses and applies a rate to panel i, restarting its ticks when
// the controller restarted the panel.
func (m *home) applyRate(i int, value string) tea.Cmd {
	var errCmd tea.Cmd
	rate, err := stream.ParseRate(value)
	if err != nil {
		errCmd = m.handleError(fmt.Errorf("panel paused: %w", err))
		rate = 0
	}

	var tickCmd tea.Cmd
	if m.controller.SetRate(i, rate, m.now()) {
		tickCmd = m.restartTicks(i)
	}
	m.panes[i].Refresh(m.controller.Panel(i), m.now())
	return tea.Batch(errCmd, tickCmd)
}

func (m *home) copyFocusedOutput() tea.Cmd {
	p := m.controller.Panel(m.splitWindow.Focused())
	if p == nil || p.Output() == "" {
		return m.handleError(errNothingToCopy)
	}
	if err := m.copyToClipboard(p.Output()); err != nil {
		return m.handleError(fmt.Errorf("failed to copy to clipboard: %w", err))
	}
	return m.showInfo(fmt.Sprintf("copied %d chars from %s", len([]rune(p.Output())), p.Name()))
}

var (
	segmentHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#36CFC9"))
	segmentBodyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// transcriptContent lists every segment with its kind and exact content.
func transcriptContent(segments []markdown.Segment) string {
	if len(segments) == 0 {
		return dimStyle.Render("no output yet")
	}
	var b strings.Builder
	for i, seg := range segments {
		header := fmt.Sprintf("#%d %s", i+1, seg.Kind)
		if seg.Kind == markdown.CodeBlock && seg.Language != "" {
			header += " (" + seg.Language + ")"
		}
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(segmentHeaderStyle.Render(header))
		b.WriteString("\n")
		b.WriteString(segmentBodyStyle.Render(fmt.Sprintf("%q", seg.Content)))
	}
	return b.String()
}

func (m *home) showTranscript() {
	p := m.controller.Panel(m.splitWindow.Focused())
	if p == nil {
		return
	}
	segments := p.Segments()
	title := fmt.Sprintf("%s · %d segments", p.Name(), len(segments))
	m.textOverlay = overlay.NewScrollOverlay(title, transcriptContent(segments))
	if m.windowWidth > 0 && m.windowHeight > 0 {
		m.textOverlay.SetSize(m.calculateOverlayDimensions())
	}
	m.state = stateTranscript
	m.menu.SetState(ui.StateOverlay)
}

// handleOverlayState handles key events while help or a transcript is open
func (m *home) handleOverlayState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.textOverlay == nil || m.textOverlay.HandleKeyPress(msg) {
		m.state = stateDefault
		m.textOverlay = nil
		m.menu.SetState(ui.StateDefault)
		return m, tea.WindowSize()
	}
	return m, nil
}

type keyupMsg struct{}

// keydownCallback clears the menu option highlighting after 500ms.
func (m *home) keydownCallback(name keys.KeyName) tea.Cmd {
	m.menu.Keydown(name)
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
		case <-time.After(500 * time.Millisecond):
		}

		return keyupMsg{}
	}
}

// hideErrMsg implements tea.Msg and clears the error text from the screen.
type hideErrMsg struct{}

// startMsg starts generation once the program is running.
type startMsg struct{}

// panelTickMsg is one timer tick for a panel, tagged with the epoch it was
// scheduled under.
type panelTickMsg struct {
	panel int
	epoch uint64
	at    time.Time
}

// handleError handles all errors which get bubbled up to the app. sets the error message. We return a callback tea.Cmd that returns a hideErrMsg message
// which clears the error message after 3 seconds.
func (m *home) handleError(err error) tea.Cmd {
	log.ErrorLog.Printf("%v", err)
	m.errBox.SetError(err)
	return m.hideStatusAfter(3 * time.Second)
}

// showInfo shows a confirmation in the error box and clears it like an error.
func (m *home) showInfo(msg string) tea.Cmd {
	m.errBox.SetInfo(msg)
	return m.hideStatusAfter(3 * time.Second)
}

func (m *home) hideStatusAfter(d time.Duration) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
		case <-time.After(d):
		}

		return hideErrMsg{}
	}
}

var (
	appTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	appStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

func (m *home) titleBar() string {
	status := "stopped"
	if m.controller.Running() {
		status = m.spinner.View() + " generating"
	}
	status += fmt.Sprintf(" · %s source", m.controller.Mode())
	line := lipgloss.JoinHorizontal(lipgloss.Top,
		appTitleStyle.Render("dualstream"), "  ", appStatusStyle.Render(status))
	return lipgloss.NewStyle().Width(m.windowWidth).MaxWidth(m.windowWidth).Render(line)
}

func (m *home) View() string {
	mainView := lipgloss.JoinVertical(
		lipgloss.Center,
		m.titleBar(),
		m.splitWindow.String(),
		m.menu.String(),
		m.errBox.String(),
	)

	if (m.state == stateHelp || m.state == stateTranscript) && m.textOverlay != nil {
		return overlay.PlaceOverlay(0, 0, m.textOverlay.Render(), mainView, true)
	}
	return mainView
}
