package app

import (
	"fmt"

	"dualstream/keys"
	"dualstream/log"
	"dualstream/stream"
	"dualstream/ui"
	"dualstream/ui/overlay"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type helpText interface {
	// toContent returns the help UI content.
	toContent() string
	// mask returns the bit mask for this help text. These are used to track which help screens
	// have been seen in the config and app state.
	mask() uint32
}

type helpTypeGeneral struct{}

type helpTypeWelcome struct{}

// keyLine renders one key and its description in a fixed width key column.
func keyLine(name keys.KeyName, desc string) string {
	binding := keys.GlobalkeyBindings[name]
	if desc == "" {
		desc = binding.Help().Desc
	}
	return keyStyle.Render(fmt.Sprintf("%-10s", binding.Help().Key)) + descStyle.Render("- "+desc)
}

func (h helpTypeGeneral) toContent() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("dualstream"),
		"",
		"Two panels consume the same reference text at their own rates and render",
		"it as markdown while it streams in.",
		"",
		headerStyle.Render("Generation:"),
		keyLine(keys.KeyToggle, "Start or stop both panels"),
		keyLine(keys.KeyReset, "Clear output and rewind the text"),
		keyLine(keys.KeyEditRate, "Edit the focused panel's rate"),
		"",
		headerStyle.Render("Panels:"),
		keyLine(keys.KeyFocus, "Switch the focused panel"),
		keyLine(keys.KeyUp, "Scroll the focused panel up"),
		keyLine(keys.KeyDown, "Scroll down, following new output at the bottom"),
		keyLine(keys.KeyCopy, "Copy the focused panel's raw output"),
		keyLine(keys.KeyTranscript, "Show how the output splits into segments"),
		keyLine(keys.KeyChunkLog, "Show or hide the chunk log"),
		"",
		headerStyle.Render("Other:"),
		keyLine(keys.KeyHelp, "Show this help screen"),
		keyLine(keys.KeyQuit, "Quit the application"),
		keyStyle.Render(fmt.Sprintf("%-10s", "mouse"))+descStyle.Render("- Use mouse wheel to scroll"),
		"",
		dimStyle.Render(fmt.Sprintf("A rate of 0, a negative rate or anything that is not a number pauses the panel."+
			" Delays never go below %s.", stream.MinDelay)),
	)
	return content
}

func (h helpTypeWelcome) toContent() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Welcome to dualstream"),
		"",
		descStyle.Render("Both panels start stopped. Press "+
			lipgloss.NewStyle().Bold(true).Render(keys.GlobalkeyBindings[keys.KeyToggle].Help().Key)+
			" to begin streaming."),
		"",
		headerStyle.Render("Next steps:"),
		keyLine(keys.KeyEditRate, "Change how fast the focused panel receives chunks"),
		keyLine(keys.KeyFocus, "Move focus to the other panel"),
		keyLine(keys.KeyHelp, "See every key"),
		"",
		dimStyle.Render("This screen is only shown once."),
	)
	return content
}

func (h helpTypeGeneral) mask() uint32 {
	return 1
}

func (h helpTypeWelcome) mask() uint32 {
	return 1 << 1
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#7D56F4"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#36CFC9"))
	keyStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFCC00"))
	descStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// showHelpScreen displays the help screen overlay if it hasn't been shown before
func (m *home) showHelpScreen(helpType helpText, onDismiss func()) (tea.Model, tea.Cmd) {
	// Get the flag for this help type
	var alwaysShow bool
	switch helpType.(type) {
	case helpTypeGeneral:
		alwaysShow = true
	}

	flag := helpType.mask()

	// Check if this help screen has been seen before
	// Only show if we're showing the general help screen or the corresponding flag is not set
	// in the seen bitmask.
	if alwaysShow || (m.appState.GetHelpScreensSeen()&flag) == 0 {
		// Mark this help screen as seen and save state
		if err := m.appState.SetHelpScreensSeen(m.appState.GetHelpScreensSeen() | flag); err != nil {
			log.WarningLog.Printf("Failed to save help screen state: %v", err)
		}

		m.textOverlay = overlay.NewTextOverlay(helpType.toContent())
		m.textOverlay.OnDismiss = onDismiss
		// Set the overlay size based on current window dimensions
		if m.windowWidth > 0 && m.windowHeight > 0 {
			m.textOverlay.SetSize(m.calculateOverlayDimensions())
		}
		m.state = stateHelp
		m.menu.SetState(ui.StateOverlay)
		return m, nil
	}

	// Skip displaying the help screen
	if onDismiss != nil {
		onDismiss()
	}
	return m, nil
}
