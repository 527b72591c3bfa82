package ui

import (
	"strings"

	"dualstream/keys"

	"github.com/charmbracelet/lipgloss"
)

var (
	keyStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#655F5F",
		Dark:  "#7F7A7A",
	})
	descStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#7A7474",
		Dark:  "#9C9494",
	})
	sepStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#DDDADA",
		Dark:  "#3C3C3C",
	})
	actionGroupStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	// menuStyle marks the option whose key is held down.
	menuStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

const (
	separator         = " • "
	verticalSeparator = " │ "
)

// MenuState selects which options the menu offers.
type MenuState int

const (
	StateDefault MenuState = iota
	// StateEditRate is shown while the rate input is open.
	StateEditRate
	// StateOverlay is shown while a help or transcript overlay is open.
	StateOverlay
)

// Menu is the key hint bar at the bottom of the screen.
type Menu struct {
	options []keys.KeyName
	// groupEnds holds the index after which each option group ends.
	groupEnds []int

	height, width int
	state         MenuState
	running       bool

	// keyDown is the key which is pressed. The default is -1.
	keyDown keys.KeyName
}

func NewMenu() *Menu {
	m := &Menu{keyDown: -1}
	m.SetState(StateDefault)
	return m
}

// SetState switches the option set.
func (m *Menu) SetState(state MenuState) {
	m.state = state
	switch state {
	case StateEditRate:
		m.options = []keys.KeyName{keys.KeySubmitRate, keys.KeyCancel}
		m.groupEnds = []int{2}
	case StateOverlay:
		m.options = []keys.KeyName{keys.KeyUp, keys.KeyDown, keys.KeyCancel}
		m.groupEnds = []int{3}
	default:
		m.options = []keys.KeyName{
			// Generation
			keys.KeyToggle, keys.KeyReset, keys.KeyEditRate,
			// Panels
			keys.KeyFocus, keys.KeyCopy, keys.KeyTranscript, keys.KeyChunkLog,
			// Other
			keys.KeyHelp, keys.KeyQuit,
		}
		m.groupEnds = []int{3, 7, 9}
	}
}

// SetRunning changes the toggle label between start and stop.
func (m *Menu) SetRunning(running bool) {
	m.running = running
}

// Keydown highlights an option until ClearKeydown.
func (m *Menu) Keydown(name keys.KeyName) {
	m.keyDown = name
}

func (m *Menu) ClearKeydown() {
	m.keyDown = -1
}

// SetSize sets the width of the window. The menu will be centered horizontally within this width.
func (m *Menu) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Menu) label(k keys.KeyName) (string, string) {
	binding := keys.GlobalkeyBindings[k]
	help := binding.Help()
	desc := help.Desc
	if k == keys.KeyToggle {
		if m.running {
			desc = "stop"
		} else {
			desc = "start"
		}
	}
	return help.Key, desc
}

func (m *Menu) String() string {
	var s strings.Builder

	group := 0
	for i, k := range m.options {
		key, desc := m.label(k)

		inActionGroup := m.state == StateDefault && group == 0
		localKeyStyle, localDescStyle := keyStyle, descStyle
		if inActionGroup {
			localKeyStyle = actionGroupStyle
			localDescStyle = actionGroupStyle
		}
		if k == m.keyDown {
			localKeyStyle = menuStyle
			localDescStyle = menuStyle
		}

		s.WriteString(localKeyStyle.Render(key))
		s.WriteString(" ")
		s.WriteString(localDescStyle.Render(desc))

		if i == len(m.options)-1 {
			break
		}
		if group < len(m.groupEnds) && i+1 == m.groupEnds[group] {
			s.WriteString(sepStyle.Render(verticalSeparator))
			group++
		} else {
			s.WriteString(sepStyle.Render(separator))
		}
	}

	centeredMenuText := lipgloss.NewStyle().Width(m.width).AlignHorizontal(lipgloss.Center).Render(s.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, centeredMenuText)
}
