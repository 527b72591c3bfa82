package overlay

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ScrollOverlay is a titled, scrollable text overlay used for help and
// segment transcripts.
type ScrollOverlay struct {
	// Whether the overlay has been dismissed
	Dismissed bool
	// Callback function to be called when the overlay is dismissed
	OnDismiss func()
	// Title of the overlay
	title   string
	content string
	// Viewport for scrollable content
	viewport viewport.Model
	width    int
	height   int
	// Help text shown at the bottom
	helpText string
	// anyKeyCloses dismisses on every key that does not scroll.
	anyKeyCloses bool
}

// NewScrollOverlay creates an overlay that only closes on esc or q.
func NewScrollOverlay(title, content string) *ScrollOverlay {
	s := &ScrollOverlay{
		title:    title,
		content:  content,
		viewport: viewport.New(0, 0),
		helpText: "↑/↓ to scroll • esc to close",
	}
	s.viewport.SetContent(content)
	return s
}

// NewTextOverlay creates an overlay that closes on any non-scrolling key.
func NewTextOverlay(content string) *ScrollOverlay {
	s := NewScrollOverlay("", content)
	s.anyKeyCloses = true
	s.helpText = "press any key to close"
	return s
}

// SetContent replaces the overlay text and keeps the scroll position.
func (s *ScrollOverlay) SetContent(content string) {
	s.content = content
	s.viewport.SetContent(content)
}

// SetSize updates the dimensions of the overlay
func (s *ScrollOverlay) SetSize(width, height int) {
	s.width = width
	s.height = height

	// Border and padding take 4 lines, the help line 2 and a title 2 more.
	overhead := 6
	if s.title != "" {
		overhead += 2
	}
	viewportHeight := height - overhead
	viewportWidth := width - 6

	if viewportHeight < 1 {
		viewportHeight = 1
	}
	if viewportWidth < 1 {
		viewportWidth = 1
	}

	// Short content does not need the full height.
	if lines := lipgloss.Height(s.content); lines < viewportHeight {
		viewportHeight = lines
	}

	s.viewport.Width = viewportWidth
	s.viewport.Height = viewportHeight
}

// dismiss marks the overlay closed and runs OnDismiss.
func (s *ScrollOverlay) dismiss() {
	s.Dismissed = true
	if s.OnDismiss != nil {
		s.OnDismiss()
	}
}

// HandleKeyPress processes a key press and updates the state
// Returns true if the overlay should be closed
func (s *ScrollOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "esc", "q", "ctrl+c":
		s.dismiss()
		return true
	case "up", "k":
		s.viewport.LineUp(1)
	case "down", "j":
		s.viewport.LineDown(1)
	case "pgup":
		s.viewport.HalfViewUp()
	case "pgdown":
		s.viewport.HalfViewDown()
	case "home", "g":
		s.viewport.GotoTop()
	case "end", "G":
		s.viewport.GotoBottom()
	default:
		if s.anyKeyCloses {
			s.dismiss()
			return true
		}
	}
	return false
}

// ScrollPercentage returns the current scroll position as a percentage
func (s *ScrollOverlay) ScrollPercentage() float64 {
	return s.viewport.ScrollPercent()
}

// Render renders the overlay
func (s *ScrollOverlay) Render() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		MarginBottom(1)

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		MarginTop(1)

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2)
	if s.width > 0 {
		containerStyle = containerStyle.Width(s.width - 2)
	}

	parts := make([]string, 0, 3)
	if s.title != "" {
		parts = append(parts, titleStyle.Render(s.title))
	}
	parts = append(parts, s.viewport.View(), helpStyle.Render(s.helpText))

	return containerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
