package overlay

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestScrollOverlayClosesOnEsc(t *testing.T) {
	closed := false
	s := NewScrollOverlay("Segments", "line")
	s.OnDismiss = func() { closed = true }
	s.SetSize(40, 20)

	assert.False(t, s.HandleKeyPress(keyMsg("x")), "plain keys do not close a scroll overlay")
	assert.False(t, s.Dismissed)

	assert.True(t, s.HandleKeyPress(keyMsg("esc")))
	assert.True(t, s.Dismissed)
	assert.True(t, closed)
}

func TestTextOverlayClosesOnAnyKey(t *testing.T) {
	s := NewTextOverlay("help text")
	s.SetSize(40, 20)

	assert.False(t, s.HandleKeyPress(keyMsg("down")))
	assert.True(t, s.HandleKeyPress(keyMsg("x")))
	assert.True(t, s.Dismissed)
}

func TestScrollOverlayScrolls(t *testing.T) {
	lines := make([]string, 50)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	s := NewScrollOverlay("Long", strings.Join(lines, "\n"))
	s.SetSize(40, 20)

	assert.Zero(t, s.ScrollPercentage())
	s.HandleKeyPress(keyMsg("G"))
	assert.Equal(t, 1.0, s.ScrollPercentage())

	out := s.Render()
	assert.Contains(t, out, "Long")
	assert.Contains(t, out, "line 49")
	assert.NotContains(t, out, "line 0")
}
