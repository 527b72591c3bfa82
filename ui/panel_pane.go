package ui

import (
	"fmt"
	"time"

	"dualstream/stream"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	panelRateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	panelPausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	panelIdleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	panelStatsStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	panelEmptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

// PanelPane shows one stream panel: a header with the rate and counters, and
// the rendered output below it. The panel name is drawn by the enclosing tab.
type PanelPane struct {
	title    string
	width    int
	height   int
	viewport viewport.Model
	renderer SegmentRenderer

	rateInput textinput.Model
	editing   bool

	// rendered caches the last render so ticks without new output skip
	// re-parsing the buffer.
	rendered    string
	renderedOut string
	renderedW   int
	header      string

	isScrolling bool
}

// NewPanelPane creates a pane titled title that renders in mode.
func NewPanelPane(title string, mode RenderMode, glamourStyle string) *PanelPane {
	input := textinput.New()
	input.Prompt = "tokens/s: "
	input.Placeholder = "e.g. 12.5"
	input.CharLimit = 16

	return &PanelPane{
		title:     title,
		viewport:  viewport.New(0, 0),
		renderer:  SegmentRenderer{Mode: mode, GlamourStyle: glamourStyle},
		rateInput: input,
		renderedW: -1,
	}
}

// SetSize updates the pane dimensions. Two lines are reserved for the header.
func (p *PanelPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.viewport.Width = width
	p.viewport.Height = max(height-2, 1)
	p.rateInput.Width = max(width-len(p.rateInput.Prompt)-1, 1)
	p.renderer.Width = width
	p.renderedW = -1
}

// Refresh re-renders the panel when its output or the width changed. The
// viewport follows the tail unless the user scrolled away.
func (p *PanelPane) Refresh(panel *stream.Panel, now time.Time) {
	if panel == nil {
		return
	}
	p.header = renderPanelHeader(panel, now)

	out := panel.Output()
	if out == p.renderedOut && p.width == p.renderedW {
		return
	}
	p.renderedOut = out
	p.renderedW = p.width

	if out == "" {
		p.rendered = panelEmptyStyle.Render("waiting for output…")
	} else {
		p.rendered = p.renderer.Render(panel.Segments())
	}

	if p.isScrolling {
		yOffset := p.viewport.YOffset
		p.viewport.SetContent(p.rendered)
		p.viewport.SetYOffset(yOffset)
		return
	}
	p.viewport.SetContent(p.rendered)
	p.viewport.GotoBottom()
}

func renderPanelHeader(panel *stream.Panel, now time.Time) string {
	var state string
	switch {
	case panel.Paused():
		state = panelPausedStyle.Render("paused (rate must be > 0)")
	case panel.Running():
		state = panelRateStyle.Render(stream.FormatRate(panel.Rate()) + " tok/s")
	default:
		if _, ok := panel.Delay(); ok {
			state = panelIdleStyle.Render(stream.FormatRate(panel.Rate()) + " tok/s · stopped")
		} else {
			state = panelIdleStyle.Render("paused · stopped")
		}
	}

	st := panel.Stats(now)
	stats := panelStatsStyle.Render(fmt.Sprintf("%d chunks · %d chars · %.1f/s",
		st.Chunks, st.Runes, st.Effective))

	return lipgloss.JoinHorizontal(lipgloss.Top, state, "  ", stats)
}

// ScrollUp scrolls the viewport up
func (p *PanelPane) ScrollUp() {
	p.isScrolling = true
	p.viewport.LineUp(1)
}

// ScrollDown scrolls the viewport down and resumes following at the bottom.
func (p *PanelPane) ScrollDown() {
	p.viewport.LineDown(1)
	if p.viewport.AtBottom() {
		p.isScrolling = false
	}
}

// StartEditing shows the rate input pre-filled with the current rate.
func (p *PanelPane) StartEditing(rate float64) tea.Cmd {
	p.editing = true
	p.rateInput.SetValue(stream.FormatRate(rate))
	p.rateInput.CursorEnd()
	return p.rateInput.Focus()
}

// StopEditing hides the rate input and returns what was typed.
func (p *PanelPane) StopEditing() string {
	p.editing = false
	p.rateInput.Blur()
	value := p.rateInput.Value()
	p.rateInput.Reset()
	return value
}

// Editing reports whether the rate input is open.
func (p *PanelPane) Editing() bool {
	return p.editing
}

// UpdateInput forwards a message to the rate input while it is open.
func (p *PanelPane) UpdateInput(msg tea.Msg) tea.Cmd {
	if !p.editing {
		return nil
	}
	var cmd tea.Cmd
	p.rateInput, cmd = p.rateInput.Update(msg)
	return cmd
}

func (p *PanelPane) String() string {
	if p.width == 0 || p.height == 0 {
		return ""
	}

	top := p.header
	if p.editing {
		top = p.rateInput.View()
	}
	header := lipgloss.NewStyle().MaxWidth(p.width).Render(top)

	return lipgloss.JoinVertical(lipgloss.Left, header, "", p.viewport.View())
}
