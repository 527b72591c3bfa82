package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF0000"})
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#51BD73"})
)

// ErrBox is a one line status area under the menu. It shows errors in red
// and confirmations in green.
type ErrBox struct {
	height, width int
	err           error
	info          string
}

func NewErrBox() *ErrBox {
	return &ErrBox{}
}

func (e *ErrBox) SetError(err error) {
	e.err = err
	e.info = ""
}

// SetInfo shows a non-error status message.
func (e *ErrBox) SetInfo(msg string) {
	e.err = nil
	e.info = msg
}

func (e *ErrBox) Clear() {
	e.err = nil
	e.info = ""
}

func (e *ErrBox) SetSize(width, height int) {
	e.width = width
	e.height = height
}

func (e *ErrBox) String() string {
	style := errStyle
	var text string
	switch {
	case e.err != nil:
		text = e.err.Error()
	case e.info != "":
		text = e.info
		style = infoStyle
	}

	if text != "" {
		text = strings.Join(strings.Split(text, "\n"), "//")
		if e.width-3 >= 0 && runewidth.StringWidth(text) > e.width-3 {
			text = runewidth.Truncate(text, e.width-3, "...")
		}
	}
	return lipgloss.Place(e.width, e.height, lipgloss.Center, lipgloss.Top, style.Render(text))
}
