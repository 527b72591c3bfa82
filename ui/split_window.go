package ui

import (
	"time"

	"dualstream/stream"

	"github.com/charmbracelet/lipgloss"
)

func tabBorderWithBottom(left, middle, right string) lipgloss.Border {
	border := lipgloss.RoundedBorder()
	border.BottomLeft = left
	border.Bottom = middle
	border.BottomRight = right
	return border
}

var (
	inactiveTabBorder = tabBorderWithBottom("┴", "─", "┴")
	activeTabBorder   = tabBorderWithBottom("┘", " ", "└")
	highlightColor    = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	dimColor          = lipgloss.AdaptiveColor{Light: "#C2C2C2", Dark: "#4A4A4A"}
	inactiveTabStyle  = lipgloss.NewStyle().
				Border(inactiveTabBorder, true).
				BorderForeground(dimColor).
				AlignHorizontal(lipgloss.Center)
	activeTabStyle = inactiveTabStyle.
			Border(activeTabBorder, true).
			BorderForeground(highlightColor).
			AlignHorizontal(lipgloss.Center)
	windowStyle = lipgloss.NewStyle().
			BorderForeground(dimColor).
			Border(lipgloss.NormalBorder(), false, true, true, true)
	activeWindowStyle = windowStyle.BorderForeground(highlightColor)
	logWindowStyle    = lipgloss.NewStyle().
				BorderForeground(dimColor).
				Border(lipgloss.RoundedBorder())
)

// SplitWindow lays the panel panes out side by side, each under its own tab,
// with an optional chunk log underneath. The focused panel's tab and border
// are highlighted.
type SplitWindow struct {
	panes   []*PanelPane
	logPane *LogPane

	focused int
	showLog bool

	height int
	width  int
}

func NewSplitWindow(panes []*PanelPane, logPane *LogPane) *SplitWindow {
	return &SplitWindow{
		panes:   panes,
		logPane: logPane,
	}
}

func (w *SplitWindow) tabHeight() int {
	return activeTabStyle.GetVerticalFrameSize() + 1
}

// logHeight is the outer height of the log window, zero while hidden.
func (w *SplitWindow) logHeight() int {
	if !w.showLog || w.logPane == nil {
		return 0
	}
	return max(w.height/3, logWindowStyle.GetVerticalFrameSize()+1)
}

func (w *SplitWindow) columnWidth(i int) int {
	n := len(w.panes)
	colWidth := w.width / n
	if i == n-1 {
		return w.width - colWidth*(n-1)
	}
	return colWidth
}

func (w *SplitWindow) SetSize(width, height int) {
	w.width = width
	w.height = height
	if len(w.panes) == 0 {
		return
	}

	contentHeight := height - w.tabHeight() - windowStyle.GetVerticalFrameSize() - w.logHeight()
	for i, p := range w.panes {
		p.SetSize(w.columnWidth(i)-windowStyle.GetHorizontalFrameSize(), max(contentHeight, 1))
	}

	if w.logPane != nil {
		w.logPane.SetSize(
			max(width-logWindowStyle.GetHorizontalFrameSize(), 1),
			max(w.logHeight()-logWindowStyle.GetVerticalFrameSize(), 1))
	}
}

// Focus cycles focus to the next panel.
func (w *SplitWindow) Focus() {
	w.cycleFocus(1)
}

// FocusReverse cycles focus to the previous panel.
func (w *SplitWindow) FocusReverse() {
	w.cycleFocus(-1)
}

func (w *SplitWindow) cycleFocus(direction int) {
	n := len(w.panes)
	if n == 0 {
		return
	}
	w.focused = (w.focused + direction + n) % n
}

// SetFocus focuses the panel at index i, ignoring indexes out of range.
func (w *SplitWindow) SetFocus(i int) {
	if i >= 0 && i < len(w.panes) {
		w.focused = i
	}
}

func (w *SplitWindow) Focused() int {
	return w.focused
}

// FocusedPane returns the pane that receives scroll and edit keys.
func (w *SplitWindow) FocusedPane() *PanelPane {
	if len(w.panes) == 0 {
		return nil
	}
	return w.panes[w.focused]
}

// ToggleLog shows or hides the chunk log and re-lays out the panes.
func (w *SplitWindow) ToggleLog() {
	w.showLog = !w.showLog
	w.SetSize(w.width, w.height)
}

func (w *SplitWindow) ShowingLog() bool {
	return w.showLog
}

// Refresh re-renders every pane from the controller's panels. Panes and
// panels are matched by index.
func (w *SplitWindow) Refresh(panels []*stream.Panel, now time.Time) {
	for i, p := range w.panes {
		if i < len(panels) {
			p.Refresh(panels[i], now)
		}
	}
}

func (w *SplitWindow) ScrollUp() {
	if p := w.FocusedPane(); p != nil {
		p.ScrollUp()
	}
}

func (w *SplitWindow) ScrollDown() {
	if p := w.FocusedPane(); p != nil {
		p.ScrollDown()
	}
}

func (w *SplitWindow) String() string {
	if w.width == 0 || w.height == 0 || len(w.panes) == 0 {
		return ""
	}

	contentHeight := w.height - w.tabHeight() - windowStyle.GetVerticalFrameSize() - w.logHeight()
	columns := make([]string, 0, len(w.panes))
	for i, p := range w.panes {
		width := w.columnWidth(i)
		isFirst, isLast, isActive := i == 0, i == len(w.panes)-1, i == w.focused

		tabStyle, winStyle := inactiveTabStyle, windowStyle
		if isActive {
			tabStyle, winStyle = activeTabStyle, activeWindowStyle
		}
		border, _, _, _, _ := tabStyle.GetBorder()
		if isFirst && isActive {
			border.BottomLeft = "│"
		} else if isFirst {
			border.BottomLeft = "├"
		}
		if isLast && isActive {
			border.BottomRight = "│"
		} else if isLast {
			border.BottomRight = "┤"
		}
		tab := tabStyle.Border(border).Width(width - tabStyle.GetHorizontalFrameSize()).Render(p.title)

		innerWidth := width - winStyle.GetHorizontalFrameSize()
		window := winStyle.Render(
			lipgloss.Place(innerWidth, max(contentHeight, 1), lipgloss.Left, lipgloss.Top, p.String()))

		columns = append(columns, lipgloss.JoinVertical(lipgloss.Left, tab, window))
	}

	view := lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	if h := w.logHeight(); h > 0 {
		logView := logWindowStyle.Render(lipgloss.Place(
			w.width-logWindowStyle.GetHorizontalFrameSize(),
			h-logWindowStyle.GetVerticalFrameSize(),
			lipgloss.Left, lipgloss.Top, w.logPane.String()))
		view = lipgloss.JoinVertical(lipgloss.Left, view, logView)
	}
	return view
}
