package ui

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// DefaultLogLimit is used when NewLogPane is given a limit below one.
const DefaultLogLimit = 200

// ChunkLog represents one chunk appended to a panel
type ChunkLog struct {
	Timestamp time.Time
	Panel     string
	Chunk     string
}

// LogPane displays the most recent chunks emitted by every panel
type LogPane struct {
	logs         []ChunkLog
	limit        int
	dropped      int
	viewport     viewport.Model
	width        int
	height       int
	mu           sync.RWMutex
	isScrolling  bool // Track if user is manually scrolling
	groupByPanel bool
}

// NewLogPane creates a new log pane that keeps at most limit entries
func NewLogPane(limit int) *LogPane {
	if limit < 1 {
		limit = DefaultLogLimit
	}
	return &LogPane{
		logs:     make([]ChunkLog, 0, limit),
		limit:    limit,
		viewport: viewport.New(0, 0),
	}
}

// AddLog adds a new chunk entry, evicting the oldest one past the limit
func (p *LogPane) AddLog(panel, chunk string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.logs = append(p.logs, ChunkLog{
		Timestamp: time.Now(),
		Panel:     panel,
		Chunk:     chunk,
	})
	if over := len(p.logs) - p.limit; over > 0 {
		p.logs = append(p.logs[:0], p.logs[over:]...)
		p.dropped += over
	}

	// Only update viewport if not scrolling
	if !p.isScrolling {
		p.updateViewport()
	}
}

// Entries returns a copy of the retained entries, oldest first.
func (p *LogPane) Entries() []ChunkLog {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]ChunkLog, len(p.logs))
	copy(out, p.logs)
	return out
}

// Dropped reports how many entries were evicted since the last Clear.
func (p *LogPane) Dropped() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dropped
}

// SetSize updates the size of the log pane
func (p *LogPane) SetSize(width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.width = width
	p.height = height
	p.viewport.Width = width
	p.viewport.Height = height
	p.updateViewport()
}

// ScrollUp scrolls the viewport up
func (p *LogPane) ScrollUp() {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Enable scroll mode when user scrolls
	p.isScrolling = true
	p.updateViewportNoScroll()
	p.viewport.LineUp(3)
}

// ScrollDown scrolls the viewport down
func (p *LogPane) ScrollDown() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.isScrolling = true
	p.updateViewportNoScroll()
	p.viewport.LineDown(3)

	// If we're at the bottom, disable scroll mode
	if p.viewport.AtBottom() {
		p.isScrolling = false
	}
}

// updateViewport updates the viewport content and scrolls to bottom
func (p *LogPane) updateViewport() {
	p.viewport.SetContent(p.renderLogs())
	p.viewport.GotoBottom()
}

// updateViewportNoScroll updates the viewport content without changing scroll position
func (p *LogPane) updateViewportNoScroll() {
	yOffset := p.viewport.YOffset
	p.viewport.SetContent(p.renderLogs())
	p.viewport.SetYOffset(yOffset)
}

var (
	logTimestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	logPanelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("magenta"))
	logChunkStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("white"))
	logNoticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
)

// renderLogs renders all logs as a string
func (p *LogPane) renderLogs() string {
	if len(p.logs) == 0 {
		return logTimestampStyle.Render("No chunks emitted yet")
	}

	var builder strings.Builder
	if p.dropped > 0 || p.groupByPanel {
		notice := fmt.Sprintf("[showing last %d chunks", len(p.logs))
		if p.groupByPanel {
			notice += ", grouped by panel"
		}
		builder.WriteString(logNoticeStyle.Render(notice + "]"))
		builder.WriteString("\n")
	}

	logsToRender := make([]ChunkLog, len(p.logs))
	copy(logsToRender, p.logs)
	if p.groupByPanel {
		sort.SliceStable(logsToRender, func(i, j int) bool {
			return logsToRender[i].Panel < logsToRender[j].Panel
		})
	}

	for i, entry := range logsToRender {
		// Chunks are quoted so newlines and spaces stay visible.
		builder.WriteString(fmt.Sprintf("%s [%s] %s",
			logTimestampStyle.Render(entry.Timestamp.Format("15:04:05.000")),
			logPanelStyle.Render(entry.Panel),
			logChunkStyle.Render(fmt.Sprintf("%q", entry.Chunk)),
		))
		if i < len(logsToRender)-1 {
			builder.WriteString("\n")
		}
	}

	return builder.String()
}

// Clear clears all logs
func (p *LogPane) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logs = p.logs[:0]
	p.dropped = 0
	p.updateViewport()
}

// String returns the string representation of the log pane
func (p *LogPane) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isScrolling {
		p.updateViewportNoScroll()
	} else {
		p.updateViewport()
	}

	return p.viewport.View()
}

// ResetScroll resets the scroll mode
func (p *LogPane) ResetScroll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.isScrolling = false
	p.updateViewport()
}

// ToggleGroupByPanel toggles ordering entries by panel name
func (p *LogPane) ToggleGroupByPanel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.groupByPanel = !p.groupByPanel
	p.updateViewport()
}
