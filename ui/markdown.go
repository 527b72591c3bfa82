package ui

import (
	"fmt"
	"strings"
	"sync"

	"dualstream/log"
	"dualstream/markdown"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// RenderMode picks how plain segments are drawn.
type RenderMode string

const (
	// RenderPlain wraps plain text as is.
	RenderPlain RenderMode = "plain"
	// RenderGlamour renders plain text through glamour.
	RenderGlamour RenderMode = "glamour"
)

var (
	codeBlockStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	codeLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
	plainTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// renderers caches glamour renderers by style and width. Building one parses
// the whole style sheet, which is too slow to do on every tick.
var (
	renderersMu sync.Mutex
	renderers   = map[string]*glamour.TermRenderer{}
)

func glamourRenderer(style string, width int) (*glamour.TermRenderer, error) {
	cacheKey := fmt.Sprintf("%s/%d", style, width)

	renderersMu.Lock()
	defer renderersMu.Unlock()
	if r, ok := renderers[cacheKey]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, err
	}
	renderers[cacheKey] = r
	return r, nil
}

// RenderMarkdown renders markdown content for terminal display
// Returns the rendered string and any error that occurred
func RenderMarkdown(content string, width int, style string) (string, error) {
	r, err := glamourRenderer(style, width)
	if err != nil {
		log.ErrorLog.Printf("Failed to create markdown renderer: %v", err)
		return content, err
	}

	rendered, err := r.Render(content)
	if err != nil {
		log.ErrorLog.Printf("Failed to render markdown: %v", err)
		return content, err
	}

	// Remove trailing newlines that glamour adds
	return strings.TrimRight(rendered, "\n"), nil
}

// SegmentRenderer draws segment sequences for one panel width.
type SegmentRenderer struct {
	Width int
	Mode  RenderMode
	// GlamourStyle is only read in RenderGlamour mode.
	GlamourStyle string
}

// Render maps plain segments to wrapped text and code segments to boxed,
// highlighted blocks, top to bottom in segment order.
func (r SegmentRenderer) Render(segments []markdown.Segment) string {
	width := r.Width
	if width < 10 {
		width = 10
	}

	parts := make([]string, 0, len(segments))
	for i, seg := range segments {
		switch seg.Kind {
		case markdown.CodeBlock:
			parts = append(parts, renderCodeBlock(seg, width))
		default:
			text := seg.Content
			// A fence owns its own line, so the newlines touching it would only
			// add blank rows around the box.
			if i > 0 && segments[i-1].Kind == markdown.CodeBlock {
				text = strings.TrimPrefix(text, "\n")
			}
			if i+1 < len(segments) && segments[i+1].Kind == markdown.CodeBlock {
				text = strings.TrimSuffix(text, "\n")
			}
			if text == "" {
				continue
			}
			parts = append(parts, r.renderPlain(text, width))
		}
	}
	return strings.Join(parts, "\n")
}

func (r SegmentRenderer) renderPlain(text string, width int) string {
	if r.Mode == RenderGlamour {
		style := r.GlamourStyle
		if style == "" {
			style = "dark"
		}
		if rendered, err := RenderMarkdown(text, width, style); err == nil {
			return rendered
		}
	}
	return plainTextStyle.Render(wrap.String(wordwrap.String(text, width), width))
}

func renderCodeBlock(seg markdown.Segment, width int) string {
	inner := width - codeBlockStyle.GetHorizontalFrameSize()
	if inner < 1 {
		inner = 1
	}
	body := HighlightCode(strings.TrimSuffix(seg.Content, "\n"), seg.Language)
	body = wrap.String(body, inner)

	label := seg.Language
	if label == "" {
		label = "code"
	}
	block := lipgloss.JoinVertical(lipgloss.Left, codeLabelStyle.Render(label), body)
	return codeBlockStyle.Width(inner + codeBlockStyle.GetHorizontalPadding()).Render(block)
}

// RenderSegments is SegmentRenderer{Width: width, Mode: mode}.Render.
func RenderSegments(segments []markdown.Segment, width int, mode RenderMode) string {
	return SegmentRenderer{Width: width, Mode: mode}.Render(segments)
}
