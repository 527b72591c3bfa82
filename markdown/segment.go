package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind tags a Segment.
type Kind int

const (
	PlainText Kind = iota
	CodeBlock
)

func (k Kind) String() string {
	switch k {
	case PlainText:
		return "plain"
	case CodeBlock:
		return "code"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Segment is a run of plain text or a fenced code block.
type Segment struct {
	Kind Kind `json:"kind"`
	// Language is the tag after the opening fence, if any.
	Language string `json:"language,omitempty"`
	// Content is the text to render. For code blocks it excludes the fences.
	Content string `json:"content"`
	// Raw is the exact input text the segment was cut from.
	Raw string `json:"raw"`
}

// fenceRe matches a closed fence. The newline after the optional language tag
// is required, and content is matched lazily up to the first closing marker.
var fenceRe = regexp.MustCompile("```(\\w+)?\\n([\\s\\S]*?)```")

// Split cuts text into plain and code segments in input order. Fences without
// a closing marker stay plain text, and no empty plain segments are emitted.
func Split(text string) []Segment {
	var segments []Segment
	last := 0
	for _, m := range fenceRe.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			segments = append(segments, plain(text[last:m[0]]))
		}
		seg := Segment{
			Kind:    CodeBlock,
			Content: text[m[4]:m[5]],
			Raw:     text[m[0]:m[1]],
		}
		if m[2] >= 0 {
			seg.Language = text[m[2]:m[3]]
		}
		segments = append(segments, seg)
		last = m[1]
	}
	if last < len(text) {
		segments = append(segments, plain(text[last:]))
	}
	return segments
}

func plain(s string) Segment {
	return Segment{Kind: PlainText, Content: s, Raw: s}
}

// Join rebuilds the input of Split from the segments' raw text.
func Join(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Raw)
	}
	return b.String()
}

// CodeBlocks keeps only the code segments.
func CodeBlocks(segments []Segment) []Segment {
	var out []Segment
	for _, s := range segments {
		if s.Kind == CodeBlock {
			out = append(out, s)
		}
	}
	return out
}

// PlainContent concatenates the content of the plain segments.
func PlainContent(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		if s.Kind == PlainText {
			b.WriteString(s.Content)
		}
	}
	return b.String()
}
