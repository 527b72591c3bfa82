package overlay

import (
	"bytes"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/ansi"
	"github.com/muesli/reflow/truncate"
)

// whitespace fills the gaps PlaceOverlay opens in short background lines.
type whitespace struct {
	chars string
}

// render fills width cells with the whitespace characters.
func (w whitespace) render(width int) string {
	if width <= 0 {
		return ""
	}
	if w.chars == "" {
		w.chars = " "
	}

	r := []rune(w.chars)
	j := 0
	var b strings.Builder
	for i := 0; i < width; {
		rw := runewidth.RuneWidth(r[j])
		if rw == 0 || i+rw > width {
			break
		}
		b.WriteRune(r[j])
		i += rw
		j++
		if j >= len(r) {
			j = 0
		}
	}

	// Pad with spaces when a wide character did not fit.
	if short := width - ansi.PrintableRuneWidth(b.String()); short > 0 {
		b.WriteString(strings.Repeat(" ", short))
	}

	return b.String()
}

// WhitespaceOption sets a styling rule for rendering whitespace.
type WhitespaceOption func(*whitespace)

// WithWhitespaceChars sets the characters used to fill gaps.
func WithWhitespaceChars(s string) WhitespaceOption {
	return func(w *whitespace) {
		w.chars = s
	}
}

// PlaceOverlay places fg on top of bg. With center set, x and y are ignored
// and fg is centred on bg. Coordinates are clamped so fg stays inside bg.
func PlaceOverlay(x, y int, fg, bg string, center bool, opts ...WhitespaceOption) string {
	fgLines, fgWidth := getLines(fg)
	bgLines, bgWidth := getLines(bg)
	bgHeight := len(bgLines)
	fgHeight := len(fgLines)

	if fgWidth >= bgWidth && fgHeight >= bgHeight {
		return fg
	}

	if center {
		x = (bgWidth - fgWidth) / 2
		y = (bgHeight - fgHeight) / 2
	}
	x = clamp(x, 0, bgWidth-fgWidth)
	y = clamp(y, 0, bgHeight-fgHeight)

	ws := &whitespace{}
	for _, opt := range opts {
		opt(ws)
	}

	var b strings.Builder
	for i, bgLine := range bgLines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i < y || i >= y+fgHeight {
			b.WriteString(bgLine)
			continue
		}

		pos := 0
		if x > 0 {
			left := truncate.String(bgLine, uint(x))
			pos = ansi.PrintableRuneWidth(left)
			b.WriteString(left)
			if pos < x {
				b.WriteString(ws.render(x - pos))
				pos = x
			}
		}

		fgLine := fgLines[i-y]
		b.WriteString(fgLine)
		pos += ansi.PrintableRuneWidth(fgLine)

		right := cutLeft(bgLine, pos)
		lineWidth := ansi.PrintableRuneWidth(bgLine)
		rightWidth := ansi.PrintableRuneWidth(right)
		if rightWidth <= lineWidth-pos {
			b.WriteString(ws.render(lineWidth - rightWidth - pos))
		}
		b.WriteString(right)
	}

	return b.String()
}

// cutLeft cuts printable characters from the left, keeping the escape
// sequences active at the cut so the remainder keeps its styling.
func cutLeft(s string, cutWidth int) string {
	var (
		pos     int
		isAnsi  bool
		started bool
		ab      bytes.Buffer
		b       bytes.Buffer
	)
	for _, c := range s {
		if c == ansi.Marker || isAnsi {
			isAnsi = true
			if started {
				b.WriteRune(c)
			} else {
				ab.WriteRune(c)
			}
			if ansi.IsTerminator(c) {
				isAnsi = false
				if bytes.HasSuffix(ab.Bytes(), []byte("[0m")) {
					ab.Reset()
				}
			}
			continue
		}

		w := runewidth.RuneWidth(c)
		switch {
		case started:
			b.WriteRune(c)
		case pos >= cutWidth:
			started = true
			b.Write(ab.Bytes())
			b.WriteRune(c)
		case pos+w > cutWidth:
			// A wide character split by the cut leaves blank cells behind.
			started = true
			b.Write(ab.Bytes())
			b.WriteString(strings.Repeat(" ", pos+w-cutWidth))
		}
		pos += w
	}
	return b.String()
}

func clamp(v, lower, upper int) int {
	if upper < lower {
		return lower
	}
	return min(max(v, lower), upper)
}

// getLines splits a string into lines and reports the widest line.
func getLines(s string) (lines []string, widest int) {
	lines = strings.Split(s, "\n")
	for _, l := range lines {
		if w := ansi.PrintableRuneWidth(l); widest < w {
			widest = w
		}
	}
	return lines, widest
}
