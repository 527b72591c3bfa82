package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogPaneKeepsNewestEntries(t *testing.T) {
	p := NewLogPane(3)
	for _, chunk := range []string{"a", "b", "c", "d", "e"} {
		p.AddLog("Left", chunk)
	}

	entries := p.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"c", "d", "e"}, []string{entries[0].Chunk, entries[1].Chunk, entries[2].Chunk})
	assert.Equal(t, 2, p.Dropped())

	p.Clear()
	assert.Empty(t, p.Entries())
	assert.Zero(t, p.Dropped())
}

func TestLogPaneDefaultLimit(t *testing.T) {
	p := NewLogPane(0)
	for i := 0; i < DefaultLogLimit+5; i++ {
		p.AddLog("Right", "x")
	}
	assert.Len(t, p.Entries(), DefaultLogLimit)
}

func TestLogPaneRendersQuotedChunks(t *testing.T) {
	p := NewLogPane(10)
	p.SetSize(80, 10)
	assert.Contains(t, p.String(), "No chunks emitted yet")

	p.AddLog("Left", "a\nb")
	p.AddLog("Right", "c ")

	out := p.String()
	assert.Contains(t, out, `[Left] "a\nb"`)
	assert.Contains(t, out, `[Right] "c "`)
}

func TestLogPaneGroupByPanel(t *testing.T) {
	p := NewLogPane(10)
	p.SetSize(80, 10)
	p.AddLog("Right", "1")
	p.AddLog("Left", "2")
	p.AddLog("Right", "3")

	p.ToggleGroupByPanel()
	out := p.String()
	assert.Contains(t, out, "grouped by panel")
	assert.Less(t, strings.Index(out, `"2"`), strings.Index(out, `"1"`))
	assert.Less(t, strings.Index(out, `"1"`), strings.Index(out, `"3"`))
}
