package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dualstream/log"
)

type recordingLogger struct {
	panels []string
	chunks []string
}

func (r *recordingLogger) LogChunk(panel, chunk string) {
	r.panels = append(r.panels, panel)
	r.chunks = append(r.chunks, chunk)
}

func newTestController(mode SourceMode) *Controller {
	c := NewController(Options{
		Text:  "abcdefghijklmnopqrstuvwxyz",
		Mode:  mode,
		Names: []string{"Left", "Right"},
		Rates: []float64{10, 10},
	})
	for _, s := range c.Sources() {
		scripted(s, 2)
	}
	return c
}

func TestControllerSharedSourceInterleaves(t *testing.T) {
	c := newTestController(SharedSource)
	require.Len(t, c.Sources(), 1)
	assert.Same(t, c.Panel(0).Source(), c.Panel(1).Source())

	start := time.Unix(0, 0)
	c.Start(start)
	at := start.Add(100 * time.Millisecond)

	left, ok := c.Tick(0, c.Panel(0).Epoch(), at)
	require.True(t, ok)
	right, ok := c.Tick(1, c.Panel(1).Epoch(), at)
	require.True(t, ok)

	assert.Equal(t, "ab", left)
	assert.Equal(t, "cd", right)
}

func TestControllerIndependentSources(t *testing.T) {
	c := newTestController(IndependentSource)
	require.Len(t, c.Sources(), 2)
	assert.NotSame(t, c.Panel(0).Source(), c.Panel(1).Source())

	start := time.Unix(0, 0)
	c.Start(start)
	at := start.Add(100 * time.Millisecond)

	left, _ := c.Tick(0, c.Panel(0).Epoch(), at)
	right, _ := c.Tick(1, c.Panel(1).Epoch(), at)
	assert.Equal(t, "ab", left)
	assert.Equal(t, "ab", right)
}

func TestControllerToggleResetsBufferAndCursor(t *testing.T) {
	c := newTestController(SharedSource)
	start := time.Unix(0, 0)

	require.True(t, c.Toggle(start))
	for i := 1; i <= 3; i++ {
		c.Tick(0, c.Panel(0).Epoch(), start.Add(time.Duration(i)*100*time.Millisecond))
	}
	require.NotEmpty(t, c.Panel(0).Output())
	require.NotZero(t, c.Sources()[0].Cursor())

	require.False(t, c.Toggle(start.Add(time.Second)))
	assert.Equal(t, 0, c.Sources()[0].Cursor())

	require.True(t, c.Toggle(start.Add(2*time.Second)))
	assert.Empty(t, c.Panel(0).Output())
	assert.Empty(t, c.Panel(1).Output())
	assert.Equal(t, 0, c.Sources()[0].Cursor())
}

func TestControllerTickWhenStopped(t *testing.T) {
	c := newTestController(SharedSource)
	_, ok := c.Tick(0, c.Panel(0).Epoch(), time.Unix(10, 0))
	assert.False(t, ok)

	_, ok = c.Tick(5, 0, time.Unix(10, 0))
	assert.False(t, ok)
	assert.Nil(t, c.Panel(5))
}

func TestControllerSetRate(t *testing.T) {
	c := newTestController(SharedSource)
	now := time.Unix(0, 0)

	assert.False(t, c.SetRate(0, 3, now), "stopped controllers have nothing to restart")
	assert.Equal(t, 3.0, c.Panel(0).Rate())

	c.Start(now)
	assert.True(t, c.SetRate(0, 6, now))
	assert.False(t, c.SetRate(0, 6, now))
	assert.False(t, c.SetRate(9, 6, now))
}

func TestControllerReset(t *testing.T) {
	c := newTestController(SharedSource)
	start := time.Unix(0, 0)
	c.Start(start)
	c.Tick(0, c.Panel(0).Epoch(), start.Add(time.Second))
	epoch := c.Panel(0).Epoch()

	c.Reset(start.Add(2 * time.Second))
	assert.True(t, c.Running())
	assert.Empty(t, c.Panel(0).Output())
	assert.NotEqual(t, epoch, c.Panel(0).Epoch())
	assert.Equal(t, 0, c.Sources()[0].Cursor())

	c.Stop()
	c.Reset(start.Add(3 * time.Second))
	assert.False(t, c.Running())
}

func TestControllerLogsChunks(t *testing.T) {
	rec := &recordingLogger{}
	log.SetChunkLogger(rec)
	defer log.SetChunkLogger(nil)

	c := newTestController(SharedSource)
	start := time.Unix(0, 0)
	c.Start(start)
	c.Tick(1, c.Panel(1).Epoch(), start.Add(time.Second))

	assert.Equal(t, []string{"Right"}, rec.panels)
	assert.Equal(t, []string{"ab"}, rec.chunks)
}

func TestNewControllerDefaults(t *testing.T) {
	c := NewController(Options{Mode: "bogus"})
	assert.Equal(t, SharedSource, c.Mode())
	require.Len(t, c.Panels(), 2)
	assert.Equal(t, "Left", c.Panel(0).Name())
	assert.Equal(t, len([]rune(ReferenceText)), c.Sources()[0].Len())
	assert.Zero(t, c.Panel(0).Rate())
}
