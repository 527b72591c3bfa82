package stream

import (
	"time"

	"dualstream/log"
)

// SourceMode decides whether panels share one cursor or each get their own.
type SourceMode string

const (
	// SharedSource injects one Source into every panel, so panels interleave
	// over the same cursor and the chunk sequence depends on tick order.
	SharedSource SourceMode = "shared"
	// IndependentSource gives each panel its own Source.
	IndependentSource SourceMode = "independent"
)

// Options configures a Controller.
type Options struct {
	// Text is the reference text. Empty means ReferenceText.
	Text string
	Mode SourceMode
	// Names and Rates describe the panels, one entry each.
	Names []string
	Rates []float64
	// Seed makes chunk sizes reproducible. Zero picks a random seed.
	Seed     uint64
	MinChunk int
	MaxChunk int
}

// DefaultOptions is a shared source over ReferenceText with two panels.
func DefaultOptions() Options {
	return Options{
		Text:     ReferenceText,
		Mode:     SharedSource,
		Names:    []string{"Left", "Right"},
		Rates:    []float64{20, 8},
		MinChunk: DefaultMinChunk,
		MaxChunk: DefaultMaxChunk,
	}
}

// Controller owns the sources and panels of a run and is the only place
// session state changes. Its lifecycle is Start, Tick repeatedly, Stop; Reset
// and Toggle are shorthands over the same transitions. It is not safe for
// concurrent use; callers drive it from a single loop.
type Controller struct {
	opts    Options
	sources []*Source
	panels  []*Panel
	running bool
}

func NewController(opts Options) *Controller {
	if opts.Text == "" {
		opts.Text = ReferenceText
	}
	if opts.Mode != IndependentSource {
		opts.Mode = SharedSource
	}
	if len(opts.Names) == 0 {
		opts.Names = DefaultOptions().Names
	}

	c := &Controller{opts: opts}
	newSource := func(i int) *Source {
		var sopts []SourceOption
		if opts.MinChunk != 0 || opts.MaxChunk != 0 {
			sopts = append(sopts, WithChunkBounds(opts.MinChunk, opts.MaxChunk))
		}
		if opts.Seed != 0 {
			sopts = append(sopts, WithSeed(opts.Seed+uint64(i)))
		}
		return NewSource(opts.Text, sopts...)
	}

	var shared *Source
	if opts.Mode == SharedSource {
		shared = newSource(0)
		c.sources = append(c.sources, shared)
	}
	for i, name := range opts.Names {
		src := shared
		if src == nil {
			src = newSource(i)
			c.sources = append(c.sources, src)
		}
		var rate float64
		if i < len(opts.Rates) {
			rate = opts.Rates[i]
		}
		c.panels = append(c.panels, NewPanel(name, src, rate))
	}
	return c
}

func (c *Controller) Mode() SourceMode {
	return c.opts.Mode
}

func (c *Controller) Running() bool {
	return c.running
}

func (c *Controller) Panels() []*Panel {
	return c.panels
}

// Panel returns the panel at i, or nil when out of range.
func (c *Controller) Panel(i int) *Panel {
	if i < 0 || i >= len(c.panels) {
		return nil
	}
	return c.panels[i]
}

// Sources lists the distinct sources, one when shared.
func (c *Controller) Sources() []*Source {
	return c.sources
}

// Start begins a session: cursors go back to 0 and every buffer is cleared.
func (c *Controller) Start(now time.Time) {
	c.resetSources()
	for _, p := range c.panels {
		p.Start(now)
	}
	c.running = true
	log.InfoLog.Printf("generation started (%s source, %d panels)", c.opts.Mode, len(c.panels))
}

// Stop ends the session and resets the cursors. Panel output stays readable.
func (c *Controller) Stop() {
	for _, p := range c.panels {
		p.Stop()
	}
	c.resetSources()
	c.running = false
	log.InfoLog.Printf("generation stopped")
}

// Toggle flips between Start and Stop and reports whether it is now running.
func (c *Controller) Toggle(now time.Time) bool {
	if c.running {
		c.Stop()
	} else {
		c.Start(now)
	}
	return c.running
}

// Reset clears output and cursors. A running session restarts in place.
func (c *Controller) Reset(now time.Time) {
	if c.running {
		c.Start(now)
		return
	}
	c.resetSources()
	for _, p := range c.panels {
		p.Clear()
	}
}

// SetRate changes the rate of panel i. It reports whether the panel was
// restarted, in which case pending ticks for it are stale.
func (c *Controller) SetRate(i int, tps float64, now time.Time) bool {
	p := c.Panel(i)
	if p == nil {
		return false
	}
	changed := p.SetRate(tps, now)
	if changed {
		log.InfoLog.Printf("panel %s rate set to %s", p.Name(), FormatRate(tps))
	}
	return changed && c.running
}

// Tick feeds one timer tick to panel i.
func (c *Controller) Tick(i int, epoch uint64, now time.Time) (string, bool) {
	p := c.Panel(i)
	if p == nil || !c.running {
		return "", false
	}
	chunk, ok := p.Tick(epoch, now)
	if ok {
		log.LogChunk(p.Name(), chunk)
	}
	return chunk, ok
}

func (c *Controller) resetSources() {
	for _, s := range c.sources {
		s.Reset()
	}
}
