package stream

import (
	"strings"
	"time"
	"unicode/utf8"

	"dualstream/markdown"
)

// Panel is one simulated stream: a rate, a pacer and the output accumulated
// during the current session.
type Panel struct {
	name   string
	source *Source
	rate   float64
	pacer  Pacer

	out strings.Builder
	// epoch changes every time the schedule is restarted. Ticks carry the
	// epoch they were scheduled under and are dropped if it moved on.
	epoch   uint64
	running bool

	chunks    int
	started   time.Time
	lastChunk time.Time
}

// Stats summarizes a panel's current session.
type Stats struct {
	Chunks  int
	Runes   int
	Elapsed time.Duration
	// Effective is the accepted chunk rate per second.
	Effective float64
}

func NewPanel(name string, source *Source, rate float64) *Panel {
	return &Panel{
		name:   name,
		source: source,
		rate:   rate,
	}
}

func (p *Panel) Name() string {
	return p.name
}

func (p *Panel) Rate() float64 {
	return p.rate
}

func (p *Panel) Source() *Source {
	return p.source
}

// Delay is the tick period for the panel's rate. It reports false while the
// rate is invalid.
func (p *Panel) Delay() (time.Duration, bool) {
	return DelayFor(p.rate)
}

func (p *Panel) Running() bool {
	return p.running
}

// Paused reports whether the session is on but the rate keeps the panel idle.
func (p *Panel) Paused() bool {
	_, ok := p.Delay()
	return p.running && !ok
}

func (p *Panel) Epoch() uint64 {
	return p.epoch
}

// Scheduled reports whether a tick scheduled under epoch should still run.
func (p *Panel) Scheduled(epoch uint64) bool {
	_, ok := p.Delay()
	return p.running && ok && epoch == p.epoch
}

// Start begins a new session with an empty buffer.
func (p *Panel) Start(now time.Time) {
	p.running = true
	p.restart(now)
}

// Stop ends the session. The output stays readable until the next Start.
func (p *Panel) Stop() {
	p.running = false
	p.epoch++
}

// Clear empties the output buffer and counters.
func (p *Panel) Clear() {
	p.out.Reset()
	p.chunks = 0
}

// SetRate changes the rate. While running, a changed rate restarts the panel
// with a fresh buffer. It reports whether the rate changed.
func (p *Panel) SetRate(tps float64, now time.Time) bool {
	if tps == p.rate {
		return false
	}
	p.rate = tps
	if p.running {
		p.restart(now)
	}
	return true
}

func (p *Panel) restart(now time.Time) {
	p.epoch++
	p.Clear()
	delay, _ := p.Delay()
	p.pacer = NewPacer(delay, now)
	p.started = now
	p.lastChunk = now
}

// Tick appends the next chunk if the tick belongs to the current epoch and the
// pacer accepts it.
func (p *Panel) Tick(epoch uint64, now time.Time) (string, bool) {
	if !p.Scheduled(epoch) {
		return "", false
	}
	if !p.pacer.Allow(now) {
		return "", false
	}
	chunk := p.source.NextChunk()
	p.out.WriteString(chunk)
	p.chunks++
	p.lastChunk = now
	return chunk, true
}

// Output is everything appended during the current session.
func (p *Panel) Output() string {
	return p.out.String()
}

// Segments splits the output for rendering.
func (p *Panel) Segments() []markdown.Segment {
	return markdown.Split(p.out.String())
}

func (p *Panel) Stats(now time.Time) Stats {
	st := Stats{
		Chunks: p.chunks,
		Runes:  utf8.RuneCountInString(p.out.String()),
	}
	end := now
	if !p.running {
		end = p.lastChunk
	}
	if !p.started.IsZero() {
		st.Elapsed = end.Sub(p.started)
	}
	if secs := st.Elapsed.Seconds(); secs > 0 {
		st.Effective = float64(st.Chunks) / secs
	}
	return st
}
