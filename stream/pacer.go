package stream

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// MinDelay bounds the tick period for very high rates.
	MinDelay = time.Millisecond
	// MaxDelay is the longest representable period. Rates too small to get a
	// finite Duration tick at this period.
	MaxDelay = time.Duration(math.MaxInt64)
)

var ErrInvalidRate = errors.New("rate must be a positive finite number")

// DelayFor converts a tokens per second rate into a tick period. It reports
// false for rates that should pause generation: zero, negative, NaN or
// infinite.
func DelayFor(tps float64) (time.Duration, bool) {
	if !(tps > 0) || math.IsInf(tps, 0) {
		return 0, false
	}
	d := float64(time.Second) / tps
	if d >= float64(MaxDelay) {
		return MaxDelay, true
	}
	delay := time.Duration(d)
	if delay < MinDelay {
		delay = MinDelay
	}
	return delay, true
}

// ParseRate validates user input into a rate usable by DelayFor.
func ParseRate(input string) (float64, error) {
	trimmed := strings.TrimSpace(input)
	tps, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRate, input)
	}
	if _, ok := DelayFor(tps); !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRate, input)
	}
	return tps, nil
}

// FormatRate renders a rate the way the rate input shows it.
func FormatRate(tps float64) string {
	return strconv.FormatFloat(tps, 'f', -1, 64)
}

// Pacer accepts at most one update per delay window. It sits on top of a
// timer that already fires every delay, so late or early ticks get dropped
// rather than bunched up.
type Pacer struct {
	delay time.Duration
	last  time.Time
}

// NewPacer returns a Pacer whose window starts at now.
func NewPacer(delay time.Duration, now time.Time) Pacer {
	return Pacer{delay: delay, last: now}
}

// Delay is the minimum spacing between accepted updates.
func (p *Pacer) Delay() time.Duration {
	return p.delay
}

// Reset restarts the window at now.
func (p *Pacer) Reset(now time.Time) {
	p.last = now
}

// Allow reports whether an update at now is accepted, and records it if so.
func (p *Pacer) Allow(now time.Time) bool {
	if p.delay <= 0 {
		return false
	}
	if now.Sub(p.last) < p.delay {
		return false
	}
	p.last = now
	return true
}
