package stream

import (
	"math/rand/v2"
	"sync"
)

const (
	DefaultMinChunk = 2
	DefaultMaxChunk = 4
)

// Source hands out consecutive slices of a reference text. The cursor is
// measured in runes and stays in [0, length).
type Source struct {
	mu     sync.Mutex
	text   []rune
	cursor int

	minChunk int
	maxChunk int
	// pick returns a value in [0, n).
	pick func(n int) int
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithSeed makes chunk sizes reproducible.
func WithSeed(seed uint64) SourceOption {
	return func(s *Source) {
		r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		s.pick = r.IntN
	}
}

// WithChunkBounds sets the inclusive range chunk sizes are drawn from.
func WithChunkBounds(minChunk, maxChunk int) SourceOption {
	return func(s *Source) {
		s.minChunk = minChunk
		s.maxChunk = maxChunk
	}
}

// NewSource creates a Source over text. Out of range chunk bounds are clamped
// so that 1 <= min <= max.
func NewSource(text string, opts ...SourceOption) *Source {
	s := &Source{
		text:     []rune(text),
		minChunk: DefaultMinChunk,
		maxChunk: DefaultMaxChunk,
		pick:     rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.minChunk < 1 {
		s.minChunk = 1
	}
	if s.maxChunk < s.minChunk {
		s.maxChunk = s.minChunk
	}
	return s
}

// NextChunk returns the next slice of the text and advances the cursor.
//
// The slice itself is not wrapped, so it comes back short when the cursor is
// close to the end. After advancing modulo the length, the cursor is also
// reset to 0 whenever it lands within one chunk of the end.
func (s *Source) NextChunk() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.text)
	if n == 0 {
		return ""
	}

	size := s.minChunk + s.pick(s.maxChunk-s.minChunk+1)
	end := s.cursor + size
	if end > n {
		end = n
	}
	chunk := string(s.text[s.cursor:end])

	s.cursor = (s.cursor + size) % n
	if s.cursor >= n-size {
		s.cursor = 0
	}
	return chunk
}

// Reset moves the cursor back to the start of the text.
func (s *Source) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = 0
}

// Cursor reports the current rune offset.
func (s *Source) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Len is the length of the reference text in runes.
func (s *Source) Len() int {
	return len(s.text)
}
