package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceOverlay(t *testing.T) {
	tests := []struct {
		name   string
		x, y   int
		fg, bg string
		center bool
		want   string
	}{
		{
			name:   "Centred",
			fg:     "XX",
			bg:     "abcd\nefgh\nijkl",
			center: true,
			want:   "abcd\neXXh\nijkl",
		},
		{
			name: "Top left",
			fg:   "XX\nYY",
			bg:   "abcd\nefgh\nijkl",
			want: "XXcd\nYYgh\nijkl",
		},
		{
			name: "Clamped to bottom right",
			x:    10,
			y:    10,
			fg:   "Z",
			bg:   "abc\ndef",
			want: "abc\ndeZ",
		},
		{
			name: "Short background line is padded",
			x:    3,
			fg:   "ZZ",
			bg:   "ab\nabcdef",
			want: "ab ZZ\nabcdef",
		},
		{
			name: "Foreground covers background",
			fg:   "big\nbox",
			bg:   "ab",
			want: "big\nbox",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlaceOverlay(tt.x, tt.y, tt.fg, tt.bg, tt.center))
		})
	}
}

func TestPlaceOverlayWhitespaceChars(t *testing.T) {
	got := PlaceOverlay(4, 0, "Z", "ab\nabcdef", false, WithWhitespaceChars("."))
	assert.Equal(t, "ab..Z\nabcdef", got)
}

func TestCutLeft(t *testing.T) {
	assert.Equal(t, "cd", cutLeft("abcd", 2))
	assert.Equal(t, "", cutLeft("ab", 5))
	assert.Equal(t, "\x1b[31mcd\x1b[0m", cutLeft("\x1b[31mabcd\x1b[0m", 2))
	assert.Equal(t, "cd", cutLeft("\x1b[31mab\x1b[0mcd", 2))
	assert.Equal(t, " b", cutLeft("世b", 1))
}
