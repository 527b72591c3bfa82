package ui

import (
	"regexp"
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

var sgrRe = regexp.MustCompile("\x1b\\[[0-9;]*m")

func stripSGR(s string) string {
	return sgrRe.ReplaceAllString(s, "")
}

// withColorProfile pretends the terminal supports profile for one test.
func withColorProfile(t *testing.T, profile termenv.Profile) {
	t.Helper()
	saved := colorProfile
	colorProfile = func() termenv.Profile { return profile }
	t.Cleanup(func() { colorProfile = saved })
}

func TestHighlightCode(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		language  string
		highlight bool
	}{
		{
			name:      "Go",
			code:      "func main() {\n\tfmt.Println(\"hi\")\n}",
			language:  "go",
			highlight: true,
		},
		{
			name:      "Alias",
			code:      "package main",
			language:  "golang",
			highlight: true,
		},
		{
			name:      "Python",
			code:      "def greet(name):\n    return name",
			language:  "python",
			highlight: true,
		},
		{
			name:      "JavaScript short name",
			code:      "const x = 42;",
			language:  "js",
			highlight: true,
		},
		{
			name:     "Unknown language",
			code:     "const x = 42;",
			language: "definitely-not-a-language",
		},
		{
			name: "No language",
			code: "plain words",
		},
	}

	withColorProfile(t, termenv.ANSI256)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := HighlightCode(tt.code, tt.language)

			if !tt.highlight {
				if result != tt.code {
					t.Errorf("HighlightCode() = %q, want input unchanged", result)
				}
				return
			}
			if !strings.Contains(result, "\x1b[") {
				t.Errorf("Expected highlighting for language %q, but got plain text: %s", tt.language, result)
			}
			if got := stripSGR(result); got != tt.code {
				t.Errorf("Highlighting changed the text:\nGot:  %q\nWant: %q", got, tt.code)
			}
		})
	}
}

func TestHighlightCodeEmpty(t *testing.T) {
	if got := HighlightCode("", "go"); got != "" {
		t.Errorf("HighlightCode(\"\") = %q, want empty", got)
	}
}

func TestHighlightCodeColorProfiles(t *testing.T) {
	code := "x := 1"
	tests := []struct {
		name      string
		profile   termenv.Profile
		highlight bool
	}{
		{name: "True color", profile: termenv.TrueColor, highlight: true},
		{name: "256 colors", profile: termenv.ANSI256, highlight: true},
		{name: "16 colors", profile: termenv.ANSI, highlight: true},
		{name: "No color", profile: termenv.Ascii, highlight: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withColorProfile(t, tt.profile)
			result := HighlightCode(code, "go")
			if got := strings.Contains(result, "\x1b["); got != tt.highlight {
				t.Errorf("HighlightCode() highlighted = %v, want %v: %q", got, tt.highlight, result)
			}
			if got := stripSGR(result); got != code {
				t.Errorf("Highlighting changed the text: %q", got)
			}
		})
	}
}
