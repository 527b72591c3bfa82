package ui

import (
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/termenv"
)

// HighlightStyle is the chroma style used for code blocks.
var HighlightStyle = "monokai"

// colorProfile reports what the output terminal can show. It honours
// NO_COLOR and CLICOLOR_FORCE, and is read once.
var colorProfile = sync.OnceValue(termenv.EnvColorProfile)

// formatterFor picks the chroma formatter matching a colour profile. Ascii
// gets none.
func formatterFor(profile termenv.Profile) chroma.Formatter {
	var name string
	switch profile {
	case termenv.TrueColor:
		name = "terminal16m"
	case termenv.ANSI256:
		name = "terminal256"
	case termenv.ANSI:
		name = "terminal16"
	default:
		return nil
	}
	if f := formatters.Get(name); f != nil {
		return f
	}
	return formatters.Fallback
}

// languageAliases covers fence tags that chroma does not know by that name.
var languageAliases = map[string]string{
	"golang": "go",
	"py":     "python",
	"sh":     "bash",
	"shell":  "bash",
	"ts":     "typescript",
	"yml":    "yaml",
}

// HighlightCode colours code with the lexer registered for language.
// Unknown or empty languages, terminals without colour, and any lexer failure
// return code unchanged.
func HighlightCode(code, language string) string {
	if code == "" || language == "" {
		return code
	}
	formatter := formatterFor(colorProfile())
	if formatter == nil {
		return code
	}

	lang := strings.ToLower(language)
	if alias, ok := languageAliases[lang]; ok {
		lang = alias
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return code
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(HighlightStyle)
	if style == nil {
		style = styles.Fallback
	}
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	tokens := iterator.Tokens()
	// Lexers end the stream with a newline the fence content never had.
	if !strings.HasSuffix(code, "\n") && len(tokens) > 0 {
		last := &tokens[len(tokens)-1]
		last.Value = strings.TrimSuffix(last.Value, "\n")
	}

	var sb strings.Builder
	if err := formatter.Format(&sb, style, chroma.Literator(tokens...)); err != nil {
		return code
	}
	return sb.String()
}
