package pretty

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/lipgloss"
)

// HighlightGo renders Go source with syntax colors. Without color, or when
// the source cannot be tokenized, src is returned unchanged.
func (s *Styles) HighlightGo(src string) string {
	if !s.colorEnabled || src == "" {
		return src
	}

	lexer := lexers.Get("go")
	if lexer == nil {
		return src
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, src)
	if err != nil {
		return src
	}

	var builder strings.Builder
	builder.Grow(len(src) * 2)
	for token := iterator(); token != chroma.EOF; token = iterator() {
		tokenStyle, ok := s.tokenStyle(token.Type)
		if !ok {
			builder.WriteString(token.Value)
			continue
		}
		// Render line by line so that newlines stay outside escape sequences.
		for idx, part := range strings.Split(token.Value, "\n") {
			if idx > 0 {
				builder.WriteByte('\n')
			}
			if part != "" {
				builder.WriteString(tokenStyle.Render(part))
			}
		}
	}
	return builder.String()
}

func (s *Styles) tokenStyle(tt chroma.TokenType) (lipgloss.Style, bool) {
	switch {
	case tt == chroma.NameBuiltin || tt == chroma.NameBuiltinPseudo:
		return s.Builtin, true
	case tt == chroma.NameFunction:
		return s.Function, true
	case tt.InCategory(chroma.Keyword):
		return s.Keyword, true
	case tt.InCategory(chroma.Comment):
		return s.Comment, true
	case tt.InSubCategory(chroma.LiteralString):
		return s.String, true
	case tt.InSubCategory(chroma.LiteralNumber):
		return s.Number, true
	case tt.InCategory(chroma.Operator):
		return s.Operator, true
	default:
		return lipgloss.Style{}, false
	}
}
