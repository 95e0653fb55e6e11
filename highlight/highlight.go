// Package highlight turns code snippets into syntax-highlighted HTML and maps
// language tags to display labels.
package highlight

import (
	"bytes"
	"html"
	"html/template"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Style is the chroma style used for code blocks.
const Style = "monokai"

var labels = map[string]string{
	"python":     "Python",
	"javascript": "JavaScript",
	"java":       "Java",
	"c":          "C",
	"cpp":        "C++",
	"html":       "HTML",
	"css":        "CSS",
	"bash":       "Bash",
	"json":       "JSON",
	"other":      "Other",
}

// normalize folds a language tag the same way for labels, classes and
// lexer lookup.
func normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Label returns the human-readable name for a language tag, matched without
// regard to case. Unknown tags are returned as-is.
func Label(tag string) string {
	if l, ok := labels[normalize(tag)]; ok {
		return l
	}
	return tag
}

// Class returns the language-* class for a code block.
func Class(tag string) string {
	tag = normalize(tag)
	if tag == "" {
		return "language-plaintext"
	}
	return "language-" + tag
}

var formatter = chromahtml.New(
	chromahtml.WithClasses(true),
	chromahtml.PreventSurroundingPre(true),
)

func lexerFor(tag string) chroma.Lexer {
	switch tag {
	case "", "other", "plaintext":
		return nil
	}
	return lexers.Get(tag)
}

// Code renders code as highlighted HTML, without the surrounding <pre>.
// The code itself is never modified; languages without a lexer come back
// as escaped plain text.
func Code(code, tag string) template.HTML {
	lexer := lexerFor(normalize(tag))
	if lexer == nil {
		return template.HTML(html.EscapeString(code))
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return template.HTML(html.EscapeString(code))
	}
	tokens, ok := exactTokens(it.Tokens(), code)
	if !ok {
		return template.HTML(html.EscapeString(code))
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, styles.Get(Style), chroma.Literator(tokens...)); err != nil {
		return template.HTML(html.EscapeString(code))
	}
	return template.HTML(buf.String())
}

// exactTokens drops the newline some lexers append and checks that the
// tokens spell out code exactly.
func exactTokens(tokens []chroma.Token, code string) ([]chroma.Token, bool) {
	if n := len(tokens); n > 0 && !strings.HasSuffix(code, "\n") {
		last := tokens[n-1]
		if strings.HasSuffix(last.Value, "\n") {
			last.Value = strings.TrimSuffix(last.Value, "\n")
			if last.Value == "" {
				tokens = tokens[:n-1]
			} else {
				tokens[n-1] = last
			}
		}
	}
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(tok.Value)
	}
	return tokens, sb.String() == code
}

// WriteCSS writes the stylesheet for highlighted code.
func WriteCSS(w io.Writer) error {
	return formatter.WriteCSS(w, styles.Get(Style))
}
