// Package markdown renders subtopic content to safe HTML.
package markdown

import (
	"bytes"
	"html"
	"html/template"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/eringen/blogreader/highlight"
)

// md never renders raw HTML from content; goldmark replaces it with a
// comment unless WithUnsafe is set.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle(highlight.Style),
			highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// Render converts markdown content to HTML. If conversion fails the content
// is returned as an escaped paragraph.
func Render(content string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return template.HTML("<p>" + html.EscapeString(content) + "</p>")
	}
	return template.HTML(buf.String())
}
