// Package views holds the page and fragment components of the blog reader.
// Components are templ.Components backed by embedded html/template files.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"postURL": PostURL,
}

var (
	fragments = template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/fragments.html"))
	pages     = map[string]*template.Template{}
)

func init() {
	for _, name := range []string{"home", "post", "error"} {
		base := template.Must(fragments.Clone())
		template.Must(base.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
		pages[name] = base
	}
}

func page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, ok := pages[name]
		if !ok {
			return fmt.Errorf("views: unknown page %q", name)
		}
		return t.ExecuteTemplate(w, "layout", data)
	})
}

func fragment(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return fragments.ExecuteTemplate(w, name, data)
	})
}

// Home renders the listing page shell.
func Home(p HomePage) templ.Component {
	return page("home", p)
}

// Post renders the detail page shell.
func Post(p PostPage) templ.Component {
	return page("post", p)
}

// PostList renders the filtered listing fragment.
func PostList(l Listing) templ.Component {
	return fragment("listing", l)
}

// ArticleBody renders a loaded post.
func ArticleBody(a Article) templ.Component {
	return fragment("article", a)
}

// ArticleNotFound renders the detail fragment for a post that could not be
// loaded.
func ArticleNotFound() templ.Component {
	return fragment("article-not-found", nil)
}

// ErrorPage is the data for the NotFound and ServerError pages.
type ErrorPage struct {
	Chrome
	Heading string
	Message string
}

// NotFound renders the 404 page.
func NotFound(c Chrome) templ.Component {
	return page("error", ErrorPage{Chrome: c, Heading: "Page not found", Message: "The page you were looking for doesn't exist."})
}

// ServerError renders the 500 page.
func ServerError(c Chrome) templ.Component {
	return page("error", ErrorPage{Chrome: c, Heading: "Something went wrong", Message: "Please try again in a moment."})
}
