package blogreader

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blogreader/contentapi"
	"github.com/eringen/blogreader/views"
)

// chrome collects what every full page needs. It advertises the
// color-scheme client hint so the first visit can start in the right theme.
func (a *App) chrome(c echo.Context, meta views.PageMeta) views.Chrome {
	h := c.Response().Header()
	h.Set("Accept-CH", ColorSchemeHint)
	h.Set("Critical-CH", ColorSchemeHint)
	h.Add("Vary", ColorSchemeHint)

	dark, err := a.Prefs.DarkMode(c)
	if err != nil {
		c.Logger().Warnf("preferences: %v", err)
	}
	return views.Chrome{
		Site:      a.site(),
		Meta:      meta,
		DarkMode:  dark,
		CSRFToken: CsrfToken(c),
	}
}

func (a *App) handleHome(c echo.Context) error {
	search := c.QueryParam("search")
	postsURL := "/partials/posts/"
	if search != "" {
		postsURL += "?" + url.Values{"search": {search}}.Encode()
	}
	return Render(c, views.Home(views.HomePage{
		Chrome:   a.chrome(c, HomeMeta(a.site())),
		Search:   search,
		PostsURL: postsURL,
	}))
}

// handlePostList renders the filtered listing. When the Content API fails
// it answers 502 and the page stays in its loading state.
func (a *App) handlePostList(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("list posts: %v", err)
		return c.NoContent(http.StatusBadGateway)
	}
	query := c.QueryParam("search")
	return Render(c, views.PostList(a.listing(FilterPosts(posts, query), query)))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	meta := a.Meta.Resolve(c.Request().Context(), slug)
	return Render(c, views.Post(views.PostPage{
		Chrome:     a.chrome(c, meta),
		Slug:       slug,
		ArticleURL: "/partials/blog/" + url.PathEscape(slug) + "/",
	}))
}

// handleArticle renders the body of a post. Every failure, missing post or
// unreachable API alike, shows the same "not found" fragment.
func (a *App) handleArticle(c echo.Context) error {
	slug := c.Param("slug")
	post, err := a.Cache.GetPost(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, contentapi.ErrNotFound) {
			c.Logger().Debugf("article %s: not found", slug)
		} else {
			c.Logger().Warnf("article %s: %v", slug, err)
		}
		return RenderStatus(c, http.StatusNotFound, views.ArticleNotFound())
	}
	visitor, err := a.Prefs.VisitorID(c)
	if err != nil {
		c.Logger().Warnf("preferences: %v", err)
	}
	return Render(c, views.ArticleBody(a.article(post, visitor)))
}

type copyResponse struct {
	Code         string `json:"code"`
	ResetAfterMS int64  `json:"reset_after_ms"`
}

// handleCopy returns the exact code of a subtopic for the clipboard and
// records the acknowledgement for that subtopic only.
func (a *App) handleCopy(c echo.Context) error {
	slug := c.Param("slug")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	post, err := a.Cache.GetPost(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, contentapi.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		c.Logger().Warnf("copy %s/%d: %v", slug, id, err)
		return echo.NewHTTPError(http.StatusBadGateway)
	}
	sub, ok := post.Subtopic(id)
	if !ok || sub.Code == "" {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	visitor, err := a.Prefs.VisitorID(c)
	if err != nil {
		return err
	}
	a.Copies.Acknowledge(visitor, id)
	return c.JSON(http.StatusOK, copyResponse{
		Code:         sub.Code,
		ResetAfterMS: CopyAckDuration.Milliseconds(),
	})
}

type darkModeResponse struct {
	Dark bool `json:"dark"`
}

// handleDarkMode stores the posted flag, or flips the stored one when the
// request carries none.
func (a *App) handleDarkMode(c echo.Context) error {
	current, err := a.Prefs.DarkMode(c)
	if err != nil {
		c.Logger().Warnf("preferences: %v", err)
	}
	next := !current
	if v := c.FormValue("dark"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "dark must be true or false")
		}
		next = parsed
	}
	if err := a.Prefs.SetDarkMode(c, next); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, darkModeResponse{Dark: next})
}

func (a *App) handleChromaCSS(c echo.Context) error {
	return c.Blob(http.StatusOK, "text/css; charset=utf-8", a.chromaCSS)
}

// handleRobots generates robots.txt pointing at the sitemap.
func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nAllow: /\nDisallow: /partials/\nDisallow: /media/\n\nSitemap: " +
		BuildURL(a.Config.URL) + "sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound && !isFragmentRequest(c) {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.chrome(c, a.errorMeta("Page not found"))))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 && !isFragmentRequest(c) {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(a.chrome(c, a.errorMeta("Something went wrong"))))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

func (a *App) errorMeta(title string) views.PageMeta {
	return views.PageMeta{
		Title:       title + " | " + a.Config.Name,
		OGType:      "website",
		OGTitle:     title,
		TwitterCard: "summary",
	}
}

// isFragmentRequest reports whether the request targets a fragment or JSON
// endpoint that must not be answered with a full page.
func isFragmentRequest(c echo.Context) bool {
	return c.Request().Method != http.MethodGet ||
		hasPrefix(c.Request().URL.Path, "/partials/", "/media/", "/public/")
}
