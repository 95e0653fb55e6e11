package blogreader

import (
	"net/url"
	"path"
	"strconv"
	"strings"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// imageSrc returns the URL the browser should load an API image from:
// the image proxy when enabled, the original URL otherwise.
func (a *App) imageSrc(raw string, width int) string {
	if raw == "" || !a.Config.ImageProxy {
		return raw
	}
	q := url.Values{}
	q.Set("src", raw)
	q.Set("w", strconv.Itoa(width))
	return "/media/?" + q.Encode()
}
