package blogreader

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	defaultImageWidth = 800
	maxImageWidth     = 1600
	jpegQuality       = 80
	maxImageBytes     = 10 << 20 // 10MB
	maxImagePixels    = 40_000_000
	maxImageRedirects = 5
)

var (
	errImageTooLarge  = errors.New("image exceeds size limit")
	errImageTooBig    = errors.New("image dimensions exceed limit")
	errImageRedirect  = errors.New("image redirect to disallowed host")
	errImageRedirects = errors.New("too many image redirects")
)

// newMediaClient returns the client the proxy fetches with. Every redirect
// target must pass the same allow-list as the original URL.
func (a *App) newMediaClient() *http.Client {
	return &http.Client{
		Timeout: 15 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxImageRedirects {
				return errImageRedirects
			}
			if !a.imageAllowed(req.URL) {
				return errImageRedirect
			}
			return nil
		},
	}
}

// allowedImageHosts returns the hosts the proxy may fetch from: the Content
// API host and any configured extras.
func allowedImageHosts(apiBase string, extra []string) map[string]bool {
	hosts := make(map[string]bool)
	if u, err := url.Parse(apiBase); err == nil && u.Host != "" {
		hosts[strings.ToLower(u.Host)] = true
	}
	for _, h := range extra {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts[h] = true
		}
	}
	return hosts
}

func (a *App) imageAllowed(u *url.URL) bool {
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Host)
	return a.imageHosts[host] || a.imageHosts[strings.ToLower(u.Hostname())]
}

// processImage decodes an image, downscales it to width when wider and
// encodes it as JPEG. Images over maxImagePixels are rejected before their
// pixels are decoded.
func processImage(data []byte, width int) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("%w: %dx%d", errImageTooBig, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > width {
		newH := h * width / w
		if newH < 1 {
			newH = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, width, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func parseImageWidth(raw string) int {
	w, err := strconv.Atoi(raw)
	if err != nil || w <= 0 {
		return defaultImageWidth
	}
	if w > maxImageWidth {
		return maxImageWidth
	}
	return w
}

// handleMedia proxies a post image, resized for the page. Any failure is a
// bare 404 so the page hides the image.
func (a *App) handleMedia(c echo.Context) error {
	if !a.mediaLimiter.Allow(c.RealIP()) {
		return c.NoContent(http.StatusTooManyRequests)
	}
	src, err := url.Parse(c.QueryParam("src"))
	if err != nil || !a.imageAllowed(src) {
		return c.NoContent(http.StatusNotFound)
	}
	data, err := a.fetchImage(c, src.String())
	if err != nil {
		c.Logger().Debugf("media %s: %v", src, err)
		return c.NoContent(http.StatusNotFound)
	}
	out, err := processImage(data, parseImageWidth(c.QueryParam("w")))
	if err != nil {
		c.Logger().Debugf("media %s: %v", src, err)
		return c.NoContent(http.StatusNotFound)
	}
	return c.Blob(http.StatusOK, "image/jpeg", out)
}

func (a *App) fetchImage(c echo.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(c.Request().Context(), http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.mediaClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream returned %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxImageBytes {
		return nil, errImageTooLarge
	}
	return data, nil
}
