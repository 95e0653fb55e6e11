package blogreader

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	prefsSessionName = "blogreader_prefs"
	darkModeKey      = "dark_mode"
	visitorKey       = "visitor"

	// ColorSchemeHint is the client hint carrying the browser's preferred
	// color scheme.
	ColorSchemeHint = "Sec-CH-Prefers-Color-Scheme"
)

// PreferenceStore persists per-visitor UI preferences.
type PreferenceStore interface {
	// DarkMode returns the stored flag, or the browser's preferred scheme
	// when nothing is stored yet. The resolved value is written back.
	DarkMode(c echo.Context) (bool, error)
	SetDarkMode(c echo.Context, dark bool) error
	// VisitorID returns a stable anonymous id for the visitor, creating
	// one on first use.
	VisitorID(c echo.Context) (string, error)
}

// PrefersDark reports whether the request's color-scheme hint asks for a
// dark theme.
func PrefersDark(r *http.Request) bool {
	v := strings.Trim(r.Header.Get(ColorSchemeHint), `" `)
	return strings.EqualFold(v, "dark")
}

// SessionPreferences keeps preferences in a signed cookie session. It needs
// the echo-contrib session middleware.
type SessionPreferences struct{}

func (SessionPreferences) session(c echo.Context) (*sessions.Session, error) {
	sess, err := session.Get(prefsSessionName, c)
	if sess == nil {
		return nil, err
	}
	// A cookie that no longer decodes (rotated secret) yields a fresh
	// session, which is what we want.
	if err != nil {
		c.Logger().Debugf("preferences: discarding unreadable session: %v", err)
	}
	return sess, nil
}

// DarkMode implements PreferenceStore.
func (p SessionPreferences) DarkMode(c echo.Context) (bool, error) {
	sess, err := p.session(c)
	if err != nil {
		return PrefersDark(c.Request()), err
	}
	if dark, ok := sess.Values[darkModeKey].(bool); ok {
		return dark, nil
	}
	dark := PrefersDark(c.Request())
	sess.Values[darkModeKey] = dark
	return dark, sess.Save(c.Request(), c.Response())
}

// SetDarkMode implements PreferenceStore.
func (p SessionPreferences) SetDarkMode(c echo.Context, dark bool) error {
	sess, err := p.session(c)
	if err != nil {
		return err
	}
	sess.Values[darkModeKey] = dark
	return sess.Save(c.Request(), c.Response())
}

// VisitorID implements PreferenceStore.
func (p SessionPreferences) VisitorID(c echo.Context) (string, error) {
	sess, err := p.session(c)
	if err != nil {
		return "", err
	}
	if id, ok := sess.Values[visitorKey].(string); ok && id != "" {
		return id, nil
	}
	id := uuid.NewString()
	sess.Values[visitorKey] = id
	return id, sess.Save(c.Request(), c.Response())
}
