package headstart

import (
	"encoding/json"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// rememberCookieSuffix is appended to the application name to key the
// remember-me preference cookie.
const rememberCookieSuffix = ".remember"

// redirectCookieKey stores the route a visitor was rejected from so a
// later login can send them back.
const redirectCookieKey = "rejected_route"

// returnURLParam is the navigation query parameter carrying the
// post-login destination.
const returnURLParam = "returnUrl"

// rememberPreference is the JSON body of the remember-me cookie.
type rememberPreference struct {
	Status bool `json:"status"`
}

// RouteSession wraps the session orchestrator for HTTP use: it turns
// login results into cookies and works out post-login and post-logout
// destinations.
type RouteSession struct {
	sessions       SessionOrchestrator
	cfg            Config
	cookieDuration time.Duration
	Logger         Logger
}

var _ HTTPSession = (*RouteSession)(nil)

// NewRouteSession returns the HTTP layer around the given orchestrator.
func NewRouteSession(sessions SessionOrchestrator, cfg Config) (*RouteSession, error) {
	if sessions == nil {
		return nil, errors.New("session orchestrator is required", errors.CategoryBadInput)
	}

	return &RouteSession{
		sessions:       sessions,
		cfg:            cfg,
		cookieDuration: 30 * 24 * time.Hour,
		Logger:         defLogger{},
	}, nil
}

// RememberCookieName derives the preference cookie key from the
// application name.
func (a *RouteSession) RememberCookieName() string {
	return a.cfg.GetAppName() + rememberCookieSuffix
}

// Login authenticates the payload and, when the visitor opted into
// remember-me and a refresh token was issued, persists the preference
// cookie. Without the opt-in the cookie is left untouched.
func (a *RouteSession) Login(c router.Context, payload LoginPayload) error {
	pair, err := a.sessions.Login(c.Context(), payload.GetIdentifier(), payload.GetPassword(), payload.GetRememberMe())
	if err != nil {
		a.Logger.Error("login error: %s", err)
		return errors.Wrap(err, errors.CategoryAuth, "err authenticating payload")
	}

	if payload.GetRememberMe() && pair.RefreshToken != "" {
		a.setRememberCookie(c, true)
	}

	return nil
}

// Logout ends the session and returns the route the UI should land
// on: home when anonymous browsing took over, the login screen
// otherwise.
func (a *RouteSession) Logout(c router.Context) (string, error) {
	if err := a.sessions.Logout(c.Context()); err != nil {
		return "", err
	}

	if a.cfg.GetAnonymousEnabled() {
		return a.cfg.GetHomeRoute(), nil
	}

	return a.cfg.GetLoginRoute(), nil
}

// RememberMe reads the preference cookie, defaulting to false when the
// cookie is absent or unreadable.
func (a *RouteSession) RememberMe(c router.Context) bool {
	raw := c.Cookies(a.RememberCookieName())
	if raw == "" {
		return false
	}

	pref := rememberPreference{}
	if err := json.Unmarshal([]byte(raw), &pref); err != nil {
		a.Logger.Warn("unreadable remember-me cookie: %v", err)
		return false
	}

	return pref.Status
}

// GetRedirect pops the rejected-route cookie, falling back to def.
func (a *RouteSession) GetRedirect(c router.Context, def ...string) string {
	r := c.Cookies(redirectCookieKey)
	if r == "" {
		if len(def) > 0 {
			return def[0]
		}
		return ""
	}
	a.cookieDel(c, redirectCookieKey)
	return r
}

// GetRedirectOrDefault resolves the post-login destination: the
// navigation returnUrl parameter first, then the rejected-route
// cookie, then the home route.
func (a *RouteSession) GetRedirectOrDefault(c router.Context) string {
	if r := c.Query(returnURLParam, ""); r != "" {
		return r
	}

	r := c.Cookies(redirectCookieKey)
	if r == "" {
		return a.cfg.GetHomeRoute()
	}
	a.cookieDel(c, redirectCookieKey)
	return r
}

// SetRedirect remembers the current route so a later login can return
// to it.
func (a *RouteSession) SetRedirect(c router.Context) {
	a.Logger.Info("Setting redirect cookie", "key", redirectCookieKey, "path", c.OriginalURL())

	c.Cookie(&router.Cookie{
		Name:     redirectCookieKey,
		Value:    c.OriginalURL(),
		Expires:  time.Now().Add(time.Minute * 5),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteSession) setRememberCookie(c router.Context, status bool) {
	body, err := json.Marshal(rememberPreference{Status: status})
	if err != nil {
		a.Logger.Error("failed to encode remember-me cookie: %v", err)
		return
	}

	c.Cookie(&router.Cookie{
		Name:     a.RememberCookieName(),
		Value:    string(body),
		Expires:  time.Now().Add(a.cookieDuration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteSession) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}
