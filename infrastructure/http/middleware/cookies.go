package middleware

import (
	"net/http"
	"time"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// Cookies writes the session cookies. Secure is off only for local HTTP
// development.
type Cookies struct {
	Secure bool
}

func (c Cookies) set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  time.Now().Add(time.Duration(maxAge) * time.Second),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// SetAccess writes the access token cookie with maxAge seconds to live.
func (c Cookies) SetAccess(w http.ResponseWriter, token string, maxAge int) {
	c.set(w, AccessTokenCookie, token, maxAge)
}

// SetRefresh writes the refresh token cookie.
func (c Cookies) SetRefresh(w http.ResponseWriter, token string, maxAge int) {
	c.set(w, RefreshTokenCookie, token, maxAge)
}

// Clear expires both token cookies.
func (c Cookies) Clear(w http.ResponseWriter) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
			HttpOnly: true,
			Secure:   c.Secure,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

// Read returns the cookie's value, or "" when it is absent.
func Read(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
