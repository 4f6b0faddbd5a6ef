package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SessionCookie names the cookie carrying the local session id.
const SessionCookie = "likedposts_session"

type sessionKey struct{}
type bearerKey struct{}

// Session copies the session cookie and any bearer Authorization header
// into the request context.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
			ctx = context.WithValue(ctx, sessionKey{}, c.Value)
		}
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			if token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")); token != "" {
				ctx = context.WithValue(ctx, bearerKey{}, token)
			}
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID returns the session id set by Session, or "".
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// BearerToken returns the token from an Authorization header, or "".
func BearerToken(ctx context.Context) string {
	token, _ := ctx.Value(bearerKey{}).(string)
	return token
}

func SetSessionCookie(w http.ResponseWriter, r *http.Request, id string, ttl time.Duration) {
	c := &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl > 0 {
		c.MaxAge = int(ttl.Seconds())
	}
	http.SetCookie(w, c)
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
