package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"ticketqr/pkg"
)

type contextKey string

const (
	SessionIDKey contextKey = "sessionID"
	CookieName              = "ticketqr_session"
	// TokenHeader carries a freshly issued token for clients without a cookie jar.
	TokenHeader = "X-Session-Token"
)

// SessionMiddleware resolves the visitor's session id from the session cookie
// or a Bearer token, issuing a new session when neither is valid.
func SessionMiddleware(secret []byte, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := sessionFromRequest(r, secret)
			if sid == "" {
				sid = uuid.NewString()
				tok, err := pkg.CreateToken(secret, sid, ttl)
				if err != nil {
					http.Error(w, "failed to create session", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    tok,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					Secure:   r.TLS != nil,
					SameSite: http.SameSiteLaxMode,
				})
				w.Header().Set(TokenHeader, tok)
			}
			ctx := context.WithValue(r.Context(), SessionIDKey, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionID returns the id placed by SessionMiddleware, or "".
func SessionID(ctx context.Context) string {
	sid, _ := ctx.Value(SessionIDKey).(string)
	return sid
}

func sessionFromRequest(r *http.Request, secret []byte) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		if sid, err := pkg.ParseToken(secret, strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))); err == nil {
			return sid
		}
	}
	if c, err := r.Cookie(CookieName); err == nil {
		if sid, err := pkg.ParseToken(secret, c.Value); err == nil {
			return sid
		}
	}
	return ""
}
