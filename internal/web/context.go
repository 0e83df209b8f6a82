package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/BearingSpec/internal/core"
	applog "github.com/JonMunkholm/BearingSpec/internal/web/middleware"
)

type sessionKey struct{}

// sessionFromContext returns the session attached by sessionMiddleware.
func sessionFromContext(ctx context.Context) (*core.Session, bool) {
	sess, ok := ctx.Value(sessionKey{}).(*core.Session)
	return sess, ok
}

// sessionMiddleware resolves the operator's session from the cookie,
// starting a new one when the cookie is missing or the session expired.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(s.opts.CookieName); err == nil {
			id = c.Value
		}

		sess, created, err := s.store.GetOrCreate(id)
		if err != nil {
			respondError(w, r, err, http.StatusServiceUnavailable)
			return
		}
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     s.opts.CookieName,
				Value:    sess.ID(),
				Path:     "/",
				HttpOnly: true,
				Secure:   s.opts.SecureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := core.ContextWithSessionID(r.Context(), sess.ID())
		ctx = context.WithValue(ctx, sessionKey{}, sess)
		applog.SetSessionID(ctx, sess.ID())

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
