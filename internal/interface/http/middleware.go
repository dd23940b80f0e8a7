package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	domuser "example.com/phonestore/internal/domain/user"
	"example.com/phonestore/internal/infra/upstream"
	authuc "example.com/phonestore/internal/usecase/auth"
)

const (
	sessionCookie = "session"
	sessionHeader = "X-Session-Token"
)

type ctxSessionKey struct{}

var (
	errUnauthenticated = errors.New("unauthenticated")
	errForbidden       = errors.New("forbidden")
)

// sessionMiddleware resolves the browser's session from the bearer token or
// the session cookie. Requests without a valid one get a fresh guest session.
func (a *API) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *authuc.Session
		if token := sessionToken(r); token != "" {
			parsed, err := a.authSvc.ParseToken(token)
			if err == nil {
				sess = parsed
			} else {
				a.logger.Debug("discarding session token", zap.Error(err))
			}
		}

		if sess == nil {
			guest, token, err := a.authSvc.GuestSession()
			if err != nil {
				respondError(w, http.StatusInternalServerError, err)
				return
			}
			sess = guest
			a.setSessionToken(w, token)
		}

		ctx := context.WithValue(r.Context(), ctxSessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func (a *API) setSessionToken(w http.ResponseWriter, token string) {
	w.Header().Set(sessionHeader, token)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func getSession(ctx context.Context) *authuc.Session {
	if sess, ok := ctx.Value(ctxSessionKey{}).(*authuc.Session); ok {
		return sess
	}
	return nil
}

func (a *API) requireRoles(roles ...domuser.RoleCode) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := getSession(r.Context())
			if sess == nil || sess.IsGuest() {
				respondError(w, http.StatusUnauthorized, errUnauthenticated)
				return
			}
			for _, role := range roles {
				if sess.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			respondError(w, http.StatusForbidden, errForbidden)
		})
	}
}

// forwardUpstreamToken makes catalog API calls of this request carry the
// signed-in user's token.
func forwardUpstreamToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := getSession(r.Context())
		if sess == nil || sess.UpstreamToken == "" {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(upstream.WithToken(r.Context(), sess.UpstreamToken)))
	})
}

// requestLogger writes one structured line per request.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", chimw.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
