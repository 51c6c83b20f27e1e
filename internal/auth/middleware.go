package auth

import (
	"context"
	"net/http"

	"github.com/sakif/marketplace/internal/model"
)

// contextKey is an unexported type for context keys, so no other package
// can read or shadow the session stored by this middleware.
type contextKey string

const sessionKey contextKey = "session"

// SessionResolver turns a raw token into a live session.
// service.Marketplace implements it via Authenticate.
type SessionResolver interface {
	Authenticate(ctx context.Context, token string) (*model.Session, error)
}

// RequireSession is a middleware that enforces authentication on protected
// routes.
//
// It reads the bearer token from the Authorization header, resolves it once
// through the SessionResolver, and stores the resulting session in the request
// context. Missing or unknown tokens get 401 and stop the chain.
//
// Chi applies middlewares in a chain: req → M1 → M2 → Handler → M2 → M1 → resp
func RequireSession(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := ParseBearer(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w)
				return
			}

			session, err := resolver.Authenticate(r.Context(), token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session stored by RequireSession.
//
// Returns (nil, false) on routes that are not behind RequireSession.
func SessionFromContext(ctx context.Context) (*model.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*model.Session)
	return s, ok && s != nil
}

// WithSession returns a copy of ctx carrying s. Handlers under test use it
// to skip the middleware.
func WithSession(ctx context.Context, s *model.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","message":"valid session token required"}` + "\n"))
}
