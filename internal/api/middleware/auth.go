package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/cyberstore/internal/api/apierr"
	"github.com/mcoot/cyberstore/internal/model"
)

type contextKey string

const userContextKey contextKey = "user"

// SessionSource reports the currently logged-in user
type SessionSource interface {
	Current() (model.User, error)
}

// Auth creates middleware that rejects requests while nobody is logged in
func Auth(sessions SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := sessions.Current()
			if err != nil {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser returns the authenticated user from the request context
func GetUser(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userContextKey).(model.User)
	return user, ok
}

// MustGetUser returns the authenticated user or panics
func MustGetUser(ctx context.Context) model.User {
	user, ok := GetUser(ctx)
	if !ok {
		panic("no user in context - auth middleware not applied?")
	}
	return user
}
