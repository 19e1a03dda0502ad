package middleware

import (
	"context"
	"errors"
	"net/http"

	"mudskip/leaderboard/internal/models"
	"mudskip/leaderboard/internal/repositories"
	"mudskip/leaderboard/internal/session"
	"mudskip/leaderboard/internal/utils"

	"go.uber.org/zap"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID    uint
	SessionID string
}

// SessionResolver maps a session id to the user it belongs to.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (uint, error)
}

// CookieReader extracts the session id carried by a request.
type CookieReader interface {
	Read(r *http.Request) (string, error)
}

// UserLoader loads the user behind a principal.
type UserLoader interface {
	GetUserByID(ctx context.Context, userID uint) (*models.User, error)
}

// PrincipalFrom returns the principal attached by Authenticate.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// WithPrincipal attaches p to ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// Authenticate resolves the session cookie once per request. Requests without
// a valid session pass through anonymously.
func Authenticate(cookies CookieReader, sessions SessionResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid, err := cookies.Read(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := sessions.Resolve(r.Context(), sid)
			if err != nil {
				if !errors.Is(err, session.ErrSessionNotFound) {
					logger.Error("session lookup failed", zap.Error(err))
				}
				next.ServeHTTP(w, r)
				return
			}
			ctx := WithPrincipal(r.Context(), Principal{UserID: userID, SessionID: sid})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects anonymous requests.
func RequireUser(message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := PrincipalFrom(r.Context()); !ok {
				utils.JSONError(w, http.StatusUnauthorized, message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects anonymous callers with 401 and callers whose user is
// missing or not an admin with 403.
func RequireAdmin(users UserLoader, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				utils.JSONError(w, http.StatusUnauthorized, "You must be logged in as admin.")
				return
			}
			user, err := users.GetUserByID(r.Context(), p.UserID)
			if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
				logger.Error("admin check failed", zap.Uint("user_id", p.UserID), zap.Error(err))
				utils.JSONError(w, http.StatusInternalServerError, "Failed to verify permissions.")
				return
			}
			if !user.IsAdmin() {
				utils.JSONError(w, http.StatusForbidden, "Only admin users can perform this action.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
