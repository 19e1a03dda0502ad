package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mudskip/leaderboard/internal/models"
	"mudskip/leaderboard/internal/repositories"
	"mudskip/leaderboard/internal/session"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubCookies struct {
	sid string
	err error
}

func (s stubCookies) Read(*http.Request) (string, error) { return s.sid, s.err }

type stubSessions map[string]uint

func (s stubSessions) Resolve(_ context.Context, sid string) (uint, error) {
	if id, ok := s[sid]; ok {
		return id, nil
	}
	return 0, session.ErrSessionNotFound
}

type stubUsers struct {
	user *models.User
	err  error
}

func (s stubUsers) GetUserByID(context.Context, uint) (*models.User, error) { return s.user, s.err }

func principalEcho(t *testing.T, want bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := PrincipalFrom(r.Context())
		assert.Equal(t, want, ok)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	sessions := stubSessions{"good": 7}

	t.Run("no cookie passes anonymously", func(t *testing.T) {
		h := Authenticate(stubCookies{err: http.ErrNoCookie}, sessions, zap.NewNop())(principalEcho(t, false))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("expired session passes anonymously", func(t *testing.T) {
		h := Authenticate(stubCookies{sid: "gone"}, sessions, zap.NewNop())(principalEcho(t, false))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("valid session attaches principal", func(t *testing.T) {
		var got Principal
		h := Authenticate(stubCookies{sid: "good"}, sessions, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = PrincipalFrom(r.Context())
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, Principal{UserID: 7, SessionID: "good"}, got)
	})
}

func TestRequireUser(t *testing.T) {
	h := RequireUser("login first")(principalEcho(t, true))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "login first")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithPrincipal(req.Context(), Principal{UserID: 1}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	withPrincipal := func() *http.Request {
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		return req.WithContext(WithPrincipal(req.Context(), Principal{UserID: 1}))
	}

	tests := []struct {
		name   string
		users  stubUsers
		req    *http.Request
		status int
	}{
		{name: "anonymous", req: httptest.NewRequest(http.MethodDelete, "/", nil), status: http.StatusUnauthorized},
		{name: "plain user", users: stubUsers{user: &models.User{Role: models.RoleUser}}, req: withPrincipal(), status: http.StatusForbidden},
		{name: "deleted user", users: stubUsers{err: repositories.ErrUserNotFound}, req: withPrincipal(), status: http.StatusForbidden},
		{name: "lookup failure", users: stubUsers{err: errors.New("db down")}, req: withPrincipal(), status: http.StatusInternalServerError},
		{name: "admin", users: stubUsers{user: &models.User{Role: models.RoleAdmin}}, req: withPrincipal(), status: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			h := RequireAdmin(tc.users, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, tc.req)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.status == http.StatusOK, called)
		})
	}
}
