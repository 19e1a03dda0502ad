package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"mudskip/leaderboard/internal/middleware"
	"mudskip/leaderboard/internal/models"
	"mudskip/leaderboard/internal/repositories"
	"mudskip/leaderboard/internal/services"
	"mudskip/leaderboard/internal/session"
	"mudskip/leaderboard/internal/testhelpers"
	"mudskip/leaderboard/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	mr       *miniredis.Miniredis
	users    *repositories.UserRepository
	levels   *repositories.LevelRepository
	scores   *repositories.HighscoreRepository
	stats    *repositories.LevelStatsRepository
	reviews  *repositories.ReviewRepository
	sessions *session.Store
	cookies  session.CookieCodec
	service  *services.HighscoreService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	mr, rdb := testhelpers.SetupTestRedis(t)
	return &testEnv{
		db:       db,
		mr:       mr,
		users:    &repositories.UserRepository{DB: db},
		levels:   &repositories.LevelRepository{DB: db},
		scores:   &repositories.HighscoreRepository{DB: db},
		stats:    &repositories.LevelStatsRepository{DB: db},
		reviews:  &repositories.ReviewRepository{DB: db},
		sessions: session.NewStore(rdb, 30*time.Minute),
		cookies:  session.CookieCodec{Secret: []byte("test-secret")},
		service:  services.NewHighscoreService(db, zap.NewNop()),
	}
}

func (e *testEnv) seedUser(t *testing.T, username, password string, role models.Role) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	user := &models.User{
		Username:     username,
		Fullname:     username + " Player",
		EmailAddress: username + "@example.com",
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, e.users.CreateUser(context.Background(), user))
	return user
}

func (e *testEnv) seedLevel(t *testing.T, name string) *models.Level {
	t.Helper()
	level := &models.Level{Name: name}
	require.NoError(t, e.levels.Create(context.Background(), level))
	return level
}

// newRequest builds a request with optional JSON body and chi URL params.
func newRequest(t *testing.T, method, target string, body any, params map[string]string) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			payload, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(payload)
		}
	}
	req := httptest.NewRequest(method, target, reader)
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func asUser(req *http.Request, userID uint, sessionID string) *http.Request {
	return req.WithContext(middleware.WithPrincipal(req.Context(), middleware.Principal{UserID: userID, SessionID: sessionID}))
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[map[string]string](t, rec)["error"]
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
