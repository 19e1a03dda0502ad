package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"mudskip/leaderboard/internal/models"
	"mudskip/leaderboard/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLevelStatsHandler(t *testing.T) {
	env := newTestEnv(t)
	h := &LevelStatsHandler{Repo: env.stats, Logger: zap.NewNop()}
	swamp := env.seedLevel(t, "Swamp")
	bog := env.seedUser(t, "bog", "pw", models.RoleUser)

	rec := httptest.NewRecorder()
	h.ListStatsHandler(rec, newRequest(t, http.MethodGet, "/levelstats", nil, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]models.LevelCompletion](t, rec))

	for i := 0; i < 3; i++ {
		_, err := env.service.Submit(context.Background(), bog.ID, swamp.Name, i)
		require.NoError(t, err)
	}

	rec = httptest.NewRecorder()
	h.ListStatsHandler(rec, newRequest(t, http.MethodGet, "/levelstats", nil, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []models.LevelCompletion{{LevelName: "Swamp", CompletionCount: 3}}, decodeBody[[]models.LevelCompletion](t, rec))

	id := uintString(swamp.ID)
	params := map[string]string{"levelId": id}

	t.Run("set count", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.SetCompletionCountHandler(rec, newRequest(t, http.MethodPut, "/levelstats/"+id, "-4", params))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = httptest.NewRecorder()
		h.SetCompletionCountHandler(rec, newRequest(t, http.MethodPut, "/levelstats/"+id, `"ten"`, params))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = httptest.NewRecorder()
		h.SetCompletionCountHandler(rec, newRequest(t, http.MethodPut, "/levelstats/77", "5", map[string]string{"levelId": "77"}))
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = httptest.NewRecorder()
		h.SetCompletionCountHandler(rec, newRequest(t, http.MethodPut, "/levelstats/"+id, "0", params))
		require.Equal(t, http.StatusOK, rec.Code)

		stats, err := env.stats.GetByLevel(context.Background(), swamp.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.CompletionCount)
	})

	t.Run("delete", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.DeleteStatsHandler(rec, newRequest(t, http.MethodDelete, "/levelstats/"+id, nil, params))
		require.Equal(t, http.StatusOK, rec.Code)

		_, err := env.stats.GetByLevel(context.Background(), swamp.ID)
		assert.ErrorIs(t, err, repositories.ErrLevelStatsNotFound)

		rec = httptest.NewRecorder()
		h.DeleteStatsHandler(rec, newRequest(t, http.MethodDelete, "/levelstats/"+id, nil, params))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "No statistics found for this level.", errorMessage(t, rec))
	})
}
