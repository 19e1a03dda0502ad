package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthzHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(nil).HealthzHandler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody[map[string]string](t, rec)["status"])
}

func TestReadyzHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	t.Run("all dependencies up", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewHealthHandler(map[string]Checker{"database": ok, "redis": ok}).ReadyzHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[ReadinessResponse](t, rec)
		assert.Equal(t, "ready", body.Status)
		assert.Equal(t, "ok", body.Checks["redis"].Status)
	})

	t.Run("one dependency down", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewHealthHandler(map[string]Checker{"database": ok, "redis": down}).ReadyzHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		body := decodeBody[ReadinessResponse](t, rec)
		assert.Equal(t, "not_ready", body.Status)
		assert.Equal(t, "ok", body.Checks["database"].Status)
		assert.Equal(t, ReadinessCheck{Status: "failed", Message: "connection refused"}, body.Checks["redis"])
	})
}
