package jobs

import (
	"context"
	"errors"
	"testing"

	"mudskip/leaderboard/internal/models"
	"mudskip/leaderboard/internal/repositories"
	"mudskip/leaderboard/internal/services"
	"mudskip/leaderboard/internal/testhelpers"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingLister struct{}

func (failingLister) List(context.Context) ([]models.LevelCompletion, error) {
	return nil, errors.New("db down")
}

func gaugeValue(t *testing.T, level string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != "leaderboard_level_completions" {
			continue
		}
		for _, m := range family.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "level" && label.GetValue() == level {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("no gauge sample for level %q", level)
	return 0
}

func TestRunOnce_PublishesCompletionCounts(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	ctx := context.Background()
	users := &repositories.UserRepository{DB: db}
	levels := &repositories.LevelRepository{DB: db}

	user := &models.User{Username: "bog", EmailAddress: "bog@example.com", PasswordHash: "x"}
	require.NoError(t, users.CreateUser(ctx, user))
	require.NoError(t, levels.Create(ctx, &models.Level{Name: "Swamp"}))
	require.NoError(t, levels.Create(ctx, &models.Level{Name: "Delta"}))

	service := services.NewHighscoreService(db, zap.NewNop())
	for _, level := range []string{"Swamp", "Swamp", "Delta"} {
		_, err := service.Submit(ctx, user.ID, level, 1)
		require.NoError(t, err)
	}

	job := NewStatsSnapshotJob(&repositories.LevelStatsRepository{DB: db}, "@every 1h", zap.NewNop())
	require.NoError(t, job.RunOnce(ctx))

	assert.Equal(t, 2.0, gaugeValue(t, "Swamp"))
	assert.Equal(t, 1.0, gaugeValue(t, "Delta"))
}

func TestRunOnce_ListFailure(t *testing.T) {
	job := NewStatsSnapshotJob(failingLister{}, "@every 1h", zap.NewNop())
	assert.Error(t, job.RunOnce(context.Background()))
}

func TestStartRejectsBadSchedule(t *testing.T) {
	job := NewStatsSnapshotJob(failingLister{}, "not a schedule", zap.NewNop())
	assert.Error(t, job.Start())
}

func TestStartAndStop(t *testing.T) {
	job := NewStatsSnapshotJob(failingLister{}, "@every 1h", zap.NewNop())
	require.NoError(t, job.Start())
	job.Stop()
}
