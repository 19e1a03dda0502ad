package jobs

import (
	"context"
	"fmt"
	"time"

	"mudskip/leaderboard/internal/metrics"
	"mudskip/leaderboard/internal/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const snapshotTimeout = 10 * time.Second

// CompletionLister reads the completion count of every level.
type CompletionLister interface {
	List(ctx context.Context) ([]models.LevelCompletion, error)
}

// StatsSnapshotJob periodically copies level completion counts into the
// leaderboard_level_completions gauge.
type StatsSnapshotJob struct {
	stats    CompletionLister
	schedule string
	logger   *zap.Logger
	cron     *cron.Cron
}

func NewStatsSnapshotJob(stats CompletionLister, schedule string, logger *zap.Logger) *StatsSnapshotJob {
	return &StatsSnapshotJob{
		stats:    stats,
		schedule: schedule,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start takes one snapshot immediately and then schedules the rest.
func (j *StatsSnapshotJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.runLogged); err != nil {
		return fmt.Errorf("failed to schedule stats snapshot: %w", err)
	}
	j.runLogged()
	j.cron.Start()
	j.logger.Info("stats snapshot job started", zap.String("schedule", j.schedule))
	return nil
}

// Stop halts scheduling and waits for a running snapshot to finish.
func (j *StatsSnapshotJob) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
		j.logger.Info("stats snapshot job stopped")
	}
}

// RunOnce performs a single snapshot.
func (j *StatsSnapshotJob) RunOnce(ctx context.Context) error {
	rows, err := j.stats.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list level stats: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.LevelName] = row.CompletionCount
	}
	metrics.SetLevelCompletions(counts)
	return nil
}

func (j *StatsSnapshotJob) runLogged() {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	if err := j.RunOnce(ctx); err != nil {
		j.logger.Warn("stats snapshot failed", zap.Error(err))
	}
}
