package services

import (
	"context"
	"errors"
	"fmt"

	"mudskip/leaderboard/internal/metrics"
	"mudskip/leaderboard/internal/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrInvalidUserOrLevel = errors.New("invalid user or level")

// SubmitResult describes the state after a highscore submission.
type SubmitResult struct {
	LevelName       string `json:"levelName"`
	HighscoreValue  int    `json:"highscoreValue"`
	PersonalBest    bool   `json:"personalBest"`
	CompletionCount int    `json:"completionCount"`
}

type HighscoreService struct {
	DB     *gorm.DB
	Users  *repositories.UserRepository
	Levels *repositories.LevelRepository
	Scores *repositories.HighscoreRepository
	Stats  *repositories.LevelStatsRepository
	Logger *zap.Logger
}

func NewHighscoreService(db *gorm.DB, logger *zap.Logger) *HighscoreService {
	return &HighscoreService{
		DB:     db,
		Users:  &repositories.UserRepository{DB: db},
		Levels: &repositories.LevelRepository{DB: db},
		Scores: &repositories.HighscoreRepository{DB: db},
		Stats:  &repositories.LevelStatsRepository{DB: db},
		Logger: logger,
	}
}

// Submit records value for the user on the named level. The stored
// highscore only ever rises, while the level's completion count advances on
// every submission. Both writes commit together.
func (s *HighscoreService) Submit(ctx context.Context, userID uint, levelName string, value int) (*SubmitResult, error) {
	var result SubmitResult
	outcome := metrics.OutcomeUnchanged

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.Users.WithTx(tx).GetUserByID(ctx, userID); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return ErrInvalidUserOrLevel
			}
			return err
		}
		level, err := s.Levels.WithTx(tx).GetByName(ctx, levelName)
		if err != nil {
			if errors.Is(err, repositories.ErrLevelNotFound) {
				return ErrInvalidUserOrLevel
			}
			return err
		}

		scores := s.Scores.WithTx(tx)
		previous, err := scores.Get(ctx, userID, level.ID)
		switch {
		case errors.Is(err, repositories.ErrHighscoreNotFound):
			outcome = metrics.OutcomeCreated
		case err != nil:
			return err
		case value > previous.HighscoreValue:
			outcome = metrics.OutcomeImproved
		}

		stored, err := scores.UpsertMax(ctx, userID, level.ID, value)
		if err != nil {
			return fmt.Errorf("upsert highscore: %w", err)
		}
		stats, err := s.Stats.WithTx(tx).Increment(ctx, level.ID)
		if err != nil {
			return fmt.Errorf("increment level stats: %w", err)
		}

		result = SubmitResult{
			LevelName:       level.Name,
			HighscoreValue:  stored.HighscoreValue,
			PersonalBest:    outcome != metrics.OutcomeUnchanged,
			CompletionCount: stats.CompletionCount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordSubmission(outcome)
	s.Logger.Info("highscore submitted",
		zap.Uint("user_id", userID),
		zap.String("level", result.LevelName),
		zap.Int("value", value),
		zap.String("outcome", outcome),
		zap.Int("completion_count", result.CompletionCount))
	return &result, nil
}
