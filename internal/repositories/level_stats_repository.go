package repositories

import (
	"context"
	"errors"

	"mudskip/leaderboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrLevelStatsNotFound = errors.New("level stats not found")

type LevelStatsRepository struct {
	DB *gorm.DB
}

func (r *LevelStatsRepository) WithTx(tx *gorm.DB) *LevelStatsRepository {
	return &LevelStatsRepository{DB: tx}
}

// Increment adds one completion to the level, creating its row at 1.
func (r *LevelStatsRepository) Increment(ctx context.Context, levelID uint) (*models.LevelStats, error) {
	row := models.LevelStats{LevelID: levelID, CompletionCount: 1}
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "level_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"completion_count": gorm.Expr("level_stats.completion_count + 1"),
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	return r.GetByLevel(ctx, levelID)
}

func (r *LevelStatsRepository) GetByLevel(ctx context.Context, levelID uint) (*models.LevelStats, error) {
	var stats models.LevelStats
	err := r.DB.WithContext(ctx).Where("level_id = ?", levelID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLevelStatsNotFound
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *LevelStatsRepository) List(ctx context.Context) ([]models.LevelCompletion, error) {
	rows := []models.LevelCompletion{}
	err := r.DB.WithContext(ctx).Model(&models.LevelStats{}).
		Select("levels.name AS level_name, level_stats.completion_count AS completion_count").
		Joins("JOIN levels ON levels.id = level_stats.level_id").
		Order("level_stats.level_id").
		Scan(&rows).Error
	return rows, err
}

func (r *LevelStatsRepository) SetCount(ctx context.Context, levelID uint, count int) error {
	result := r.DB.WithContext(ctx).Model(&models.LevelStats{}).
		Where("level_id = ?", levelID).
		Update("completion_count", count)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLevelStatsNotFound
	}
	return nil
}

func (r *LevelStatsRepository) Delete(ctx context.Context, levelID uint) error {
	result := r.DB.WithContext(ctx).Where("level_id = ?", levelID).Delete(&models.LevelStats{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLevelStatsNotFound
	}
	return nil
}
