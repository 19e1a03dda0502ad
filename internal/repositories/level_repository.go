package repositories

import (
	"context"
	"errors"

	"mudskip/leaderboard/internal/models"

	"gorm.io/gorm"
)

var ErrLevelNotFound = errors.New("level not found")

type LevelRepository struct {
	DB *gorm.DB
}

func (r *LevelRepository) WithTx(tx *gorm.DB) *LevelRepository {
	return &LevelRepository{DB: tx}
}

func (r *LevelRepository) List(ctx context.Context) ([]models.Level, error) {
	levels := []models.Level{}
	err := r.DB.WithContext(ctx).Order("id").Find(&levels).Error
	return levels, err
}

func (r *LevelRepository) GetByID(ctx context.Context, id uint) (*models.Level, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *LevelRepository) GetByName(ctx context.Context, name string) (*models.Level, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *LevelRepository) Create(ctx context.Context, level *models.Level) error {
	return r.DB.WithContext(ctx).Create(level).Error
}

func (r *LevelRepository) Rename(ctx context.Context, id uint, name string) error {
	result := r.DB.WithContext(ctx).Model(&models.Level{}).Where("id = ?", id).Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLevelNotFound
	}
	return nil
}

// Delete removes the level together with its highscores and stats.
func (r *LevelRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Level{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrLevelNotFound
		}
		if err := tx.Where("level_id = ?", id).Delete(&models.Highscore{}).Error; err != nil {
			return err
		}
		return tx.Where("level_id = ?", id).Delete(&models.LevelStats{}).Error
	})
}

// EnsureNames creates a level for every name not yet present and returns how
// many were created.
func (r *LevelRepository) EnsureNames(ctx context.Context, names []string) (int, error) {
	created := 0
	for _, name := range names {
		var count int64
		if err := r.DB.WithContext(ctx).Model(&models.Level{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}
		if err := r.Create(ctx, &models.Level{Name: name}); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (r *LevelRepository) first(ctx context.Context, query string, args ...any) (*models.Level, error) {
	var level models.Level
	err := r.DB.WithContext(ctx).Where(query, args...).First(&level).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLevelNotFound
	}
	if err != nil {
		return nil, err
	}
	return &level, nil
}
