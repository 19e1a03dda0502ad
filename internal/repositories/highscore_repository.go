package repositories

import (
	"context"
	"errors"

	"mudskip/leaderboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrHighscoreNotFound = errors.New("highscore not found")

type HighscoreRepository struct {
	DB *gorm.DB
}

func (r *HighscoreRepository) WithTx(tx *gorm.DB) *HighscoreRepository {
	return &HighscoreRepository{DB: tx}
}

func (r *HighscoreRepository) Get(ctx context.Context, userID, levelID uint) (*models.Highscore, error) {
	var hs models.Highscore
	err := r.DB.WithContext(ctx).Where("user_id = ? AND level_id = ?", userID, levelID).First(&hs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrHighscoreNotFound
	}
	if err != nil {
		return nil, err
	}
	return &hs, nil
}

// UpsertMax stores value for (userID, levelID) in a single statement: the row
// is inserted when missing and raised only when value beats the stored one.
func (r *HighscoreRepository) UpsertMax(ctx context.Context, userID, levelID uint, value int) (*models.Highscore, error) {
	row := models.Highscore{UserID: userID, LevelID: levelID, HighscoreValue: value}
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "level_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"highscore_value": gorm.Expr("CASE WHEN excluded.highscore_value > highscores.highscore_value THEN excluded.highscore_value ELSE highscores.highscore_value END"),
			"updated_at":      gorm.Expr("CASE WHEN excluded.highscore_value > highscores.highscore_value THEN excluded.updated_at ELSE highscores.updated_at END"),
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, userID, levelID)
}

// ListByLevel returns the level's leaderboard, best first. Equal values keep
// the order in which the rows were first recorded.
func (r *HighscoreRepository) ListByLevel(ctx context.Context, levelID uint) ([]models.LevelHighscore, error) {
	rows := []models.LevelHighscore{}
	err := r.DB.WithContext(ctx).Model(&models.Highscore{}).
		Select("users.username AS username, highscores.highscore_value AS highscore_value").
		Joins("JOIN users ON users.id = highscores.user_id").
		Where("highscores.level_id = ?", levelID).
		Order("highscores.highscore_value DESC, highscores.id ASC").
		Scan(&rows).Error
	return rows, err
}

// BestByUser returns the user's best value per level ordered by level name.
func (r *HighscoreRepository) BestByUser(ctx context.Context, userID uint) ([]models.UserBestHighscore, error) {
	rows := []models.UserBestHighscore{}
	err := r.DB.WithContext(ctx).Model(&models.Highscore{}).
		Select("levels.name AS level_name, MAX(highscores.highscore_value) AS highscore").
		Joins("JOIN levels ON levels.id = highscores.level_id").
		Where("highscores.user_id = ?", userID).
		Group("highscores.level_id, levels.name").
		Order("levels.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *HighscoreRepository) Delete(ctx context.Context, id uint) error {
	result := r.DB.WithContext(ctx).Delete(&models.Highscore{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrHighscoreNotFound
	}
	return nil
}
