package repositories

import (
	"context"
	"errors"
	"time"

	"mudskip/leaderboard/internal/models"

	"gorm.io/gorm"
)

var ErrReviewNotFound = errors.New("review not found")

type ReviewWithAuthor struct {
	Username  string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

type ReviewRepository struct {
	DB *gorm.DB
}

func (r *ReviewRepository) HasReviewed(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Review{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.DB.WithContext(ctx).Create(review).Error
}

// ListWithAuthors returns all reviews newest first with the author's username.
func (r *ReviewRepository) ListWithAuthors(ctx context.Context) ([]ReviewWithAuthor, error) {
	rows := []ReviewWithAuthor{}
	err := r.DB.WithContext(ctx).Model(&models.Review{}).
		Select("users.username AS username, reviews.rating AS rating, reviews.comment AS comment, reviews.created_at AS created_at").
		Joins("JOIN users ON users.id = reviews.user_id").
		Order("reviews.created_at DESC, reviews.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *ReviewRepository) Delete(ctx context.Context, id uint) error {
	result := r.DB.WithContext(ctx).Delete(&models.Review{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
