package handlers

import (
	"context"
	"net/http"

	"mudskip/leaderboard/internal/models"
	"mudskip/leaderboard/internal/repositories"
	"mudskip/leaderboard/internal/services"
)

// UserRepository captures the persistence operations required by handlers.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	EmailTakenByOther(ctx context.Context, email string, userID uint) (bool, error)
	UpdateUser(ctx context.Context, userID uint, updates *models.User) (*models.User, error)
	DeleteUser(ctx context.Context, userID uint) error
}

type LevelRepository interface {
	List(ctx context.Context) ([]models.Level, error)
	GetByID(ctx context.Context, id uint) (*models.Level, error)
	Create(ctx context.Context, level *models.Level) error
	Rename(ctx context.Context, id uint, name string) error
	Delete(ctx context.Context, id uint) error
}

type HighscoreRepository interface {
	ListByLevel(ctx context.Context, levelID uint) ([]models.LevelHighscore, error)
	BestByUser(ctx context.Context, userID uint) ([]models.UserBestHighscore, error)
	Delete(ctx context.Context, id uint) error
}

type LevelStatsRepository interface {
	List(ctx context.Context) ([]models.LevelCompletion, error)
	SetCount(ctx context.Context, levelID uint, count int) error
	Delete(ctx context.Context, levelID uint) error
}

type ReviewRepository interface {
	HasReviewed(ctx context.Context, userID uint) (bool, error)
	Create(ctx context.Context, review *models.Review) error
	ListWithAuthors(ctx context.Context) ([]repositories.ReviewWithAuthor, error)
	Delete(ctx context.Context, id uint) error
}

// HighscoreSubmitter runs the highscore submission flow.
type HighscoreSubmitter interface {
	Submit(ctx context.Context, userID uint, levelName string, value int) (*services.SubmitResult, error)
}

// SessionManager issues and revokes server-side sessions.
type SessionManager interface {
	Create(ctx context.Context, userID uint) (string, error)
	Destroy(ctx context.Context, id string) error
}

// SessionCookie writes and clears the session cookie on responses.
type SessionCookie interface {
	Write(w http.ResponseWriter, sessionID string) error
	Clear(w http.ResponseWriter)
}
