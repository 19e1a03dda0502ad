package models

import "time"

// Highscore is the best value a user has reached on a level. There is at most
// one row per (user, level).
type Highscore struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_highscores_user_level" json:"userId"`
	LevelID        uint      `gorm:"not null;uniqueIndex:idx_highscores_user_level;index" json:"levelId"`
	HighscoreValue int       `gorm:"not null" json:"highscoreValue"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Highscore) TableName() string { return "highscores" }

// LevelHighscore is one leaderboard line for a level.
type LevelHighscore struct {
	Username       string `json:"username"`
	HighscoreValue int    `json:"highscoreValue"`
}

// UserBestHighscore is a user's best value on one level.
type UserBestHighscore struct {
	LevelName string `json:"levelName"`
	Highscore int    `json:"highscore"`
}
