package models

// Level is a playable stage that highscores are recorded against.
type Level struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
}

func (Level) TableName() string { return "levels" }
