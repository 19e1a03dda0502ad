package models

// LevelStats counts highscore submissions recorded for a level, whether or
// not they improved a personal best.
type LevelStats struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	LevelID         uint `gorm:"not null;uniqueIndex" json:"levelId"`
	CompletionCount int  `gorm:"not null;default:0" json:"completionCount"`
}

func (LevelStats) TableName() string { return "level_stats" }

// LevelCompletion is the public view of a LevelStats row.
type LevelCompletion struct {
	LevelName       string `json:"levelName"`
	CompletionCount int    `json:"completionCount"`
}
