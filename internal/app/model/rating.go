package model

import "time"

// Rating is one user's score for one game. Score 0 is a valid rating and
// distinct from "not rated".
type Rating struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	GameID    uint      `gorm:"not null;index;uniqueIndex:idx_ratings_game_user" json:"game_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_ratings_game_user" json:"user_id"`
	Score     int       `gorm:"not null" json:"score"` // 0-5
	Comment   string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Rating) TableName() string {
	return "ratings"
}
