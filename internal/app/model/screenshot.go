package model

import "time"

type Screenshot struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	GameID    uint      `gorm:"not null;index" json:"game_id"`
	URL       string    `gorm:"not null" json:"url"`
	Position  int       `gorm:"default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func (Screenshot) TableName() string {
	return "screenshots"
}
