package model

import "time"

type Platform struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Platform) TableName() string {
	return "platforms"
}
