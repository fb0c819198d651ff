package model

import "time"

// Company covers both developers and publishers; the role comes from
// which game relation references it.
type Company struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Company) TableName() string {
	return "companies"
}
