package model

import (
	"time"

	"gorm.io/gorm"
)

// Bundle is a priced collection of games sold as one catalog item.
// Purchasing a bundle grants every member game.
type Bundle struct {
	ID              uint    `gorm:"primarykey" json:"id"`
	Title           string  `gorm:"not null" json:"title"`
	Description     string  `gorm:"type:text" json:"description"`
	BasePrice       float64 `gorm:"not null" json:"base_price"`
	DiscountPercent *int    `json:"discount_percent,omitempty"` // 0-100 when present

	Games []Game `gorm:"many2many:bundle_games" json:"games,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Bundle) TableName() string {
	return "bundles"
}
