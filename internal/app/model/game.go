package model

import (
	"time"

	"gorm.io/gorm"
)

// Game is a purchasable catalog entry. BasePrice is the canonical list
// price; discount math never mutates it.
type Game struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	Title           string     `gorm:"not null;index" json:"title"`
	Description     string     `gorm:"type:text" json:"description"`
	BasePrice       float64    `gorm:"not null" json:"base_price"`
	DiscountPercent *int       `json:"discount_percent,omitempty"` // 0-100 when present
	DiscountEndsAt  *time.Time `json:"discount_ends_at,omitempty"`
	ReleaseDate     time.Time  `gorm:"index" json:"release_date"`
	CoverURL        string     `json:"cover_url"`

	Genres      []Genre      `gorm:"many2many:game_genres" json:"genres,omitempty"`
	Platforms   []Platform   `gorm:"many2many:game_platforms" json:"platforms,omitempty"`
	Developers  []Company    `gorm:"many2many:game_developers" json:"developers,omitempty"`
	Publishers  []Company    `gorm:"many2many:game_publishers" json:"publishers,omitempty"`
	Screenshots []Screenshot `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"screenshots,omitempty"`
	Ratings     []Rating     `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"ratings,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Game) TableName() string {
	return "games"
}
