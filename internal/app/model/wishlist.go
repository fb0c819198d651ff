package model

import "time"

// WishlistItem is a set entry, toggled independently of cart and ownership.
// Hard-deleted so a toggle cycle never collides with the unique index.
type WishlistItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_wishlist_user_game" json:"user_id"`
	GameID    uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_game" json:"game_id"`
	CreatedAt time.Time `json:"created_at"`

	Game Game `gorm:"foreignKey:GameID" json:"game,omitempty"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}
