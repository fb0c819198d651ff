package model

import "time"

// CartItem is one pending-purchase line. Exactly one of GameID/BundleID is
// set. Lines are hard-deleted so the per-user unique indexes keep working
// after a checkout clears the cart.
type CartItem struct {
	ID       uint  `gorm:"primarykey" json:"id"`
	UserID   uint  `gorm:"not null;index;uniqueIndex:idx_cart_user_game;uniqueIndex:idx_cart_user_bundle" json:"user_id"`
	GameID   *uint `gorm:"uniqueIndex:idx_cart_user_game" json:"game_id,omitempty"`
	BundleID *uint `gorm:"uniqueIndex:idx_cart_user_bundle" json:"bundle_id,omitempty"`
	Quantity int   `gorm:"not null;default:1" json:"quantity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User   User    `gorm:"foreignKey:UserID" json:"-"`
	Game   *Game   `gorm:"foreignKey:GameID" json:"game,omitempty"`
	Bundle *Bundle `gorm:"foreignKey:BundleID" json:"bundle,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
