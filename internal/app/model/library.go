package model

import (
	"time"

	"gorm.io/gorm"
)

// LibraryEntry records permanent ownership of a game. Created only by a
// completed checkout or an administrative grant; never removed by normal
// user action, so there is no soft-delete column.
type LibraryEntry struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     uint      `gorm:"not null;index;uniqueIndex:idx_library_user_game" json:"user_id"`
	GameID     uint      `gorm:"not null;uniqueIndex:idx_library_user_game" json:"game_id"`
	AcquiredAt time.Time `gorm:"not null" json:"acquired_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Game Game `gorm:"foreignKey:GameID" json:"game,omitempty"`
}

func (LibraryEntry) TableName() string {
	return "library_entries"
}

func (e *LibraryEntry) BeforeCreate(tx *gorm.DB) error {
	if e.AcquiredAt.IsZero() {
		e.AcquiredAt = time.Now()
	}
	return nil
}
