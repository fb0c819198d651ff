package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidTransition reports whether an order may move from one status to
// another. Completed and cancelled are terminal.
func ValidTransition(from, to OrderStatus) bool {
	switch from {
	case OrderStatusPending:
		return to == OrderStatusProcessing || to == OrderStatusCancelled
	case OrderStatusProcessing:
		return to == OrderStatusCompleted
	}
	return false
}

// Order is immutable once created, except for the status transition.
// Line prices are snapshots taken at checkout time.
type Order struct {
	ID          uint        `gorm:"primarykey" json:"id"`
	OrderNumber string      `gorm:"type:varchar(40);uniqueIndex;not null" json:"order_number"`
	UserID      uint        `gorm:"not null;index" json:"user_id"`
	TotalAmount float64     `gorm:"not null" json:"total_amount"`
	Status      OrderStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User        User              `gorm:"foreignKey:UserID" json:"-"`
	Items       []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	BundleItems []OrderBundleItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"bundle_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID            uint     `gorm:"primarykey" json:"id"`
	OrderID       uint     `gorm:"not null;index" json:"order_id"`
	GameID        uint     `gorm:"not null;index" json:"game_id"`
	UnitPrice     float64  `gorm:"not null" json:"unit_price"`               // price paid, discount applied
	OriginalPrice *float64 `json:"original_price,omitempty"`                 // pre-discount price, when discounted
	TitleSnapshot string   `gorm:"type:varchar(255)" json:"title_snapshot"`
	Quantity      int      `gorm:"not null;default:1" json:"quantity"`

	CreatedAt time.Time `json:"created_at"`

	Order Order `gorm:"foreignKey:OrderID" json:"-"`
	Game  Game  `gorm:"foreignKey:GameID" json:"game,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

type OrderBundleItem struct {
	ID            uint     `gorm:"primarykey" json:"id"`
	OrderID       uint     `gorm:"not null;index" json:"order_id"`
	BundleID      uint     `gorm:"not null;index" json:"bundle_id"`
	UnitPrice     float64  `gorm:"not null" json:"unit_price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	TitleSnapshot string   `gorm:"type:varchar(255)" json:"title_snapshot"`
	Quantity      int      `gorm:"not null;default:1" json:"quantity"`

	CreatedAt time.Time `json:"created_at"`

	Order  Order  `gorm:"foreignKey:OrderID" json:"-"`
	Bundle Bundle `gorm:"foreignKey:BundleID" json:"bundle,omitempty"`
}

func (OrderBundleItem) TableName() string {
	return "order_bundle_items"
}
