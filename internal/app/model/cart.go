package model

import (
	"time"
)

// Cart is created lazily on first access, one per user. The unique index on
// UserID is what makes concurrent first-access converge on a single cart.
// No soft delete: a deleted row must release the user's cart slot.
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Cart) TableName() string {
	return "carts"
}

// CartItem is one product line in a cart. Price is snapshotted at add-time
// and never re-read from the product. Hard delete keeps the
// (cart_id, product_id) slot free for re-adds.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_product" json:"cart_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_product;index" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Cart    Cart    `gorm:"foreignKey:CartID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// LineTotal is the display total for the line: snapshot price times quantity
func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// TotalQuantity sums quantities across all lines.
func (c Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums line totals across all lines.
func (c Cart) TotalPrice() float64 {
	total := 0.0
	for _, item := range c.Items {
		total += item.LineTotal()
	}
	return total
}
