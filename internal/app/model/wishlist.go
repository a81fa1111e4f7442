package model

import (
	"time"
)

// Wishlist is created lazily on first access, one per user, same
// unique-owner race guard as Cart.
type Wishlist struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Items []WishlistItem `gorm:"foreignKey:WishlistID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Wishlist) TableName() string {
	return "wishlists"
}

// WishlistItem is a set membership, no quantity. The unique pair index
// rejects duplicates at the storage layer.
type WishlistItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	WishlistID uint      `gorm:"not null;uniqueIndex:idx_wishlist_items_wishlist_product" json:"wishlist_id"`
	ProductID  uint      `gorm:"not null;uniqueIndex:idx_wishlist_items_wishlist_product;index" json:"product_id"`
	CreatedAt  time.Time `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}
