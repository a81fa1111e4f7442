package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Owned aggregates, removed together with the user
	Profile   *Profile  `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Cart      *Cart     `gorm:"foreignKey:UserID" json:"-"`
	Wishlist  *Wishlist `gorm:"foreignKey:UserID" json:"-"`
	Addresses []Address `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
