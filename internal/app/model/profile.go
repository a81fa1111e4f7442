package model

import (
	"time"

	"gorm.io/gorm"
)

// Profile is an optional one-to-one extension of User
type Profile struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	FirstName string         `gorm:"size:100" json:"first_name"`
	LastName  string         `gorm:"size:100" json:"last_name"`
	Phone     string         `gorm:"size:30" json:"phone"`
	Avatar    string         `json:"avatar"`
	Bio       string         `gorm:"type:text" json:"bio"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Profile) TableName() string {
	return "profiles"
}
