package model

import (
	"time"

	"gorm.io/gorm"
)

// Address is a user shipping/billing address. The partial unique index on
// user_id keeps "at most one default per user" enforced at the storage layer
// even across server instances.
type Address struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index;uniqueIndex:idx_addresses_user_default,where:is_default AND deleted_at IS NULL" json:"user_id"`
	Street    string         `gorm:"size:255;not null" json:"street"`
	City      string         `gorm:"size:100;not null" json:"city"`
	State     string         `gorm:"size:100;not null" json:"state"`
	ZipCode   string         `gorm:"size:20;not null" json:"zip_code"`
	Country   string         `gorm:"size:100;not null" json:"country"`
	IsDefault bool           `gorm:"default:false" json:"is_default"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Address) TableName() string {
	return "addresses"
}
