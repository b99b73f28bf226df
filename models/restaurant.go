package models

import (
	"time"

	"gorm.io/gorm"
)

type Restaurant struct {
	ID          string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Contact     string     `gorm:"not null" json:"contact"`
	Email       string     `gorm:"not null" json:"email"`
	Address     string     `gorm:"not null" json:"address"`
	City        string     `gorm:"index;not null" json:"city"` // stored lower-case
	Description string     `json:"description"`
	Banner      Image      `gorm:"embedded;embeddedPrefix:banner_" json:"banner"`
	UserID      string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"userId"` // one restaurant per owner
	MenuItems   []MenuItem `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"menuItems,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = NewID()
	}
	return nil
}
