package models

import (
	"time"

	"gorm.io/gorm"
)

// MenuCategories are the categories a menu item may be filed under.
var MenuCategories = []string{
	"appetizers",
	"main course",
	"desserts",
	"beverages",
	"fast food",
	"traditional",
	"bbq & grills",
	"seafood",
	"vegetarian",
	"breakfast",
}

func IsMenuCategory(c string) bool {
	for _, mc := range MenuCategories {
		if mc == c {
			return true
		}
	}
	return false
}

type MenuItem struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	RestaurantID string    `gorm:"type:varchar(36);index;not null" json:"restaurantId"`
	Name         string    `gorm:"not null" json:"name"`
	Price        float64   `gorm:"not null" json:"price"`
	Category     string    `gorm:"index;not null" json:"category"`
	Description  string    `gorm:"not null" json:"description"`
	Image        Image     `gorm:"embedded;embeddedPrefix:image_" json:"image"`
	Available    bool      `gorm:"not null" json:"available"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = NewID()
	}
	return nil
}
