// Package testutil builds throwaway databases and fixtures for tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/OwaisShaikh-8/Instant-Meal/database"
	"github.com/OwaisShaikh-8/Instant-Meal/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory sqlite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, role models.Role, email string) *models.User {
	t.Helper()
	u := &models.User{Fullname: "Test " + string(role), Email: email, PasswordHash: "x", Role: role}
	if role == models.RoleVendor {
		u.CompanyName = "Company " + email
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func CreateRestaurant(t testing.TB, db *gorm.DB, owner *models.User) *models.Restaurant {
	t.Helper()
	r := &models.Restaurant{
		Name:    "Karachi Grill",
		Contact: "0300-0000000",
		Email:   "grill@example.com",
		Address: "Main Boulevard",
		City:    "karachi",
		Banner:  models.Image{URL: "/uploads/banners/b.png", PublicID: "banners/b.png"},
		UserID:  owner.ID,
	}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("create restaurant: %v", err)
	}
	return r
}

func CreateMenuItem(t testing.TB, db *gorm.DB, restaurantID, name string, price float64) *models.MenuItem {
	t.Helper()
	m := &models.MenuItem{
		RestaurantID: restaurantID,
		Name:         name,
		Price:        price,
		Category:     "main course",
		Description:  name + " description",
		Image:        models.Image{URL: "/uploads/menu/" + name + ".png", PublicID: "menu/" + name + ".png"},
		Available:    true,
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("create menu item: %v", err)
	}
	return m
}
