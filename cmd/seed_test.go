package cmd

import (
	"testing"

	"github.com/OwaisShaikh-8/Instant-Meal/auth"
	"github.com/OwaisShaikh-8/Instant-Meal/internal/testutil"
	"github.com/OwaisShaikh-8/Instant-Meal/models"
	"github.com/jaswdr/faker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, Seed(db, faker.New(), SeedOptions{Vendors: 3, Customers: 4, Items: 5, Password: "secret1"}))

	var vendors, customers, restaurants, items int64
	db.Model(&models.User{}).Where("role = ?", models.RoleVendor).Count(&vendors)
	db.Model(&models.User{}).Where("role = ?", models.RoleCustomer).Count(&customers)
	db.Model(&models.Restaurant{}).Count(&restaurants)
	db.Model(&models.MenuItem{}).Count(&items)
	assert.EqualValues(t, 3, vendors)
	assert.EqualValues(t, 4, customers)
	assert.EqualValues(t, 3, restaurants)
	assert.EqualValues(t, 15, items)

	var item models.MenuItem
	require.NoError(t, db.First(&item).Error)
	assert.True(t, models.IsMenuCategory(item.Category))
	assert.GreaterOrEqual(t, item.Price, 50.0)

	var u models.User
	require.NoError(t, db.First(&u).Error)
	assert.True(t, auth.CheckSecret(u.PasswordHash, "secret1"))
}
