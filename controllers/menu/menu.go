package menuControllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/OwaisShaikh-8/Instant-Meal/apperr"
	"github.com/OwaisShaikh-8/Instant-Meal/auth"
	"github.com/OwaisShaikh-8/Instant-Meal/controllers/respond"
	restaurantControllers "github.com/OwaisShaikh-8/Instant-Meal/controllers/restaurant"
	"github.com/OwaisShaikh-8/Instant-Meal/middleware"
	"github.com/OwaisShaikh-8/Instant-Meal/models"
	"github.com/OwaisShaikh-8/Instant-Meal/storage"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// -------- Helpers --------

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, apperr.Validation("Invalid price")
	}
	if price <= 0 {
		return 0, apperr.Validation("Price must be greater than 0")
	}
	return price, nil
}

func parseCategory(raw string) (string, error) {
	category := strings.ToLower(strings.TrimSpace(raw))
	if !models.IsMenuCategory(category) {
		return "", apperr.Validation("Invalid category '%s'. Valid categories: %s", raw, strings.Join(models.MenuCategories, ", "))
	}
	return category, nil
}

func parseAvailable(raw string) (bool, error) {
	available, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, apperr.Validation("Invalid available flag")
	}
	return available, nil
}

// findItem loads a menu item and checks that it belongs to restaurantID.
func findItem(db *gorm.DB, restaurantID, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Menu item not found")
		}
		return nil, err
	}
	if item.RestaurantID != restaurantID {
		return nil, apperr.Forbidden("Unauthorized access")
	}
	return &item, nil
}

// manageable checks the caller may edit the menu of the restaurant in the
// path and returns the item named by :id when there is one.
func manageable(c *gin.Context, db *gorm.DB) (*models.MenuItem, error) {
	restaurantID := c.Param("restaurantId")
	if err := middleware.RestaurantAccess(db, middleware.CurrentPrincipal(c), restaurantID, auth.CapMenu); err != nil {
		return nil, err
	}
	if c.Param("id") == "" {
		return nil, nil
	}
	return findItem(db, restaurantID, c.Param("id"))
}

func formFile(c *gin.Context, name string) *multipart.FileHeader {
	fh, err := c.FormFile(name)
	if err != nil {
		return nil
	}
	return fh
}

// -------- Handlers --------

// POST /api/menu/:restaurantId (multipart, image file "image")
func CreateMenuItemHandler(db *gorm.DB, images storage.ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctxDB := db.WithContext(ctx)
		if _, err := manageable(c, ctxDB); err != nil {
			respond.Error(c, err)
			return
		}

		name := strings.TrimSpace(c.PostForm("name"))
		description := strings.TrimSpace(c.PostForm("description"))
		if name == "" || c.PostForm("price") == "" || c.PostForm("category") == "" || description == "" {
			respond.Error(c, apperr.Validation("Name, price, category and description are required"))
			return
		}
		price, err := parsePrice(c.PostForm("price"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		category, err := parseCategory(c.PostForm("category"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		available := true
		if raw, ok := c.GetPostForm("available"); ok && raw != "" {
			if available, err = parseAvailable(raw); err != nil {
				respond.Error(c, err)
				return
			}
		}
		file := formFile(c, "image")
		if file == nil {
			respond.Error(c, apperr.Validation("Image is required"))
			return
		}

		img, err := images.Upload(ctx, storage.FolderMenu, file)
		if err != nil {
			respond.Error(c, err)
			return
		}
		item := models.MenuItem{
			RestaurantID: c.Param("restaurantId"),
			Name:         name,
			Price:        price,
			Category:     category,
			Description:  description,
			Image:        img,
			Available:    available,
		}
		if err := ctxDB.Create(&item).Error; err != nil {
			if derr := storage.Discard(context.Background(), images, img); derr != nil {
				log.Printf("❌ Failed to remove menu image %s: %v", img.PublicID, derr)
			}
			respond.Error(c, fmt.Errorf("create menu item: %w", err))
			return
		}

		log.Printf("🍽️ Menu item %s added to %s", item.Name, item.RestaurantID)
		respond.OK(c, http.StatusCreated, "Menu item created successfully", gin.H{"data": item})
	}
}

// GET /api/menu/:restaurantId?page=&limit=&category=&available=
func GetMenuItemsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := restaurantControllers.Page(c)

		query := db.WithContext(c.Request.Context()).Model(&models.MenuItem{}).
			Where("restaurant_id = ?", c.Param("restaurantId"))
		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", strings.ToLower(category))
		}
		if raw := c.Query("available"); raw != "" {
			available, err := parseAvailable(raw)
			if err != nil {
				respond.Error(c, err)
				return
			}
			query = query.Where("available = ?", available)
		}

		var total int64
		if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			respond.Error(c, err)
			return
		}
		items := []models.MenuItem{}
		if err := query.Session(&gorm.Session{}).Order("created_at DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&items).Error; err != nil {
			respond.Error(c, err)
			return
		}

		respond.OK(c, http.StatusOK, "Menu items fetched", gin.H{
			"count":     len(items),
			"total":     total,
			"page":      page,
			"pages":     restaurantControllers.Pages(total, limit),
			"menuItems": items,
		})
	}
}

// GET /api/menu/:restaurantId/items/:id
func GetMenuItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, err := findItem(db.WithContext(c.Request.Context()), c.Param("restaurantId"), c.Param("id"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		respond.OK(c, http.StatusOK, "Menu item fetched", gin.H{"data": item})
	}
}

// GET /api/menu/:restaurantId/category/:category
func GetMenuItemsByCategoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		category := strings.ToLower(c.Param("category"))
		items := []models.MenuItem{}
		if err := db.WithContext(c.Request.Context()).
			Where("restaurant_id = ? AND category = ?", c.Param("restaurantId"), category).
			Order("created_at DESC").
			Find(&items).Error; err != nil {
			respond.Error(c, err)
			return
		}
		respond.OK(c, http.StatusOK, "Menu items fetched", gin.H{"count": len(items), "category": category, "data": items})
	}
}

// PUT /api/menu/:restaurantId/items/:id (multipart, every field optional)
func UpdateMenuItemHandler(db *gorm.DB, images storage.ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctxDB := db.WithContext(ctx)
		item, err := manageable(c, ctxDB)
		if err != nil {
			respond.Error(c, err)
			return
		}

		updates := map[string]interface{}{}
		if name := strings.TrimSpace(c.PostForm("name")); name != "" {
			updates["name"] = name
		}
		if raw := c.PostForm("price"); raw != "" {
			price, err := parsePrice(raw)
			if err != nil {
				respond.Error(c, err)
				return
			}
			updates["price"] = price
		}
		if raw := c.PostForm("category"); raw != "" {
			category, err := parseCategory(raw)
			if err != nil {
				respond.Error(c, err)
				return
			}
			updates["category"] = category
		}
		if description, ok := c.GetPostForm("description"); ok {
			updates["description"] = strings.TrimSpace(description)
		}
		if raw := c.PostForm("available"); raw != "" {
			available, err := parseAvailable(raw)
			if err != nil {
				respond.Error(c, err)
				return
			}
			updates["available"] = available
		}

		old := item.Image
		var fresh models.Image
		if file := formFile(c, "image"); file != nil {
			if fresh, err = images.Upload(ctx, storage.FolderMenu, file); err != nil {
				respond.Error(c, err)
				return
			}
			updates["image_url"] = fresh.URL
			updates["image_public_id"] = fresh.PublicID
		}

		if len(updates) > 0 {
			if err := ctxDB.Model(item).Updates(updates).Error; err != nil {
				if derr := storage.Discard(context.Background(), images, fresh); derr != nil {
					log.Printf("❌ Failed to remove menu image %s: %v", fresh.PublicID, derr)
				}
				respond.Error(c, fmt.Errorf("update menu item: %w", err))
				return
			}
		}
		if !fresh.IsZero() {
			if err := storage.Discard(ctx, images, old); err != nil {
				log.Printf("⚠️ Failed to remove old menu image %s: %v", old.PublicID, err)
			}
		}

		updated, err := findItem(ctxDB, item.RestaurantID, item.ID)
		if err != nil {
			respond.Error(c, err)
			return
		}
		respond.OK(c, http.StatusOK, "Menu item updated successfully", gin.H{"data": updated})
	}
}

// DELETE /api/menu/:restaurantId/items/:id
func DeleteMenuItemHandler(db *gorm.DB, images storage.ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctxDB := db.WithContext(ctx)
		item, err := manageable(c, ctxDB)
		if err != nil {
			respond.Error(c, err)
			return
		}
		if err := ctxDB.Delete(item).Error; err != nil {
			respond.Error(c, fmt.Errorf("delete menu item: %w", err))
			return
		}
		if err := storage.Discard(ctx, images, item.Image); err != nil {
			log.Printf("⚠️ Failed to remove menu image %s: %v", item.Image.PublicID, err)
		}
		log.Printf("🗑️ Menu item %s deleted", item.Name)
		respond.OK(c, http.StatusOK, "Menu item deleted successfully", nil)
	}
}

// PATCH /api/menu/:restaurantId/items/:id/toggle
func ToggleAvailabilityHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctxDB := db.WithContext(c.Request.Context())
		item, err := manageable(c, ctxDB)
		if err != nil {
			respond.Error(c, err)
			return
		}
		item.Available = !item.Available
		if err := ctxDB.Model(item).Update("available", item.Available).Error; err != nil {
			respond.Error(c, err)
			return
		}

		state := "unavailable"
		if item.Available {
			state = "available"
		}
		respond.OK(c, http.StatusOK, "Menu item is now "+state, gin.H{"data": item})
	}
}
