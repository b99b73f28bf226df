package restaurantControllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/OwaisShaikh-8/Instant-Meal/apperr"
	"github.com/OwaisShaikh-8/Instant-Meal/controllers/respond"
	"github.com/OwaisShaikh-8/Instant-Meal/middleware"
	"github.com/OwaisShaikh-8/Instant-Meal/models"
	"github.com/OwaisShaikh-8/Instant-Meal/storage"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// -------- Helpers --------

// Page reads page and limit query params, defaulting to 1 and 10.
func Page(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func Pages(total int64, limit int) int {
	return int(math.Ceil(float64(total) / float64(limit)))
}

// likeEscaper makes user text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func findRestaurant(db *gorm.DB, id string) (*models.Restaurant, error) {
	var r models.Restaurant
	if err := db.First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Restaurant not found")
		}
		return nil, err
	}
	return &r, nil
}

// -------- Handlers --------

// POST /api/restaurants/create (multipart, banner file "banner")
func CreateRestaurantHandler(db *gorm.DB, images storage.ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.CurrentPrincipal(c)
		if p.IsStaff() {
			respond.Error(c, apperr.Forbidden("Only the owner can register a restaurant"))
			return
		}
		ctx := c.Request.Context()
		ctxDB := db.WithContext(ctx)

		restaurant := models.Restaurant{
			Name:        strings.TrimSpace(c.PostForm("name")),
			Contact:     strings.TrimSpace(c.PostForm("contact")),
			Email:       strings.TrimSpace(c.PostForm("email")),
			Address:     strings.TrimSpace(c.PostForm("address")),
			City:        strings.ToLower(strings.TrimSpace(c.PostForm("city"))),
			Description: strings.TrimSpace(c.PostForm("description")),
			UserID:      p.UserID,
		}
		if restaurant.Name == "" || restaurant.Contact == "" || restaurant.Email == "" ||
			restaurant.Address == "" || restaurant.City == "" {
			respond.Error(c, apperr.Validation("Name, contact, email, address and city are required"))
			return
		}

		var count int64
		if err := ctxDB.Model(&models.Restaurant{}).Where("user_id = ?", p.UserID).Count(&count).Error; err != nil {
			respond.Error(c, err)
			return
		}
		if count > 0 {
			respond.Error(c, apperr.Conflict("You already have a restaurant registered"))
			return
		}

		file, err := c.FormFile("banner")
		if err != nil {
			respond.Error(c, apperr.Validation("Please upload a banner image"))
			return
		}
		restaurant.Banner, err = images.Upload(ctx, storage.FolderBanners, file)
		if err != nil {
			respond.Error(c, err)
			return
		}

		if err := ctxDB.Create(&restaurant).Error; err != nil {
			if derr := storage.Discard(context.Background(), images, restaurant.Banner); derr != nil {
				log.Printf("❌ Failed to remove banner %s: %v", restaurant.Banner.PublicID, derr)
			}
			respond.Error(c, fmt.Errorf("create restaurant: %w", err))
			return
		}

		log.Printf("🏪 Restaurant %s created in %s", restaurant.Name, restaurant.City)
		respond.OK(c, http.StatusCreated, "Restaurant created successfully", gin.H{"data": restaurant})
	}
}

// GET /api/restaurants/my
func GetMyRestaurantHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := middleware.OwnedRestaurant(db.WithContext(c.Request.Context()), middleware.CurrentPrincipal(c))
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				err = apperr.NotFound("No restaurant found for this user")
			}
			respond.Error(c, err)
			return
		}
		respond.OK(c, http.StatusOK, "Restaurant fetched", gin.H{"activeRestaurant": r})
	}
}

// GET /api/restaurants/user/:userId
func GetRestaurantByUserIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var r models.Restaurant
		if err := db.WithContext(c.Request.Context()).First(&r, "user_id = ?", c.Param("userId")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				err = apperr.NotFound("Restaurant not found")
			}
			respond.Error(c, err)
			return
		}
		respond.OK(c, http.StatusOK, "Restaurant fetched", gin.H{"activeRestaurant": r})
	}
}

// GET /api/restaurants/city/:city
func GetRestaurantsByCityHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		city := c.Param("city")
		restaurants := []models.Restaurant{}
		if err := db.WithContext(c.Request.Context()).
			Where("city = ?", strings.ToLower(strings.TrimSpace(city))).
			Order("created_at DESC").
			Find(&restaurants).Error; err != nil {
			respond.Error(c, err)
			return
		}
		if len(restaurants) == 0 {
			respond.Error(c, apperr.NotFound("No restaurants found in %s", city))
			return
		}
		respond.OK(c, http.StatusOK, "Restaurants fetched", gin.H{"restaurants": restaurants})
	}
}

// GET /api/restaurants?city=&search=&page=&limit=
func GetAllRestaurantsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := Page(c)

		query := db.WithContext(c.Request.Context()).Model(&models.Restaurant{})
		if city := strings.TrimSpace(c.Query("city")); city != "" {
			query = query.Where("city = ?", strings.ToLower(city))
		}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			like := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
			query = query.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, like, like)
		}

		var total int64
		if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			respond.Error(c, err)
			return
		}
		restaurants := []models.Restaurant{}
		if err := query.Session(&gorm.Session{}).Order("created_at DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&restaurants).Error; err != nil {
			respond.Error(c, err)
			return
		}

		respond.OK(c, http.StatusOK, "Restaurants fetched", gin.H{
			"data": restaurants,
			"pagination": gin.H{
				"total": total,
				"page":  page,
				"pages": Pages(total, limit),
			},
		})
	}
}

// GET /api/restaurants/:id
func GetRestaurantByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := findRestaurant(db.WithContext(c.Request.Context()), c.Param("id"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		respond.OK(c, http.StatusOK, "Restaurant fetched", gin.H{"restaurant": r})
	}
}

// DELETE /api/restaurants/:id
//
// Owner only. The menu goes with the restaurant; orders are kept.
func DeleteRestaurantHandler(db *gorm.DB, images storage.ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		r, err := findRestaurant(db.WithContext(ctx), c.Param("id"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		if p := middleware.CurrentPrincipal(c); p.IsStaff() || r.UserID != p.UserID {
			respond.Error(c, apperr.Forbidden("You are not authorized to delete this restaurant"))
			return
		}

		var menu []models.MenuItem
		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("restaurant_id = ?", r.ID).Find(&menu).Error; err != nil {
				return err
			}
			if err := tx.Where("restaurant_id = ?", r.ID).Delete(&models.MenuItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(r).Error
		})
		if err != nil {
			respond.Error(c, fmt.Errorf("delete restaurant: %w", err))
			return
		}

		for _, img := range append([]models.Image{r.Banner}, menuImages(menu)...) {
			if err := storage.Discard(ctx, images, img); err != nil {
				log.Printf("⚠️ Failed to remove image %s: %v", img.PublicID, err)
			}
		}
		log.Printf("🗑️ Restaurant %s deleted", r.Name)
		respond.OK(c, http.StatusOK, "Restaurant deleted successfully", nil)
	}
}

func menuImages(items []models.MenuItem) []models.Image {
	out := make([]models.Image, 0, len(items))
	for _, m := range items {
		out = append(out, m.Image)
	}
	return out
}
