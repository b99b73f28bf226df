package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/OwaisShaikh-8/Instant-Meal/apperr"
	"github.com/OwaisShaikh-8/Instant-Meal/auth"
	"github.com/OwaisShaikh-8/Instant-Meal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	userIDKey    = "user_id"
	userKey      = "user"
	principalKey = "principal"
)

// TokenFrom returns the raw token from the Authorization header or the
// jwt cookie.
func TokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie(auth.CookieName); err == nil {
		return cookie
	}
	return ""
}

// ValidateToken accepts a Bearer token or the jwt cookie, loads the user it
// names and stores both in the context.
func ValidateToken(db *gorm.DB, tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := TokenFrom(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authorization token is missing"})
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired token"})
			return
		}

		var user models.User
		if err := db.WithContext(c.Request.Context()).First(&user, "id = ?", claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User no longer exists"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
			return
		}

		p := claims.Principal()
		p.Role = user.Role
		c.Set(userIDKey, user.ID)
		c.Set(userKey, &user)
		c.Set(principalKey, p)
		c.Next()
	}
}

// RequireVendor lets only vendor accounts (and their staff tokens) through.
func RequireVendor(c *gin.Context) {
	p := CurrentPrincipal(c)
	if p == nil || !p.IsVendor() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Vendor account required"})
		return
	}
	c.Next()
}

func CurrentPrincipal(c *gin.Context) *auth.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*auth.Principal)
	return p
}

func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// OwnedRestaurant is the restaurant the caller acts for: the one named in
// a staff token, or the one the vendor owns.
func OwnedRestaurant(db *gorm.DB, p *auth.Principal) (*models.Restaurant, error) {
	if p == nil {
		return nil, apperr.Unauthorized("not signed in")
	}
	var r models.Restaurant
	q := db
	if p.IsStaff() {
		q = q.Where("id = ?", p.RestaurantID)
	} else {
		q = q.Where("user_id = ?", p.UserID)
	}
	if err := q.First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("restaurant not found")
		}
		return nil, err
	}
	return &r, nil
}

// RestaurantAccess checks that p may use capability need inside
// restaurantID. Owners may do anything in their own restaurant. Staff
// tokens are confined to theirs and to the role's capabilities.
func RestaurantAccess(db *gorm.DB, p *auth.Principal, restaurantID string, need auth.Capability) error {
	if p == nil {
		return apperr.Unauthorized("not signed in")
	}
	if p.IsStaff() {
		if p.RestaurantID != restaurantID || !p.Has(need) {
			return apperr.Forbidden("your role may not do this")
		}
		return nil
	}

	var r models.Restaurant
	if err := db.Select("id", "user_id").First(&r, "id = ?", restaurantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("restaurant not found")
		}
		return err
	}
	if r.UserID != p.UserID || !p.Has(need) {
		return apperr.Forbidden("you do not manage this restaurant")
	}
	return nil
}
