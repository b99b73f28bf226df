package roleControllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/OwaisShaikh-8/Instant-Meal/apperr"
	"github.com/OwaisShaikh-8/Instant-Meal/auth"
	"github.com/OwaisShaikh-8/Instant-Meal/controllers/respond"
	"github.com/OwaisShaikh-8/Instant-Meal/middleware"
	"github.com/OwaisShaikh-8/Instant-Meal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// -------- Request Structs --------

type SlotInput struct {
	Name      string `json:"name"`
	SecretKey string `json:"secretKey"`
}

type CreateRolesRequest struct {
	Roles map[string]SlotInput `json:"roles"`
}

type VerifyRoleRequest struct {
	Role      string `json:"role"`
	SecretKey string `json:"secretKey"`
}

// -------- Core Logic --------

// CreateRoles stores the vendor's role record. It can only be made once and
// must at least fill the admin slot. Secrets are kept as bcrypt hashes.
func CreateRoles(db *gorm.DB, userID string, req CreateRolesRequest) (*models.BusinessRole, error) {
	admin, ok := req.Roles[string(models.StaffAdmin)]
	if !ok || strings.TrimSpace(admin.Name) == "" || admin.SecretKey == "" {
		return nil, apperr.Validation("The admin role needs a name and a secret key")
	}

	record := &models.BusinessRole{UserID: userID}
	for key, in := range req.Roles {
		role, ok := models.ParseStaffRole(key)
		if !ok {
			return nil, apperr.Validation("Unknown role '%s'", key)
		}
		if in.SecretKey == "" {
			continue
		}
		if len(in.SecretKey) < 4 {
			return nil, apperr.Validation("Secret key for %s must be at least 4 characters", role)
		}
		hash, err := auth.HashSecret(in.SecretKey)
		if err != nil {
			return nil, err
		}
		*record.Slot(role) = models.RoleSlot{Name: strings.TrimSpace(in.Name), SecretHash: hash, IsSet: true}
	}

	var count int64
	if err := db.Model(&models.BusinessRole{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.Conflict("Business roles already exist for this user")
	}
	if err := db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func findRoles(db *gorm.DB, userID string) (*models.BusinessRole, error) {
	var record models.BusinessRole
	if err := db.First(&record, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Business roles not found")
		}
		return nil, err
	}
	return &record, nil
}

// VerifyRole checks secretKey against the hash held in role's slot.
func VerifyRole(db *gorm.DB, userID string, req VerifyRoleRequest) (models.StaffRole, *models.RoleSlot, error) {
	if req.Role == "" || req.SecretKey == "" {
		return "", nil, apperr.Validation("role and secretKey are required")
	}
	role, ok := models.ParseStaffRole(req.Role)
	if !ok {
		return "", nil, apperr.Validation("Unknown role '%s'", req.Role)
	}
	record, err := findRoles(db, userID)
	if err != nil {
		return "", nil, err
	}
	slot := record.Slot(role)
	if !slot.IsSet || !auth.CheckSecret(slot.SecretHash, req.SecretKey) {
		return "", nil, apperr.Unauthorized("%s secret key is invalid", role)
	}
	return role, slot, nil
}

// -------- Handlers --------

// POST /api/roles/create
func CreateRolesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.CurrentPrincipal(c)
		if !p.Has(auth.CapRoles) {
			respond.Error(c, apperr.Forbidden("Your role may not manage roles"))
			return
		}
		var req CreateRolesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, apperr.Validation("Invalid request body"))
			return
		}
		record, err := CreateRoles(db.WithContext(c.Request.Context()), p.UserID, req)
		if err != nil {
			respond.Error(c, err)
			return
		}
		log.Printf("🔑 Business roles created for %s", p.UserID)
		respond.OK(c, http.StatusCreated, "Business roles created successfully", gin.H{"roles": record})
	}
}

// GET /api/roles/get
func GetRolesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		record, err := findRoles(db.WithContext(c.Request.Context()), middleware.CurrentPrincipal(c).UserID)
		if err != nil {
			respond.Error(c, err)
			return
		}
		respond.OK(c, http.StatusOK, "Business roles fetched", gin.H{"roles": record})
	}
}

// POST /api/roles/verifyrole
//
// Trades a role's secret key for a staff token confined to the vendor's
// restaurant and the role's capabilities.
func VerifyRoleHandler(db *gorm.DB, tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyRoleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, apperr.Validation("Invalid request body"))
			return
		}
		ctxDB := db.WithContext(c.Request.Context())
		p := middleware.CurrentPrincipal(c)

		role, slot, err := VerifyRole(ctxDB, p.UserID, req)
		if err != nil {
			respond.Error(c, err)
			return
		}
		restaurant, err := middleware.OwnedRestaurant(ctxDB, p)
		if err != nil {
			respond.Error(c, err)
			return
		}

		token, expires, err := tokens.IssueStaff(middleware.CurrentUser(c), restaurant.ID, role)
		if err != nil {
			respond.Error(c, err)
			return
		}
		log.Printf("🔑 %s verified as %s of %s", p.Email, role, restaurant.Name)
		respond.OK(c, http.StatusOK, string(role)+" verified successfully", gin.H{
			"token":        token,
			"expiresAt":    expires,
			"role":         gin.H{"name": slot.Name, "role": role},
			"restaurantId": restaurant.ID,
			"capabilities": auth.CapabilitiesFor(role),
		})
	}
}
